package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/domain/storage"
	"storefront/infrastructure/persistence/mysql/po"
	"storefront/infrastructure/persistence/retry"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVStore MySQL 键值后端（持久作用域）
type KVStore struct {
	db    *gorm.DB
	retry retry.Config
}

func NewKVStore(db *gorm.DB, retryConfig retry.Config) *KVStore {
	return &KVStore{
		db:    db.Session(&gorm.Session{SkipDefaultTransaction: true}),
		retry: retryConfig,
	}
}

// Migrate 创建 kv_entries 表
func (s *KVStore) Migrate() error {
	return s.db.AutoMigrate(&po.EntryPO{})
}

func (s *KVStore) Get(ctx context.Context, scope storage.Scope, key string) (string, error) {
	var entry po.EntryPO
	err := s.db.WithContext(ctx).
		Where("scope = ? AND `key` = ?", string(scope), key).
		Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", storage.ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read entry: %w", err)
	}
	return entry.Value, nil
}

func (s *KVStore) Set(ctx context.Context, scope storage.Scope, key, value string) error {
	entry := &po.EntryPO{
		Scope:     string(scope),
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	return retry.ExecuteWithRetry(ctx, s.retry, func(ctx context.Context) error {
		err := s.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).
			Create(entry).Error
		if err != nil {
			return fmt.Errorf("failed to write entry: %w", err)
		}
		return nil
	})
}

func (s *KVStore) Remove(ctx context.Context, scope storage.Scope, key string) error {
	err := s.db.WithContext(ctx).
		Where("scope = ? AND `key` = ?", string(scope), key).
		Delete(&po.EntryPO{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}

// Ping 供就绪检查使用
func (s *KVStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close 关闭底层连接池
func (s *KVStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var _ storage.Backend = (*KVStore)(nil)
