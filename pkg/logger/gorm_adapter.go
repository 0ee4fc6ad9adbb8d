package logger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/config"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// DefaultSlowQueryThreshold 键值表只有主键查询，超过即视为慢查询
const DefaultSlowQueryThreshold = 200 * time.Millisecond

// GormLogger 把 MySQL 键值后端的 SQL 日志写入 "mysql" 组件
//
// 记录未找到是键不存在的正常路径（KVStore 转成 ErrKeyNotFound），默认不记录。
type GormLogger struct {
	level         gormlogger.LogLevel
	slowThreshold time.Duration
	logNotFound   bool
	logger        *zap.Logger
}

// NewGormLogger 按数据库配置创建
func NewGormLogger(cfg config.DatabaseConfig) *GormLogger {
	threshold := cfg.SlowThreshold
	if threshold <= 0 {
		threshold = DefaultSlowQueryThreshold
	}
	return &GormLogger{
		level:         GormLevel(cfg.LogLevel),
		slowThreshold: threshold,
	}
}

// GormLevel 把配置里的级别名映射为 gorm 级别，未知值按 warn
func GormLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "info":
		return gormlogger.Info
	case "error":
		return gormlogger.Error
	case "silent":
		return gormlogger.Silent
	default:
		return gormlogger.Warn
	}
}

// LogNotFound 同时记录未找到错误（排查缺失 key 时使用）
func (l *GormLogger) LogNotFound() *GormLogger {
	next := *l
	next.logNotFound = true
	return &next
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	next := *l
	next.level = level
	return &next
}

func (l *GormLogger) sink(ctx context.Context) *zap.Logger {
	if l.logger != nil {
		return l.logger
	}
	return FromContext(ctx, "mysql")
}

func (l *GormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Info {
		l.sink(ctx).Info(fmt.Sprintf(msg, args...))
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Warn {
		l.sink(ctx).Warn(fmt.Sprintf(msg, args...))
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Error {
		l.sink(ctx).Error(fmt.Sprintf(msg, args...))
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	if errors.Is(err, gormlogger.ErrRecordNotFound) && !l.logNotFound {
		err = nil
	}
	failed := err != nil && l.level >= gormlogger.Error
	slow := l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= gormlogger.Warn
	if !failed && !slow && l.level < gormlogger.Info {
		return
	}

	sql, rows := fc()
	fields := []zap.Field{
		zap.String("sql", sql),
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
	}
	zl := l.sink(ctx)
	switch {
	case failed:
		zl.Error("KV query failed", append(fields, zap.Error(err))...)
	case slow:
		zl.Warn("Slow KV query", append(fields, zap.Duration("threshold", l.slowThreshold))...)
	default:
		zl.Info("KV query", fields...)
	}
}
