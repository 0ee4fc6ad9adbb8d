/*
Package catalog 应用层 - 目录服务与商品状态

ListProducts 从不向外返回错误，错误随结果携带。只有后端不可达时才返回占位目录；
后端返回无法解析的内容或错误状态码时得到空列表。
*/
package catalog

import (
	"context"
	"errors"
	"strings"

	"storefront/domain/catalog"
	"storefront/domain/shared"
	"storefront/infrastructure/persistence/retry"
	"storefront/pkg/logger"

	"go.uber.org/zap"
)

// Service 目录应用服务
type Service struct {
	source catalog.Source
	retry  retry.Config
}

// NewService 创建目录服务
func NewService(source catalog.Source, retryConfig retry.Config) *Service {
	return &Service{source: source, retry: retryConfig}
}

// ListProducts 列出完整目录
func (s *Service) ListProducts(ctx context.Context) catalog.Listing {
	var products []catalog.Product
	err := s.fetch(ctx, func(ctx context.Context) error {
		var err error
		products, err = s.source.ListProducts(ctx, catalog.CategoryAll)
		return err
	})

	switch {
	case err == nil:
		return catalog.Listing{Products: products}
	case errors.Is(err, shared.ErrTransport):
		logger.Warn("Catalog unreachable, serving placeholder products", zap.Error(err))
		return catalog.Listing{Products: catalog.Placeholders(), Err: err, Fallback: true}
	default:
		logger.Error("Failed to list products", zap.Error(err))
		return catalog.Listing{Products: []catalog.Product{}, Err: err}
	}
}

// GetProduct 按 id 获取单个商品
func (s *Service) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return catalog.Product{}, shared.NewValidationError("product", "id", "product id is required")
	}

	var product catalog.Product
	err := s.fetch(ctx, func(ctx context.Context) error {
		var err error
		product, err = s.source.GetProduct(ctx, id)
		return err
	})
	if err != nil {
		logger.Warn("Failed to get product", zap.String("product_id", id), zap.Error(err))
		return catalog.Product{}, err
	}
	return product, nil
}

func (s *Service) fetch(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.source == nil {
		return shared.NewTransportError("catalog", errors.New("no catalog source configured"))
	}
	return retry.ExecuteWithRetry(ctx, s.retry, fn)
}
