package catalog

import (
	"context"
	"strings"

	"storefront/domain/catalog"
	"storefront/domain/shared"
)

// State 商品状态
type State struct {
	Products         []catalog.Product `json:"products"`
	Loading          bool              `json:"loading"`
	Error            string            `json:"error,omitempty"`
	SelectedCategory string            `json:"selected_category"`
	Fallback         bool              `json:"fallback"`
}

// Filtered 所选分类下的商品
func (s State) Filtered() []catalog.Product {
	return shared.Filter(s.Products, catalog.ByCategory(s.SelectedCategory))
}

// Store 商品状态容器
type Store struct {
	service *Service
	state   *shared.Observable[State]
}

// NewStore 创建商品 store
func NewStore(service *Service) *Store {
	return &Store{
		service: service,
		state: shared.NewObservable(State{
			Products:         []catalog.Product{},
			SelectedCategory: catalog.CategoryAll,
		}),
	}
}

// Load 拉取目录写入状态
func (s *Store) Load(ctx context.Context) State {
	s.state.Update(func(prev State) State {
		prev.Loading = true
		prev.Error = ""
		return prev
	})

	listing := s.service.ListProducts(ctx)

	return s.state.Update(func(prev State) State {
		prev.Products = listing.Products
		prev.Fallback = listing.Fallback
		prev.Loading = false
		prev.Error = ""
		if listing.Err != nil {
			prev.Error = shared.UserMessage(listing.Err)
		}
		return prev
	})
}

// SetSelectedCategory "" 表示全部
func (s *Store) SetSelectedCategory(category string) {
	category = strings.TrimSpace(category)
	if category == "" {
		category = catalog.CategoryAll
	}
	s.state.Update(func(prev State) State {
		prev.SelectedCategory = category
		return prev
	})
}

// ClearError 清空错误信息
func (s *Store) ClearError() {
	s.state.Update(func(prev State) State {
		prev.Error = ""
		return prev
	})
}

// State 当前商品状态
func (s *Store) State() State {
	return s.state.GetState()
}

// Filtered 所选分类下的商品
func (s *Store) Filtered() []catalog.Product {
	return s.State().Filtered()
}

// Subscribe 订阅时立即以当前状态回调一次
func (s *Store) Subscribe(listener shared.Listener[State]) func() {
	return s.state.Subscribe(listener)
}
