/*
Package cart 应用层 - 购物车 store

store 独占持久桥接中的 "cart" 键。每次修改都在状态锁内一步完成应用与持久化，
释放锁之后再通知订阅者。
*/
package cart

import (
	"context"

	"storefront/domain/cart"
	"storefront/domain/shared"
	"storefront/domain/storage"
	"storefront/pkg/logger"

	"go.uber.org/zap"
)

// Snapshot 同一把锁下取得的行与汇总
type Snapshot struct {
	Items      cart.Lines `json:"items"`
	TotalItems int        `json:"total_items"`
	Subtotal   float64    `json:"subtotal"`
}

// Store 购物车 store
type Store struct {
	state  *shared.Observable[cart.Lines]
	bridge *storage.Bridge
}

// NewStore 创建购物车 store，从持久桥接恢复
func NewStore(ctx context.Context, bridge *storage.Bridge) *Store {
	return &Store{
		state:  shared.NewObservable(hydrate(ctx, bridge)),
		bridge: bridge,
	}
}

func hydrate(ctx context.Context, bridge *storage.Bridge) cart.Lines {
	var stored cart.Lines
	if !bridge.GetJSON(ctx, storage.KeyCart, &stored) {
		return cart.Lines{}
	}
	lines := stored.Sanitize()
	if dropped := len(stored) - len(lines); dropped > 0 {
		logger.Warn("Dropped invalid cart lines on hydration", zap.Int("dropped", dropped))
	}
	return lines
}

// AddItem 添加一件商品，输入被拒绝时返回 false
func (s *Store) AddItem(ctx context.Context, in cart.ProductInput) bool {
	_, ok := s.state.Mutate(func(prev cart.Lines) (cart.Lines, bool) {
		next, ok := prev.Add(in)
		if !ok {
			return prev, false
		}
		s.persist(ctx, next)
		return next, true
	})
	if !ok {
		logger.Debug("Rejected cart item", zap.String("id", in.ID), zap.Any("price", in.Price))
	}
	return ok
}

// RemoveItem 删除一行，不存在时无操作
func (s *Store) RemoveItem(ctx context.Context, id string) {
	s.apply(ctx, func(prev cart.Lines) cart.Lines { return prev.Remove(id) })
}

// DecreaseQuantity 数量减一，减到零即删除
func (s *Store) DecreaseQuantity(ctx context.Context, id string) {
	s.apply(ctx, func(prev cart.Lines) cart.Lines { return prev.Decrease(id) })
}

// Clear 清空购物车
func (s *Store) Clear(ctx context.Context) {
	s.apply(ctx, func(cart.Lines) cart.Lines { return cart.Lines{} })
}

func (s *Store) apply(ctx context.Context, fn func(prev cart.Lines) cart.Lines) {
	s.state.Update(func(prev cart.Lines) cart.Lines {
		next := fn(prev)
		s.persist(ctx, next)
		return next
	})
}

func (s *Store) persist(ctx context.Context, lines cart.Lines) {
	s.bridge.SetJSON(ctx, storage.KeyCart, lines)
}

// Items 当前购物车行的副本
func (s *Store) Items() cart.Lines {
	return s.state.GetState().Clone()
}

// TotalItems Σ 数量
func (s *Store) TotalItems() int {
	return s.state.GetState().TotalItems()
}

// Subtotal Σ 单价 × 数量
func (s *Store) Subtotal() float64 {
	return s.state.GetState().Subtotal()
}

// Snapshot 当前行及推导出的汇总
func (s *Store) Snapshot() Snapshot {
	lines := s.state.GetState().Clone()
	return Snapshot{
		Items:      lines,
		TotalItems: lines.TotalItems(),
		Subtotal:   lines.Subtotal(),
	}
}

// Subscribe 监听购物车变化，回调收到私有副本
func (s *Store) Subscribe(listener func(cart.Lines)) (unsubscribe func()) {
	return s.state.Subscribe(func(lines cart.Lines) {
		listener(lines.Clone())
	})
}
