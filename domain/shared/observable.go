package shared

import "sync"

// Listener 状态订阅回调
type Listener[T any] func(state T)

// Observable 可观察状态容器
//
// 订阅时立即以当前状态回调一次；之后每次 SetState/Update 提交后回调。
// 回调在锁外执行，回调中可以调用 GetState，但不应同步调用 Update。
type Observable[T any] struct {
	mu        sync.RWMutex
	state     T
	nextID    int
	listeners map[int]Listener[T]
	order     []int
}

// NewObservable 创建可观察状态容器
func NewObservable[T any](initial T) *Observable[T] {
	return &Observable[T]{
		state:     initial,
		listeners: make(map[int]Listener[T]),
	}
}

// GetState 返回当前状态
func (o *Observable[T]) GetState() T {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

// SetState 替换状态并通知订阅者
func (o *Observable[T]) SetState(next T) {
	o.Update(func(T) T { return next })
}

// Update 在锁内基于旧状态计算新状态，提交后通知订阅者
func (o *Observable[T]) Update(fn func(prev T) T) T {
	next, _ := o.Mutate(func(prev T) (T, bool) { return fn(prev), true })
	return next
}

// Mutate 同 Update，但 fn 返回 false 时不提交也不通知
func (o *Observable[T]) Mutate(fn func(prev T) (T, bool)) (T, bool) {
	o.mu.Lock()
	next, changed := fn(o.state)
	if !changed {
		current := o.state
		o.mu.Unlock()
		return current, false
	}
	o.state = next
	listeners := o.snapshotListeners()
	o.mu.Unlock()

	for _, l := range listeners {
		l(next)
	}
	return next, true
}

// Subscribe 订阅状态变化，返回取消订阅函数
func (o *Observable[T]) Subscribe(listener Listener[T]) (unsubscribe func()) {
	o.mu.Lock()
	id := o.nextID
	o.nextID++
	o.listeners[id] = listener
	o.order = append(o.order, id)
	current := o.state
	o.mu.Unlock()

	listener(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			delete(o.listeners, id)
			for i, v := range o.order {
				if v == id {
					o.order = append(o.order[:i], o.order[i+1:]...)
					break
				}
			}
		})
	}
}

func (o *Observable[T]) snapshotListeners() []Listener[T] {
	out := make([]Listener[T], 0, len(o.order))
	for _, id := range o.order {
		out = append(out, o.listeners[id])
	}
	return out
}
