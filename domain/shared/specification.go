package shared

// Specification 领域规格接口
// 规格封装了筛选实体的业务规则
type Specification[T any] interface {
	// IsSatisfiedBy 实体是否满足规格
	IsSatisfiedBy(entity T) bool
}

// SpecificationFunc 将普通谓词适配为 Specification
type SpecificationFunc[T any] func(entity T) bool

// IsSatisfiedBy 调用 f(entity)
func (f SpecificationFunc[T]) IsSatisfiedBy(entity T) bool { return f(entity) }

// ============================================================================
// 组合规格
// ============================================================================

// AndSpecification 两个规格的逻辑与
type AndSpecification[T any] struct {
	Left  Specification[T]
	Right Specification[T]
}

// IsSatisfiedBy 左右规格都满足时返回 true
func (spec AndSpecification[T]) IsSatisfiedBy(entity T) bool {
	return spec.Left.IsSatisfiedBy(entity) && spec.Right.IsSatisfiedBy(entity)
}

// And 创建 AndSpecification
func And[T any](left, right Specification[T]) Specification[T] {
	return AndSpecification[T]{Left: left, Right: right}
}

// OrSpecification 两个规格的逻辑或
type OrSpecification[T any] struct {
	Left  Specification[T]
	Right Specification[T]
}

// IsSatisfiedBy 左右规格任一满足时返回 true
func (spec OrSpecification[T]) IsSatisfiedBy(entity T) bool {
	return spec.Left.IsSatisfiedBy(entity) || spec.Right.IsSatisfiedBy(entity)
}

// Or 创建 OrSpecification
func Or[T any](left, right Specification[T]) Specification[T] {
	return OrSpecification[T]{Left: left, Right: right}
}

// NotSpecification 规格的逻辑非
type NotSpecification[T any] struct {
	Spec Specification[T]
}

// IsSatisfiedBy 内部规格不满足时返回 true
func (spec NotSpecification[T]) IsSatisfiedBy(entity T) bool {
	return !spec.Spec.IsSatisfiedBy(entity)
}

// Not 创建 NotSpecification
func Not[T any](inner Specification[T]) Specification[T] {
	return NotSpecification[T]{Spec: inner}
}

// Filter 返回满足 spec 的实体，保持原有顺序
func Filter[T any](entities []T, spec Specification[T]) []T {
	out := make([]T, 0, len(entities))
	for _, e := range entities {
		if spec == nil || spec.IsSatisfiedBy(e) {
			out = append(out, e)
		}
	}
	return out
}
