package checkout

import (
	"strings"
	"time"

	"storefront/domain/shared"
)

// DeliveryKind 配送方式标识
type DeliveryKind string

const (
	DeliveryPickup    DeliveryKind = "pickup"
	DeliveryExpress   DeliveryKind = "express"
	DeliveryScheduled DeliveryKind = "scheduled"
	DeliveryDateRange DeliveryKind = "date-range"
)

// DateLayout 日期格式为 YYYY-MM-DD
const DateLayout = "2006-01-02"

// DeliveryOption 选中的配送方式
type DeliveryOption struct {
	Kind DeliveryKind `json:"kind"`
	Date string       `json:"date,omitempty"` // 预约
	From string       `json:"from,omitempty"` // 日期区间
	To   string       `json:"to,omitempty"`   // 日期区间
}

// Normalize 去除首尾空白，kind 转小写
func (d DeliveryOption) Normalize() DeliveryOption {
	return DeliveryOption{
		Kind: DeliveryKind(strings.ToLower(strings.TrimSpace(string(d.Kind)))),
		Date: strings.TrimSpace(d.Date),
		From: strings.TrimSpace(d.From),
		To:   strings.TrimSpace(d.To),
	}
}

// Shipped 是否需要运费报价（自提免运费）
func (d DeliveryOption) Shipped() bool {
	return d.Normalize().Kind != DeliveryPickup
}

// Validate kind 必须属于固定集合，按 kind 校验日期
func (d DeliveryOption) Validate() error {
	d = d.Normalize()
	switch d.Kind {
	case DeliveryPickup, DeliveryExpress:
		return nil
	case DeliveryScheduled:
		if _, err := time.Parse(DateLayout, d.Date); err != nil {
			return shared.NewValidationError(entity, "date", "scheduled delivery needs a date (YYYY-MM-DD)")
		}
		return nil
	case DeliveryDateRange:
		from, errFrom := time.Parse(DateLayout, d.From)
		to, errTo := time.Parse(DateLayout, d.To)
		if errFrom != nil || errTo != nil {
			return shared.NewValidationError(entity, "from", "date-range delivery needs from and to dates (YYYY-MM-DD)")
		}
		if to.Before(from) {
			return shared.NewValidationError(entity, "to", "delivery range ends before it starts")
		}
		return nil
	default:
		return shared.NewValidationError(entity, "kind", "unknown delivery option "+string(d.Kind))
	}
}

// OptionInfo 展示给用户的配送方式
type OptionInfo struct {
	ID          DeliveryKind `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
}

// DefaultDeliveryOptions 后端未提供时使用的固定集合
func DefaultDeliveryOptions() []OptionInfo {
	return []OptionInfo{
		{ID: DeliveryPickup, Name: "Pickup", Description: "Pick up in store"},
		{ID: DeliveryExpress, Name: "Express Delivery", Description: "Fast delivery"},
		{ID: DeliveryScheduled, Name: "Scheduled Delivery", Description: "Delivery on a chosen date"},
		{ID: DeliveryDateRange, Name: "Delivery Window", Description: "Delivery within a date range"},
	}
}

// Quote 运费
type Quote struct {
	Cost     float64 `json:"cost"`
	Currency string  `json:"currency"`
}
