/*
Package cart 购物车子域

购物车行的代数运算。Lines 是值类型：每个操作都返回新集合，接收者保持不变，
因此交给订阅者或结算请求的快照不会被后续购物车操作修改。

不变量：
1. 任何操作之后都不存在 Quantity <= 0 的行
2. 每个商品 ID 至多一行
3. TotalItems 与 Subtotal 总是推导得出，从不存储
*/
package cart

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// LineItem 购物车行
// JSON 键与店面持久化格式一致
type LineItem struct {
	ID        string  `json:"id"`
	Name      string  `json:"nombre"`
	UnitPrice float64 `json:"precio"`
	ImageRef  string  `json:"imagen,omitempty"`
	Quantity  int     `json:"cantidad"`
}

// LineTotal 单价 × 数量
func (l LineItem) LineTotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// Valid 该行能否留在购物车中
func (l LineItem) Valid() bool {
	return l.ID != "" && l.Quantity > 0 && isValidPrice(l.UnitPrice)
}

// ProductInput 传给 AddItem 的商品
// Price 接受数字或数字字符串
type ProductInput struct {
	ID       string
	Name     string
	Price    any
	ImageRef string
}

// Lines 按插入顺序排列的购物车行
type Lines []LineItem

// Add 新增一行（数量 1），已存在时数量加一并保留原价
// 输入无效时返回 ok=false，接收者不变
func (ls Lines) Add(in ProductInput) (Lines, bool) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return ls, false
	}
	price, ok := ParsePrice(in.Price)
	if !ok {
		return ls, false
	}

	out := ls.Clone()
	for i := range out {
		if out[i].ID == id {
			out[i].Quantity++
			return out, true
		}
	}
	return append(out, LineItem{
		ID:        id,
		Name:      in.Name,
		UnitPrice: price,
		ImageRef:  in.ImageRef,
		Quantity:  1,
	}), true
}

// Remove 无条件删除该行
func (ls Lines) Remove(id string) Lines {
	out := make(Lines, 0, len(ls))
	for _, l := range ls {
		if l.ID != id {
			out = append(out, l)
		}
	}
	return out
}

// Decrease 数量减一，减到零即删除
func (ls Lines) Decrease(id string) Lines {
	out := make(Lines, 0, len(ls))
	for _, l := range ls {
		if l.ID == id {
			l.Quantity--
		}
		if l.Quantity > 0 {
			out = append(out, l)
		}
	}
	return out
}

// Find 按 id 查找行
func (ls Lines) Find(id string) (LineItem, bool) {
	for _, l := range ls {
		if l.ID == id {
			return l, true
		}
	}
	return LineItem{}, false
}

// TotalItems Σ 数量
func (ls Lines) TotalItems() int {
	total := 0
	for _, l := range ls {
		total += l.Quantity
	}
	return total
}

// Subtotal Σ 单价 × 数量
func (ls Lines) Subtotal() float64 {
	total := 0.0
	for _, l := range ls {
		total += l.LineTotal()
	}
	return total
}

// Clone 深拷贝，从不返回 nil
func (ls Lines) Clone() Lines {
	out := make(Lines, len(ls))
	copy(out, ls)
	return out
}

// Sanitize 丢弃无效行并合并重复 ID
// 用于从其他进程写入的存储中恢复
func (ls Lines) Sanitize() Lines {
	out := make(Lines, 0, len(ls))
	index := make(map[string]int, len(ls))
	for _, l := range ls {
		if !l.Valid() {
			continue
		}
		if i, ok := index[l.ID]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		index[l.ID] = len(out)
		out = append(out, l)
	}
	return out
}

// ParsePrice 将数字或数字字符串转换为有限的非负价格
func ParsePrice(v any) (float64, bool) {
	var f float64
	switch p := v.(type) {
	case float64:
		f = p
	case float32:
		f = float64(p)
	case int:
		f = float64(p)
	case int32:
		f = float64(p)
	case int64:
		f = float64(p)
	case uint:
		f = float64(p)
	case json.Number:
		parsed, err := p.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if !isValidPrice(f) {
		return 0, false
	}
	return f, true
}

func isValidPrice(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f >= 0
}
