/*
Package catalog 目录子域

不同后端版本返回的商品结构不同（裸数组或包裹数组的对象），数字有时编码为字符串。
这里统一规整为 Product。
*/
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"storefront/domain/cart"
	"storefront/domain/shared"
	"storefront/pkg/logger"

	"go.uber.org/zap"
)

// CategoryAll 选择全部商品
const CategoryAll = "all"

// Product 目录商品
type Product struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"id_producto,omitempty"`
	Code        string  `json:"codigo,omitempty"`
	Name        string  `json:"nombre"`
	Description string  `json:"descripcion,omitempty"`
	Price       float64 `json:"precio"`
	Stock       int     `json:"stock"`
	Category    string  `json:"categoria,omitempty"`
	Image       string  `json:"imagen,omitempty"`
	Status      string  `json:"estado,omitempty"`

	// rawPrice 无法解析的原始价格；为空表示 Price 有效
	rawPrice string
	badPrice bool
}

// wireProduct 数值字段接受数字或字符串
type wireProduct struct {
	ID          flexString `json:"id"`
	ProductID   flexString `json:"id_producto"`
	Code        flexString `json:"codigo"`
	Name        string     `json:"nombre"`
	Description string     `json:"descripcion"`
	Price       flexString `json:"precio"`
	Stock       flexString `json:"stock"`
	Category    string     `json:"categoria"`
	Image       string     `json:"imagen"`
	Status      string     `json:"estado"`
}

// UnmarshalJSON 规整数字或字符串字段
func (p *Product) UnmarshalJSON(data []byte) error {
	var w wireProduct
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	price, priceOK := cart.ParsePrice(string(w.Price))
	stock, _ := strconv.Atoi(string(w.Stock))

	*p = Product{
		ID:          string(w.ID),
		ProductID:   string(w.ProductID),
		Code:        string(w.Code),
		Name:        w.Name,
		Description: w.Description,
		Price:       price,
		Stock:       stock,
		Category:    w.Category,
		Image:       w.Image,
		Status:      w.Status,
	}
	if !priceOK {
		p.Price = 0
		p.rawPrice = string(w.Price)
		p.badPrice = true
	}
	if p.ID == "" {
		p.ID = p.ProductID
	}
	return nil
}

// PriceValid 价格是否为有限非负数
func (p Product) PriceValid() bool { return !p.badPrice }

// ToCartInput 转换为购物车添加输入
// 价格无效时传原始值，由购物车拒绝
func (p Product) ToCartInput() cart.ProductInput {
	if p.badPrice {
		return cart.ProductInput{ID: p.ID, Name: p.Name, Price: p.rawPrice, ImageRef: p.Image}
	}
	return cart.ProductInput{ID: p.ID, Name: p.Name, Price: p.Price, ImageRef: p.Image}
}

// InStock 库存是否为正
func (p Product) InStock() bool { return p.Stock > 0 }

type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// listingKeys 可能携带商品数组的对象字段，按查找顺序
var listingKeys = []string{"products", "member", "hydra:member", "data", "items"}

// ParseListing 接受裸数组或在 listingKeys 之一下暴露数组的对象
// 其他结构均为解码错误
func ParseListing(body []byte) ([]Product, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, shared.NewDecodeError("catalog", errors.New("empty response body"))
	}

	if body[0] == '[' {
		var products []Product
		if err := json.Unmarshal(body, &products); err != nil {
			return nil, shared.NewDecodeError("catalog", err)
		}
		return priced(products), nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, shared.NewDecodeError("catalog", err)
	}
	for _, key := range listingKeys {
		raw, ok := envelope[key]
		if !ok || string(bytes.TrimSpace(raw)) == "null" {
			continue
		}
		var products []Product
		if err := json.Unmarshal(raw, &products); err != nil {
			return nil, shared.NewDecodeError("catalog", err)
		}
		return priced(products), nil
	}
	return nil, shared.NewDecodeError("catalog", errors.New("no product array in response"))
}

// ParseProduct 单个商品，可包裹在 {"data": {...}} 中
func ParseProduct(body []byte) (Product, error) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Data) > 0 && envelope.Data[0] == '{' {
		body = envelope.Data
	}
	var p Product
	if err := json.Unmarshal(body, &p); err != nil {
		return Product{}, shared.NewDecodeError("product", err)
	}
	if p.ID == "" {
		return Product{}, shared.NewDecodeError("product", errors.New("product has no id"))
	}
	if !p.PriceValid() {
		return Product{}, shared.NewDecodeError("product", fmt.Errorf("product %s has invalid price %q", p.ID, p.rawPrice))
	}
	return p, nil
}

// priced 丢弃价格无效的商品（记录警告），结果永不为 nil
func priced(products []Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if !p.PriceValid() {
			logger.Warn("Dropped catalog product with invalid price",
				zap.String("id", p.ID),
				zap.String("price", p.rawPrice))
			continue
		}
		out = append(out, p)
	}
	return out
}

// ByCategory 匹配该分类的商品，"all" 或 "" 匹配全部
func ByCategory(category string) shared.Specification[Product] {
	category = strings.TrimSpace(category)
	if category == "" || strings.EqualFold(category, CategoryAll) {
		return shared.SpecificationFunc[Product](func(Product) bool { return true })
	}
	return shared.SpecificationFunc[Product](func(p Product) bool {
		return strings.EqualFold(p.Category, category)
	})
}

// Listing 列表调用的结果，从不抛出错误
type Listing struct {
	Products []Product `json:"products"`
	Err      error     `json:"-"`
	// Fallback 商品为占位目录
	Fallback bool `json:"fallback"`
}

// Source 远程目录接口
type Source interface {
	ListProducts(ctx context.Context, category string) ([]Product, error)
	GetProduct(ctx context.Context, id string) (Product, error)
}
