package remote

import (
	"context"
	"net/http"
	"net/url"

	"storefront/domain/catalog"
)

// ListProducts GET /catalog/by-category?category=
func (c *Client) ListProducts(ctx context.Context, category string) ([]catalog.Product, error) {
	if category == "" {
		category = catalog.CategoryAll
	}
	body, err := c.do(ctx, call{
		op:          "list-products",
		method:      http.MethodGet,
		url:         c.baseURL + "/catalog/by-category?category=" + url.QueryEscape(category),
		messageKeys: []string{"message", "error"},
	})
	if err != nil {
		return nil, err
	}
	return catalog.ParseListing(body)
}

// GetProduct GET /products/{id}
func (c *Client) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	body, err := c.do(ctx, call{
		op:          "get-product",
		method:      http.MethodGet,
		url:         c.baseURL + "/products/" + url.PathEscape(id),
		messageKeys: []string{"message", "error"},
	})
	if err != nil {
		return catalog.Product{}, err
	}
	return catalog.ParseProduct(body)
}

var _ catalog.Source = (*Client)(nil)
