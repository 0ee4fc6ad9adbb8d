package catalog

import (
	"encoding/json"
	"testing"

	"storefront/domain/cart"
	"storefront/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListingShapes(t *testing.T) {
	item := `{"id": 7, "nombre": "Quinua", "precio": "12.50", "stock": "3", "categoria": "granos"}`

	cases := map[string]string{
		"bare array":   `[` + item + `]`,
		"products":     `{"products": [` + item + `]}`,
		"member":       `{"member": [` + item + `]}`,
		"hydra:member": `{"@context": "/api/contexts/Product", "hydra:member": [` + item + `]}`,
		"data":         `{"data": [` + item + `]}`,
		"items":        `{"items": [` + item + `]}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			products, err := ParseListing([]byte(body))
			require.NoError(t, err)
			require.Len(t, products, 1)

			p := products[0]
			assert.Equal(t, "7", p.ID)
			assert.Equal(t, "Quinua", p.Name)
			assert.InDelta(t, 12.50, p.Price, 1e-9)
			assert.Equal(t, 3, p.Stock)
			assert.Equal(t, "granos", p.Category)
		})
	}
}

func TestParseListingEmptyArray(t *testing.T) {
	products, err := ParseListing([]byte(`{"products": []}`))
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestParseListingRejectsUnknownShape(t *testing.T) {
	for _, body := range []string{``, `{"foo": []}`, `"hello"`, `{"products": {"id": 1}}`, `not json`} {
		_, err := ParseListing([]byte(body))
		assert.ErrorIs(t, err, shared.ErrDecode, body)
		assert.NotErrorIs(t, err, shared.ErrTransport, body)
	}
}

func TestProductIDFallsBackToProductID(t *testing.T) {
	products, err := ParseListing([]byte(`[{"id_producto": "A-1", "codigo": 99, "nombre": "Maca", "precio": 18}]`))
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "A-1", products[0].ID)
	assert.Equal(t, "99", products[0].Code)
	assert.InDelta(t, 18.0, products[0].Price, 1e-9)
}

func TestParseProduct(t *testing.T) {
	p, err := ParseProduct([]byte(`{"data": {"id": 3, "nombre": "Cacao", "precio": 15.75}}`))
	require.NoError(t, err)
	assert.Equal(t, "3", p.ID)

	p, err = ParseProduct([]byte(`{"id": "4", "nombre": "Kiwicha", "precio": "8"}`))
	require.NoError(t, err)
	assert.Equal(t, "Kiwicha", p.Name)

	_, err = ParseProduct([]byte(`{"id": "5", "nombre": "Kiwicha"}`))
	assert.ErrorIs(t, err, shared.ErrDecode, "missing price")

	_, err = ParseProduct([]byte(`{"nombre": "sin id"}`))
	assert.ErrorIs(t, err, shared.ErrDecode)
}

func TestByCategory(t *testing.T) {
	products := Placeholders()

	assert.Len(t, shared.Filter(products, ByCategory("all")), len(products))
	assert.Len(t, shared.Filter(products, ByCategory("")), len(products))
	assert.Len(t, shared.Filter(products, ByCategory("GRANOS")), 2)
	assert.Empty(t, shared.Filter(products, ByCategory("bebidas")))
}

func TestPlaceholders(t *testing.T) {
	products := Placeholders()
	require.Len(t, products, 6)
	assert.Equal(t, "Super Alimento Andino", products[0].Name)

	seen := map[string]bool{}
	for _, p := range products {
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
		assert.Positive(t, p.Price)
	}
}

func TestToCartInput(t *testing.T) {
	p := Product{ID: "9", Name: "Aguaymanto", Price: 9.9, Image: "a.png"}
	in := p.ToCartInput()
	assert.Equal(t, "9", in.ID)
	assert.Equal(t, "Aguaymanto", in.Name)
	assert.Equal(t, 9.9, in.Price)
	assert.Equal(t, "a.png", in.ImageRef)
}

func TestParseListingDropsInvalidPrices(t *testing.T) {
	body := `[
		{"id": 1, "nombre": "Cacao", "precio": "abc"},
		{"id": 2, "nombre": "Maca", "precio": -5},
		{"id": 3, "nombre": "Quinua"},
		{"id": 4, "nombre": "Kiwicha", "precio": "0"}
	]`

	products, err := ParseListing([]byte(body))
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "4", products[0].ID)
	assert.True(t, products[0].PriceValid())
}

func TestInvalidPriceNeverReachesCart(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{"id": 1, "nombre": "Cacao", "precio": "abc"}`), &p))
	assert.False(t, p.PriceValid())

	lines, ok := cart.Lines{}.Add(p.ToCartInput())
	assert.False(t, ok)
	assert.Empty(t, lines)
}
