package cart

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddNewAndExistingLine(t *testing.T) {
	var lines Lines

	lines, ok := lines.Add(ProductInput{ID: "p1", Name: "Mate", Price: "12.50"})
	require.True(t, ok)
	lines, ok = lines.Add(ProductInput{ID: "p1", Name: "Mate", Price: 99})
	require.True(t, ok)

	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, 12.5, lines[0].UnitPrice, "first write wins on price")
	assert.Equal(t, 25.0, lines.Subtotal())
}

func TestAddRejectsInvalidInput(t *testing.T) {
	base := Lines{{ID: "p1", UnitPrice: 1, Quantity: 1}}

	cases := []struct {
		name  string
		input ProductInput
	}{
		{"missing id", ProductInput{Price: 10}},
		{"blank id", ProductInput{ID: "  ", Price: 10}},
		{"non numeric", ProductInput{ID: "p2", Price: "abc"}},
		{"negative", ProductInput{ID: "p2", Price: -1}},
		{"nan", ProductInput{ID: "p2", Price: math.NaN()}},
		{"inf", ProductInput{ID: "p2", Price: math.Inf(1)}},
		{"nil", ProductInput{ID: "p2"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, ok := base.Add(tc.input)
			assert.False(t, ok)
			assert.Equal(t, base, out)
		})
	}
}

func TestAddDoesNotMutateReceiver(t *testing.T) {
	base := Lines{{ID: "p1", UnitPrice: 1, Quantity: 1}}
	_, _ = base.Add(ProductInput{ID: "p1", Price: 1})
	assert.Equal(t, 1, base[0].Quantity)
}

func TestDecreaseRemovesAtZero(t *testing.T) {
	lines := Lines{
		{ID: "a", UnitPrice: 2, Quantity: 2},
		{ID: "b", UnitPrice: 3, Quantity: 1},
	}

	lines = lines.Decrease("a")
	lines = lines.Decrease("b")

	require.Len(t, lines, 1)
	assert.Equal(t, LineItem{ID: "a", UnitPrice: 2, Quantity: 1}, lines[0])
	assert.Equal(t, 1, lines.TotalItems())
}

func TestRemoveIsUnconditional(t *testing.T) {
	lines := Lines{{ID: "a", UnitPrice: 2, Quantity: 5}}
	assert.Empty(t, lines.Remove("a"))
	assert.Len(t, lines.Remove("missing"), 1)
}

func TestSanitize(t *testing.T) {
	lines := Lines{
		{ID: "a", UnitPrice: 2, Quantity: 1},
		{ID: "", UnitPrice: 2, Quantity: 1},
		{ID: "b", UnitPrice: 2, Quantity: 0},
		{ID: "c", UnitPrice: -2, Quantity: 1},
		{ID: "a", UnitPrice: 9, Quantity: 2},
	}

	out := lines.Sanitize()
	require.Len(t, out, 1)
	assert.Equal(t, 3, out[0].Quantity)
	assert.Equal(t, 2.0, out[0].UnitPrice)
}

func TestLineItemWireFormat(t *testing.T) {
	raw, err := json.Marshal(LineItem{ID: "7", Name: "Yerba", UnitPrice: 4.5, ImageRef: "y.png", Quantity: 2})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"7","nombre":"Yerba","precio":4.5,"imagen":"y.png","cantidad":2}`, string(raw))
}

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in   any
		want float64
		ok   bool
	}{
		{"19.90", 19.9, true},
		{" 5 ", 5, true},
		{json.Number("3.25"), 3.25, true},
		{int64(7), 7, true},
		{float32(1.5), 1.5, true},
		{0, 0, true},
		{"", 0, false},
		{"1e400", 0, false},
		{true, 0, false},
	}
	for _, tc := range cases {
		got, ok := ParsePrice(tc.in)
		assert.Equal(t, tc.ok, ok, "input %v", tc.in)
		assert.InDelta(t, tc.want, got, 1e-9, "input %v", tc.in)
	}
}
