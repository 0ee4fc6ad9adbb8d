package cart

import (
	"context"
	"reflect"
	"strconv"
	"testing"

	"storefront/domain/cart"
	"storefront/domain/storage"
	"storefront/infrastructure/persistence/memory"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sameLines(a, b cart.Lines) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}

func TestCartSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	backend := memory.NewStore()
	bridge := storage.NewBridge(storage.ScopePersistent, backend)

	first := NewStore(ctx, bridge)
	require.True(t, first.AddItem(ctx, cart.ProductInput{ID: "prod1", Name: "Super Alimento Andino", Price: "19.99", ImageRef: "andino.png"}))
	require.True(t, first.AddItem(ctx, cart.ProductInput{ID: "prod2", Name: "Maca en Polvo", Price: 18.5, ImageRef: "maca.png"}))
	require.True(t, first.AddItem(ctx, cart.ProductInput{ID: "prod1", Name: "renamed", Price: 1}))
	first.DecreaseQuantity(ctx, "prod2")
	require.True(t, first.AddItem(ctx, cart.ProductInput{ID: "prod3", Name: "Cacao Nativo", Price: 0.1}))

	second := NewStore(ctx, storage.NewBridge(storage.ScopePersistent, backend))

	assert.Equal(t, first.Items(), second.Items())
	assert.Equal(t, cart.Lines{
		{ID: "prod1", Name: "Super Alimento Andino", UnitPrice: 19.99, ImageRef: "andino.png", Quantity: 2},
		{ID: "prod3", Name: "Cacao Nativo", UnitPrice: 0.1, Quantity: 1},
	}, second.Items())
	assert.Equal(t, first.Subtotal(), second.Subtotal())
}

var storePrices = []any{"10.50", 3, 0, 7.25, "0.99", 19.99}

// Property: whatever the store wrote, a fresh store on the same backend reads back
func TestCartRoundTripProperty(t *testing.T) {
	ctx := context.Background()
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("rehydrated cart equals the written cart", prop.ForAll(
		func(ops []int) bool {
			backend := memory.NewStore()
			store := NewStore(ctx, storage.NewBridge(storage.ScopePersistent, backend))
			for _, op := range ops {
				n := op % len(storePrices)
				id := "p" + strconv.Itoa(n)
				switch (op / len(storePrices)) % 4 {
				case 0, 1:
					store.AddItem(ctx, cart.ProductInput{ID: id, Name: "item " + id, Price: storePrices[n], ImageRef: id + ".png"})
				case 2:
					store.DecreaseQuantity(ctx, id)
				default:
					store.RemoveItem(ctx, id)
				}
			}

			reloaded := NewStore(ctx, storage.NewBridge(storage.ScopePersistent, backend))
			return sameLines(store.Items(), reloaded.Items())
		},
		gen.SliceOf(gen.IntRange(0, 4*len(storePrices)-1)),
	))

	properties.TestingRun(t)
}
