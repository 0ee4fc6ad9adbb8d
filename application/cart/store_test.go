package cart

import (
	"context"
	"testing"

	"storefront/domain/cart"
	"storefront/domain/storage"
	"storefront/infrastructure/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*Store, *memory.Store) {
	t.Helper()
	backend := memory.NewStore()
	return NewStore(context.Background(), storage.NewBridge(storage.ScopePersistent, backend)), backend
}

func persisted(t *testing.T, backend *memory.Store) string {
	t.Helper()
	raw, err := backend.Get(context.Background(), storage.ScopePersistent, storage.KeyCart)
	require.NoError(t, err)
	return raw
}

func TestAddItemPersistsBeforeReturning(t *testing.T) {
	ctx := context.Background()
	store, backend := newStore(t)

	require.True(t, store.AddItem(ctx, cart.ProductInput{ID: "1", Name: "Mate", Price: "10.00", ImageRef: "m.png"}))
	require.True(t, store.AddItem(ctx, cart.ProductInput{ID: "1", Name: "Mate", Price: 12}))

	assert.JSONEq(t, `[{"id":"1","nombre":"Mate","precio":10,"imagen":"m.png","cantidad":2}]`, persisted(t, backend))
	assert.Equal(t, 2, store.TotalItems())
	assert.Equal(t, 20.0, store.Subtotal())
}

func TestRejectedAddDoesNotPersistOrNotify(t *testing.T) {
	ctx := context.Background()
	store, backend := newStore(t)

	notified := 0
	store.Subscribe(func(cart.Lines) { notified++ })

	assert.False(t, store.AddItem(ctx, cart.ProductInput{Name: "no id", Price: 1}))
	assert.False(t, store.AddItem(ctx, cart.ProductInput{ID: "x", Price: "abc"}))

	_, err := backend.Get(ctx, storage.ScopePersistent, storage.KeyCart)
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)
	assert.Equal(t, 1, notified, "only the initial subscription callback")
}

func TestDecreaseRemoveClear(t *testing.T) {
	ctx := context.Background()
	store, backend := newStore(t)

	store.AddItem(ctx, cart.ProductInput{ID: "a", Price: 1})
	store.AddItem(ctx, cart.ProductInput{ID: "a", Price: 1})
	store.AddItem(ctx, cart.ProductInput{ID: "b", Price: 2})

	store.DecreaseQuantity(ctx, "a")
	assert.Equal(t, 2, store.TotalItems())

	store.DecreaseQuantity(ctx, "a")
	_, found := store.Items().Find("a")
	assert.False(t, found)

	store.RemoveItem(ctx, "missing")
	assert.Len(t, store.Items(), 1)

	store.Clear(ctx)
	assert.Empty(t, store.Items())
	assert.JSONEq(t, `[]`, persisted(t, backend))
}

func TestHydrationDropsInvalidLines(t *testing.T) {
	ctx := context.Background()
	backend := memory.NewStore()
	require.NoError(t, backend.Set(ctx, storage.ScopePersistent, storage.KeyCart,
		`[{"id":"1","nombre":"ok","precio":5,"cantidad":2},{"id":"2","precio":5,"cantidad":0},{"id":"","precio":1,"cantidad":1}]`))

	store := NewStore(ctx, storage.NewBridge(storage.ScopePersistent, backend))

	snap := store.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 2, snap.TotalItems)
	assert.Equal(t, 10.0, snap.Subtotal)
}

func TestHydrationFromCorruptValueYieldsEmptyCart(t *testing.T) {
	ctx := context.Background()
	backend := memory.NewStore()
	require.NoError(t, backend.Set(ctx, storage.ScopePersistent, storage.KeyCart, `{"garbage":`))

	store := NewStore(ctx, storage.NewBridge(storage.ScopePersistent, backend))
	assert.Empty(t, store.Items())
}

func TestStoreWithoutBackend(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, storage.NewBridge(storage.ScopePersistent, nil))

	assert.True(t, store.AddItem(ctx, cart.ProductInput{ID: "1", Price: 3}))
	assert.Equal(t, 3.0, store.Subtotal())
}

func TestSnapshotIsIsolatedFromLaterMutations(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)
	store.AddItem(ctx, cart.ProductInput{ID: "1", Price: 3})

	snap := store.Snapshot()
	store.AddItem(ctx, cart.ProductInput{ID: "1", Price: 3})
	store.AddItem(ctx, cart.ProductInput{ID: "2", Price: 4})

	assert.Len(t, snap.Items, 1)
	assert.Equal(t, 1, snap.Items[0].Quantity)
	assert.Equal(t, 3.0, snap.Subtotal)
}

func TestSubscribersObserveCommittedState(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	var totals []int
	unsubscribe := store.Subscribe(func(lines cart.Lines) {
		totals = append(totals, lines.TotalItems())
		assert.Equal(t, lines.TotalItems(), store.TotalItems())
	})
	store.AddItem(ctx, cart.ProductInput{ID: "1", Price: 3})
	store.AddItem(ctx, cart.ProductInput{ID: "1", Price: 3})
	unsubscribe()
	store.Clear(ctx)

	assert.Equal(t, []int{0, 1, 2}, totals)
}
