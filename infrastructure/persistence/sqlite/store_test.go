package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"storefront/domain/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreUpsertAndRemove(t *testing.T) {
	ctx := context.Background()
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set(ctx, storage.ScopePersistent, "cart", `[{"id":"1"}]`))
	require.NoError(t, s.Set(ctx, storage.ScopePersistent, "cart", `[]`))

	v, err := s.Get(ctx, storage.ScopePersistent, "cart")
	require.NoError(t, err)
	assert.Equal(t, `[]`, v)

	_, err = s.Get(ctx, storage.ScopeSession, "cart")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)

	require.NoError(t, s.Remove(ctx, storage.ScopePersistent, "cart"))
	_, err = s.Get(ctx, storage.ScopePersistent, "cart")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)
}

func TestStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "storefront.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, storage.ScopePersistent, "language", "es"))
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	v, err := reopened.Get(ctx, storage.ScopePersistent, "language")
	require.NoError(t, err)
	assert.Equal(t, "es", v)
	assert.NoError(t, reopened.Ping(ctx))
}
