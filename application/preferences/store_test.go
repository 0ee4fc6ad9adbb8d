package preferences

import (
	"context"
	"testing"

	"storefront/domain/shared"
	"storefront/domain/storage"
	"storefront/infrastructure/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch(t *testing.T) {
	cases := []struct {
		tag  string
		want string
		ok   bool
	}{
		{"en", "en", true},
		{"es", "es", true},
		{"es-PE", "es", true},
		{"en-GB", "en", true},
		{"fr", "", false},
		{"", "", false},
		{"not a tag!", "", false},
	}
	for _, tc := range cases {
		got, ok := Match(tc.tag)
		assert.Equal(t, tc.ok, ok, tc.tag)
		assert.Equal(t, tc.want, got, tc.tag)
	}
}

func TestStoreDefaults(t *testing.T) {
	ctx := context.Background()
	bridge := storage.NewBridge(storage.ScopePersistent, memory.NewStore())

	assert.Equal(t, "en", NewStore(ctx, bridge, "").Language())
	assert.Equal(t, "es", NewStore(ctx, bridge, "es").Language())
	assert.Equal(t, "en", NewStore(ctx, nil, "de").Language())
}

func TestStoreSetPersists(t *testing.T) {
	ctx := context.Background()
	backend := memory.NewStore()
	bridge := storage.NewBridge(storage.ScopePersistent, backend)
	store := NewStore(ctx, bridge, "en")

	lang, err := store.Set(ctx, "es-PE")
	require.NoError(t, err)
	assert.Equal(t, "es", lang)

	stored, ok := bridge.Get(ctx, storage.KeyLanguage)
	require.True(t, ok)
	assert.Equal(t, "es", stored)

	// survives a restart
	assert.Equal(t, "es", NewStore(ctx, bridge, "en").Language())
}

func TestStoreSetRejectsUnsupported(t *testing.T) {
	ctx := context.Background()
	bridge := storage.NewBridge(storage.ScopePersistent, memory.NewStore())
	store := NewStore(ctx, bridge, "en")

	lang, err := store.Set(ctx, "fr")
	assert.ErrorIs(t, err, shared.ErrValidation)
	assert.Equal(t, "en", lang)

	_, ok := bridge.Get(ctx, storage.KeyLanguage)
	assert.False(t, ok)
}

func TestStoreToggle(t *testing.T) {
	ctx := context.Background()
	bridge := storage.NewBridge(storage.ScopePersistent, memory.NewStore())
	store := NewStore(ctx, bridge, "en")

	var seen []string
	unsubscribe := store.Subscribe(func(lang string) { seen = append(seen, lang) })
	defer unsubscribe()

	assert.Equal(t, "es", store.Toggle(ctx))
	assert.Equal(t, "en", store.Toggle(ctx))
	assert.Equal(t, []string{"en", "es", "en"}, seen)

	stored, _ := bridge.Get(ctx, storage.KeyLanguage)
	assert.Equal(t, "en", stored)
}

func TestStoreIgnoresUnsupportedStoredValue(t *testing.T) {
	ctx := context.Background()
	bridge := storage.NewBridge(storage.ScopePersistent, memory.NewStore())
	bridge.Set(ctx, storage.KeyLanguage, "klingon")

	assert.Equal(t, "en", NewStore(ctx, bridge, "en").Language())
}
