package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/domain/storage"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreGetRefreshesTTL(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewStore(client, "storefront", 30*time.Minute)

	mock.ExpectGetEx("storefront:session:authToken", 30*time.Minute).SetVal("token-123")

	v, err := store.Get(context.Background(), storage.ScopeSession, "authToken")
	require.NoError(t, err)
	assert.Equal(t, "token-123", v)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreGetMissing(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewStore(client, "storefront", 0)

	mock.ExpectGet("storefront:session:username").RedisNil()

	_, err := store.Get(context.Background(), storage.ScopeSession, "username")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreSetAndRemove(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewStore(client, "storefront", time.Minute)

	mock.ExpectSet("storefront:session:authToken", "abc", time.Minute).SetVal("OK")
	mock.ExpectDel("storefront:session:authToken").SetVal(1)

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, storage.ScopeSession, "authToken", "abc"))
	require.NoError(t, store.Remove(ctx, storage.ScopeSession, "authToken"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreSurfacesBackendErrors(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewStore(client, "", 0)

	mock.ExpectSet("session:authToken", "abc", 0).SetErr(errors.New("connection refused"))

	err := store.Set(context.Background(), storage.ScopeSession, "authToken", "abc")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrKeyNotFound)
}
