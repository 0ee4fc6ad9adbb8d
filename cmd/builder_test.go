package cmd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"storefront/config"
	"storefront/domain/storage"
	"storefront/infrastructure/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Log.Output = "stdout"
	cfg.Log.Level = "error"
	return cfg
}

func TestBuildWithInjectedBackends(t *testing.T) {
	cfg := testConfig(t)
	persistent := memory.NewStore()
	require.NoError(t, persistent.Set(context.Background(), storage.ScopePersistent, storage.KeyLanguage, "es"))

	app, err := NewBuilder(cfg).
		WithPersistentBackend(persistent).
		WithSessionBackend(memory.NewStore()).
		Build(context.Background())
	require.NoError(t, err)
	defer app.Close()

	rec := httptest.NewRecorder()
	app.GetServer().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/preferences/language", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"language":"es"`)
}

func TestBuildWithSQLite(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Persistent = "sqlite"
	cfg.Storage.SQLitePath = filepath.Join(t.TempDir(), "storefront.db")
	cfg.Storage.Session = "memory"

	app, err := NewBuilder(cfg).Build(context.Background())
	require.NoError(t, err)
	defer app.Close()

	rec := httptest.NewRecorder()
	app.GetServer().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ready"`)
}

func TestBuildRejectsUnknownDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Persistent = "cassandra"

	_, err := NewBuilder(cfg).Build(context.Background())
	assert.ErrorContains(t, err, "cassandra")
}
