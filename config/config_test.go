package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "storefront", cfg.App.Name)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, DefaultAPIBaseURL, cfg.API.BaseURL)
	assert.Equal(t, DefaultAPIBaseURL, cfg.API.AuthURL())
	assert.Nil(t, cfg.API.PaymentKey())
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, 3, cfg.API.Retry.MaxAttempts)
	assert.Equal(t, 200*time.Millisecond, cfg.API.Retry.InitialDelay)
	assert.Equal(t, "sqlite", cfg.Storage.Persistent)
	assert.Equal(t, "memory", cfg.Storage.Session)
	assert.Equal(t, 30*time.Minute, cfg.Storage.SessionTTL)
	assert.True(t, cfg.Checkout.MockFallback)
	assert.Equal(t, "USD", cfg.Checkout.Currency)
	assert.Equal(t, "en", cfg.Locale.Default)
	assert.Contains(t, cfg.CORS.AllowHeaders, "X-Request-ID")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  env: production
api:
  base_url: https://shop.example.com/api/
  auth_base_url: https://auth.example.com/
  payment_public_key: pk_test_123
storage:
  persistent: mysql
  session: redis
checkout:
  mock_fallback: false
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "https://shop.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, "https://auth.example.com", cfg.API.AuthURL())
	require.NotNil(t, cfg.API.PaymentKey())
	assert.Equal(t, "pk_test_123", *cfg.API.PaymentKey())
	assert.Equal(t, "mysql", cfg.Storage.Persistent)
	assert.Equal(t, "redis", cfg.Storage.Session)
	assert.False(t, cfg.Checkout.MockFallback)
	// 未覆盖的值保持默认
	assert.Equal(t, "8090", cfg.Server.Port)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PUBLIC_API_URL", "https://env.example.com/api/")
	t.Setenv("PUBLIC_STRIPE_KEY", "pk_env")
	t.Setenv("STOREFRONT_SERVER_PORT", "9100")
	t.Setenv("STOREFRONT_LOCALE_DEFAULT", "es")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com/api", cfg.API.BaseURL)
	require.NotNil(t, cfg.API.PaymentKey())
	assert.Equal(t, "pk_env", *cfg.API.PaymentKey())
	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, "es", cfg.Locale.Default)
}

func TestPrefixedEnvironmentWins(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PUBLIC_API_URL", "https://public.example.com")
	t.Setenv("STOREFRONT_API_BASE_URL", "https://prefixed.example.com")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://prefixed.example.com", cfg.API.BaseURL)
}

func TestPaymentKeyReturnsCopy(t *testing.T) {
	api := APIConfig{PaymentPublicKey: "pk"}
	key := api.PaymentKey()
	*key = "changed"
	assert.Equal(t, "pk", api.PaymentPublicKey)
}

func TestWatchWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.False(t, cfg.Watch(func(*Config) { t.Fatal("no file to watch") }))
	assert.False(t, (&Config{}).Watch(func(*Config) {}))
}

func TestWatchReloadsLogLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: info\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "info", cfg.Log.Level)

	levels := make(chan string, 8)
	require.True(t, cfg.Watch(func(next *Config) { levels <- next.Log.Level }))

	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644))

	// 写文件可能触发多次事件，中间状态可能读到空文件
	deadline := time.After(5 * time.Second)
	for {
		select {
		case level := <-levels:
			if level == "debug" {
				return
			}
		case <-deadline:
			t.Fatal("config change not observed")
		}
	}
}
