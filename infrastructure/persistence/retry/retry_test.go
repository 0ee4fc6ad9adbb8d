package retry

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"storefront/domain/shared"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func fastConfig() Config {
	cfg := DefaultConfig
	cfg.InitialDelay = time.Millisecond
	cfg.MaxDelay = 2 * time.Millisecond
	return cfg
}

func TestIsRetryableError(t *testing.T) {
	cfg := DefaultConfig

	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"transport", shared.NewTransportError("catalog", errors.New("dial tcp: refused")), true},
		{"bad gateway", shared.NewServerError(http.StatusBadGateway, "Bad Gateway", "", nil), true},
		{"service unavailable", shared.NewServerError(http.StatusServiceUnavailable, "Service Unavailable", "", nil), true},
		{"not found", shared.NewServerError(http.StatusNotFound, "Not Found", "", nil), false},
		{"validation", shared.NewValidationError("cart", "id", "id is required"), false},
		{"deadlock", &mysqlDriver.MySQLError{Number: 1213, Message: "Deadlock found"}, true},
		{"lock timeout", &mysqlDriver.MySQLError{Number: 1205, Message: "Lock wait timeout"}, true},
		{"canceled", context.Canceled, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsRetryableError(tc.err, cfg))
		})
	}
}

func TestExecuteWithRetryStopsOnSuccess(t *testing.T) {
	calls := 0
	err := ExecuteWithRetry(context.Background(), fastConfig(), func(ctx context.Context) error {
		calls++
		if calls < 2 {
			return shared.NewTransportError("catalog", errors.New("timeout"))
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestExecuteWithRetryGivesUpAfterMaxAttempts(t *testing.T) {
	calls := 0
	err := ExecuteWithRetry(context.Background(), fastConfig(), func(ctx context.Context) error {
		calls++
		return shared.NewTransportError("catalog", errors.New("timeout"))
	})

	assert.ErrorIs(t, err, shared.ErrTransport)
	assert.Equal(t, DefaultConfig.MaxAttempts, calls)
}

func TestExecuteWithRetryDoesNotRetryPermanentErrors(t *testing.T) {
	calls := 0
	err := ExecuteWithRetry(context.Background(), fastConfig(), func(ctx context.Context) error {
		calls++
		return shared.NewServerError(http.StatusBadRequest, "Bad Request", "bad", nil)
	})

	assert.ErrorIs(t, err, shared.ErrServer)
	assert.Equal(t, 1, calls)
}

func TestExecuteWithRetryDisabled(t *testing.T) {
	calls := 0
	_ = ExecuteWithRetry(context.Background(), Disabled, func(ctx context.Context) error {
		calls++
		return shared.NewTransportError("catalog", errors.New("timeout"))
	})
	assert.Equal(t, 1, calls)
}

func TestExponentialBackoffCapped(t *testing.T) {
	cfg := Config{InitialDelay: 100 * time.Millisecond, MaxDelay: 300 * time.Millisecond, BackoffFactor: 2}

	assert.Equal(t, time.Duration(0), ExponentialBackoffWithJitter(0, cfg))
	assert.Equal(t, 100*time.Millisecond, ExponentialBackoffWithJitter(1, cfg))
	assert.Equal(t, 200*time.Millisecond, ExponentialBackoffWithJitter(2, cfg))
	assert.Equal(t, 300*time.Millisecond, ExponentialBackoffWithJitter(5, cfg))
}

func TestExecuteWithRetryCanceledDuringBackoffKeepsLastError(t *testing.T) {
	cfg := DefaultConfig
	cfg.InitialDelay = time.Minute
	cfg.MaxDelay = time.Minute
	cfg.JitterEnabled = false

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := ExecuteWithRetry(ctx, cfg, func(ctx context.Context) error {
		calls++
		cancel()
		return shared.NewTransportError("catalog", errors.New("timeout"))
	})

	assert.ErrorIs(t, err, shared.ErrTransport)
	assert.Equal(t, 1, calls)
}

func TestExecuteWithRetryCanceledBeforeFirstAttempt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := ExecuteWithRetry(ctx, fastConfig(), func(ctx context.Context) error {
		calls++
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}
