package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"storefront/config"
	"storefront/domain/shared"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// Config ExecuteWithRetry 的重试配置
// 只有幂等操作（目录读取、KV 写入）可以重试
// 订单提交从不经过这里
type Config struct {
	Enabled            bool
	MaxAttempts        int
	InitialDelay       time.Duration
	MaxDelay           time.Duration
	BackoffFactor      float64
	JitterEnabled      bool
	RetryOnTransport   bool
	RetryOnGateway     bool
	RetryOnDeadlock    bool
	RetryOnLockTimeout bool
	RetryPredicate     func(error) bool
}

var DefaultConfig = Config{
	Enabled:            true,
	MaxAttempts:        3,
	InitialDelay:       100 * time.Millisecond,
	MaxDelay:           2 * time.Second,
	BackoffFactor:      2.0,
	JitterEnabled:      true,
	RetryOnTransport:   true,
	RetryOnGateway:     true,
	RetryOnDeadlock:    true,
	RetryOnLockTimeout: true,
}

// Disabled fn 只执行一次
var Disabled = Config{Enabled: false}

func FromAppConfig(appConfig *config.Config) Config {
	retryConfig := appConfig.API.Retry

	cfg := DefaultConfig
	cfg.Enabled = retryConfig.Enabled
	if retryConfig.MaxAttempts > 0 {
		cfg.MaxAttempts = retryConfig.MaxAttempts
	}
	if retryConfig.InitialDelay > 0 {
		cfg.InitialDelay = retryConfig.InitialDelay
	}
	if retryConfig.MaxDelay > 0 {
		cfg.MaxDelay = retryConfig.MaxDelay
	}
	if retryConfig.BackoffFactor > 0 {
		cfg.BackoffFactor = retryConfig.BackoffFactor
	}
	cfg.JitterEnabled = retryConfig.JitterEnabled
	return cfg
}

func ExponentialBackoffWithJitter(attempt int, config Config) time.Duration {
	if attempt <= 0 {
		return 0
	}
	delay := float64(config.InitialDelay) * math.Pow(config.BackoffFactor, float64(attempt-1))
	if delay > float64(config.MaxDelay) {
		delay = float64(config.MaxDelay)
	}
	if config.JitterEnabled {
		jitterFactor := 0.8 + rand.Float64()*0.4
		delay = delay * jitterFactor
	}
	if delay < 0 {
		delay = 0
	}

	return time.Duration(delay)
}

func IsRetryableError(err error, config Config) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if config.RetryPredicate != nil && config.RetryPredicate(err) {
		return true
	}

	var serverErr *shared.ServerError
	if errors.As(err, &serverErr) {
		if !config.RetryOnGateway {
			return false
		}
		switch serverErr.Status {
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
		return false
	}
	if errors.Is(err, shared.ErrTransport) {
		return config.RetryOnTransport
	}

	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1213:
			return config.RetryOnDeadlock
		case 1205:
			return config.RetryOnLockTimeout
		}
	}
	errStr := err.Error()
	if strings.Contains(errStr, "deadlock") || strings.Contains(errStr, "lock wait timeout") {
		if config.RetryOnDeadlock {
			return true
		}
	}
	if errors.Is(err, gorm.ErrInvalidTransaction) ||
		(strings.Contains(errStr, "connection") && strings.Contains(errStr, "lost")) {
		return true
	}

	return false
}

func ExecuteWithRetry(ctx context.Context, config Config, fn func(ctx context.Context) error) error {
	if !config.Enabled || config.MaxAttempts <= 1 {
		return fn(ctx)
	}

	var lastErr error
	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return canceled(ctx, lastErr)
		}
		err := fn(ctx)
		if err == nil {
			return nil
		}

		lastErr = err
		if !IsRetryableError(err, config) || attempt == config.MaxAttempts {
			break
		}

		delay := ExponentialBackoffWithJitter(attempt, config)
		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return canceled(ctx, lastErr)
			}
		}
	}

	return lastErr
}

// canceled 取消时优先返回上一次的失败，调用方据此分类（如传输失败走占位数据）
func canceled(ctx context.Context, lastErr error) error {
	if lastErr != nil {
		return lastErr
	}
	return ctx.Err()
}
