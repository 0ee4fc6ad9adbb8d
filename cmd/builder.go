package cmd

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"storefront/api"
	"storefront/api/cart"
	"storefront/api/catalog"
	"storefront/api/checkout"
	"storefront/api/health"
	"storefront/api/preferences"
	"storefront/api/session"
	cartapp "storefront/application/cart"
	catalogapp "storefront/application/catalog"
	checkoutapp "storefront/application/checkout"
	prefapp "storefront/application/preferences"
	sessionapp "storefront/application/session"
	"storefront/config"
	"storefront/domain/storage"
	"storefront/infrastructure/persistence/memory"
	"storefront/infrastructure/persistence/mysql"
	"storefront/infrastructure/persistence/redis"
	"storefront/infrastructure/persistence/retry"
	"storefront/infrastructure/persistence/sqlite"
	"storefront/infrastructure/remote"
	"storefront/pkg/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

// backend 存储后端及其生命周期钩子
type backend struct {
	storage.Backend
	pinger health.Pinger
	close  func() error
}

// AppBuilder 以可定制组件构建 App
type AppBuilder struct {
	cfg        *config.Config
	persistent *backend
	session    *backend
	options    []remote.Option
}

// NewBuilder 创建 AppBuilder
func NewBuilder(cfg *config.Config) *AppBuilder {
	return &AppBuilder{cfg: cfg}
}

// WithPersistentBackend 覆盖 storage.persistent 选定的后端
func (b *AppBuilder) WithPersistentBackend(be storage.Backend) *AppBuilder {
	b.persistent = &backend{Backend: be}
	return b
}

// WithSessionBackend 覆盖 storage.session 选定的后端
func (b *AppBuilder) WithSessionBackend(be storage.Backend) *AppBuilder {
	b.session = &backend{Backend: be}
	return b
}

// WithRemoteOptions 定制后端客户端（测试用：http client、logger）
func (b *AppBuilder) WithRemoteOptions(opts ...remote.Option) *AppBuilder {
	b.options = append(b.options, opts...)
	return b
}

// Build 创建 App 实例
func (b *AppBuilder) Build(ctx context.Context) (*App, error) {
	if err := logger.Init(&b.cfg.Log, b.cfg.App.Env); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Starting application",
		zap.String("app", b.cfg.App.Name),
		zap.String("version", b.cfg.App.Version),
		zap.String("env", b.cfg.App.Env),
		zap.String("api_base_url", b.cfg.API.BaseURL))

	if b.cfg.Watch(func(next *config.Config) {
		if logger.SetLevel(next.Log.Level) {
			logger.Info("Log level changed", zap.String("level", next.Log.Level))
		}
	}) {
		logger.Debug("Watching config file for log level changes")
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	retryConfig := retry.FromAppConfig(b.cfg)

	persistent := b.persistent
	if persistent == nil {
		var err error
		if persistent, err = b.openPersistent(retryConfig); err != nil {
			return nil, err
		}
	}
	sessionBackend := b.session
	if sessionBackend == nil {
		var err error
		if sessionBackend, err = b.openSession(); err != nil {
			closeBackends(persistent)
			return nil, err
		}
	}

	persistentKV := storage.NewBridge(storage.ScopePersistent, persistent.Backend)
	sessionKV := storage.NewBridge(storage.ScopeSession, sessionBackend.Backend)

	client := remote.New(b.cfg.API, b.options...)

	cartStore := cartapp.NewStore(ctx, persistentKV)
	sessionStore := sessionapp.NewStore(ctx, client, sessionKV, persistentKV)
	languageStore := prefapp.NewStore(ctx, persistentKV, b.cfg.Locale.Default)
	orchestrator := checkoutapp.NewOrchestrator(client, sessionStore, cartStore, checkoutapp.Options{
		MockFallback: b.cfg.Checkout.MockFallback,
		Currency:     b.cfg.Checkout.Currency,
	})
	catalogService := catalogapp.NewService(client, retryConfig)

	router := api.NewRouter(b.cfg, api.Controllers{
		Health: health.NewController(b.cfg, map[string]health.Pinger{
			"persistent": persistent.pinger,
			"session":    sessionBackend.pinger,
		}),
		Cart:        cart.NewController(cartStore),
		Session:     session.NewController(sessionStore),
		Checkout:    checkout.NewController(orchestrator, cartStore),
		Catalog:     catalog.NewController(catalogService, catalogapp.NewStore(catalogService)),
		Preferences: preferences.NewController(languageStore),
	})
	router.SetupRoutes()

	server := &http.Server{
		Addr:         ":" + b.cfg.Server.Port,
		Handler:      router.GetEngine(),
		ReadTimeout:  b.cfg.Server.ReadTimeout,
		WriteTimeout: b.cfg.Server.WriteTimeout,
	}

	return &App{
		config: b.cfg,
		router: router,
		server: server,
		closers: []func() error{
			persistent.close,
			sessionBackend.close,
		},
	}, nil
}

func (b *AppBuilder) openPersistent(retryConfig retry.Config) (*backend, error) {
	driver := strings.ToLower(b.cfg.Storage.Persistent)
	switch driver {
	case "", "memory":
		logger.Warn("Persistent scope uses in-memory storage; state is lost on restart")
		return &backend{Backend: memory.NewStore()}, nil

	case "sqlite":
		store, err := sqlite.Open(b.cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		logger.Info("Persistent scope uses SQLite", zap.String("path", b.cfg.Storage.SQLitePath))
		return &backend{Backend: store, pinger: store, close: store.Close}, nil

	case "mysql":
		store, err := mysql.FromAppConfig(b.cfg.Database).Open(retryConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to open mysql store: %w", err)
		}
		logger.Info("Persistent scope uses MySQL",
			zap.String("host", b.cfg.Database.Host),
			zap.String("database", b.cfg.Database.Database))
		return &backend{Backend: store, pinger: store, close: store.Close}, nil

	default:
		return nil, fmt.Errorf("unknown persistent storage driver %q", b.cfg.Storage.Persistent)
	}
}

func (b *AppBuilder) openSession() (*backend, error) {
	driver := strings.ToLower(b.cfg.Storage.Session)
	switch driver {
	case "", "memory":
		return &backend{Backend: memory.NewStore()}, nil

	case "redis":
		client := redis.NewClient(b.cfg.Redis)
		store := redis.NewStore(client, b.cfg.Storage.RedisPrefix, b.cfg.Storage.SessionTTL)
		logger.Info("Session scope uses Redis",
			zap.String("addr", b.cfg.Redis.Addr),
			zap.Duration("ttl", b.cfg.Storage.SessionTTL))
		return &backend{Backend: store, pinger: store, close: client.Close}, nil

	default:
		return nil, fmt.Errorf("unknown session storage driver %q", b.cfg.Storage.Session)
	}
}

func closeBackends(backends ...*backend) {
	for _, be := range backends {
		if be != nil && be.close != nil {
			_ = be.close()
		}
	}
}
