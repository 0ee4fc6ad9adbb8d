package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// DefaultAPIBaseURL 配置文件与环境变量都未提供基础地址时使用
const DefaultAPIBaseURL = "http://127.0.0.1:8000/api"

// Config 应用配置
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	API      APIConfig      `mapstructure:"api"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Checkout CheckoutConfig `mapstructure:"checkout"`
	Locale   LocaleConfig   `mapstructure:"locale"`
	Log      LogConfig      `mapstructure:"log"`
	CORS     CORSConfig     `mapstructure:"cors"`

	v *viper.Viper
}

// AppConfig 应用基本配置
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Env     string `mapstructure:"env"` // development, staging, production
}

// ServerConfig 本地引擎 API 配置
type ServerConfig struct {
	Port            string          `mapstructure:"port"`
	ReadTimeout     time.Duration   `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration   `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration   `mapstructure:"shutdown_timeout"`
	RateLimit       RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Rate    float64 `mapstructure:"rate"`  // 每秒请求数
	Burst   int     `mapstructure:"burst"` // 突发容量
}

// APIConfig 远程后端配置，启动时解析一次
type APIConfig struct {
	BaseURL          string          `mapstructure:"base_url"`
	AuthBaseURL      string          `mapstructure:"auth_base_url"` // 为空时同 BaseURL
	PaymentPublicKey string          `mapstructure:"payment_public_key"`
	Timeout          time.Duration   `mapstructure:"timeout"`
	Outbound         RateLimitConfig `mapstructure:"outbound"`
	Retry            RetryConfig     `mapstructure:"retry"`
}

// AuthURL 认证接口的基础地址
func (c APIConfig) AuthURL() string {
	if c.AuthBaseURL != "" {
		return c.AuthBaseURL
	}
	return c.BaseURL
}

// PaymentKey 支付服务公钥，未设置时为 nil
func (c APIConfig) PaymentKey() *string {
	if c.PaymentPublicKey == "" {
		return nil
	}
	key := c.PaymentPublicKey
	return &key
}

// RetryConfig 幂等目录读取与 store 写入的重试配置
type RetryConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	MaxAttempts   int           `mapstructure:"max_attempts"`
	InitialDelay  time.Duration `mapstructure:"initial_delay"`
	MaxDelay      time.Duration `mapstructure:"max_delay"`
	BackoffFactor float64       `mapstructure:"backoff_factor"`
	JitterEnabled bool          `mapstructure:"jitter_enabled"`
}

// StorageConfig KV 桥接后端
type StorageConfig struct {
	Persistent  string        `mapstructure:"persistent"` // memory, sqlite, mysql
	Session     string        `mapstructure:"session"`    // memory, redis
	SQLitePath  string        `mapstructure:"sqlite_path"`
	SessionTTL  time.Duration `mapstructure:"session_ttl"`
	RedisPrefix string        `mapstructure:"redis_prefix"`
}

// DatabaseConfig 持久作用域的 MySQL 配置
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	LogLevel        string        `mapstructure:"log_level"`
	SlowThreshold   time.Duration `mapstructure:"slow_threshold"`
}

// RedisConfig 会话作用域的 Redis 配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CheckoutConfig 结算流程配置
type CheckoutConfig struct {
	MockFallback bool   `mapstructure:"mock_fallback"` // 接口未实现时使用地址/运费桩数据
	Currency     string `mapstructure:"currency"`
}

// LocaleConfig 语言偏好配置
type LocaleConfig struct {
	Default string `mapstructure:"default"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level    string `mapstructure:"level"`  // debug, info, warn, error
	Format   string `mapstructure:"format"` // json, console
	Output   string `mapstructure:"output"` // stdout, file
	FilePath string `mapstructure:"file_path"`
}

// CORSConfig CORS 配置
type CORSConfig struct {
	AllowOrigins     []string `mapstructure:"allow_origins"`
	AllowMethods     []string `mapstructure:"allow_methods"`
	AllowHeaders     []string `mapstructure:"allow_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// IsDevelopment 是否为开发环境
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction 是否为生产环境
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// Load 加载配置
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// 设置默认值
	setDefaults(v)

	// 配置文件设置
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// 读取环境变量
	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 与 web 构建共用的变量
	_ = v.BindEnv("api.base_url", "STOREFRONT_API_BASE_URL", "PUBLIC_API_URL")
	_ = v.BindEnv("api.payment_public_key", "STOREFRONT_API_PAYMENT_PUBLIC_KEY", "PUBLIC_STRIPE_KEY")

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// 配置文件不存在时使用默认值
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.API.BaseURL = strings.TrimRight(config.API.BaseURL, "/")
	if config.API.BaseURL == "" {
		config.API.BaseURL = DefaultAPIBaseURL
	}
	config.API.AuthBaseURL = strings.TrimRight(config.API.AuthBaseURL, "/")
	config.v = v

	return &config, nil
}

// Watch 监听配置文件，变更后重新解析并回调
// 没有读取到配置文件时返回 false。只有可热更新的字段（如 log.level）应在回调中使用。
func (c *Config) Watch(onChange func(next *Config)) bool {
	if c.v == nil || c.v.ConfigFileUsed() == "" {
		return false
	}
	c.v.OnConfigChange(func(fsnotify.Event) {
		next, err := decode(c.v)
		if err != nil {
			return
		}
		onChange(next)
	})
	c.v.WatchConfig()
	return true
}

// setDefaults 设置默认配置
func setDefaults(v *viper.Viper) {
	// App
	v.SetDefault("app.name", "storefront")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.env", "development")

	// Server
	v.SetDefault("server.port", "8090")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.rate_limit.enabled", true)
	v.SetDefault("server.rate_limit.rate", 50)
	v.SetDefault("server.rate_limit.burst", 100)

	// Remote API
	v.SetDefault("api.base_url", DefaultAPIBaseURL)
	v.SetDefault("api.auth_base_url", "")
	v.SetDefault("api.payment_public_key", "")
	v.SetDefault("api.timeout", "15s")
	v.SetDefault("api.outbound.enabled", true)
	v.SetDefault("api.outbound.rate", 10)
	v.SetDefault("api.outbound.burst", 20)
	v.SetDefault("api.retry.enabled", true)
	v.SetDefault("api.retry.max_attempts", 3)
	v.SetDefault("api.retry.initial_delay", "200ms")
	v.SetDefault("api.retry.max_delay", "2s")
	v.SetDefault("api.retry.backoff_factor", 2.0)
	v.SetDefault("api.retry.jitter_enabled", true)

	// Storage
	v.SetDefault("storage.persistent", "sqlite")
	v.SetDefault("storage.session", "memory")
	v.SetDefault("storage.sqlite_path", "data/storefront.db")
	v.SetDefault("storage.session_ttl", "30m")
	v.SetDefault("storage.redis_prefix", "storefront")

	// Database
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "3306")
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "storefront")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "5m")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.slow_threshold", "200ms")

	// Redis
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Checkout
	v.SetDefault("checkout.mock_fallback", true)
	v.SetDefault("checkout.currency", "USD")

	// Locale
	v.SetDefault("locale.default", "en")

	// Log
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.file_path", "logs/storefront.log")

	// CORS
	v.SetDefault("cors.allow_origins", []string{"http://localhost:5173"})
	v.SetDefault("cors.allow_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allow_headers", []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 86400)
}
