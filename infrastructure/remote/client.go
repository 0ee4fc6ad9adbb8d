/*
Package remote 店面后端的 HTTP 客户端

一个 Client 服务认证、结算与目录接口。每个请求经令牌桶限速，携带 X-Request-ID
与 W3C trace context，失败映射到共享错误分类：

  - 无响应（拨号、超时、取消） -> shared.NewTransportError
  - 非 2xx                       -> shared.NewServerError
  - 2xx 但响应体无法读取         -> shared.NewDecodeError
*/
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"storefront/config"
	"storefront/domain/shared"
	"storefront/infrastructure/persistence"
	"storefront/pkg/logger"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// HeaderRequestID 请求关联头
	HeaderRequestID = "X-Request-ID"

	defaultTimeout = 15 * time.Second
	maxBodySize    = 4 << 20
	tracerName     = "storefront/remote"
)

// Client 远程后端客户端
type Client struct {
	baseURL    string
	authURL    string
	http       *http.Client
	limiter    *rate.Limiter
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
	log        *zap.Logger
}

// Option 配置 Client
type Option func(*Client)

// WithHTTPClient 替换底层 http.Client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger 设置日志器（默认为 remote 组件日志器）
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithPropagator 设置 trace context 传播器（默认为 otel 全局）
func WithPropagator(p propagation.TextMapPropagator) Option {
	return func(c *Client) { c.propagator = p }
}

// WithLimiter 设置出站限速器，nil 表示不限速
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// New 根据 api 配置段创建客户端
func New(cfg config.APIConfig, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		authURL: strings.TrimRight(cfg.AuthURL(), "/"),
		http:    &http.Client{Timeout: timeout},
		tracer:  otel.Tracer(tracerName),
	}
	if cfg.Outbound.Enabled && cfg.Outbound.Rate > 0 {
		burst := cfg.Outbound.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.Outbound.Rate), burst)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// call 一次出站请求
type call struct {
	op     string
	method string
	url    string
	token  string
	body   any
	// messageKeys 非 2xx 响应中承载错误信息的字段，按查找顺序
	messageKeys []string
}

// do 执行调用并返回 2xx 响应体
func (c *Client) do(ctx context.Context, in call) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, shared.NewTransportError(in.op, err)
		}
	}

	var reader io.Reader
	if in.body != nil {
		payload, err := json.Marshal(in.body)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", in.op, err)
		}
		reader = bytes.NewReader(payload)
	}

	ctx, span := c.tracer.Start(ctx, "remote."+in.op, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, in.method, in.url, reader)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, shared.NewTransportError(in.op, err)
	}

	requestID := persistence.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, requestID)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if in.token != "" {
		req.Header.Set("Authorization", "Bearer "+in.token)
	}
	c.propagatorOrGlobal().Inject(ctx, propagation.HeaderCarrier(req.Header))

	span.SetAttributes(
		attribute.String("http.request.method", in.method),
		attribute.String("url.path", req.URL.Path),
		attribute.String("request.id", requestID),
	)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		c.logger().Warn("Remote request failed",
			zap.String("op", in.op),
			zap.String("method", in.method),
			zap.String("path", req.URL.Path),
			zap.String("request_id", requestID),
			zap.Duration("latency", time.Since(start)),
			zap.Error(err))
		return nil, shared.NewTransportError(in.op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	latency := time.Since(start)
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	fields := []zap.Field{
		zap.String("op", in.op),
		zap.String("method", in.method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
		zap.Duration("latency", latency),
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read body")
		c.logger().Warn("Remote response truncated", append(fields, zap.Error(err))...)
		return nil, shared.NewTransportError(in.op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
		c.logger().Warn("Remote request rejected", fields...)
		return nil, shared.NewServerError(resp.StatusCode, http.StatusText(resp.StatusCode),
			extractMessage(body, in.messageKeys), body)
	}

	c.logger().Debug("Remote request", fields...)
	return body, nil
}

func (c *Client) logger() *zap.Logger {
	if c.log != nil {
		return c.log
	}
	return logger.Named("remote")
}

func (c *Client) propagatorOrGlobal() propagation.TextMapPropagator {
	if c.propagator != nil {
		return c.propagator
	}
	return otel.GetTextMapPropagator()
}

// extractMessage keys 中第一个非空字符串字段，否则为 ""
func extractMessage(body []byte, keys []string) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return ""
	}
	for _, key := range keys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var msg string
		if json.Unmarshal(raw, &msg) == nil && strings.TrimSpace(msg) != "" {
			return strings.TrimSpace(msg)
		}
	}
	return ""
}

func decode(op string, body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return shared.NewDecodeError(op, err)
	}
	return nil
}
