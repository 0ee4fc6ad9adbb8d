/*
Package shared - 领域层共享错误定义

设计原则:
1. 领域层定义哨兵错误(sentinel errors)，用于 errors.Is() 类型安全判断
2. DomainError 在创建时捕获堆栈，但延迟格式化（按需打印）
3. 领域错误不包含本地 API 的 HTTP 状态码等传输层概念
4. 使用标准库 errors，不依赖第三方包

错误分类:
- ErrValidation:   本地输入不合法，任何网络调用之前拒绝
- ErrAuthRequired: 未登录状态下尝试结账
- ErrTransport:    请求未到达服务器
- ErrDecode:       2xx 响应体无法解码或结构不符
- ErrServer:       服务器返回非 2xx
- ErrPersistence:  本地存储读写失败（只记录日志，不向用户暴露）
*/
package shared

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ============================================================================
// 哨兵错误 (Sentinel Errors)
// ============================================================================

var (
	// ErrValidation 本地输入校验失败
	ErrValidation = errors.New("validation failed")

	// ErrAuthRequired 需要登录
	ErrAuthRequired = errors.New("authentication required")

	// ErrTransport 网络传输失败
	ErrTransport = errors.New("transport failure")

	// ErrDecode 响应无法解码
	ErrDecode = errors.New("unexpected response")

	// ErrServer 服务器返回错误
	ErrServer = errors.New("server error")

	// ErrPersistence 本地存储失败
	ErrPersistence = errors.New("persistence failure")

	// ErrNotFound 资源未找到
	ErrNotFound = errors.New("not found")
)

// 用户可见的兜底消息
const (
	MessageCannotReachServer = "cannot reach server"
	MessageAuthRequired      = "you must be logged in to place an order"
)

// ============================================================================
// 领域错误结构体 (Domain Error)
// ============================================================================

// DomainError 领域错误 - 携带业务上下文和堆栈的结构化错误
type DomainError struct {
	// Err 底层哨兵错误，用于 errors.Is() 判断
	Err error

	// Entity 发生错误的实体名称（如 "cart", "checkout"）
	Entity string

	// Message 人类可读的错误描述
	Message string

	// Field 可选：发生错误的字段名（用于校验错误）
	Field string

	// Cause 可选：底层原因（如网络错误）
	Cause error

	stack []uintptr
}

// Error 实现 error 接口
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap 同时暴露哨兵错误与底层原因
func (e *DomainError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

// Stack 按需格式化堆栈（只在打印日志时调用）
func (e *DomainError) Stack() []string {
	return FormatStack(e.stack)
}

// ServerError 服务器返回的非 2xx 响应
type ServerError struct {
	Status     int
	StatusText string
	// Message 后端提供的可读消息；为空表示响应体无法解析
	Message string
	Body    []byte
	stack   []uintptr
}

func (e *ServerError) Error() string {
	return e.UserMessage()
}

func (e *ServerError) Unwrap() error { return ErrServer }

// Stack 实现 Stacker
func (e *ServerError) Stack() []string { return FormatStack(e.stack) }

// UserMessage 返回后端消息，缺失时按状态文本生成通用消息
func (e *ServerError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	text := e.StatusText
	if text == "" {
		text = fmt.Sprintf("status %d", e.Status)
	}
	return "server error: " + text
}

// ============================================================================
// 堆栈捕获辅助函数
// ============================================================================

// CaptureStack 捕获当前调用栈（导出供子领域包使用）
// skip: 跳过的帧数（通常为 3：Callers, CaptureStack, NewXxxError）
func CaptureStack(skip int) []uintptr {
	var pcs [32]uintptr
	n := runtime.Callers(skip, pcs[:])
	return pcs[:n]
}

// FormatStack 将堆栈帧格式化为字符串切片
func FormatStack(stack []uintptr) []string {
	if len(stack) == 0 {
		return nil
	}

	frames := runtime.CallersFrames(stack)
	var result []string
	for {
		frame, more := frames.Next()
		// 过滤掉 runtime 内部帧
		if !strings.Contains(frame.File, "runtime/") {
			result = append(result, fmt.Sprintf("%s:%d %s", frame.File, frame.Line, frame.Function))
		}
		if !more || len(result) > 10 {
			break
		}
	}
	return result
}

// ============================================================================
// 领域错误构造函数
// ============================================================================

// NewValidationError 创建"校验失败"领域错误
func NewValidationError(entity, field, reason string) error {
	return &DomainError{
		Err:     ErrValidation,
		Entity:  entity,
		Field:   field,
		Message: reason,
		stack:   CaptureStack(3),
	}
}

// NewAuthRequiredError 创建"需要登录"领域错误
func NewAuthRequiredError(entity string) error {
	return &DomainError{
		Err:     ErrAuthRequired,
		Entity:  entity,
		Message: MessageAuthRequired,
		stack:   CaptureStack(3),
	}
}

// NewTransportError 创建"网络失败"领域错误
func NewTransportError(op string, cause error) error {
	return &DomainError{
		Err:     ErrTransport,
		Entity:  op,
		Message: MessageCannotReachServer,
		Cause:   cause,
		stack:   CaptureStack(3),
	}
}

// NewDecodeError 响应无法解码（不视为传输失败，不触发占位数据）
func NewDecodeError(op string, cause error) error {
	return &DomainError{
		Err:     ErrDecode,
		Entity:  op,
		Message: "unexpected response from server",
		Cause:   cause,
		stack:   CaptureStack(3),
	}
}

// NewServerError 创建服务器错误
func NewServerError(status int, statusText, message string, body []byte) error {
	return &ServerError{
		Status:     status,
		StatusText: statusText,
		Message:    message,
		Body:       body,
		stack:      CaptureStack(3),
	}
}

// NewPersistenceError 创建本地存储错误
func NewPersistenceError(scope, key string, cause error) error {
	return &DomainError{
		Err:     ErrPersistence,
		Entity:  scope,
		Field:   key,
		Message: "storage " + scope + " failed for key " + key,
		Cause:   cause,
		stack:   CaptureStack(3),
	}
}

// NewNotFoundError 创建"未找到"领域错误
func NewNotFoundError(entity string) error {
	return &DomainError{
		Err:     ErrNotFound,
		Entity:  entity,
		Message: entity + " not found",
		stack:   CaptureStack(3),
	}
}

// UserMessage 提取任意错误的用户可见消息
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		return serverErr.UserMessage()
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return err.Error()
}

// ============================================================================
// Stacker 接口
// ============================================================================

// Stacker 可提供堆栈的错误接口
type Stacker interface {
	Stack() []string
}
