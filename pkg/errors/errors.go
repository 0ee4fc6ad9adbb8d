package errors

import (
	"errors"
	"fmt"

	"storefront/domain/shared"
)

// ErrorCode 错误码
type ErrorCode string

const (
	// 通用错误码
	CodeInternal       ErrorCode = "INTERNAL_ERROR"
	CodeBadRequest     ErrorCode = "BAD_REQUEST"
	CodeNotFound       ErrorCode = "NOT_FOUND"
	CodeTooManyRequest ErrorCode = "TOO_MANY_REQUESTS"
	CodeValidation     ErrorCode = "VALIDATION_ERROR"

	// 业务错误码
	CodeAuthRequired ErrorCode = "AUTH_REQUIRED"
	CodeTransport    ErrorCode = "TRANSPORT_ERROR"
	CodeServer       ErrorCode = "SERVER_ERROR"
	CodePersistence  ErrorCode = "PERSISTENCE_ERROR"
)

// AppError 应用错误
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New 创建新错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装错误
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// 常用错误构造函数

func Internal(message string) *AppError {
	return New(CodeInternal, message)
}

func Validation(message string) *AppError {
	return New(CodeValidation, message)
}

// Is 检查是否为特定错误码
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// AsAppError 将错误转换为 AppError
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	// 如果不是 AppError，包装为内部错误
	return Wrap(err, CodeInternal, "internal server error")
}

// FromDomainError 将领域错误映射为应用错误
// 消息取用户可见消息，底层错误保留在 Err 中只用于日志
func FromDomainError(err error) *AppError {
	if err == nil {
		return nil
	}

	// 已经是 AppError
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	msg := shared.UserMessage(err)
	switch {
	case errors.Is(err, shared.ErrValidation):
		return Wrap(err, CodeValidation, msg)
	case errors.Is(err, shared.ErrAuthRequired):
		return Wrap(err, CodeAuthRequired, msg)
	case errors.Is(err, shared.ErrNotFound):
		return Wrap(err, CodeNotFound, msg)
	case errors.Is(err, shared.ErrServer), errors.Is(err, shared.ErrDecode):
		return Wrap(err, CodeServer, msg)
	case errors.Is(err, shared.ErrTransport):
		return Wrap(err, CodeTransport, msg)
	case errors.Is(err, shared.ErrPersistence):
		return Wrap(err, CodePersistence, "local storage unavailable")
	default:
		return Wrap(err, CodeInternal, "internal server error")
	}
}
