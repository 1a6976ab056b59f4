package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode 错误码类型
type ErrorCode string

// 预定义错误码
const (
	// 通用错误
	ErrCodeInternalServer ErrorCode = "INTERNAL_SERVER_ERROR"
	ErrCodeBadRequest     ErrorCode = "BAD_REQUEST"
	ErrCodeUnauthorized   ErrorCode = "UNAUTHORIZED"
	ErrCodeNotFound       ErrorCode = "NOT_FOUND"

	// 验证错误
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeMissingRequired  ErrorCode = "MISSING_REQUIRED"

	// 业务逻辑错误
	ErrCodeEntryNotFound    ErrorCode = "KNOWLEDGE_ENTRY_NOT_FOUND"
	ErrCodeCorpusUnreadable ErrorCode = "CORPUS_UNREADABLE"
	ErrCodeModelUntrained   ErrorCode = "MODEL_UNTRAINED"

	// 外部服务错误
	ErrCodeEmbeddingFailed ErrorCode = "EMBEDDING_FAILED"
	ErrCodeMailDelivery    ErrorCode = "MAIL_DELIVERY_FAILED"
	ErrCodeDatabaseError   ErrorCode = "DATABASE_ERROR"
)

// ErrorType 错误类型
type ErrorType int

const (
	ErrorTypeSystem ErrorType = iota
	ErrorTypeBusiness
	ErrorTypeValidation
	ErrorTypeExternal
)

// AppError 应用错误结构体
type AppError struct {
	Code     ErrorCode   `json:"code"`
	Message  string      `json:"message"`
	Type     ErrorType   `json:"type"`
	HTTPCode int         `json:"-"`
	Details  interface{} `json:"details,omitempty"`
	Cause    error       `json:"-"`
}

// Error 实现error接口
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap 返回底层错误
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails 添加错误详情
func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

// WithCause 添加错误原因
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// 错误构造函数

func NewInternalError(message string) *AppError {
	return &AppError{
		Code:     ErrCodeInternalServer,
		Message:  message,
		Type:     ErrorTypeSystem,
		HTTPCode: http.StatusInternalServerError,
	}
}

func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:     ErrCodeBadRequest,
		Message:  message,
		Type:     ErrorTypeValidation,
		HTTPCode: http.StatusBadRequest,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:     ErrCodeUnauthorized,
		Message:  message,
		Type:     ErrorTypeBusiness,
		HTTPCode: http.StatusUnauthorized,
	}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{
		Code:     ErrCodeNotFound,
		Message:  message,
		Type:     ErrorTypeBusiness,
		HTTPCode: http.StatusNotFound,
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:     ErrCodeValidationFailed,
		Message:  message,
		Type:     ErrorTypeValidation,
		HTTPCode: http.StatusBadRequest,
	}
}

func NewEntryNotFoundError(id string) *AppError {
	return &AppError{
		Code:     ErrCodeEntryNotFound,
		Message:  fmt.Sprintf("knowledge entry %q not found", id),
		Type:     ErrorTypeBusiness,
		HTTPCode: http.StatusNotFound,
	}
}

func NewModelUntrainedError(message string) *AppError {
	return &AppError{
		Code:     ErrCodeModelUntrained,
		Message:  message,
		Type:     ErrorTypeBusiness,
		HTTPCode: http.StatusConflict,
	}
}

func NewCorpusUnreadableError(path string) *AppError {
	return &AppError{
		Code:     ErrCodeCorpusUnreadable,
		Message:  fmt.Sprintf("corpus file %q could not be read", path),
		Type:     ErrorTypeSystem,
		HTTPCode: http.StatusInternalServerError,
	}
}

func NewMailDeliveryError(message string) *AppError {
	return &AppError{
		Code:     ErrCodeMailDelivery,
		Message:  message,
		Type:     ErrorTypeExternal,
		HTTPCode: http.StatusBadGateway,
	}
}

func NewExternalError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Type:     ErrorTypeExternal,
		HTTPCode: http.StatusBadGateway,
	}
}
