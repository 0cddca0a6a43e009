// Package apperr 业务错误分类：调用方据 Kind 决定是否刷新重试、如何回应
package apperr

import (
	"errors"
	"fmt"

	"github.com/rotisserie/eris"
)

// Kind 错误类别
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindPermission
	KindDependency
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindPermission:
		return "permission"
	case KindDependency:
		return "dependency"
	case KindNotFound:
		return "not_found"
	}
	return "internal"
}

// AppError 结构化业务错误；Code 为稳定的机器可读标识，Message 可直接展示
type AppError struct {
	Kind     Kind
	Code     string
	Message  string
	Internal error
}

func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Internal)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Internal }

// Validation 输入缺失或格式错误
func Validation(code, message string) *AppError {
	return &AppError{Kind: KindValidation, Code: code, Message: message}
}

// Conflict 并发状态变化导致前置条件不成立，调用方应刷新后整体重试
func Conflict(code, message string, err error) *AppError {
	return &AppError{Kind: KindConflict, Code: code, Message: message, Internal: err}
}

// Permission 操作人无权执行该迁移
func Permission(code, message string) *AppError {
	return &AppError{Kind: KindPermission, Code: code, Message: message}
}

// NotFound 资源不存在
func NotFound(code, message string) *AppError {
	return &AppError{Kind: KindNotFound, Code: code, Message: message}
}

// Dependency 存储调用失败；用 eris 包装保留堆栈
func Dependency(code, message string, err error) *AppError {
	if err != nil {
		err = eris.Wrap(err, message)
	}
	return &AppError{Kind: KindDependency, Code: code, Message: message, Internal: err}
}

// KindOf 取错误类别；非 AppError 视为 KindInternal
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is 判断 err 是否为指定类别
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// CodeOf 取错误码；非 AppError 返回 "internal_error"
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "internal_error"
}

// Detail 带堆栈的日志文本
func Detail(err error) string {
	return eris.ToString(err, true)
}
