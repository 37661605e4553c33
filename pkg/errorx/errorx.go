package errorx

import (
	"errors"
	"fmt"
	"net/http"
)

// CodeError 带业务错误码的自定义错误
// 实现了 error 接口，支持包装底层错误，且能被 errors.Is/errors.As 识别
type CodeError struct {
	Code  int    // 业务错误码
	Msg   string // 面向用户的错误消息
	cause error  // 被包装的底层错误
}

// Error 当存在底层错误时，返回 "消息: 底层错误"；否则仅返回消息
func (e *CodeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.cause)
	}
	return e.Msg
}

// Unwrap 支持 errors.Is/errors.As 向下追溯
func (e *CodeError) Unwrap() error {
	return e.cause
}

// Is 两个 CodeError 的错误码相同即视为同一类错误
// 这样 errors.Is(err, errorx.ErrNotFound) 可以匹配任意 NotFound 错误
func (e *CodeError) Is(target error) bool {
	var t *CodeError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// New 创建一个新的 CodeError
func New(code int, msg string) *CodeError {
	return &CodeError{
		Code: code,
		Msg:  msg,
	}
}

// Newf 创建一个带格式化消息的 CodeError
func Newf(code int, format string, args ...any) *CodeError {
	return &CodeError{
		Code: code,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// Wrap 包装底层错误，添加业务错误码和消息
// 用法: errorx.Wrap(err, CodeNotFound, "activity not found")
func Wrap(err error, code int, msg string) *CodeError {
	return &CodeError{
		Code:  code,
		Msg:   msg,
		cause: err,
	}
}

// Wrapf 包装底层错误，支持格式化消息
func Wrapf(err error, code int, format string, args ...any) *CodeError {
	return &CodeError{
		Code:  code,
		Msg:   fmt.Sprintf(format, args...),
		cause: err,
	}
}

// GetCode 从错误中提取业务错误码，如果不是 CodeError 则返回 CodeServerBusy
func GetCode(err error) int {
	var codeErr *CodeError
	if errors.As(err, &codeErr) {
		return codeErr.Code
	}
	return CodeServerBusy
}

// 业务状态码常量定义
const (
	CodeSuccess          = 1000 // 成功
	CodeInvalidParam     = 1001 // 请求参数错误 (validation_error)
	CodeUserExist        = 1002 // 用户已存在
	CodeServerBusy       = 1005 // 服务繁忙
	CodeUnauthorized     = 1006 // 未认证
	CodeNotFound         = 1008 // 资源不存在
	CodeDBError          = 1010 // 数据库错误 (persistence_error)
	CodeCacheError       = 1011 // 缓存错误
	CodeForbidden        = 1012 // 无权限
	CodeConflict         = 1013 // 状态冲突，如重复加入
	CodeCapacityExceeded = 1014 // 活动人数已满
)

// 预定义常用错误实例
// 这些实例既可直接返回，也可用于 errors.Is 比较
var (
	ErrInvalidParam     = New(CodeInvalidParam, "invalid request parameters")
	ErrServerBusy       = New(CodeServerBusy, "server busy, please try again later")
	ErrUnauthenticated  = New(CodeUnauthorized, "please sign in first")
	ErrNotFound         = New(CodeNotFound, "resource not found")
	ErrForbidden        = New(CodeForbidden, "operation not permitted")
	ErrConflict         = New(CodeConflict, "conflicting state")
	ErrCapacityExceeded = New(CodeCapacityExceeded, "activity is full")
	ErrPersistence      = New(CodeDBError, "storage failure, nothing was saved")
)

// Kind 返回错误码对应的稳定机器可读类型，随响应一起下发给客户端
func Kind(code int) string {
	switch code {
	case CodeSuccess:
		return "ok"
	case CodeInvalidParam:
		return "validation_error"
	case CodeUnauthorized:
		return "unauthenticated"
	case CodeForbidden:
		return "forbidden"
	case CodeNotFound:
		return "not_found"
	case CodeConflict, CodeUserExist:
		return "conflict"
	case CodeCapacityExceeded:
		return "capacity_exceeded"
	case CodeDBError:
		return "persistence_error"
	default:
		return "internal_error"
	}
}

// HTTPStatus 业务错误码到 HTTP 状态码的映射
func HTTPStatus(code int) int {
	switch code {
	case CodeSuccess:
		return http.StatusOK
	case CodeInvalidParam:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeCapacityExceeded, CodeUserExist:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// IsNotFound 检查错误是否为"未找到"类型
func IsNotFound(err error) bool {
	return GetCode(err) == CodeNotFound
}
