// Package errors 应用错误码与错误包装
//
// 错误码分段:
//
//	400xx 业务规则  401xx 认证  404xx 资源不存在  409xx 参数
//	500xx 服务端(数据库、缓存、外部依赖)
package errors

import (
	"errors"
	"fmt"
)

// AppError 带业务错误码的错误
// Message面向用户;Err是底层原因,只进日志不返回给客户端
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("[%d] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
}

func (e *AppError) Unwrap() error { return e.Err }

// New 创建AppError
func New(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap 把底层错误包装成内部错误
func Wrap(err error, message string) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: message, Err: err}
}

// Wrapf 同Wrap,Message支持格式化
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return Wrap(err, fmt.Sprintf(format, args...))
}

const (
	ErrCodeInternal      = 50000
	ErrCodeDatabaseError = 50001
	ErrCodeRedisError    = 50002

	ErrCodeUnauthorized    = 40100
	ErrCodeInvalidToken    = 40101
	ErrCodeTokenExpired    = 40102
	ErrCodeInvalidPassword = 40103
	ErrCodeForbidden       = 40104

	ErrCodeNotFound      = 40400
	ErrCodeUserNotFound  = 40401
	ErrCodeBookNotFound  = 40402
	ErrCodeOrderNotFound = 40403

	ErrCodeBusinessError      = 40000
	ErrCodeInsufficientStock  = 40001
	ErrCodeInvalidOrderStatus = 40002
	ErrCodeEmailDuplicate     = 40003
	ErrCodeISBNDuplicate      = 40004
	ErrCodeWeakPassword       = 40005
	ErrCodeDuplicateEntry     = 40009
	ErrCodeCartItemInvalid    = 40010 // 购物车行项目非法(空ID、数量越界、图书不存在)
	ErrCodeEmptyCart          = 40011
	ErrCodeBookInactive       = 40012
	ErrCodeSessionRequired    = 40013 // 缺少X-Cart-Session

	ErrCodeInvalidParams = 40900
	ErrCodeBindError     = 40901
)

var (
	ErrInternal      = New(ErrCodeInternal, "系统内部错误")
	ErrDatabaseError = New(ErrCodeDatabaseError, "数据库错误")
	ErrRedisError    = New(ErrCodeRedisError, "缓存服务错误")

	ErrUnauthorized    = New(ErrCodeUnauthorized, "请先登录")
	ErrInvalidToken    = New(ErrCodeInvalidToken, "无效的Token")
	ErrTokenExpired    = New(ErrCodeTokenExpired, "Token已过期")
	ErrInvalidPassword = New(ErrCodeInvalidPassword, "密码错误")
	ErrForbidden       = New(ErrCodeForbidden, "无权限访问")

	ErrUserNotFound  = New(ErrCodeUserNotFound, "用户不存在")
	ErrBookNotFound  = New(ErrCodeBookNotFound, "图书不存在")
	ErrOrderNotFound = New(ErrCodeOrderNotFound, "订单不存在")

	ErrInsufficientStock  = New(ErrCodeInsufficientStock, "库存不足")
	ErrInvalidOrderStatus = New(ErrCodeInvalidOrderStatus, "订单状态不允许此操作")
	ErrEmailDuplicate     = New(ErrCodeEmailDuplicate, "邮箱已被注册")
	ErrISBNDuplicate      = New(ErrCodeISBNDuplicate, "ISBN号已存在")
	ErrWeakPassword       = New(ErrCodeWeakPassword, "密码强度不足(需8-20位,包含字母和数字)")
	ErrSessionRequired    = New(ErrCodeSessionRequired, "缺少购物车会话标识")

	ErrInvalidParams = New(ErrCodeInvalidParams, "参数错误")
	ErrBindError     = New(ErrCodeBindError, "参数格式错误")
)

// IsAppError 错误链中是否有AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 取出错误链中的AppError,没有则包装成内部错误
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "系统内部错误")
}

// CodeOf 错误码;nil为0
func CodeOf(err error) int {
	if err == nil {
		return 0
	}
	return GetAppError(err).Code
}

// IsBusiness 4xxxx业务错误:调用方的问题,依赖本身是健康的
func IsBusiness(err error) bool {
	code := CodeOf(err)
	return code > 0 && code < ErrCodeInternal
}
