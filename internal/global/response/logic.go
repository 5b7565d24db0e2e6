package response

import (
	"errors"
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// ErrorContextKey 是用于在 gin.Context 中存储错误对象的键
const ErrorContextKey = "error"

// ResponseContextKey 是用于在 gin.Context 中存储响应体的键，供 Sentry 上报使用
const ResponseContextKey = "response_body"

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// Error 业务错误，携带错误码、提示信息以及原始错误链
type Error struct {
	Code    int32  `json:"code"`
	Message string `json:"msg"`
	Origin  string `json:"origin"`
	cause   error
	stack   pkgerrors.StackTrace
}

func newError(code int32, msg string) *Error {
	return &Error{
		Code:    code,
		Message: msg,
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("code:%d, msg:%s", e.Code, e.Message)
}

// GetCode 实现 sentry.CodedError 接口
func (e *Error) GetCode() int32 {
	return e.Code
}

func (e *Error) Unwrap() error {
	return e.cause
}

// StackTrace 优先返回自身记录的堆栈，其次返回原始错误的堆栈
func (e *Error) StackTrace() pkgerrors.StackTrace {
	if e.stack != nil {
		return e.stack
	}
	if st, ok := e.cause.(stackTracer); ok {
		return st.StackTrace()
	}
	return nil
}

// Is 错误码相同即视为同一错误
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// WithOrigin 附带原始错误（debug 模式下返回给前端），并保证错误带有堆栈
func (e *Error) WithOrigin(err error) *Error {
	if err == nil {
		return e
	}
	if _, ok := err.(stackTracer); !ok {
		err = pkgerrors.WithStack(err)
	}
	newErr := &Error{
		Code:    e.Code,
		Message: e.Message,
		Origin:  fmt.Sprintf("%+v", err),
		cause:   err,
	}
	if st, ok := err.(stackTracer); ok {
		newErr.stack = st.StackTrace()
	}
	return newErr
}

// WithTips 向前端返回额外的提示信息（release 模式也可见）
func (e *Error) WithTips(details ...string) *Error {
	msg := e.Message
	if len(details) > 0 {
		msg += ": " + strings.Join(details, " ")
	}
	return &Error{
		Code:    e.Code,
		Message: msg,
		Origin:  e.Origin,
		cause:   e.cause,
		stack:   e.stack,
	}
}
