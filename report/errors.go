package report

import (
	"errors"
	"fmt"
)

// Code 是报告生成失败的分类。
type Code string

const (
	CodeNotGenerated Code = "NOT_GENERATED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeRenderFailed Code = "RENDER_FAILED"
	CodeInvalidInput Code = "INVALID_INPUT"
)

// Error 带分类码的错误，errors.Is 按 Code 比较。
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// 用于 errors.Is 的哨兵值。
var (
	ErrNotGenerated = &Error{Code: CodeNotGenerated}
	ErrForbidden    = &Error{Code: CodeForbidden}
	ErrRenderFailed = &Error{Code: CodeRenderFailed}
	ErrInvalidInput = &Error{Code: CodeInvalidInput}
)

func (e *Error) Error() string {
	msg := string(e.Code)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Is 使任意同分类的 *Error 与哨兵值匹配。
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func wrapError(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// CodeOf 返回错误链中的分类码，没有时返回空串。
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// InvalidInput 把输入解析或校验错误包装为 INVALID_INPUT。
func InvalidInput(cause error) error {
	return wrapError(CodeInvalidInput, cause, "输入无效")
}
