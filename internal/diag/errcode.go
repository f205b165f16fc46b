package diag

import (
	"context"
	"errors"
	"os"

	"uniqint/pkg/contract"
)

// Code 是最小错误分类代码。
// 仅用于日志/指标汇总，与退出码解耦。
type Code string

const (
	CodeUnknown      Code = "unknown"
	CodeMissingInput Code = "missing_input"
	CodeDirCreate    Code = "dir_create"
	CodeRead         Code = "read"
	CodeWrite        Code = "write"
	CodeInvariant    Code = "invariant"
	CodeUnexpected   Code = "unexpected"
	CodeCancel       Code = "cancel"
	CodeIO           Code = "io"
)

// Classify 将错误归为最小分类。
// 仅依赖哨兵错误与标准库错误类型，不做字符串匹配。
func Classify(err error) Code {
	if err == nil {
		return CodeUnknown
	}
	// 取消/超时优先
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return CodeCancel
	}
	switch {
	case errors.Is(err, contract.ErrMissingInput):
		return CodeMissingInput
	case errors.Is(err, contract.ErrDirCreate):
		return CodeDirCreate
	case errors.Is(err, contract.ErrRead):
		return CodeRead
	case errors.Is(err, contract.ErrWrite):
		return CodeWrite
	case errors.Is(err, contract.ErrUnexpected):
		return CodeUnexpected
	case errors.Is(err, contract.ErrInvariantViolation),
		errors.Is(err, contract.ErrInvalidInput),
		errors.Is(err, contract.ErrPathInvalid):
		return CodeInvariant
	}
	var perr *os.PathError
	if errors.As(err, &perr) {
		return CodeIO
	}
	return CodeUnknown
}
