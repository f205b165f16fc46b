package contract

import "errors"

// 处理失败的最小错误分类。
// 实现方以 fmt.Errorf("%w: %w", ErrX, cause) 包装，errors.Is 与 errors.As 同时可用。
var (
	// ErrMissingInput: 输入文件或目录不存在。
	ErrMissingInput = errors.New("missing input")
	// ErrDirCreate: 输出目录无法创建。
	ErrDirCreate = errors.New("directory create failure")
	// ErrRead: 输入无法打开或读取。
	ErrRead = errors.New("read failure")
	// ErrWrite: 输出无法打开或写入。
	ErrWrite = errors.New("write failure")
	// ErrUnexpected: 单文件处理过程中的其他失败（含 panic）。
	ErrUnexpected = errors.New("unexpected failure")

	// ErrPathInvalid: 目标标识映射为无效路径（例如 "." 或 ".."）。
	ErrPathInvalid = errors.New("path invalid")
	// ErrInvalidInput: 参数/选项非法（如 min > max）。
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvariantViolation: 领域不变量违例（通用哨兵）。
	ErrInvariantViolation = errors.New("invariant violation")
)
