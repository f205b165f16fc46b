package contract

// LineParser: 单行 → 可选整数。
// 约束：
// 1) 纯函数，无 I/O、无状态；
// 2) 无效输入（空行、非整数、越界）是正常结果 ok=false，不是错误；
// 3) ok=true 时返回值必然落在 Range() 内。
type LineParser interface {
	Parse(line string) (v int, ok bool)
	Range() Range
}
