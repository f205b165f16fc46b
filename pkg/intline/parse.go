package intline

import (
	"strconv"

	"uniqint/pkg/contract"
)

// ParseLine 将一行解析为区间内的整数。
// 顺序：Trim → 空则无值 → IsInteger 否则无值 → 转换 → 越界无值。
// 超出 int 表示范围的数字视为越界，同样返回无值；本函数从不报错。
func ParseLine(line string, rng contract.Range) (int, bool) {
	s := Trim(line)
	if s == "" || !IsInteger(s) {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		// 语法已校验，此处只可能是 ErrRange
		return 0, false
	}
	if !rng.Contains(v) {
		return 0, false
	}
	return v, true
}
