package intline

import "strings"

// isBlank: 仅空格、制表符、换行。
func isBlank(c byte) bool { return c == ' ' || c == '\t' || c == '\n' }

// Trim 去掉首尾空白（' '、'\t'、'\n'），保留内部空白。
// 全空白或空串返回 ""。结果与输入共享底层存储。
func Trim(s string) string {
	i, j := 0, len(s)
	for i < j && isBlank(s[i]) {
		i++
	}
	for j > i && isBlank(s[j-1]) {
		j--
	}
	return s[i:j]
}

// Fields 按连续的空格/制表符拆分，丢弃空片段。
// 与 strings.Fields 不同：换行等其他空白不作为分隔符。
func Fields(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == '\t' })
}
