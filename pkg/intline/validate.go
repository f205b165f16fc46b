package intline

// IsInteger 判断 s 是否为带可选符号的十进制整数。
// 接受：可选单个 '+' 或 '-'，其后一位或多位 ASCII 数字；前导零合法。
// 拒绝：空串、仅符号、双符号、空白、小数点、指数、非 ASCII 数字。
func IsInteger(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
