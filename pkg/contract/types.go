package contract

import "math"

// FileID: 逻辑文档ID（通常为路径，需规范化，跨平台一致）。
type FileID string

// Index: 单文件内稳定递增的行索引（0..n-1）。
type Index int64

// Record: 单行输入片段（不可跨文件）。
// 约束：
// - FileID 一致；
// - Index 自 0 严格递增；
// - Text 为去掉行终止符（\n、\r\n 或单独的 \r）后的原始文本，不做 trim。
type Record struct {
	Index  Index
	FileID FileID
	Text   string
}

// LineSeq: 惰性行序列。调用方传入 yield，逐行回调；
// yield 返回错误时序列立即停止并原样返回该错误。
// 序列自身的读取失败同样经返回值上抛。
type LineSeq func(yield func(Record) error) error

// Range: 接受的整数闭区间 [Min, Max]。
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// DefaultRange: 默认边界 -1023..1024（含两端）。
var DefaultRange = Range{Min: -1023, Max: 1024}

// Contains 判断 v 是否落在闭区间内。
func (r Range) Contains(v int) bool { return v >= r.Min && v <= r.Max }

// Valid 要求 Min <= Max。
func (r Range) Valid() bool { return r.Min <= r.Max }

// Span 返回区间内可能取值的个数；非法区间为 0，超出 int 表示范围时饱和为 math.MaxInt。
func (r Range) Span() int {
	if !r.Valid() {
		return 0
	}
	// 无符号差在 Min<=Max 时恰为真实宽度，不会溢出
	w := uint64(r.Max) - uint64(r.Min)
	if w >= uint64(math.MaxInt) {
		return math.MaxInt
	}
	return int(w) + 1
}
