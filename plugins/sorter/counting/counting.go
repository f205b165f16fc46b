package counting

import (
	"fmt"

	"golang.org/x/exp/constraints"

	"uniqint/pkg/contract"
)

// Options: 值域；缺省沿用解析器的值域。
type Options struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

// maxSpan: 计数数组长度上限。
const maxSpan = 1 << 24

// Sorter 为有界值域上的计数排序，O(n + 值域)。
type Sorter struct {
	rng contract.Range
}

// New 创建计数排序器；def 为缺省值域。值域过大（超过 maxSpan）视为配置错误。
func New(opts *Options, def contract.Range) (*Sorter, error) {
	rng := def
	if opts != nil {
		if opts.Min != nil {
			rng.Min = *opts.Min
		}
		if opts.Max != nil {
			rng.Max = *opts.Max
		}
	}
	if !rng.Valid() {
		return nil, fmt.Errorf("%w: min %d > max %d", contract.ErrInvalidInput, rng.Min, rng.Max)
	}
	if rng.Span() > maxSpan {
		return nil, fmt.Errorf("%w: range [%d,%d] too wide for counting sort", contract.ErrInvalidInput, rng.Min, rng.Max)
	}
	return &Sorter{rng: rng}, nil
}

var _ contract.Sorter = (*Sorter)(nil)

// Sort 原地升序排序；存在越界值时返回 ErrInvariantViolation，切片保持不变。
func (s *Sorter) Sort(values []int) error {
	return Sort(values, s.rng.Min, s.rng.Max)
}

// Sort 对 [min,max] 内的值做计数排序。
// 宽度按 uint64 计算，T 的整个取值范围（如 int8 的 -128..127）也不会回绕。
func Sort[T constraints.Integer](values []T, min, max T) error {
	if min > max {
		return fmt.Errorf("%w: min %d > max %d", contract.ErrInvalidInput, min, max)
	}
	if width := uint64(max) - uint64(min); width >= maxSpan {
		return fmt.Errorf("%w: range [%d,%d] too wide for counting sort", contract.ErrInvalidInput, min, max)
	}
	for _, v := range values {
		if v < min || v > max {
			return fmt.Errorf("%w: value %d outside [%d,%d]", contract.ErrInvariantViolation, v, min, max)
		}
	}
	if len(values) < 2 {
		return nil
	}
	base := uint64(min)
	counts := make([]int, uint64(max)-base+1)
	for _, v := range values {
		counts[uint64(v)-base]++
	}
	k := 0
	for off, c := range counts {
		for ; c > 0; c-- {
			values[k] = T(base + uint64(off))
			k++
		}
	}
	return nil
}
