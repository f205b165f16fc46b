package quick

import (
	"golang.org/x/exp/constraints"

	"uniqint/pkg/contract"
)

// Partition 以 s[hi] 为主元做 Lomuto 划分，返回主元最终下标。
// 划分后 s[lo:p] 均 <= 主元，s[p+1:hi+1] 均 > 主元。
func Partition[T constraints.Integer](s []T, lo, hi int) int {
	pivot := s[hi]
	i := lo - 1
	for j := lo; j < hi; j++ {
		if s[j] <= pivot {
			i++
			s[i], s[j] = s[j], s[i]
		}
	}
	s[i+1], s[hi] = s[hi], s[i+1]
	return i + 1
}

type span struct{ lo, hi int }

// Sort 原地升序排序。
// 使用显式栈代替递归：较大的一侧先入栈，较小的一侧先处理，栈深度为 O(log n)，
// 已有序或逆序输入也不会耗尽调用栈。
func Sort[T constraints.Integer](s []T) {
	if len(s) < 2 {
		return
	}
	stack := make([]span, 0, 64)
	stack = append(stack, span{0, len(s) - 1})
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.lo >= top.hi {
			continue
		}
		p := Partition(s, top.lo, top.hi)
		left, right := span{top.lo, p - 1}, span{p + 1, top.hi}
		if left.hi-left.lo > right.hi-right.lo {
			stack = append(stack, left, right)
		} else {
			stack = append(stack, right, left)
		}
	}
}

// Sorter 为 contract.Sorter 的快速排序实现。
type Sorter struct{}

// New 创建快速排序器（无可选项）。
func New() *Sorter { return &Sorter{} }

var _ contract.Sorter = (*Sorter)(nil)

func (*Sorter) Sort(values []int) error {
	Sort(values)
	return nil
}
