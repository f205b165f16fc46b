package contract

// Sorter: 原地升序排序。
// 约束：
// 1) 仅重排，不增删元素；
// 2) 实现若依赖值域（例如计数排序），越界返回 ErrInvariantViolation 且不修改切片。
type Sorter interface {
	Sort(values []int) error
}
