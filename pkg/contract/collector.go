package contract

import "context"

// Collector: 消费惰性行序列，经 LineParser 过滤后收集唯一整数。
// 约束：
// 1) 重复插入为 no-op；返回顺序不作保证；
// 2) 序列读取失败时返回包装 ErrRead 的错误，且不返回部分结果；
// 3) ctx 取消需尽快返回。
type Collector interface {
	Collect(ctx context.Context, seq LineSeq) ([]int, error)
}
