package hashset

import (
	"context"
	"errors"
	"fmt"

	"uniqint/pkg/contract"
)

// Options 为收集器的可选配置。
type Options struct {
	// SizeHint: 集合初始容量；0 表示按解析器值域估算（上限 4096）。
	SizeHint int `json:"size_hint"`
}

// Collector 将记录流解析为去重后的整数集合。
type Collector struct {
	parser contract.LineParser
	hint   int
}

// New 创建收集器；parser 不可为空。
func New(opts *Options, parser contract.LineParser) (*Collector, error) {
	if parser == nil {
		return nil, fmt.Errorf("%w: parser required", contract.ErrInvalidInput)
	}
	c := &Collector{parser: parser}
	if opts != nil {
		if opts.SizeHint < 0 {
			return nil, fmt.Errorf("%w: size_hint must be >= 0", contract.ErrInvalidInput)
		}
		c.hint = opts.SizeHint
	}
	if c.hint == 0 {
		c.hint = parser.Range().Span()
		if c.hint > 4096 {
			c.hint = 4096
		}
	}
	return c, nil
}

var _ contract.Collector = (*Collector)(nil)

// Collect 消费整个序列；无法解析或越界的行被静默丢弃。
// 任一读取错误都使本次结果作废：返回 nil 与错误。
func (c *Collector) Collect(ctx context.Context, seq contract.LineSeq) ([]int, error) {
	set := NewSet[int](c.hint)
	err := seq(func(rec contract.Record) error {
		if v, ok := c.parser.Parse(rec.Text); ok {
			set.Add(v)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, contract.ErrRead) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", contract.ErrRead, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return set.Entries(), nil
}
