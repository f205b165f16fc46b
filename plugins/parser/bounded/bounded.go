package bounded

import (
	"fmt"

	"uniqint/pkg/contract"
	"uniqint/pkg/intline"
)

// Options 为区间解析器的可选配置。
// 指针字段用于区分“未提供”与显式 0；未提供时使用 contract.DefaultRange 对应端点。
type Options struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

// Parser 按固定闭区间解析单行整数。
type Parser struct {
	rng contract.Range
}

// New 创建 Parser；min > max 返回 ErrInvalidInput。
func New(opts *Options) (*Parser, error) {
	rng := contract.DefaultRange
	if opts != nil && opts.Min != nil {
		rng.Min = *opts.Min
	}
	if opts != nil && opts.Max != nil {
		rng.Max = *opts.Max
	}
	if !rng.Valid() {
		return nil, fmt.Errorf("%w: min(%d) > max(%d)", contract.ErrInvalidInput, rng.Min, rng.Max)
	}
	return &Parser{rng: rng}, nil
}

// Parse 见 intline.ParseLine。
func (p *Parser) Parse(line string) (int, bool) { return intline.ParseLine(line, p.rng) }

// Range 返回生效区间。
func (p *Parser) Range() contract.Range { return p.rng }

var _ contract.LineParser = (*Parser)(nil)
