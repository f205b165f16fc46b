package lines

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"

	"uniqint/pkg/contract"
)

// Options: 逐行装配无可调项；保留类型以便严格解析拒绝未知字段。
type Options struct{}

// Assembler 将升序值序列渲染为每值一行的文本。
type Assembler struct{}

// New 创建逐行装配器。
func New(_ *Options) *Assembler { return &Assembler{} }

// Assemble 每个值输出一行十进制文本，行尾为 \n，无前导空格/千分位。
// values 必须严格升序（已去重且已排序），否则返回 ErrInvariantViolation。
func (a *Assembler) Assemble(ctx context.Context, fileID contract.FileID, values []int) (io.Reader, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	if len(values) == 0 {
		return bytes.NewReader(nil), nil
	}
	for i := 1; i < len(values); i++ {
		if values[i-1] >= values[i] {
			return nil, fmt.Errorf("%w: %s: values[%d]=%d >= values[%d]=%d",
				contract.ErrInvariantViolation, fileID, i-1, values[i-1], i, values[i])
		}
	}
	// 每行最多 "-1023\n" 级别长度；按 8 字节预估
	var buf bytes.Buffer
	buf.Grow(len(values) * 8)
	var tmp [24]byte
	for _, v := range values {
		b := strconv.AppendInt(tmp[:0], int64(v), 10)
		buf.Write(b)
		buf.WriteByte('\n')
	}
	return &buf, nil
}

var _ contract.Assembler = (*Assembler)(nil)
