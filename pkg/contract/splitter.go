package contract

import (
	"context"
	"io"
)

// Splitter: 将单文件字节流拆分为惰性 Record 序列，并分配 Index（0..n-1）。
// 约束：
// 1) 不跨文件合并；
// 2) Index 严格递增且稳定；
// 3) 仅做 CRLF→LF 的最小必要归一，不 trim；
// 4) 无内部并发、幂等；
// 5) 读取失败原样上抛（由 Collector 归类为 ErrRead）。
type Splitter interface {
	Split(ctx context.Context, fileID FileID, r io.Reader, yield func(Record) error) error
}

// Lines 把 Splitter 与一个打开的流绑定为 LineSeq。
func Lines(ctx context.Context, s Splitter, fileID FileID, r io.Reader) LineSeq {
	return func(yield func(Record) error) error {
		return s.Split(ctx, fileID, r, yield)
	}
}
