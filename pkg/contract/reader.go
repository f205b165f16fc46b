package contract

import (
	"context"
	"io"
)

// Reader: 输入源抽象（目录/单文件）。
// 约束：
// 1) List 只枚举，不打开文件；返回顺序稳定（字典序）；
// 2) root 不存在时返回包装 ErrMissingInput 的错误；
// 3) Open 失败时：不存在 → ErrMissingInput，其余 → ErrRead；
// 4) 不做解码/业务解析，仅提供字节流；
// 5) 不在内部起并发。
type Reader interface {
	List(ctx context.Context, root string) ([]FileID, error)
	Open(ctx context.Context, id FileID) (io.ReadCloser, error)
}
