package contract

import (
	"context"
	"io"
)

// Writer: 将装配结果以流式方式持久化到目标路径。
// 约束：
//  1. 同一目标单写者；
//  2. Prepare 确保父目录存在（失败返回包装 ErrDirCreate 的错误）；
//  3. Write 覆盖已存在文件；失败时不得留下部分输出（返回包装 ErrWrite 的错误）；
//  4. ctx 取消/超时需尽快返回；
//  5. 错误直接上抛（不做重试/回退）。
type Writer interface {
	Prepare(ctx context.Context, dest string) error
	Write(ctx context.Context, dest string, r io.Reader) error
}
