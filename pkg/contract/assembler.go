package contract

import (
	"context"
	"io"
)

// Assembler: 将已排序的结果序列化为最终文本（单文件）。
// 约束：
//  1. 每个值独占一行，十进制，非负数不带符号，以 '\n' 结尾；
//  2. 空序列产出空内容；
//  3. 不修改 values；
//  4. 不引入跨文件状态。
type Assembler interface {
	Assemble(ctx context.Context, fileID FileID, values []int) (io.Reader, error)
}
