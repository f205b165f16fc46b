package lines

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"uniqint/pkg/contract"
	"uniqint/pkg/intline"
)

// Options 为行拆分器的可选配置（最小必要）。
type Options struct {
	// BufSize 为读缓冲区大小（字节）。默认 64KiB。
	BufSize int `json:"buf_size"`
	// MaxLineBytes: 单行最大字节数。0 表示不限制。
	MaxLineBytes int `json:"max_line_bytes"`
	// Fields: 为 true 时将行内按空格/制表符拆出的每个片段作为独立候选。
	Fields bool `json:"fields"`
}

// Splitter 实现按行拆分。
type Splitter struct {
	bufSize  int
	maxBytes int
	fields   bool
}

// New 创建行拆分器。
func New(opts *Options) *Splitter {
	s := &Splitter{bufSize: 64 * 1024}
	if opts != nil {
		if opts.BufSize > 0 {
			s.bufSize = opts.BufSize
		}
		if opts.MaxLineBytes > 0 {
			s.maxBytes = opts.MaxLineBytes
		}
		s.fields = opts.Fields
	}
	return s
}

var _ contract.Splitter = (*Splitter)(nil)

// Split 逐行回调 yield；Index 自 0 递增。
// 行内容去掉结尾的 \n、\r\n 或单独的 \r，其余原样保留（trim 属于解析器职责）。
func (s *Splitter) Split(ctx context.Context, fileID contract.FileID, r io.Reader, yield func(contract.Record) error) error {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReaderSize(r, s.bufSize)
	}
	var idx contract.Index
	emit := func(text string) error {
		rec := contract.Record{Index: idx, FileID: fileID, Text: text}
		idx++
		return yield(rec)
	}
	for {
		if err := ctxErr(ctx); err != nil {
			return err
		}
		line, eof, err := readTrimmedLine(br)
		if err != nil {
			return err
		}
		if eof {
			return nil
		}
		if s.maxBytes > 0 && len(line) > s.maxBytes {
			return fmt.Errorf("line too large: %d > %d", len(line), s.maxBytes)
		}
		if !s.fields {
			if err := emit(line); err != nil {
				return err
			}
			continue
		}
		for _, f := range intline.Fields(line) {
			if err := emit(f); err != nil {
				return err
			}
		}
	}
}

// readTrimmedLine 读取一行并去除行终止符（\n、\r\n 或单独的 \r）；返回该行、是否 EOF。
// 末行无换行符时先返回该行，下次调用再报告 EOF。
func readTrimmedLine(br *bufio.Reader) (line string, eof bool, err error) {
	var b []byte
	for {
		if br.Buffered() == 0 {
			if _, err := br.Peek(1); err != nil {
				if !errors.Is(err, io.EOF) {
					return "", false, err
				}
				return string(b), len(b) == 0, nil
			}
		}
		chunk, _ := br.Peek(br.Buffered())
		i := bytes.IndexAny(chunk, "\r\n")
		if i < 0 {
			b = append(b, chunk...)
			_, _ = br.Discard(len(chunk))
			continue
		}
		b = append(b, chunk[:i]...)
		cr := chunk[i] == '\r'
		_, _ = br.Discard(i + 1)
		if cr {
			// \r\n 视为一个终止符；\r 可能恰在缓冲区末尾
			next, err := br.Peek(1)
			switch {
			case err == nil && next[0] == '\n':
				_, _ = br.Discard(1)
			case err != nil && !errors.Is(err, io.EOF):
				return "", false, err
			}
		}
		return string(b), false, nil
	}
}

func ctxErr(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
