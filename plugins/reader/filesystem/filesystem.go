package filesystem

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"uniqint/pkg/contract"
)

// Options 为 FileSystem Reader 的可选配置（最小必要）。
type Options struct {
	// BufSize 为读缓冲区大小（字节）。默认 64KiB。
	BufSize int `json:"buf_size"`
	// AllowExts: 仅列出以这些后缀结尾的文件（区分大小写）。默认 [".txt"]。
	AllowExts []string `json:"allow_exts"`
	// Recursive: 是否进入子目录。默认仅扫描顶层。
	Recursive bool `json:"recursive"`
	// ExcludeDirNames: 递归时跳过这些目录名（基名匹配，不区分大小写）。
	// 例如 [".git","node_modules","vendor"]。
	ExcludeDirNames []string `json:"exclude_dir_names"`
}

// FileSystem 实现基于文件系统的 Reader。
type FileSystem struct {
	bufSize   int
	exts      []string
	recursive bool
	// 以小写形式保存，比较时按小写基名匹配。
	excludeDir map[string]struct{}
}

// New 创建 FileSystem Reader。
func New(opts *Options) *FileSystem {
	const defaultBuf = 64 * 1024
	r := &FileSystem{bufSize: defaultBuf, exts: []string{".txt"}, excludeDir: map[string]struct{}{}}
	if opts == nil {
		return r
	}
	if opts.BufSize > 0 {
		r.bufSize = opts.BufSize
	}
	if len(opts.AllowExts) > 0 {
		r.exts = append([]string(nil), opts.AllowExts...)
	}
	r.recursive = opts.Recursive
	for _, name := range opts.ExcludeDirNames {
		if name == "" {
			continue
		}
		r.excludeDir[strings.ToLower(name)] = struct{}{}
	}
	return r
}

var _ contract.Reader = (*FileSystem)(nil)

// List 返回 root 下匹配后缀的常规文件，按 FileID 字典序稳定排列。
// root 不存在（或不是目录/文件）时返回 ErrMissingInput；
// root 本身是常规文件时直接返回该文件（不做后缀过滤）。
func (r *FileSystem) List(ctx context.Context, root string) ([]contract.FileID, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", contract.ErrMissingInput, root)
		}
		return nil, fmt.Errorf("%w: %w", contract.ErrRead, err)
	}
	if info.Mode().IsRegular() {
		return []contract.FileID{contract.NormalizeFileID(root)}, nil
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", contract.ErrMissingInput, root)
	}
	var out []contract.FileID
	if err := r.walkDir(ctx, root, &out); err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// Open 打开 FileID 对应文件并以 bufio 封装。
func (r *FileSystem) Open(ctx context.Context, id contract.FileID) (io.ReadCloser, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.FromSlash(string(id)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", contract.ErrMissingInput, id)
		}
		return nil, fmt.Errorf("%w: %w", contract.ErrRead, err)
	}
	return newBufferedCloser(f, r.bufSize), nil
}

func (r *FileSystem) walkDir(ctx context.Context, dir string, out *[]contract.FileID) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("%w: %w", contract.ErrRead, err)
	}
	for _, e := range entries {
		if err := ctxErr(ctx); err != nil {
			return err
		}
		p := filepath.Join(dir, e.Name())
		if e.IsDir() {
			// 目录符号链接不会走到这里（e.IsDir 对链接为 false）
			if !r.recursive {
				continue
			}
			if _, skip := r.excludeDir[strings.ToLower(e.Name())]; skip {
				continue
			}
			if err := r.walkDir(ctx, p, out); err != nil {
				return err
			}
			continue
		}
		if !r.matchExt(e.Name()) {
			continue
		}
		// 允许指向常规文件的符号链接；悬空链接与目录链接忽略
		if e.Type()&os.ModeSymlink != 0 {
			t, err := os.Stat(p)
			if err != nil || !t.Mode().IsRegular() {
				continue
			}
		} else if !e.Type().IsRegular() {
			// 设备、FIFO 等跳过
			continue
		}
		*out = append(*out, contract.NormalizeFileID(p))
	}
	return nil
}

func (r *FileSystem) matchExt(name string) bool {
	for _, ext := range r.exts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func ctxErr(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// bufferedCloser 将 bufio.Reader 与底层 Closer 组合为 ReadCloser。
type bufferedCloser struct {
	*bufio.Reader
	c io.Closer
}

func newBufferedCloser(c io.ReadCloser, bufSize int) *bufferedCloser {
	if bufSize <= 0 {
		bufSize = 64 * 1024
	}
	return &bufferedCloser{Reader: bufio.NewReaderSize(c, bufSize), c: c}
}

func (b *bufferedCloser) Close() error { return b.c.Close() }
