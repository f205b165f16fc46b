package filesystem

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"uniqint/pkg/contract"
)

func noTmp(t *testing.T, dir string) {
	t.Helper()
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".tmp-") {
			t.Fatalf("tmp file not cleaned: %s", e.Name())
		}
	}
}

// TestPrepare 创建多级目录；已存在视为成功
func TestPrepare(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	w := New(nil)
	if err := w.Prepare(context.Background(), dir); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if err := w.Prepare(context.Background(), dir); err != nil {
		t.Fatalf("prepare again: %v", err)
	}
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		t.Fatalf("dir not created: %v", err)
	}
}

// TestPrepareBlockedByFile 同名文件占位时返回 ErrDirCreate
func TestPrepareBlockedByFile(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "out")
	os.WriteFile(blocker, []byte("x"), 0o644)
	err := New(nil).Prepare(context.Background(), blocker)
	if !errors.Is(err, contract.ErrDirCreate) {
		t.Fatalf("expect ErrDirCreate, got %v", err)
	}
	if err := New(nil).Prepare(context.Background(), " "); !errors.Is(err, contract.ErrPathInvalid) {
		t.Fatalf("expect ErrPathInvalid, got %v", err)
	}
}

// TestWriteAtomic 原子写入
func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out.txt")
	if err := New(nil).Write(context.Background(), dest, bytes.NewBufferString("data")); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(dest)
	if err != nil || string(b) != "data" {
		t.Fatalf("unexpected file %v %q", err, string(b))
	}
	noTmp(t, dir)
}

// 当目标已存在时，Atomic 写应替换为新内容（跨平台）。
func TestWriteAtomicReplaceExisting(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out.txt")
	w := New(nil)
	if err := w.Write(context.Background(), dest, bytes.NewBufferString("v1-longer")); err != nil {
		t.Fatalf("write v1: %v", err)
	}
	if err := w.Write(context.Background(), dest, bytes.NewBufferString("v2")); err != nil {
		t.Fatalf("write v2: %v", err)
	}
	b, _ := os.ReadFile(dest)
	if string(b) != "v2" {
		t.Fatalf("expect replaced content v2, got %q", string(b))
	}
	noTmp(t, dir)
}

// TestWriteEmpty 空内容产生空文件
func TestWriteEmpty(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "e.txt")
	if err := New(nil).Write(context.Background(), dest, bytes.NewReader(nil)); err != nil {
		t.Fatalf("write: %v", err)
	}
	fi, err := os.Stat(dest)
	if err != nil || fi.Size() != 0 {
		t.Fatalf("expect empty file: %v", err)
	}
}

// TestWriteNonAtomic 非原子写入同样截断旧内容
func TestWriteNonAtomic(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.txt")
	a := false
	w := New(&Options{Atomic: &a})
	w.Write(context.Background(), dest, bytes.NewBufferString("longer"))
	if err := w.Write(context.Background(), dest, bytes.NewBufferString("v")); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, _ := os.ReadFile(dest)
	if string(b) != "v" {
		t.Fatalf("content %q", b)
	}
}

// TestWritePathInvalid 目标非文件名
func TestWritePathInvalid(t *testing.T) {
	w := New(nil)
	for _, d := range []string{"", "dir/", "a/.."} {
		if err := w.Write(context.Background(), d, bytes.NewBufferString("x")); !errors.Is(err, contract.ErrPathInvalid) {
			t.Fatalf("dest %q expect path invalid, got %v", d, err)
		}
	}
}

// TestWriteMissingDir 父目录不存在时返回 ErrWrite
func TestWriteMissingDir(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "none", "a.txt")
	if err := New(nil).Write(context.Background(), dest, bytes.NewBufferString("x")); !errors.Is(err, contract.ErrWrite) {
		t.Fatalf("expect ErrWrite, got %v", err)
	}
}

// TestWriteCtxCancel 上下文取消
func TestWriteCtxCancel(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "a.txt")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := New(nil).Write(ctx, dest, strings.NewReader("data")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expect ctx error, got %v", err)
	}
	if err := New(nil).Prepare(ctx, t.TempDir()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expect ctx error, got %v", err)
	}
}

type errReader struct{}

func (errReader) Read(p []byte) (int, error) { return 0, errors.New("boom") }

// TestWriteAtomicCopyError 拷贝失败：不留临时文件、不产生目标
func TestWriteAtomicCopyError(t *testing.T) {
	dir := t.TempDir()
	err := New(nil).Write(context.Background(), filepath.Join(dir, "a.txt"), errReader{})
	if !errors.Is(err, contract.ErrWrite) {
		t.Fatalf("expect ErrWrite, got %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("temp files left %v", entries)
	}
}

// TestReaderWithCtxCancel reader 在读取前取消
func TestReaderWithCtxCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := readerWithCtx(ctx, strings.NewReader("data"))
	cancel()
	buf := make([]byte, 1)
	if _, err := r.Read(buf); err == nil {
		t.Fatalf("expect ctx error")
	}
}

// TestPrepareErrorUnwrap 同时保留哨兵与底层 PathError
func TestPrepareErrorUnwrap(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "f")
	os.WriteFile(blocker, []byte("x"), 0o644)
	err := New(nil).Prepare(context.Background(), filepath.Join(blocker, "sub"))
	var pe *os.PathError
	if !errors.Is(err, contract.ErrDirCreate) || !errors.As(err, &pe) {
		t.Fatalf("expect ErrDirCreate wrapping PathError, got %v", err)
	}
}
