package filesystem

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"uniqint/pkg/contract"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		p := filepath.Join(dir, filepath.FromSlash(n))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(n), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
}

func bases(ids []contract.FileID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, filepath.Base(string(id)))
	}
	return out
}

// TestListFiltersAndSorts 仅 .txt，字典序，区分大小写
func TestListFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "b.txt", "a.txt", "c.csv", "D.TXT", "sub/e.txt")
	ids, err := New(nil).List(context.Background(), dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got := strings.Join(bases(ids), ",")
	if got != "a.txt,b.txt" {
		t.Fatalf("unexpected list %s", got)
	}
	for _, id := range ids {
		if id != contract.NormalizeFileID(string(id)) {
			t.Fatalf("id not normalized: %s", id)
		}
	}
}

// TestListRecursiveExclude 递归并跳过目录
func TestListRecursiveExclude(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "keep.txt", "sub/x.txt", "Skip/bad.txt")
	r := New(&Options{Recursive: true, ExcludeDirNames: []string{"skip", ""}})
	ids, err := r.List(context.Background(), dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got := strings.Join(bases(ids), ",")
	if got != "keep.txt,x.txt" {
		t.Fatalf("unexpected list %s", got)
	}
}

// TestListAllowExts 自定义后缀
func TestListAllowExts(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.txt", "b.num")
	ids, err := New(&Options{AllowExts: []string{".num"}}).List(context.Background(), dir)
	if err != nil || len(ids) != 1 || filepath.Base(string(ids[0])) != "b.num" {
		t.Fatalf("allow exts: %v %v", ids, err)
	}
}

// TestListMissingRoot 根目录不存在
func TestListMissingRoot(t *testing.T) {
	_, err := New(nil).List(context.Background(), filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, contract.ErrMissingInput) {
		t.Fatalf("expect ErrMissingInput, got %v", err)
	}
}

// TestListEmptyDir 空目录返回空列表
func TestListEmptyDir(t *testing.T) {
	ids, err := New(nil).List(context.Background(), t.TempDir())
	if err != nil || len(ids) != 0 {
		t.Fatalf("empty: %v %v", ids, err)
	}
}

// TestListSingleFile root 为文件时原样返回
func TestListSingleFile(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "one.dat")
	fp := filepath.Join(dir, "one.dat")
	ids, err := New(nil).List(context.Background(), fp)
	if err != nil || len(ids) != 1 || ids[0] != contract.NormalizeFileID(fp) {
		t.Fatalf("single: %v %v", ids, err)
	}
}

// TestOpen 读取内容并关闭
func TestOpen(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.txt")
	r := New(&Options{BufSize: 16})
	rc, err := r.Open(context.Background(), contract.NormalizeFileID(filepath.Join(dir, "a.txt")))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	b, _ := io.ReadAll(rc)
	if string(b) != "a.txt" {
		t.Fatalf("content %q", b)
	}
	if err := rc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

// TestOpenMissing 文件在列举后被删除
func TestOpenMissing(t *testing.T) {
	_, err := New(nil).Open(context.Background(), contract.NormalizeFileID(filepath.Join(t.TempDir(), "x.txt")))
	if !errors.Is(err, contract.ErrMissingInput) {
		t.Fatalf("expect ErrMissingInput, got %v", err)
	}
}

// TestListCtxCancel 上下文取消
func TestListCtxCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(nil).List(ctx, t.TempDir())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expect ctx cancel, got %v", err)
	}
	_, err = New(nil).Open(ctx, "a.txt")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expect ctx cancel, got %v", err)
	}
}

// TestNewBufferedCloserDefault bufSize<=0 时使用默认
func TestNewBufferedCloserDefault(t *testing.T) {
	r := io.NopCloser(strings.NewReader(""))
	bc := newBufferedCloser(r, 0)
	if bc.Reader == nil {
		t.Fatalf("nil reader")
	}
	bc.Close()
}
