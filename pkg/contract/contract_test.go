package contract

import (
    "bytes"
    "context"
    "errors"
    "io"
    "math"
    "path/filepath"
    "testing"

    "github.com/stretchr/testify/require"
)

// TestNormalizeFileID 验证路径规范化逻辑。
func TestNormalizeFileID(t *testing.T) {
    // 基础用例
    wpath := filepath.Join("a", "b", "c")
    basicCases := map[string]string{
        wpath: "a/b/c",
        "./x/../y": "y",
        "": ".",
    }
    for in, want := range basicCases {
        got := NormalizeFileID(in)
        if string(got) != want {
            t.Fatalf("基础测试 %s -> %s, 预期 %s", in, got, want)
        }
    }

    // 扩展测试用例 - 系统化覆盖
    tests := []struct {
        name     string
        input    string
        expected string
    }{
        // 反斜杠转换
        {"Windows路径", "C:\\Users\\test\\file.txt", "C:/Users/test/file.txt"},
        {"相对路径反斜杠", "src\\main\\java\\App.java", "src/main/java/App.java"},
        
        // path.Clean 功能
        {"清理多余斜杠", "path//to///file.txt", "path/to/file.txt"},
        {"清理当前目录", "path/./to/./file.txt", "path/to/file.txt"},
        {"处理父目录", "path/to/../from/file.txt", "path/from/file.txt"},
        
        // 边界情况
        {"单个点", ".", "."},
        {"双点", "..", ".."},
        {"根路径", "/", "/"},
        {"Windows根", "C:\\", "C:"},
        
        // 跨平台混合分隔符
        {"混合分隔符", "C:\\Users/test\\Documents/file.txt", "C:/Users/test/Documents/file.txt"},
        {"复杂混合路径", "src\\..\\test/./data\\\\file.txt", "test/data/file.txt"},
        
        // 特殊字符
        {"中文路径", "项目\\文档/测试.txt", "项目/文档/测试.txt"},
        {"空格路径", "My Documents\\My File.txt", "My Documents/My File.txt"},
        
        // 绝对路径
        {"Unix绝对路径", "/home/user/../admin/file.txt", "/home/admin/file.txt"},
        {"Windows绝对路径", "C:\\Program Files\\..\\Windows\\System32", "C:/Windows/System32"},
        
        // 极端情况
        {"仅分隔符", "\\\\\\///", "/"},
        {"复杂父目录", "a\\b\\c\\..\\..\\..\\..\\d", "../d"},
    }

    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            result := NormalizeFileID(tt.input)
            if string(result) != tt.expected {
                t.Errorf("NormalizeFileID(%q) = %q, expected %q", tt.input, result, tt.expected)
            }
        })
    }
}

// BenchmarkNormalizeFileID 性能基准测试
func BenchmarkNormalizeFileID(b *testing.B) {
    testPaths := []string{
        "C:\\Users\\test\\Documents\\file.txt",
        "src/main/java/../../../test/data/file.txt",
        "path//to///many////slashes/file.txt",
        "very/long/path/with/many/segments/and/mixed\\separators/file.txt",
    }

    b.ResetTimer()
    for i := 0; i < b.N; i++ {
        for _, path := range testPaths {
            NormalizeFileID(path)
        }
    }
}

// TestRange 验证闭区间判定与默认边界。
func TestRange(t *testing.T) {
    r := DefaultRange
    require.True(t, r.Valid())
    require.True(t, r.Contains(-1023))
    require.True(t, r.Contains(1024))
    require.False(t, r.Contains(-1024))
    require.False(t, r.Contains(1025))
    require.Equal(t, 2048, r.Span())
    require.False(t, Range{Min: 1, Max: 0}.Valid())
    require.Zero(t, Range{Min: 1, Max: 0}.Span())
    require.Equal(t, 1, Range{Min: 7, Max: 7}.Span())
}

// TestRangeSpanSaturates 极端区间宽度不回绕。
func TestRangeSpanSaturates(t *testing.T) {
    require.Equal(t, math.MaxInt, Range{Min: math.MinInt, Max: math.MaxInt}.Span())
    require.Equal(t, math.MaxInt, Range{Min: -(1 << 62), Max: 1 << 62}.Span())
    require.Equal(t, math.MaxInt, Range{Min: 0, Max: math.MaxInt}.Span())
    require.Equal(t, math.MaxInt, Range{Min: -1, Max: math.MaxInt - 1}.Span())
    require.Equal(t, math.MaxInt-1, Range{Min: 1, Max: math.MaxInt - 1}.Span())
}

// TestResultPath 输出命名：name.txt → name.txt_results.txt，扁平化。
func TestResultPath(t *testing.T) {
    got, err := ResultPath("outputs", NormalizeFileID("inputs/sample_01.txt"))
    require.NoError(t, err)
    require.Equal(t, filepath.Join("outputs", "sample_01.txt_results.txt"), got)

    got, err = ResultPath("out", FileID("a/b/../c.txt"))
    require.NoError(t, err)
    require.Equal(t, filepath.Join("out", "c.txt_results.txt"), got)

    for _, bad := range []FileID{".", "..", "/"} {
        _, err := ResultPath("out", bad)
        require.ErrorIs(t, err, ErrPathInvalid, "id=%q", bad)
    }
}

type recSplitter struct{ err error }

func (s recSplitter) Split(ctx context.Context, fileID FileID, r io.Reader, yield func(Record) error) error {
    b, _ := io.ReadAll(r)
    if err := yield(Record{Index: 0, FileID: fileID, Text: string(b)}); err != nil {
        return err
    }
    return s.err
}

// TestLines 绑定 Splitter 与流，错误原样透传。
func TestLines(t *testing.T) {
    var got []Record
    seq := Lines(context.Background(), recSplitter{}, "f", bytes.NewBufferString("7"))
    require.NoError(t, seq(func(r Record) error { got = append(got, r); return nil }))
    require.Equal(t, []Record{{Index: 0, FileID: "f", Text: "7"}}, got)

    boom := errors.New("boom")
    seq = Lines(context.Background(), recSplitter{err: boom}, "f", bytes.NewBufferString(""))
    require.ErrorIs(t, seq(func(Record) error { return nil }), boom)

    stop := errors.New("stop")
    seq = Lines(context.Background(), recSplitter{}, "f", bytes.NewBufferString(""))
    require.ErrorIs(t, seq(func(Record) error { return stop }), stop)
}
