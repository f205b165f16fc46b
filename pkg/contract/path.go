package contract

import (
	"path"
	"path/filepath"
	"strings"
)

// ResultSuffix: 批处理输出文件名后缀（name.txt → name.txt_results.txt）。
const ResultSuffix = "_results.txt"

// NormalizeFileID 规范化路径，统一为跨平台稳定的 FileID。
// 规则：
// - 使用正斜杠分隔符
// - 清理多余分隔符与路径片段（.、..）
// - 保留相对/绝对语义，不做隐式绝对化
func NormalizeFileID(p string) FileID {
	s := strings.ReplaceAll(p, "\\", "/")
	return FileID(path.Clean(s))
}

// ResultName 返回输入文件对应的输出文件名（仅基名）。
func ResultName(id FileID) (string, error) {
	base := path.Base(string(id))
	if base == "." || base == ".." || base == "/" || base == "" {
		return "", ErrPathInvalid
	}
	return base + ResultSuffix, nil
}

// ResultPath 扁平化映射：outputDir/<基名>_results.txt。
func ResultPath(outputDir string, id FileID) (string, error) {
	name, err := ResultName(id)
	if err != nil {
		return "", err
	}
	return filepath.Join(outputDir, name), nil
}
