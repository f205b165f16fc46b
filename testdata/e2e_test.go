package testdata

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cfgpkg "uniqint/internal/config"
	"uniqint/internal/diag"
	"uniqint/internal/pipeline"
	"uniqint/pkg/contract"
)

const inputDir = "files/inputs"

func baseConfig(input, outDir string) cfgpkg.Config {
	cfg := cfgpkg.DefaultTemplateConfig()
	cfg.InputDir = input
	cfg.OutputDir = outDir
	cfg.Logging.Level = "error"
	return cfg
}

func runPipeline(t *testing.T, cfg cfgpkg.Config) (pipeline.Summary, error) {
	t.Helper()
	comp, set, err := cfgpkg.Assemble(cfg)
	require.NoError(t, err)
	return pipeline.Run(context.Background(), comp, set, diag.NewLoggerTo("e2e", "error", nil))
}

// 逐个比对 expected/ 下的黄金文件
func assertGolden(t *testing.T, outDir string) {
	t.Helper()
	golden, err := filepath.Glob(filepath.Join("files", "expected", "*.txt_results.txt"))
	require.NoError(t, err)
	require.NotEmpty(t, golden)
	for _, g := range golden {
		want, err := os.ReadFile(g)
		require.NoError(t, err)
		got, err := os.ReadFile(filepath.Join(outDir, filepath.Base(g)))
		require.NoError(t, err, "missing output for %s", filepath.Base(g))
		assert.Equal(t, string(want), string(got), filepath.Base(g))
	}
	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, len(golden), "只处理 .txt 输入")
}

func TestE2ESuccess(t *testing.T) {
	for _, sorter := range []string{"quick", "counting"} {
		for _, conc := range []int{1, 4} {
			t.Run(fmt.Sprintf("%s_c%d", sorter, conc), func(t *testing.T) {
				outDir := filepath.Join(t.TempDir(), "outputs")
				cfg := baseConfig(inputDir, outDir)
				cfg.Components.Sorter = sorter
				cfg.Concurrency = conc
				sum, err := runPipeline(t, cfg)
				require.NoError(t, err)
				assert.Equal(t, 3, sum.Files)
				assert.Zero(t, sum.Failed)
				assert.Equal(t, 3+5, sum.Values)
				assertGolden(t, outDir)
			})
		}
	}
}

// 重复运行输出逐字节一致
func TestE2EIdempotent(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "outputs")
	cfg := baseConfig(inputDir, outDir)
	_, err := runPipeline(t, cfg)
	require.NoError(t, err)
	first, err := os.ReadFile(filepath.Join(outDir, "sample_02.txt_results.txt"))
	require.NoError(t, err)
	_, err = runPipeline(t, cfg)
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(outDir, "sample_02.txt_results.txt"))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestE2EMissingInput(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "outputs")
	_, err := runPipeline(t, baseConfig("files/nope", outDir))
	require.ErrorIs(t, err, contract.ErrMissingInput)
	_, statErr := os.Stat(outDir)
	assert.True(t, os.IsNotExist(statErr), "输入缺失时不应创建输出目录")
}

// fields 模式：行内空白分隔的每个片段都是候选
func TestE2EFields(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "outputs")
	cfg := baseConfig(inputDir, outDir)
	cfg.Options.Splitter = json.RawMessage(`{"fields":true}`)
	_, err := runPipeline(t, cfg)
	require.NoError(t, err)
	got, err := os.ReadFile(filepath.Join(outDir, "sample_02.txt_results.txt"))
	require.NoError(t, err)
	assert.Equal(t, "-1023\n0\n5\n7\n12\n34\n1024\n", string(got))
}

// HCL 配置驱动的完整运行：自定义区间 + 计数排序 + 额外扩展名
func TestE2EHCL(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "outputs")
	src := fmt.Sprintf(`
input_dir  = %q
output_dir = %q
components { sorter = "counting" }
options "parser" {
  min = 0
  max = 5
}
options "reader" {
  allow_exts = [".txt", ".md"]
}
`, inputDir, outDir)
	over, err := cfgpkg.LoadHCL("e2e.hcl", []byte(src))
	require.NoError(t, err)
	sum, err := runPipeline(t, cfgpkg.Merge(cfgpkg.Defaults(), over))
	require.NoError(t, err)
	assert.Equal(t, 4, sum.Files)

	cases := map[string]string{
		"sample_01.txt_results.txt": "1\n3\n",
		"sample_02.txt_results.txt": "0\n5\n",
		"empty.txt_results.txt":     "",
		"notes.md_results.txt":      "1\n2\n",
	}
	for name, want := range cases {
		got, err := os.ReadFile(filepath.Join(outDir, name))
		require.NoError(t, err, name)
		assert.Equal(t, want, string(got), name)
	}
}
