package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	cfgpkg "uniqint/internal/config"
)

// initConfig 在 dir 下生成 config.json 与 .env 模板。
// config.json 已存在时报错（不覆盖）；.env 已存在时静默跳过。
func initConfig(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := writeConfig(filepath.Join(dir, "config.json"), cfgpkg.DefaultTemplateConfig()); err != nil {
		return err
	}
	if err := writeDotEnv(filepath.Join(dir, ".env")); err != nil {
		fprintf(os.Stderr, "提示：.env 生成失败（已跳过）：%v\n", err)
	}
	return nil
}

func writeConfig(path string, c cfgpkg.Config) error {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	if path == "-" {
		_, err = stdout.Write(append(b, '\n'))
		return err
	}
	// 不覆盖已存在文件
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(append(b, '\n')); err != nil {
		return err
	}
	return nil
}

// writeDotEnv 生成 .env 模板（若文件已存在则跳过）。
func writeDotEnv(path string) error {
	var b strings.Builder
	b.WriteString("# uniqint .env 模板（由 --init-config 生成）\n")
	b.WriteString("# 优先级：CLI > ENV(.env) > 配置文件\n")
	b.WriteString("# 空值表示未设置。\n\n")

	b.WriteString("# 配置来源（可二选一）\n")
	fmt.Fprintf(&b, "%sCONFIG_FILE=\n", cfgpkg.EnvPrefix)
	fmt.Fprintf(&b, "%sCONFIG_JSON=\n\n", cfgpkg.EnvPrefix)

	b.WriteString("# 运行参数覆盖\n")
	for _, k := range []string{"INPUT_DIR", "OUTPUT_DIR", "CONCURRENCY", "LOG_LEVEL", "LOG_DIR", "METRICS_FILE"} {
		fmt.Fprintf(&b, "%s%s=\n", cfgpkg.EnvPrefix, k)
	}

	b.WriteString("\n# 组件选择\n")
	for _, k := range cfgpkg.Kinds {
		fmt.Fprintf(&b, "%sCOMPONENTS_%s=\n", cfgpkg.EnvPrefix, strings.ToUpper(k))
	}

	b.WriteString("\n# 组件 Options（原样 JSON，整体替换配置文件中的对应项）\n")
	for _, k := range cfgpkg.Kinds {
		fmt.Fprintf(&b, "%sOPTIONS_%s_JSON=\n", cfgpkg.EnvPrefix, strings.ToUpper(k))
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()
	_, err = f.WriteString(b.String())
	return err
}
