package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// EnvPrefix 环境变量前缀。
const EnvPrefix = "UNIQINT_"

// Defaults 返回带有安全默认值的 Config 雏形。
func Defaults() Config {
	return Config{
		InputDir:    "inputs",
		OutputDir:   "outputs",
		Concurrency: 1,
		Logging:     Logging{Level: "info"},
		Components: Components{
			Reader:    "fs",
			Splitter:  "lines",
			Parser:    "bounded",
			Collector: "hashset",
			Sorter:    "quick",
			Assembler: "lines",
			Writer:    "fs",
		},
	}
}

// LoadJSON 从文件路径或原始 JSON 解析 Config（严格拒绝未知字段）。
func LoadJSON(path string, raw []byte) (Config, error) {
	var cfg Config
	var r io.Reader
	switch {
	case len(raw) > 0:
		r = bytes.NewReader(raw)
	case path != "":
		f, err := os.Open(path)
		if err != nil {
			return cfg, err
		}
		defer f.Close()
		r = f
	default:
		return cfg, errors.New("no config source provided")
	}
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadFile 按扩展名选择解析器：.hcl 走 HCL，其余按 JSON。
func LoadFile(path string) (Config, error) {
	if strings.EqualFold(filepath.Ext(path), ".hcl") {
		return LoadHCL(path, nil)
	}
	return LoadJSON(path, nil)
}

// Merge 按优先级合并（后者覆盖前者）。
// 零值不覆盖；Options 按组件整体替换，不做深度合并。
func Merge(base, over Config) Config {
	out := base
	if s := strings.TrimSpace(over.InputDir); s != "" {
		out.InputDir = s
	}
	if s := strings.TrimSpace(over.OutputDir); s != "" {
		out.OutputDir = s
	}
	if over.Concurrency != 0 {
		out.Concurrency = over.Concurrency
	}
	if s := strings.TrimSpace(over.Logging.Level); s != "" {
		out.Logging.Level = s
	}
	if s := strings.TrimSpace(over.Logging.Dir); s != "" {
		out.Logging.Dir = s
	}
	if s := strings.TrimSpace(over.Metrics.File); s != "" {
		out.Metrics.File = s
	}

	// 组件名（空不覆盖）
	if over.Components.Reader != "" {
		out.Components.Reader = over.Components.Reader
	}
	if over.Components.Splitter != "" {
		out.Components.Splitter = over.Components.Splitter
	}
	if over.Components.Parser != "" {
		out.Components.Parser = over.Components.Parser
	}
	if over.Components.Collector != "" {
		out.Components.Collector = over.Components.Collector
	}
	if over.Components.Sorter != "" {
		out.Components.Sorter = over.Components.Sorter
	}
	if over.Components.Assembler != "" {
		out.Components.Assembler = over.Components.Assembler
	}
	if over.Components.Writer != "" {
		out.Components.Writer = over.Components.Writer
	}

	// Options（完整替换对应键）
	for _, k := range Kinds {
		if src := *over.Options.slot(k); len(src) > 0 {
			*out.Options.slot(k) = cloneRaw(src)
		}
	}
	return out
}

// EnvOverlay 从环境变量构建一个 Config 覆盖（仅解析有限键集合）。
// 规则：前缀 UNIQINT_；集合外的键忽略；数值解析失败返回错误。
// 支持：INPUT_DIR, OUTPUT_DIR, CONCURRENCY, LOG_LEVEL, LOG_DIR, METRICS_FILE,
// COMPONENTS_<KIND> 以及 OPTIONS_<KIND>_JSON。
func EnvOverlay(environ []string) (Config, error) {
	var over Config
	for _, kv := range environ {
		if !strings.HasPrefix(kv, EnvPrefix) {
			continue
		}
		eq := strings.IndexByte(kv, '=')
		if eq <= len(EnvPrefix) {
			continue
		}
		key := kv[len(EnvPrefix):eq]
		val := strings.TrimSpace(kv[eq+1:])
		if val == "" {
			// 空值视为未设置，避免清空文件配置
			continue
		}
		switch key {
		case "INPUT_DIR":
			over.InputDir = val
		case "OUTPUT_DIR":
			over.OutputDir = val
		case "CONCURRENCY":
			v, err := atoi(val)
			if err != nil {
				return Config{}, errors.New("config: " + EnvPrefix + "CONCURRENCY: " + err.Error())
			}
			over.Concurrency = v
		case "LOG_LEVEL":
			over.Logging.Level = strings.ToLower(val)
		case "LOG_DIR":
			over.Logging.Dir = val
		case "METRICS_FILE":
			over.Metrics.File = val
		case "COMPONENTS_READER":
			over.Components.Reader = val
		case "COMPONENTS_SPLITTER":
			over.Components.Splitter = val
		case "COMPONENTS_PARSER":
			over.Components.Parser = val
		case "COMPONENTS_COLLECTOR":
			over.Components.Collector = val
		case "COMPONENTS_SORTER":
			over.Components.Sorter = val
		case "COMPONENTS_ASSEMBLER":
			over.Components.Assembler = val
		case "COMPONENTS_WRITER":
			over.Components.Writer = val
		default:
			// OPTIONS_<KIND>_JSON：原样 JSON
			if strings.HasPrefix(key, "OPTIONS_") && strings.HasSuffix(key, "_JSON") {
				kind := strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(key, "OPTIONS_"), "_JSON"))
				if p := over.Options.slot(kind); p != nil {
					if !json.Valid([]byte(val)) {
						return Config{}, errors.New("config: " + EnvPrefix + key + ": invalid JSON")
					}
					*p = json.RawMessage(val)
				}
			}
		}
	}
	return over, nil
}

func cloneRaw(in json.RawMessage) json.RawMessage {
	if len(in) == 0 {
		return nil
	}
	out := make([]byte, len(in))
	copy(out, in)
	return out
}

func atoi(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}
