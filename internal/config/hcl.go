package config

import (
	"encoding/json"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// hclConfig HCL 文件的镜像结构；未出现的属性保持 nil，合并时不覆盖。
//
//	input_dir   = "inputs"
//	output_dir  = "outputs"
//	concurrency = 2
//	logging { level = "debug" }
//	components { sorter = "counting" }
//	options "reader" { allow_exts = [".txt"] }
type hclConfig struct {
	InputDir    *string        `hcl:"input_dir,optional"`
	OutputDir   *string        `hcl:"output_dir,optional"`
	Concurrency *int           `hcl:"concurrency,optional"`
	Logging     *hclLogging    `hcl:"logging,block"`
	Metrics     *hclMetrics    `hcl:"metrics,block"`
	Components  *hclComponents `hcl:"components,block"`
	Options     []hclOptions   `hcl:"options,block"`
}

type hclLogging struct {
	Level *string `hcl:"level,optional"`
	Dir   *string `hcl:"dir,optional"`
}

type hclMetrics struct {
	File *string `hcl:"file,optional"`
}

type hclComponents struct {
	Reader    *string `hcl:"reader,optional"`
	Splitter  *string `hcl:"splitter,optional"`
	Parser    *string `hcl:"parser,optional"`
	Collector *string `hcl:"collector,optional"`
	Sorter    *string `hcl:"sorter,optional"`
	Assembler *string `hcl:"assembler,optional"`
	Writer    *string `hcl:"writer,optional"`
}

// hclOptions 组件 Options 块；属性集合由各组件工厂严格校验，此处只做形态转换。
type hclOptions struct {
	Kind string   `hcl:"kind,label"`
	Body hcl.Body `hcl:",remain"`
}

// LoadHCL 从文件路径或原始源码解析 HCL 配置。
// options 块内的属性经 cty 转为 JSON，交给工厂按严格 JSON 解码。
func LoadHCL(path string, src []byte) (Config, error) {
	parser := hclparse.NewParser()
	var (
		f     *hcl.File
		diags hcl.Diagnostics
	)
	switch {
	case len(src) > 0:
		name := path
		if name == "" {
			name = "config.hcl"
		}
		f, diags = parser.ParseHCL(src, name)
	case path != "":
		f, diags = parser.ParseHCLFile(path)
	default:
		return Config{}, fmt.Errorf("no config source provided")
	}
	if diags.HasErrors() {
		return Config{}, fmt.Errorf("failed to parse HCL config %s: %w", path, diags)
	}

	var parsed hclConfig
	if diags := gohcl.DecodeBody(f.Body, nil, &parsed); diags.HasErrors() {
		return Config{}, fmt.Errorf("failed to decode HCL config %s: %w", path, diags)
	}

	var cfg Config
	setStr(&cfg.InputDir, parsed.InputDir)
	setStr(&cfg.OutputDir, parsed.OutputDir)
	if parsed.Concurrency != nil {
		cfg.Concurrency = *parsed.Concurrency
	}
	if l := parsed.Logging; l != nil {
		setStr(&cfg.Logging.Level, l.Level)
		setStr(&cfg.Logging.Dir, l.Dir)
	}
	if m := parsed.Metrics; m != nil {
		setStr(&cfg.Metrics.File, m.File)
	}
	if c := parsed.Components; c != nil {
		setStr(&cfg.Components.Reader, c.Reader)
		setStr(&cfg.Components.Splitter, c.Splitter)
		setStr(&cfg.Components.Parser, c.Parser)
		setStr(&cfg.Components.Collector, c.Collector)
		setStr(&cfg.Components.Sorter, c.Sorter)
		setStr(&cfg.Components.Assembler, c.Assembler)
		setStr(&cfg.Components.Writer, c.Writer)
	}

	seen := make(map[string]bool, len(parsed.Options))
	for _, o := range parsed.Options {
		p := cfg.Options.slot(o.Kind)
		if p == nil {
			return Config{}, fmt.Errorf("config %s: unknown options kind %q", path, o.Kind)
		}
		if seen[o.Kind] {
			return Config{}, fmt.Errorf("config %s: duplicate options %q", path, o.Kind)
		}
		seen[o.Kind] = true
		raw, err := bodyJSON(o.Body)
		if err != nil {
			return Config{}, fmt.Errorf("config %s: options %q: %w", path, o.Kind, err)
		}
		*p = raw
	}
	return cfg, nil
}

// bodyJSON 将仅含属性的 HCL body 求值为 cty 对象并编码为 JSON。
func bodyJSON(body hcl.Body) (json.RawMessage, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}
	vals := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		v, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		vals[name] = v
	}
	if len(vals) == 0 {
		return json.RawMessage(`{}`), nil
	}
	b, err := ctyjson.SimpleJSONValue{Value: cty.ObjectVal(vals)}.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return json.RawMessage(b), nil
}

func setStr(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
