package config

import (
	"encoding/json"
)

// Config: 运行期只读配置（一次解析，运行期不变）。
// JSON/HCL 均使用 snake_case；JSON 未知字段在解析期失败。
type Config struct {
	InputDir    string `json:"input_dir" validate:"required"`
	OutputDir   string `json:"output_dir" validate:"required"`
	Concurrency int    `json:"concurrency" validate:"gte=1,lte=256"`

	Logging Logging `json:"logging"`
	Metrics Metrics `json:"metrics"`

	// 组件名选择（空则使用默认名）。
	Components Components `json:"components"`

	// 各组件 Options 子树，原样 JSON 传入工厂。
	Options Options `json:"options"`
}

// Logging: 日志等级与日志目录；轮转策略为固定默认。
type Logging struct {
	Level string `json:"level" validate:"omitempty,oneof=debug info warn error"`
	Dir   string `json:"dir"`
}

// Metrics: 运行结束时导出 textfile 格式指标；空则不导出。
type Metrics struct {
	File string `json:"file"`
}

// Components: 组件名选择（注册表中的实现名）。
type Components struct {
	Reader    string `json:"reader"`
	Splitter  string `json:"splitter"`
	Parser    string `json:"parser"`
	Collector string `json:"collector"`
	Sorter    string `json:"sorter"`
	Assembler string `json:"assembler"`
	Writer    string `json:"writer"`
}

// Options: 各组件的原样 JSON Options。
type Options struct {
	Reader    json.RawMessage `json:"reader,omitempty"`
	Splitter  json.RawMessage `json:"splitter,omitempty"`
	Parser    json.RawMessage `json:"parser,omitempty"`
	Collector json.RawMessage `json:"collector,omitempty"`
	Sorter    json.RawMessage `json:"sorter,omitempty"`
	Assembler json.RawMessage `json:"assembler,omitempty"`
	Writer    json.RawMessage `json:"writer,omitempty"`
}

// slot 返回 kind 对应的 Options 字段指针；未知 kind 返回 nil。
func (o *Options) slot(kind string) *json.RawMessage {
	switch kind {
	case "reader":
		return &o.Reader
	case "splitter":
		return &o.Splitter
	case "parser":
		return &o.Parser
	case "collector":
		return &o.Collector
	case "sorter":
		return &o.Sorter
	case "assembler":
		return &o.Assembler
	case "writer":
		return &o.Writer
	}
	return nil
}

// Kinds 组件种类（固定顺序）。
var Kinds = []string{"reader", "splitter", "parser", "collector", "sorter", "assembler", "writer"}
