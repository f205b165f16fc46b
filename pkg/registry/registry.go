package registry

import (
	"bytes"
	"encoding/json"
	"sort"

	"uniqint/pkg/contract"
	alines "uniqint/plugins/assembler/lines"
	chs "uniqint/plugins/collector/hashset"
	pbd "uniqint/plugins/parser/bounded"
	rfs "uniqint/plugins/reader/filesystem"
	scnt "uniqint/plugins/sorter/counting"
	squick "uniqint/plugins/sorter/quick"
	slines "uniqint/plugins/splitter/lines"
	wfs "uniqint/plugins/writer/filesystem"
)

// strictUnmarshal: 使用 DisallowUnknownFields 严格解码，拒绝未知字段。
func strictUnmarshal(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		// 保持零值（默认选项）
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// NewReader 工厂签名：接收原样 JSON Options。
type NewReader func(raw json.RawMessage) (contract.Reader, error)

// NewSplitter 工厂签名：接收原样 JSON Options。
type NewSplitter func(raw json.RawMessage) (contract.Splitter, error)

// NewParser 工厂签名：接收原样 JSON Options。
type NewParser func(raw json.RawMessage) (contract.LineParser, error)

// NewCollector 工厂签名：接收原样 JSON Options 与已装配的解析器。
type NewCollector func(raw json.RawMessage, p contract.LineParser) (contract.Collector, error)

// NewSorter 工厂签名：接收原样 JSON Options 与解析器值域。
type NewSorter func(raw json.RawMessage, rng contract.Range) (contract.Sorter, error)

// NewAssembler 工厂签名：接收原样 JSON Options。
type NewAssembler func(raw json.RawMessage) (contract.Assembler, error)

// NewWriter 工厂签名：接收原样 JSON Options。
type NewWriter func(raw json.RawMessage) (contract.Writer, error)

// Reader 工厂注册表（显式、零反射）。
var Reader = map[string]NewReader{
	// fs: 目录扫描 Reader（默认仅 .txt、不递归）
	"fs": func(raw json.RawMessage) (contract.Reader, error) {
		var opts rfs.Options
		if err := strictUnmarshal(raw, &opts); err != nil {
			return nil, err
		}
		return rfs.New(&opts), nil
	},
}

// Splitter 工厂注册表。
var Splitter = map[string]NewSplitter{
	// lines: 按行拆分（可选按空白再拆）
	"lines": func(raw json.RawMessage) (contract.Splitter, error) {
		var opts slines.Options
		if err := strictUnmarshal(raw, &opts); err != nil {
			return nil, err
		}
		return slines.New(&opts), nil
	},
}

// Parser 工厂注册表。
var Parser = map[string]NewParser{
	// bounded: 十进制整数 + 闭区间过滤
	"bounded": func(raw json.RawMessage) (contract.LineParser, error) {
		var opts pbd.Options
		if err := strictUnmarshal(raw, &opts); err != nil {
			return nil, err
		}
		return pbd.New(&opts)
	},
}

// Collector 工厂注册表。
var Collector = map[string]NewCollector{
	// hashset: 哈希集合去重
	"hashset": func(raw json.RawMessage, p contract.LineParser) (contract.Collector, error) {
		var opts chs.Options
		if err := strictUnmarshal(raw, &opts); err != nil {
			return nil, err
		}
		return chs.New(&opts, p)
	},
}

// Sorter 工厂注册表。
var Sorter = map[string]NewSorter{
	// quick: 末元素主元快速排序（默认）
	"quick": func(raw json.RawMessage, _ contract.Range) (contract.Sorter, error) {
		var opts struct{}
		if err := strictUnmarshal(raw, &opts); err != nil {
			return nil, err
		}
		return squick.New(), nil
	},
	// counting: 有界值域计数排序
	"counting": func(raw json.RawMessage, rng contract.Range) (contract.Sorter, error) {
		var opts scnt.Options
		if err := strictUnmarshal(raw, &opts); err != nil {
			return nil, err
		}
		return scnt.New(&opts, rng)
	},
}

// Assembler 工厂注册表。
var Assembler = map[string]NewAssembler{
	// lines: 每值一行十进制文本
	"lines": func(raw json.RawMessage) (contract.Assembler, error) {
		var opts alines.Options
		if err := strictUnmarshal(raw, &opts); err != nil {
			return nil, err
		}
		return alines.New(&opts), nil
	},
}

// Writer 工厂注册表。
var Writer = map[string]NewWriter{
	// fs: 文件系统 Writer（覆盖写/原子替换可配置）
	"fs": func(raw json.RawMessage) (contract.Writer, error) {
		var opts wfs.Options
		if err := strictUnmarshal(raw, &opts); err != nil {
			return nil, err
		}
		return wfs.New(&opts), nil
	},
}

// Names 返回注册表键的有序列表，用于错误提示与 --init-config。
func Names[F any](m map[string]F) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
