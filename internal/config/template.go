package config

import "encoding/json"

// DefaultTemplateConfig 返回一个“可运行”的默认配置模板：
// - 输入 ./inputs，输出 ./outputs，顺序处理；
// - 组件名采用仓库内置实现；
// - Options 列出全部键，值为中性默认。
func DefaultTemplateConfig() Config {
	cfg := Defaults()
	cfg.Logging.Dir = "logs"
	cfg.Options.Reader = json.RawMessage(`{
  "buf_size": 65536,
  "allow_exts": [".txt"],
  "recursive": false,
  "exclude_dir_names": [".git", "node_modules", "vendor"]
}`)
	cfg.Options.Splitter = json.RawMessage(`{
  "buf_size": 65536,
  "max_line_bytes": 0,
  "fields": false
}`)
	cfg.Options.Parser = json.RawMessage(`{
  "min": -1023,
  "max": 1024
}`)
	cfg.Options.Collector = json.RawMessage(`{
  "size_hint": 0
}`)
	// quick 无配置项；切换到 counting 时可填 min/max
	cfg.Options.Sorter = json.RawMessage(`{}`)
	cfg.Options.Assembler = json.RawMessage(`{}`)
	cfg.Options.Writer = json.RawMessage(`{
  "atomic": true,
  "perm_file": 0,
  "perm_dir": 0,
  "buf_size": 65536
}`)
	return cfg
}
