//go:build !linux

package diag

// rss: 非 Linux 平台不读取驻留集，回退到 runtime 统计。
func rss() (int64, bool) { return 0, false }
