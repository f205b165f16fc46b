package diag

import "runtime"

// MemorySample 返回当前进程驻留内存（字节）；无法获取时返回 0。
func MemorySample() int64 {
	if v, ok := rss(); ok {
		return v
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return int64(ms.Sys)
}
