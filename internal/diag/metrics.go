package diag

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 进程内私有注册表（不注册到默认全局，避免测试/嵌入时重复注册）。
// - uniqint_op_total{comp,stage,result}
// - uniqint_error_total{comp,code}
// - uniqint_op_duration_ms{comp,stage}
// - uniqint_values_total
type metrics struct {
	reg      *prometheus.Registry
	ops      *prometheus.CounterVec
	errs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
	values   prometheus.Counter
}

var (
	metricsMu sync.RWMutex
	m         = newMetrics()
)

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &metrics{
		reg: reg,
		ops: f.NewCounterVec(prometheus.CounterOpts{
			Name: "uniqint_op_total",
			Help: "Operations by component, stage and result.",
		}, []string{"comp", "stage", "result"}),
		errs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "uniqint_error_total",
			Help: "Errors by component and classified code.",
		}, []string{"comp", "code"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "uniqint_op_duration_ms",
			Help:    "Stage duration in milliseconds.",
			Buckets: []float64{1, 5, 10, 50, 100, 500, 1000, 5000},
		}, []string{"comp", "stage"}),
		values: f.NewCounter(prometheus.CounterOpts{
			Name: "uniqint_values_total",
			Help: "Unique values written across all files.",
		}),
	}
}

func current() *metrics {
	metricsMu.RLock()
	defer metricsMu.RUnlock()
	return m
}

// ResetMetrics 丢弃已累计的指标（新一轮运行或测试）。
func ResetMetrics() {
	metricsMu.Lock()
	m = newMetrics()
	metricsMu.Unlock()
}

// IncOp 累加操作计数（result=success|error）。
func IncOp(comp, stage, result string) {
	current().ops.WithLabelValues(comp, stage, result).Inc()
}

// IncError 按分类累加错误计数。
func IncError(comp, code string) {
	current().errs.WithLabelValues(comp, code).Inc()
}

// ObserveDuration 记录阶段耗时（毫秒）。
func ObserveDuration(comp, stage string, durMS int64) {
	current().duration.WithLabelValues(comp, stage).Observe(float64(durMS))
}

// AddValues 累加写出的唯一值个数。
func AddValues(n int) {
	if n > 0 {
		current().values.Add(float64(n))
	}
}

// Gatherer 暴露注册表供导出与测试。
func Gatherer() prometheus.Gatherer { return current().reg }

// WriteMetrics 以 textfile collector 格式写出全部指标（原子替换）。
func WriteMetrics(path string) error {
	return prometheus.WriteToTextfile(path, current().reg)
}
