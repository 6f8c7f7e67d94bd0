// Package metrics 提供基于Prometheus的指标收集
//
// # 指标类型
//
//   - Counter（计数器）：只增不减，如HTTP请求总数、导入行数
//   - Gauge（仪表盘）：可增可减，如正在处理的请求数、正在执行的导入数
//   - Histogram（直方图）：观测值分布，如请求耗时、单批写入耗时
//
// # 使用示例
//
//	// 1. 程序启动时初始化（metrics.enabled=true时）
//	metrics.InitMetrics()
//
//	// 2. 暴露/metrics端点
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
//	// 3. 业务代码通过便捷函数记录
//	metrics.IncCounter(metrics.PostsCreatedTotal)
//	metrics.ObserveHistogram(metrics.ImportBatchDuration, time.Since(start).Seconds())
//
// 便捷函数对未初始化的指标（nil）直接忽略，关闭指标时业务代码无需判断。
//
// # 命名规范
//
//  1. Counter以`_total`结尾：`post_imported_rows_total`
//  2. Histogram以单位结尾：`post_import_duration_seconds`
//  3. 标签只用有限取值（method、status、result），不要用post_id
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// initialized 标记是否已初始化（防止重复注册）
	initialized bool

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数（Counter）
	// 标签：method（GET/POST）、path（路由模板，如/api/posts/:id）、status（200/404）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时（Histogram）
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数（Gauge）
	HTTPRequestsInProgress prometheus.Gauge

	// 帖子业务指标

	// PostsCreatedTotal 单条创建的帖子总数（Counter）
	PostsCreatedTotal prometheus.Counter

	// PostsDeletedTotal 删除的帖子总数（Counter）
	PostsDeletedTotal prometheus.Counter

	// PostViewsTotal 详情查询导致的浏览数递增总数（Counter）
	PostViewsTotal prometheus.Counter

	// 批量导入指标

	// ImportsTotal 导入执行总数（Counter）
	// 标签：result（success/failure）
	ImportsTotal *prometheus.CounterVec

	// ImportedRowsTotal 成功写入的导入行数（Counter）
	ImportedRowsTotal prometheus.Counter

	// ImportDuration 单次导入耗时（Histogram）
	ImportDuration prometheus.Histogram

	// ImportBatchDuration 单批INSERT耗时（Histogram）
	ImportBatchDuration prometheus.Histogram

	// ImportsInProgress 正在执行的导入数（Gauge）
	ImportsInProgress prometheus.Gauge

	// 列表缓存指标

	// ListCacheRequests 列表缓存访问总数（Counter）
	// 标签：result（hit/miss/error）
	ListCacheRequests *prometheus.CounterVec
)

// InitMetrics 初始化所有Prometheus指标
//
// 必须在程序启动时调用一次，用于注册所有指标到全局Registry
func InitMetrics() {
	// 防止重复初始化
	if initialized {
		return
	}
	initialized = true

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP请求耗时（秒）",
			// 1ms、10ms、100ms、500ms、1s、5s、10s
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	PostsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "posts_created_total",
			Help: "单条创建的帖子总数",
		},
	)

	PostsDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "posts_deleted_total",
			Help: "删除的帖子总数",
		},
	)

	PostViewsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "post_views_total",
			Help: "帖子浏览数递增总数",
		},
	)

	ImportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "post_imports_total",
			Help: "批量导入执行总数",
		},
		[]string{"result"},
	)

	ImportedRowsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "post_imported_rows_total",
			Help: "批量导入成功写入的行数",
		},
	)

	ImportDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "post_import_duration_seconds",
			Help: "单次批量导入耗时（秒）",
			// 导入文件可能有几十万行，桶上限放宽到5分钟
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
	)

	ImportBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "post_import_batch_duration_seconds",
			Help:    "单批INSERT耗时（秒）",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	ImportsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "post_imports_in_progress",
			Help: "正在执行的批量导入数",
		},
	)

	ListCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "post_list_cache_requests_total",
			Help: "帖子列表缓存访问总数",
		},
		[]string{"result"},
	)
}

// IncCounter 递增Counter（便捷函数）
func IncCounter(counter prometheus.Counter) {
	if counter == nil {
		return
	}
	counter.Inc()
}

// AddCounter Counter增加指定值
func AddCounter(counter prometheus.Counter, value float64) {
	if counter == nil {
		return
	}
	counter.Add(value)
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	if counter == nil {
		return
	}
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	if gauge == nil {
		return
	}
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	if gauge == nil {
		return
	}
	gauge.Dec()
}

// ObserveHistogram 记录Histogram观测值
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	if histogram == nil {
		return
	}
	histogram.Observe(value)
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	if histogram == nil {
		return
	}
	histogram.With(labels).Observe(value)
}
