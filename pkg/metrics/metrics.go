// Package metrics Prometheus指标
//
// 所有指标挂在一个Metrics实例上,由调用方传入Registerer注册,
// 测试使用独立的prometheus.NewRegistry(),互不干扰。
//
// 命名约定:
//   - Counter以_total结尾
//   - Histogram以单位结尾(_seconds)
//   - 标签只使用有限取值(method、status、backend、result),不使用user_id
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// Metrics 服务指标集合
type Metrics struct {
	// HTTP
	HTTPRequestsTotal      *prometheus.CounterVec
	HTTPRequestDuration    *prometheus.HistogramVec
	HTTPRequestsInProgress prometheus.Gauge

	// 购物车
	CartPersistTotal     *prometheus.CounterVec
	CartPersistDuration  *prometheus.HistogramVec
	CartLoadTotal        *prometheus.CounterVec
	CartMergeTotal       prometheus.Counter
	CartMergeSkipsTotal  *prometheus.CounterVec
	CartMergeFailedTotal *prometheus.CounterVec
	CartSessionsActive   prometheus.Gauge

	// 熔断器
	BreakerState    *prometheus.GaugeVec
	BreakerRejected *prometheus.CounterVec

	// 下单
	SagaExecutionsTotal    *prometheus.CounterVec
	SagaCompensationsTotal prometheus.Counter
	OrdersCreatedTotal     prometheus.Counter
}

// New 创建并注册全部指标
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP请求总数",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP请求耗时",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"method", "path"}),
		HTTPRequestsInProgress: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_progress",
			Help:      "处理中的HTTP请求数",
		}),

		CartPersistTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cart",
			Name:      "persist_total",
			Help:      "购物车写回次数",
		}, []string{"backend", "result"}),
		CartPersistDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "cart",
			Name:      "persist_duration_seconds",
			Help:      "购物车写回耗时",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}, []string{"backend"}),
		CartLoadTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cart",
			Name:      "load_total",
			Help:      "购物车加载次数",
		}, []string{"backend", "result"}),
		CartMergeTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cart",
			Name:      "merge_total",
			Help:      "登录合并次数",
		}),
		CartMergeSkipsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cart",
			Name:      "merge_skips_total",
			Help:      "登录合并跳过的行数",
		}, []string{"reason"}),
		CartMergeFailedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cart",
			Name:      "merge_failed_total",
			Help:      "登录合并中失败的步骤数",
		}, []string{"reason"}),
		CartSessionsActive: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "cart",
			Name:      "sessions_active",
			Help:      "活跃的购物车会话数",
		}),

		BreakerState: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "breaker",
			Name:      "state",
			Help:      "熔断器状态(0=closed,1=open,2=half_open)",
		}, []string{"name"}),
		BreakerRejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "breaker",
			Name:      "rejected_total",
			Help:      "熔断期间被拒绝的调用数",
		}, []string{"name"}),

		SagaExecutionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "saga",
			Name:      "executions_total",
			Help:      "Saga执行次数",
		}, []string{"saga", "result"}),
		SagaCompensationsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "saga",
			Name:      "compensations_total",
			Help:      "执行的补偿步骤数",
		}),
		OrdersCreatedTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "创建成功的订单数",
		}),
	}
}

// ObserveHTTP 记录一次HTTP请求
func (m *Metrics) ObserveHTTP(method, path string, status int, d time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// ObserveSaga 记录一次Saga执行结果
func (m *Metrics) ObserveSaga(name string, ok bool, compensated int) {
	m.SagaExecutionsTotal.WithLabelValues(name, Result(ok)).Inc()
	m.SagaCompensationsTotal.Add(float64(compensated))
}

// Result 把成功与否映射为result标签值
func Result(ok bool) string {
	if ok {
		return "success"
	}
	return "error"
}
