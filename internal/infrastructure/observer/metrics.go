package observer

import (
	cartapp "github.com/xiebiao/storefront/internal/application/cart"
	"github.com/xiebiao/storefront/pkg/metrics"
)

// Metrics 把对账事件转成Prometheus指标
type Metrics struct {
	m *metrics.Metrics
}

// NewMetrics 创建指标观察者
func NewMetrics(m *metrics.Metrics) *Metrics {
	return &Metrics{m: m}
}

// Observe 实现cartapp.Observer
func (o *Metrics) Observe(ev cartapp.Event) {
	backend := string(ev.Backend)

	switch ev.Kind {
	case cartapp.EventPersist:
		o.m.CartPersistTotal.WithLabelValues(backend, metrics.Result(ev.Err == nil)).Inc()
		o.m.CartPersistDuration.WithLabelValues(backend).Observe(ev.Duration.Seconds())
	case cartapp.EventLoad:
		o.m.CartLoadTotal.WithLabelValues(backend, metrics.Result(ev.Err == nil)).Inc()
	case cartapp.EventLoadFallback:
		o.m.CartLoadTotal.WithLabelValues(backend, "fallback").Inc()
	case cartapp.EventDecodeFailed:
		o.m.CartLoadTotal.WithLabelValues(backend, "malformed").Inc()
	case cartapp.EventMerge:
		o.m.CartMergeTotal.Inc()
	case cartapp.EventMergeSkip:
		o.m.CartMergeSkipsTotal.WithLabelValues(ev.Reason).Inc()
	case cartapp.EventMergeFailed:
		o.m.CartMergeFailedTotal.WithLabelValues(ev.Reason).Inc()
	}
}
