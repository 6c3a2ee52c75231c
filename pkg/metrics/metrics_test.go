package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestNew_RegistersOnIsolatedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	require.NotNil(t, m)

	// 同一Registry重复注册会panic
	assert.Panics(t, func() { New(reg) })
	// 不同Registry互不影响
	assert.NotPanics(t, func() { New(prometheus.NewRegistry()) })
}

func TestObserveHTTP(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveHTTP("GET", "/api/v1/cart", 200, 30*time.Millisecond)
	m.ObserveHTTP("GET", "/api/v1/cart", 200, 10*time.Millisecond)
	m.ObserveHTTP("POST", "/api/v1/cart/items", 404, time.Millisecond)

	assert.Equal(t, 2.0, counterValue(t, m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/cart", "200")))
	assert.Equal(t, 1.0, counterValue(t, m.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/cart/items", "404")))

	families, err := reg.Gather()
	require.NoError(t, err)
	var found bool
	for _, f := range families {
		if f.GetName() == "storefront_http_request_duration_seconds" {
			found = true
			assert.Len(t, f.GetMetric(), 2)
		}
	}
	assert.True(t, found)
}

func TestObserveSaga(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveSaga("checkout", true, 0)
	m.ObserveSaga("checkout", false, 2)

	assert.Equal(t, 1.0, counterValue(t, m.SagaExecutionsTotal.WithLabelValues("checkout", "success")))
	assert.Equal(t, 1.0, counterValue(t, m.SagaExecutionsTotal.WithLabelValues("checkout", "error")))
	assert.Equal(t, 2.0, counterValue(t, m.SagaCompensationsTotal))
}

func TestResult(t *testing.T) {
	assert.Equal(t, "success", Result(true))
	assert.Equal(t, "error", Result(false))
}
