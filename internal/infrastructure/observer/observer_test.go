package observer

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	cartapp "github.com/xiebiao/storefront/internal/application/cart"
	"github.com/xiebiao/storefront/pkg/metrics"
)

func TestLogging_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	o := NewLogging(zap.New(core))

	o.Observe(cartapp.Event{Kind: cartapp.EventPersist, Backend: cartapp.BackendLocal, Seq: 3, Items: 2})
	o.Observe(cartapp.Event{Kind: cartapp.EventPersist, Backend: cartapp.BackendRemote, UserID: "7", Err: errors.New("db down")})
	o.Observe(cartapp.Event{Kind: cartapp.EventMergeSkip, UserID: "7", BookID: "b1", Reason: "inactive"})
	o.Observe(cartapp.Event{Kind: cartapp.EventLoadFallback, Backend: cartapp.BackendRemote, Err: errors.New("timeout")})
	o.Observe(cartapp.Event{Kind: cartapp.EventMerge, UserID: "7", Items: 2, Duration: time.Millisecond})

	entries := logs.AllUntimed()
	if assert.Len(t, entries, 5) {
		assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
		assert.Equal(t, uint64(3), entries[0].ContextMap()["seq"])
		assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
		assert.Equal(t, "7", entries[1].ContextMap()["user_id"])
		assert.Equal(t, "inactive", entries[2].ContextMap()["reason"])
		assert.Equal(t, zapcore.WarnLevel, entries[3].Level)
		assert.Equal(t, zapcore.InfoLevel, entries[4].Level)
		assert.Equal(t, "cart", entries[4].LoggerName)
	}
}

func TestMetrics_Observe(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	o := NewMetrics(m)

	o.Observe(cartapp.Event{Kind: cartapp.EventPersist, Backend: cartapp.BackendLocal})
	o.Observe(cartapp.Event{Kind: cartapp.EventPersist, Backend: cartapp.BackendRemote, Err: errors.New("x")})
	o.Observe(cartapp.Event{Kind: cartapp.EventLoadFallback, Backend: cartapp.BackendRemote})
	o.Observe(cartapp.Event{Kind: cartapp.EventMerge})
	o.Observe(cartapp.Event{Kind: cartapp.EventMergeSkip, Reason: "not_found"})
	o.Observe(cartapp.Event{Kind: cartapp.EventMergeSkip, Reason: "not_found"})
	o.Observe(cartapp.Event{Kind: cartapp.EventMergeFailed, Reason: "upsert"})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CartPersistTotal.WithLabelValues("local", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CartPersistTotal.WithLabelValues("remote", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CartLoadTotal.WithLabelValues("remote", "fallback")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CartMergeTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CartMergeSkipsTotal.WithLabelValues("not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CartMergeFailedTotal.WithLabelValues("upsert")))
}
