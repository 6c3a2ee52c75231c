package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xiebiao/storefront/internal/infrastructure/events"
	"github.com/xiebiao/storefront/pkg/mq"
)

func TestHandle(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := handle(zap.New(core))

	err := h(context.Background(), mq.Delivery{
		RoutingKey: events.KeyOrderCheckedOut,
		Body:       []byte(`{"type":"order.checked_out","user_id":"7","order_no":"ORD1","items":3,"total_cents":4206}`),
	})
	require.NoError(t, err)

	err = h(context.Background(), mq.Delivery{
		RoutingKey: events.KeyCartPersistFailed,
		Body:       []byte(`{"type":"cart.persist_failed","backend":"remote","error":"boom"}`),
	})
	require.NoError(t, err)

	// 格式错误也确认,不重投
	err = h(context.Background(), mq.Delivery{RoutingKey: events.KeyCartMerged, Body: []byte(`{`)})
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "order checked out", entries[0].Message)
	assert.Equal(t, int64(4206), entries[0].ContextMap()["total_cents"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
	assert.Equal(t, "malformed event", entries[2].Message)
}

func TestRootCmdFlags(t *testing.T) {
	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"-c", "/tmp/app.yaml", "--keys", "order.#"}))

	cfg, err := cmd.Flags().GetString("config")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/app.yaml", cfg)

	queue, err := cmd.Flags().GetString("queue")
	require.NoError(t, err)
	assert.Equal(t, "storefront.cart.audit", queue)

	keys, err := cmd.Flags().GetStringSlice("keys")
	require.NoError(t, err)
	assert.Equal(t, []string{"order.#"}, keys)
}
