// Package breaker 用熔断器保护远端购物车存储
package breaker

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/storefront/internal/domain/cart"
	"github.com/xiebiao/storefront/internal/infrastructure/config"
	"github.com/xiebiao/storefront/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
	"github.com/xiebiao/storefront/pkg/metrics"
)

// RemoteStore 熔断保护的cart.RemoteStore
// 熔断打开时直接返回circuitbreaker.ErrOpenState,
// 对账器据此回退到访客购物车,不会等待数据库超时
type RemoteStore struct {
	next cart.RemoteStore
	cb   *circuitbreaker.CircuitBreaker
	m    *metrics.Metrics
}

// NewRemoteStore 创建熔断保护的远端存储;m可以为nil
func NewRemoteStore(next cart.RemoteStore, cfg config.BreakerConfig, m *metrics.Metrics, log *zap.Logger) *RemoteStore {
	const name = "cart_remote"
	cb := circuitbreaker.New(name, circuitbreaker.Config{
		MaxRequests:  cfg.MaxRequests,
		Interval:     cfg.Interval,
		Timeout:      cfg.Timeout,
		ReadyToTrip:  circuitbreaker.TripAfter(cfg.ConsecutiveFailures),
		IsSuccessful: isSuccessful,
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to),
			)
			if m != nil {
				m.BreakerState.WithLabelValues(name).Set(float64(to))
			}
		},
	})
	if m != nil {
		m.BreakerState.WithLabelValues(name).Set(float64(circuitbreaker.StateClosed))
	}
	return &RemoteStore{next: next, cb: cb, m: m}
}

// isSuccessful 业务错误(4xxxx)不计入失败
func isSuccessful(err error) bool {
	return err == nil || apperrors.IsBusiness(err)
}

// State 当前熔断状态
func (s *RemoteStore) State() circuitbreaker.State {
	return s.cb.State()
}

func (s *RemoteStore) execute(fn func() error) error {
	err := s.cb.Execute(fn)
	if err == circuitbreaker.ErrOpenState && s.m != nil {
		s.m.BreakerRejected.WithLabelValues(s.cb.Name()).Inc()
	}
	return err
}

// ListByUser 实现cart.RemoteStore
func (s *RemoteStore) ListByUser(ctx context.Context, userID string) ([]cart.LineItem, error) {
	var items []cart.LineItem
	err := s.execute(func() error {
		var err error
		items, err = s.next.ListByUser(ctx, userID)
		return err
	})
	return items, err
}

// DeleteAllByUser 实现cart.RemoteStore
func (s *RemoteStore) DeleteAllByUser(ctx context.Context, userID string) error {
	return s.execute(func() error { return s.next.DeleteAllByUser(ctx, userID) })
}

// InsertMany 实现cart.RemoteStore
func (s *RemoteStore) InsertMany(ctx context.Context, userID string, items []cart.LineItem) error {
	return s.execute(func() error { return s.next.InsertMany(ctx, userID, items) })
}

// UpsertOne 实现cart.RemoteStore
func (s *RemoteStore) UpsertOne(ctx context.Context, userID, bookID string, quantity int) error {
	return s.execute(func() error { return s.next.UpsertOne(ctx, userID, bookID, quantity) })
}
