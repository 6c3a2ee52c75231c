// Package observer 购物车对账事件的日志与指标适配
package observer

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	cartapp "github.com/xiebiao/storefront/internal/application/cart"
)

// Logging 把对账事件写成结构化日志
type Logging struct {
	log *zap.Logger
}

// NewLogging 创建日志观察者
func NewLogging(log *zap.Logger) *Logging {
	return &Logging{log: log.Named("cart")}
}

// Observe 实现cartapp.Observer
func (o *Logging) Observe(ev cartapp.Event) {
	fields := []zap.Field{
		zap.String("event", string(ev.Kind)),
		zap.String("backend", string(ev.Backend)),
	}
	if ev.UserID != "" {
		fields = append(fields, zap.String("user_id", ev.UserID))
	}
	if ev.BookID != "" {
		fields = append(fields, zap.String("book_id", ev.BookID))
	}
	if ev.Reason != "" {
		fields = append(fields, zap.String("reason", ev.Reason))
	}
	if ev.Seq > 0 {
		fields = append(fields, zap.Uint64("seq", ev.Seq))
	}
	if ev.Duration > 0 {
		fields = append(fields, zap.Duration("duration", ev.Duration))
	}
	fields = append(fields, zap.Int("items", ev.Items))
	if ev.Err != nil {
		fields = append(fields, zap.Error(ev.Err))
	}

	if ce := o.log.Check(level(ev), message(ev.Kind)); ce != nil {
		ce.Write(fields...)
	}
}

func level(ev cartapp.Event) zapcore.Level {
	switch {
	case ev.Err != nil && ev.Kind == cartapp.EventPersist:
		return zapcore.ErrorLevel
	case ev.Err != nil, ev.Kind == cartapp.EventLoadFallback, ev.Kind == cartapp.EventDecodeFailed, ev.Kind == cartapp.EventMergeFailed:
		return zapcore.WarnLevel
	case ev.Kind == cartapp.EventMerge:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

func message(kind cartapp.EventKind) string {
	switch kind {
	case cartapp.EventPersist:
		return "cart persisted"
	case cartapp.EventLoad:
		return "cart loaded"
	case cartapp.EventLoadFallback:
		return "remote cart unavailable, falling back to guest cart"
	case cartapp.EventDecodeFailed:
		return "guest cart payload malformed, treated as empty"
	case cartapp.EventMerge:
		return "guest cart merged"
	case cartapp.EventMergeSkip:
		return "guest line skipped during merge"
	case cartapp.EventMergeFailed:
		return "merge step failed"
	default:
		return "cart event"
	}
}
