// Package events 购物车与订单领域事件的消息格式及发布
package events

import (
	"context"
	"time"

	"go.uber.org/zap"

	cartapp "github.com/xiebiao/storefront/internal/application/cart"
)

// Routing keys
const (
	KeyCartMerged        = "cart.merged"
	KeyCartPersistFailed = "cart.persist_failed"
	KeyOrderCheckedOut   = "order.checked_out"
)

// Message 消息体
type Message struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id,omitempty"`
	BookID     string    `json:"book_id,omitempty"`
	OrderNo    string    `json:"order_no,omitempty"`
	Items      int       `json:"items"`
	TotalCents int64     `json:"total_cents,omitempty"`
	Backend    string    `json:"backend,omitempty"`
	Error      string    `json:"error,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher 消息发布接口(由mq.Publisher实现)
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// Bus 事件发布器
// 发布失败只记录日志,不影响购物车与下单流程
type Bus struct {
	pub     Publisher
	log     *zap.Logger
	timeout time.Duration
	now     func() time.Time
}

// NewBus 创建事件发布器
func NewBus(pub Publisher, log *zap.Logger) *Bus {
	return &Bus{pub: pub, log: log, timeout: 2 * time.Second, now: time.Now}
}

// Observe 实现cartapp.Observer:只转发合并完成与写回失败
func (b *Bus) Observe(ev cartapp.Event) {
	switch {
	case ev.Kind == cartapp.EventMerge:
		b.publish(KeyCartMerged, Message{
			Type:    KeyCartMerged,
			UserID:  ev.UserID,
			Items:   ev.Items,
			Backend: string(ev.Backend),
		})
	case ev.Kind == cartapp.EventPersist && ev.Err != nil:
		b.publish(KeyCartPersistFailed, Message{
			Type:    KeyCartPersistFailed,
			UserID:  ev.UserID,
			Items:   ev.Items,
			Backend: string(ev.Backend),
			Error:   ev.Err.Error(),
		})
	}
}

// OrderCheckedOut 发布下单完成事件
func (b *Bus) OrderCheckedOut(userID, orderNo string, items int, totalCents int64) {
	b.publish(KeyOrderCheckedOut, Message{
		Type:       KeyOrderCheckedOut,
		UserID:     userID,
		OrderNo:    orderNo,
		Items:      items,
		TotalCents: totalCents,
	})
}

func (b *Bus) publish(key string, msg Message) {
	msg.OccurredAt = b.now().UTC()

	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	if err := b.pub.Publish(ctx, key, msg); err != nil {
		b.log.Warn("publish event failed", zap.String("routing_key", key), zap.Error(err))
	}
}

// LogPublisher 未启用消息队列时使用,只把事件写入Debug日志
type LogPublisher struct {
	log *zap.Logger
}

// NewLogPublisher 创建日志发布器
func NewLogPublisher(log *zap.Logger) *LogPublisher {
	return &LogPublisher{log: log.Named("events")}
}

// Publish 实现Publisher
func (p *LogPublisher) Publish(_ context.Context, routingKey string, message interface{}) error {
	p.log.Debug("event", zap.String("routing_key", routingKey), zap.Any("message", message))
	return nil
}
