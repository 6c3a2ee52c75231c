// Package mq RabbitMQ发布/订阅封装(JSON消息体,持久化投递,手动确认)
package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// ExchangeTopic 按routing key通配符路由
const ExchangeTopic = "topic"

// Publisher 消息发布者
// amqp.Channel不是并发安全的,Publish内部加锁
type Publisher struct {
	conn     *amqp.Connection
	mu       sync.Mutex
	channel  *amqp.Channel
	exchange string
	log      *zap.Logger
}

// NewPublisher 连接RabbitMQ并声明持久化Exchange
func NewPublisher(url, exchange, kind string, log *zap.Logger) (*Publisher, error) {
	conn, ch, err := dial(url, exchange, kind)
	if err != nil {
		return nil, err
	}
	log.Info("mq publisher ready", zap.String("exchange", exchange), zap.String("kind", kind))
	return &Publisher{conn: conn, channel: ch, exchange: exchange, log: log}, nil
}

// Publish JSON序列化后发布
func (p *Publisher) Publish(ctx context.Context, routingKey string, message interface{}) error {
	msg, err := newMessage(message)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg); err != nil {
		return fmt.Errorf("发布消息失败: %w", err)
	}
	p.log.Debug("mq message published", zap.String("routing_key", routingKey), zap.Int("bytes", len(msg.Body)))
	return nil
}

// Close 关闭Channel与连接
func (p *Publisher) Close() error {
	return closeAll(p.channel, p.conn)
}

// Consumer 消息消费者
type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	log     *zap.Logger
}

// NewConsumer 声明Exchange与持久化队列,并按routingKeys绑定
func NewConsumer(url, exchange, kind, queue string, routingKeys []string, log *zap.Logger) (*Consumer, error) {
	conn, ch, err := dial(url, exchange, kind)
	if err != nil {
		return nil, err
	}

	q, err := ch.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		_ = closeAll(ch, conn)
		return nil, fmt.Errorf("声明Queue失败: %w", err)
	}
	for _, key := range routingKeys {
		if err := ch.QueueBind(q.Name, key, exchange, false, nil); err != nil {
			_ = closeAll(ch, conn)
			return nil, fmt.Errorf("绑定Queue失败: %w", err)
		}
	}

	return &Consumer{conn: conn, channel: ch, queue: q.Name, log: log}, nil
}

// Delivery 收到的消息
type Delivery struct {
	RoutingKey string
	Body       []byte
	Timestamp  time.Time
}

// Decode 反序列化消息体
func (d Delivery) Decode(v interface{}) error {
	return json.Unmarshal(d.Body, v)
}

// Consume 阻塞消费直到ctx取消
// handler返回error时消息重新入队,否则确认
func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, Delivery) error) error {
	if err := c.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("设置Qos失败: %w", err)
	}
	msgs, err := c.channel.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("开始消费失败: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("消息Channel已关闭")
			}
			d := Delivery{RoutingKey: msg.RoutingKey, Body: msg.Body, Timestamp: msg.Timestamp}
			if err := handler(ctx, d); err != nil {
				c.log.Warn("mq message requeued", zap.String("routing_key", msg.RoutingKey), zap.Error(err))
				_ = msg.Nack(false, true)
				continue
			}
			_ = msg.Ack(false)
		}
	}
}

// Close 关闭Channel与连接
func (c *Consumer) Close() error {
	return closeAll(c.channel, c.conn)
}

func dial(url, exchange, kind string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("连接RabbitMQ失败: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("创建Channel失败: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, kind, true, false, false, false, nil); err != nil {
		_ = closeAll(ch, conn)
		return nil, nil, fmt.Errorf("声明Exchange失败: %w", err)
	}
	return conn, ch, nil
}

func newMessage(v interface{}) (amqp.Publishing, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("消息序列化失败: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	}, nil
}

func closeAll(ch *amqp.Channel, conn *amqp.Connection) error {
	var firstErr error
	if ch != nil {
		if err := ch.Close(); err != nil {
			firstErr = err
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
