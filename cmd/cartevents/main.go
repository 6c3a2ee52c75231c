// cartevents 订阅购物车与订单事件并写入结构化日志
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xiebiao/storefront/internal/infrastructure/config"
	"github.com/xiebiao/storefront/internal/infrastructure/events"
	"github.com/xiebiao/storefront/pkg/logger"
	"github.com/xiebiao/storefront/pkg/mq"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		queue      string
		keys       []string
	)
	cmd := &cobra.Command{
		Use:           "cartevents",
		Short:         "订阅购物车与订单事件并写入结构化日志",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadFile(configPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
				return err
			}
			log := logger.MustNew(logger.Config(cfg.Log))
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return consume(ctx, cfg, queue, keys, log)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "config/config.yaml", "配置文件路径")
	cmd.Flags().StringVar(&queue, "queue", "storefront.cart.audit", "队列名")
	cmd.Flags().StringSliceVar(&keys, "keys", []string{"cart.#", "order.#"}, "绑定的routing key")
	return cmd
}

func consume(ctx context.Context, cfg *config.Config, queue string, keys []string, log *zap.Logger) error {
	consumer, err := mq.NewConsumer(cfg.MQ.URL, cfg.MQ.Exchange, mq.ExchangeTopic, queue, keys, log)
	if err != nil {
		log.Error("connect mq failed", zap.Error(err))
		return err
	}
	defer func() { _ = consumer.Close() }()

	log.Info("consuming",
		zap.String("exchange", cfg.MQ.Exchange),
		zap.String("queue", queue),
		zap.Strings("keys", keys),
	)
	if err := consumer.Consume(ctx, handle(log)); err != nil && ctx.Err() == nil {
		log.Error("consume stopped", zap.Error(err))
		return err
	}
	return nil
}

func handle(log *zap.Logger) func(context.Context, mq.Delivery) error {
	return func(_ context.Context, d mq.Delivery) error {
		var msg events.Message
		if err := d.Decode(&msg); err != nil {
			// 格式错误的消息重投也无法处理,记录后确认
			log.Warn("malformed event", zap.String("routing_key", d.RoutingKey), zap.Error(err))
			return nil
		}

		fields := []zap.Field{
			zap.String("routing_key", d.RoutingKey),
			zap.String("user_id", msg.UserID),
			zap.Int("items", msg.Items),
			zap.Time("occurred_at", msg.OccurredAt),
		}
		switch d.RoutingKey {
		case events.KeyCartPersistFailed:
			log.Warn("cart persist failed", append(fields, zap.String("backend", msg.Backend), zap.String("error", msg.Error))...)
		case events.KeyOrderCheckedOut:
			log.Info("order checked out", append(fields, zap.String("order_no", msg.OrderNo), zap.Int64("total_cents", msg.TotalCents))...)
		default:
			log.Info("cart event", fields...)
		}
		return nil
	}
}
