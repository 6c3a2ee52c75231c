package order

import (
	"context"
)

// Repository 订单仓储接口
// Create与UpdateStatus从context中获取事务
type Repository interface {
	// Create 创建订单及明细
	Create(ctx context.Context, order *Order) error

	FindByOrderNo(ctx context.Context, orderNo string) (*Order, error)

	// UpdateStatus 只更新状态
	UpdateStatus(ctx context.Context, order *Order) error

	// ListByUserID 按创建时间倒序分页
	ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*Order, int64, error)
}
