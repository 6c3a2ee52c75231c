package order

import (
	"context"

	"github.com/xiebiao/storefront/internal/domain/order"
)

// QueryUseCase 订单查询
type QueryUseCase struct {
	orders   order.Repository
	currency string
}

// NewQueryUseCase 创建订单查询用例
func NewQueryUseCase(orders order.Repository, currency string) *QueryUseCase {
	return &QueryUseCase{orders: orders, currency: currency}
}

// OrderListResponse 订单列表
type OrderListResponse struct {
	List     []OrderDTO `json:"list"`
	Total    int64      `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
}

// List 按创建时间倒序分页查询当前用户的订单
func (uc *QueryUseCase) List(ctx context.Context, userID uint, page, pageSize int) (*OrderListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	orders, total, err := uc.orders.ListByUserID(ctx, userID, page, pageSize)
	if err != nil {
		return nil, err
	}
	list := make([]OrderDTO, len(orders))
	for i, o := range orders {
		list[i] = toDTO(o, uc.currency)
	}
	return &OrderListResponse{List: list, Total: total, Page: page, PageSize: pageSize}, nil
}

// Get 查询订单详情,不属于当前用户的订单按不存在处理
func (uc *QueryUseCase) Get(ctx context.Context, userID uint, orderNo string) (*OrderDTO, error) {
	o, err := uc.orders.FindByOrderNo(ctx, orderNo)
	if err != nil {
		return nil, err
	}
	if !o.IsOwnedBy(userID) {
		return nil, order.ErrOrderNotFound
	}
	dto := toDTO(o, uc.currency)
	return &dto, nil
}
