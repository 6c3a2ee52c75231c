package order

import (
	"time"
)

// OrderStatus 订单状态
type OrderStatus int

const (
	OrderStatusPending   OrderStatus = 1 // 待支付
	OrderStatusPaid      OrderStatus = 2 // 已支付
	OrderStatusShipped   OrderStatus = 3 // 已发货
	OrderStatusCompleted OrderStatus = 4 // 已完成
	OrderStatusCancelled OrderStatus = 5 // 已取消
)

// String 实现Stringer
func (s OrderStatus) String() string {
	switch s {
	case OrderStatusPending:
		return "pending"
	case OrderStatusPaid:
		return "paid"
	case OrderStatusShipped:
		return "shipped"
	case OrderStatusCompleted:
		return "completed"
	case OrderStatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// 合法的状态转换,已完成与已取消为终态
var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending: {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:    {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped: {OrderStatusCompleted},
}

// Amounts 订单金额(分),下单时由购物车计价得出后固化
type Amounts struct {
	Subtotal int64
	Tax      int64
	Shipping int64
	Total    int64
}

// Order 订单(聚合根)
type Order struct {
	ID             uint
	OrderNo        string
	UserID         uint
	Amounts        Amounts
	ShippingMethod string
	Status         OrderStatus
	Items          []OrderItem
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OrderItem 订单明细,Price为下单时单价快照
type OrderItem struct {
	ID       uint
	OrderID  uint
	BookID   uint
	Quantity int
	Price    int64
}

// NewOrder 创建待支付订单
func NewOrder(orderNo string, userID uint, items []OrderItem, amounts Amounts, shippingMethod string) *Order {
	now := time.Now()
	return &Order{
		OrderNo:        orderNo,
		UserID:         userID,
		Amounts:        amounts,
		ShippingMethod: shippingMethod,
		Status:         OrderStatusPending,
		Items:          items,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// CanTransitionTo 检查状态转换是否合法
func (o *Order) CanTransitionTo(target OrderStatus) bool {
	for _, allowed := range transitions[o.Status] {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionTo 状态转换
func (o *Order) TransitionTo(target OrderStatus) error {
	if !o.CanTransitionTo(target) {
		return ErrInvalidStatusTransition
	}
	o.Status = target
	o.UpdatedAt = time.Now()
	return nil
}

// Cancel 取消订单
func (o *Order) Cancel() error {
	return o.TransitionTo(OrderStatusCancelled)
}

// ItemsSubtotal 按明细重新计算的商品小计
func (o *Order) ItemsSubtotal() int64 {
	var sum int64
	for _, item := range o.Items {
		sum += item.Price * int64(item.Quantity)
	}
	return sum
}

// IsOwnedBy 订单是否属于指定用户
func (o *Order) IsOwnedBy(userID uint) bool {
	return o.UserID == userID
}
