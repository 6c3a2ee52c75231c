package order

import (
	"context"

	"github.com/xiebiao/storefront/internal/domain/book"
	"github.com/xiebiao/storefront/internal/domain/order"
)

// CancelOrderUseCase 取消订单并归还库存
type CancelOrderUseCase struct {
	orders   order.Repository
	books    book.Repository
	tx       Transactor
	currency string
}

// NewCancelOrderUseCase 创建取消订单用例
func NewCancelOrderUseCase(orders order.Repository, books book.Repository, tx Transactor, currency string) *CancelOrderUseCase {
	return &CancelOrderUseCase{orders: orders, books: books, tx: tx, currency: currency}
}

// Execute 只有待支付或已支付的订单可以取消
func (uc *CancelOrderUseCase) Execute(ctx context.Context, userID uint, orderNo string) (*OrderDTO, error) {
	var cancelled *order.Order
	err := uc.tx.Transaction(ctx, func(txCtx context.Context) error {
		o, err := uc.orders.FindByOrderNo(txCtx, orderNo)
		if err != nil {
			return err
		}
		if !o.IsOwnedBy(userID) {
			return order.ErrOrderNotFound
		}
		if err := o.Cancel(); err != nil {
			return err
		}
		if err := uc.orders.UpdateStatus(txCtx, o); err != nil {
			return err
		}
		for _, item := range o.Items {
			if err := uc.books.UpdateStock(txCtx, item.BookID, item.Quantity); err != nil {
				return err
			}
		}
		cancelled = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := toDTO(cancelled, uc.currency)
	return &dto, nil
}
