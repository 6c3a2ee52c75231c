package order

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/storefront/internal/application/session"
	"github.com/xiebiao/storefront/internal/domain/book"
	"github.com/xiebiao/storefront/internal/domain/cart"
	"github.com/xiebiao/storefront/internal/domain/order"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
	"github.com/xiebiao/storefront/pkg/metrics"
	"github.com/xiebiao/storefront/pkg/money"
	"github.com/xiebiao/storefront/pkg/saga"
)

// Transactor 事务执行器(由mysql.TxManager实现)
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// CartSessions 购物车会话(由session.Manager实现)
type CartSessions interface {
	Sync(ctx context.Context, sessionID, userID string) (*session.Session, error)
}

// Notifier 下单完成通知(由events.Bus实现)
type Notifier interface {
	OrderCheckedOut(userID, orderNo string, items int, totalCents int64)
}

// CheckoutDeps 结算用例依赖;Notifier与Metrics可以为nil
type CheckoutDeps struct {
	Orders    order.Repository
	Books     book.Repository
	Tx        Transactor
	CartStore cart.RemoteStore
	Sessions  CartSessions
	Pricing   cart.Pricing
	Currency  string
	Notifier  Notifier
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
	Timeout   time.Duration
}

// CheckoutUseCase 购物车结算
//
// 以Saga编排两个本地事务:
//  1. reserve_stock:单个数据库事务内锁定库存行(SELECT ... FOR UPDATE)、校验上架与库存、
//     创建订单、扣减库存;补偿为取消订单并归还库存
//  2. clear_cart:清空用户远端购物车;补偿为按结算快照重新写入
//
// 成功后重新加载会话购物车,并发布order.checked_out事件
type CheckoutUseCase struct {
	d CheckoutDeps
}

// NewCheckoutUseCase 创建结算用例
func NewCheckoutUseCase(d CheckoutDeps) *CheckoutUseCase {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Pricing == (cart.Pricing{}) {
		d.Pricing = cart.DefaultPricing()
	}
	if d.Timeout <= 0 {
		d.Timeout = 10 * time.Second
	}
	return &CheckoutUseCase{d: d}
}

// CheckoutRequest 结算请求
type CheckoutRequest struct {
	UserID      uint
	CartSession string
}

// Execute 执行结算
// 订单按购物车中的价格快照计价,与结算前展示给用户的金额一致
func (uc *CheckoutUseCase) Execute(ctx context.Context, req CheckoutRequest) (*OrderDTO, error) {
	owner := strconv.FormatUint(uint64(req.UserID), 10)

	sess, err := uc.d.Sessions.Sync(ctx, req.CartSession, owner)
	if err != nil {
		return nil, err
	}
	rec := sess.Reconciler
	rec.Wait()

	snap := rec.Snapshot()
	if len(snap.Items) == 0 {
		return nil, cart.ErrEmptyCart
	}

	items := make([]order.OrderItem, len(snap.Items))
	for i, it := range snap.Items {
		id, err := strconv.ParseUint(it.BookID, 10, 64)
		if err != nil || id == 0 {
			return nil, apperrors.New(apperrors.ErrCodeCartItemInvalid, "购物车中存在无效的图书: "+it.BookID)
		}
		items[i] = order.OrderItem{BookID: uint(id), Quantity: it.Quantity, Price: it.UnitPriceCents}
	}

	totals := snap.Compute(uc.d.Pricing)
	created := order.NewOrder(order.GenerateOrderNo(), req.UserID, items, order.Amounts{
		Subtotal: totals.SubtotalCents,
		Tax:      totals.TaxCents,
		Shipping: totals.ShippingCents,
		Total:    totals.TotalCents,
	}, string(snap.ShippingMethod))

	s := saga.New("checkout", saga.WithTimeout(uc.d.Timeout), saga.WithLogger(uc.d.Logger)).
		AddStep("reserve_stock",
			func(ctx context.Context) error { return uc.reserve(ctx, created) },
			func(ctx context.Context) error { return uc.release(ctx, created) },
		).
		AddStep("clear_cart",
			func(ctx context.Context) error { return uc.d.CartStore.DeleteAllByUser(ctx, owner) },
			func(ctx context.Context) error { return uc.d.CartStore.InsertMany(ctx, owner, snap.Items) },
		)

	res := s.Execute(ctx)
	if uc.d.Metrics != nil {
		uc.d.Metrics.ObserveSaga("checkout", res.Err == nil, len(res.Compensated))
	}
	if res.Err != nil {
		if res.CompErr != nil {
			uc.d.Logger.Error("checkout compensation incomplete",
				zap.String("order_no", created.OrderNo),
				zap.Uint("user_id", req.UserID),
				zap.Error(res.CompErr),
			)
		}
		return nil, res.Err
	}

	rec.Load(ctx)

	if uc.d.Metrics != nil {
		uc.d.Metrics.OrdersCreatedTotal.Inc()
	}
	if uc.d.Notifier != nil {
		uc.d.Notifier.OrderCheckedOut(owner, created.OrderNo, totals.ItemCount, totals.TotalCents)
	}
	uc.d.Logger.Info("order checked out",
		zap.String("order_no", created.OrderNo),
		zap.Uint("user_id", req.UserID),
		zap.Int64("total_cents", totals.TotalCents),
	)

	dto := toDTO(created, uc.d.Currency)
	return &dto, nil
}

// reserve 锁定库存并创建订单,全部在一个事务内
func (uc *CheckoutUseCase) reserve(ctx context.Context, o *order.Order) error {
	return uc.d.Tx.Transaction(ctx, func(txCtx context.Context) error {
		for _, item := range o.Items {
			if item.Quantity <= 0 {
				return order.ErrInvalidQuantity
			}
			b, err := uc.d.Books.LockByID(txCtx, item.BookID)
			if err != nil {
				return err
			}
			if !b.Active {
				return cart.ErrBookInactive
			}
			if b.Stock < item.Quantity {
				return apperrors.New(apperrors.ErrCodeInsufficientStock, "图书《"+b.Title+"》库存不足")
			}
		}

		if err := uc.d.Orders.Create(txCtx, o); err != nil {
			return err
		}
		for _, item := range o.Items {
			if err := uc.d.Books.UpdateStock(txCtx, item.BookID, -item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
}

// release 取消订单并归还库存
func (uc *CheckoutUseCase) release(ctx context.Context, o *order.Order) error {
	return uc.d.Tx.Transaction(ctx, func(txCtx context.Context) error {
		if err := o.Cancel(); err != nil {
			return err
		}
		if err := uc.d.Orders.UpdateStatus(txCtx, o); err != nil {
			return err
		}
		for _, item := range o.Items {
			if err := uc.d.Books.UpdateStock(txCtx, item.BookID, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
}

// OrderDTO 订单输出
type OrderDTO struct {
	ID             uint           `json:"id"`
	OrderNo        string         `json:"order_no"`
	Status         string         `json:"status"`
	ShippingMethod string         `json:"shipping_method"`
	Subtotal       int64          `json:"subtotal_cents"`
	Tax            int64          `json:"tax_cents"`
	Shipping       int64          `json:"shipping_cents"`
	Total          int64          `json:"total_cents"`
	TotalDisplay   string         `json:"total_display"`
	Items          []OrderItemDTO `json:"items"`
	CreatedAt      string         `json:"created_at"`
}

// OrderItemDTO 订单明细输出
type OrderItemDTO struct {
	BookID   uint  `json:"book_id"`
	Quantity int   `json:"quantity"`
	Price    int64 `json:"price_cents"`
}

func toDTO(o *order.Order, currency string) OrderDTO {
	total := o.Amounts.Total
	items := make([]OrderItemDTO, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemDTO{BookID: it.BookID, Quantity: it.Quantity, Price: it.Price}
	}
	return OrderDTO{
		ID:             o.ID,
		OrderNo:        o.OrderNo,
		Status:         o.Status.String(),
		ShippingMethod: o.ShippingMethod,
		Subtotal:       o.Amounts.Subtotal,
		Tax:            o.Amounts.Tax,
		Shipping:       o.Amounts.Shipping,
		Total:          o.Amounts.Total,
		TotalDisplay:   money.FormatMoneyFromCents(&total, currency),
		Items:          items,
		CreatedAt:      o.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
