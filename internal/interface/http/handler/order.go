package handler

import (
	"github.com/gin-gonic/gin"

	apporder "github.com/xiebiao/storefront/internal/application/order"
	"github.com/xiebiao/storefront/internal/interface/http/dto"
	"github.com/xiebiao/storefront/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
	"github.com/xiebiao/storefront/pkg/response"
)

// OrderHandler 订单HTTP处理器
type OrderHandler struct {
	checkoutUseCase *apporder.CheckoutUseCase
	queryUseCase    *apporder.QueryUseCase
	cancelUseCase   *apporder.CancelOrderUseCase
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(
	checkoutUseCase *apporder.CheckoutUseCase,
	queryUseCase *apporder.QueryUseCase,
	cancelUseCase *apporder.CancelOrderUseCase,
) *OrderHandler {
	return &OrderHandler{
		checkoutUseCase: checkoutUseCase,
		queryUseCase:    queryUseCase,
		cancelUseCase:   cancelUseCase,
	}
}

// Checkout 结算当前购物车
// @Router /api/v1/orders/checkout [post]
func (h *OrderHandler) Checkout(c *gin.Context) {
	result, err := h.checkoutUseCase.Execute(c.Request.Context(), apporder.CheckoutRequest{
		UserID:      middleware.MustGetUserID(c),
		CartSession: middleware.CartSessionID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListOrders 我的订单
// @Router /api/v1/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var req dto.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	result, err := h.queryUseCase.List(c.Request.Context(), middleware.MustGetUserID(c), req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, result.List, result.Total, result.Page, result.PageSize)
}

// GetOrder 订单详情
// @Router /api/v1/orders/{order_no} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	result, err := h.queryUseCase.Get(c.Request.Context(), middleware.MustGetUserID(c), c.Param("order_no"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CancelOrder 取消订单
// @Router /api/v1/orders/{order_no}/cancel [post]
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	result, err := h.cancelUseCase.Execute(c.Request.Context(), middleware.MustGetUserID(c), c.Param("order_no"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
