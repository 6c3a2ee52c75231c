package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	cartapp "github.com/xiebiao/storefront/internal/application/cart"
	"github.com/xiebiao/storefront/internal/domain/cart"
	"github.com/xiebiao/storefront/internal/interface/http/dto"
	"github.com/xiebiao/storefront/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
	"github.com/xiebiao/storefront/pkg/money"
	"github.com/xiebiao/storefront/pkg/response"
)

// CartHandler 购物车HTTP处理器
// 所有路由都在CartSession中间件之后,会话已绑定到gin.Context
// 变更接口返回变更后的内存快照;存储写回在后台进行,失败不影响响应
type CartHandler struct {
	maxQuantity int
	currency    string
}

// NewCartHandler 创建购物车处理器
func NewCartHandler(maxQuantity int, currency string) *CartHandler {
	return &CartHandler{maxQuantity: maxQuantity, currency: currency}
}

// Get 查看购物车
// @Router /api/v1/cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	h.respond(c, middleware.GetCartSession(c).ID, reconciler(c))
}

// AddItem 加入购物车(已存在则数量+1)
// @Router /api/v1/cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	rec := reconciler(c)
	if item, ok := cart.Find(rec.Items(), req.BookID); ok && item.Quantity >= h.maxQuantity {
		response.Error(c, cart.ErrInvalidQuantity)
		return
	}
	if err := rec.AddBookByID(c.Request.Context(), req.BookID); err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c, middleware.GetCartSession(c).ID, rec)
}

// UpdateQuantity 修改数量,0表示删除
// @Router /api/v1/cart/items/{book_id} [patch]
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	var req dto.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}
	if *req.Quantity > h.maxQuantity {
		response.Error(c, cart.ErrInvalidQuantity)
		return
	}

	rec := reconciler(c)
	rec.UpdateQuantity(c.Param("book_id"), *req.Quantity)
	h.respond(c, middleware.GetCartSession(c).ID, rec)
}

// RemoveItem 删除行,不存在时同样成功
// @Router /api/v1/cart/items/{book_id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	rec := reconciler(c)
	rec.RemoveItem(c.Param("book_id"))
	h.respond(c, middleware.GetCartSession(c).ID, rec)
}

// Clear 清空购物车
// @Router /api/v1/cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	rec := reconciler(c)
	rec.Clear()
	h.respond(c, middleware.GetCartSession(c).ID, rec)
}

// SetShipping 设置配送方式
// @Router /api/v1/cart/shipping [put]
func (h *CartHandler) SetShipping(c *gin.Context) {
	var req dto.SetShippingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}
	method, err := cart.ParseShippingMethod(req.Method)
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, err.Error())
		return
	}

	rec := reconciler(c)
	rec.SetShippingMethod(method)
	h.respond(c, middleware.GetCartSession(c).ID, rec)
}

func reconciler(c *gin.Context) *cartapp.Reconciler {
	return middleware.GetCartSession(c).Reconciler
}

func (h *CartHandler) respond(c *gin.Context, sessionID string, rec *cartapp.Reconciler) {
	response.Success(c, h.render(sessionID, rec))
}

func (h *CartHandler) render(sessionID string, rec *cartapp.Reconciler) *dto.CartResponse {
	snap := rec.Snapshot()
	pricing := rec.Pricing()
	totals := snap.Compute(pricing)

	items := make([]dto.CartItemResponse, len(snap.Items))
	for i, it := range snap.Items {
		unit := it.UnitPriceCents
		line := unit * int64(it.Quantity)
		items[i] = dto.CartItemResponse{
			BookID:           it.BookID,
			Title:            it.Title,
			CoverURL:         it.CoverURL,
			Quantity:         it.Quantity,
			UnitPriceCents:   unit,
			UnitPriceDisplay: h.format(unit),
			LineTotalCents:   line,
			LineTotalDisplay: h.format(line),
		}
	}

	return &dto.CartResponse{
		SessionID:      sessionID,
		SignedIn:       rec.AuthState().SignedIn,
		Loading:        rec.Loading(),
		ShippingMethod: string(snap.ShippingMethod),
		TaxRate:        decimal.New(pricing.TaxRateBasisPoints, -2).String() + "%",
		Items:          items,
		Totals: dto.CartTotalsResponse{
			ItemCount:       totals.ItemCount,
			SubtotalCents:   totals.SubtotalCents,
			TaxCents:        totals.TaxCents,
			ShippingCents:   totals.ShippingCents,
			TotalCents:      totals.TotalCents,
			SubtotalDisplay: h.format(totals.SubtotalCents),
			TaxDisplay:      h.format(totals.TaxCents),
			ShippingDisplay: h.format(totals.ShippingCents),
			TotalDisplay:    h.format(totals.TotalCents),
		},
	}
}

func (h *CartHandler) format(cents int64) string {
	return money.FormatMoneyFromCents(&cents, h.currency)
}
