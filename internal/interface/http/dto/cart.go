package dto

// AddCartItemRequest 加入购物车
type AddCartItemRequest struct {
	BookID string `json:"book_id" binding:"required,max=64"`
}

// UpdateQuantityRequest 修改数量,0表示删除该行;上限由cart.max_quantity配置
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0"`
}

// SetShippingRequest 设置配送方式
type SetShippingRequest struct {
	Method string `json:"method" binding:"required,oneof=standard express"`
}

// CartItemResponse 购物车行
type CartItemResponse struct {
	BookID           string `json:"book_id"`
	Title            string `json:"title,omitempty"`
	CoverURL         string `json:"cover_url,omitempty"`
	Quantity         int    `json:"quantity"`
	UnitPriceCents   int64  `json:"unit_price_cents"`
	UnitPriceDisplay string `json:"unit_price_display"`
	LineTotalCents   int64  `json:"line_total_cents"`
	LineTotalDisplay string `json:"line_total_display"`
}

// CartTotalsResponse 购物车金额
type CartTotalsResponse struct {
	ItemCount       int    `json:"item_count"`
	SubtotalCents   int64  `json:"subtotal_cents"`
	TaxCents        int64  `json:"tax_cents"`
	ShippingCents   int64  `json:"shipping_cents"`
	TotalCents      int64  `json:"total_cents"`
	SubtotalDisplay string `json:"subtotal_display"`
	TaxDisplay      string `json:"tax_display"`
	ShippingDisplay string `json:"shipping_display"`
	TotalDisplay    string `json:"total_display"`
}

// CartResponse 购物车
type CartResponse struct {
	SessionID      string             `json:"session_id"`
	SignedIn       bool               `json:"signed_in"`
	Loading        bool               `json:"loading"`
	ShippingMethod string             `json:"shipping_method"`
	TaxRate        string             `json:"tax_rate"` // 如"8.25%"
	Items          []CartItemResponse `json:"items"`
	Totals         CartTotalsResponse `json:"totals"`
}
