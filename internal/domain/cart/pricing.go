package cart

// 计价规则
// 所有金额均为"分"为单位的整数,全程不使用浮点数
const (
	// DefaultTaxRateBasisPoints 默认销售税率:825个基点 = 8.25%
	DefaultTaxRateBasisPoints int64 = 825

	// DefaultExpressFeeCents 加急配送固定运费:1500分 = $15.00
	DefaultExpressFeeCents int64 = 1500

	basisPointsDenominator int64 = 10000
)

// Pricing 计价参数
type Pricing struct {
	TaxRateBasisPoints int64 // 税率(基点,1bp = 0.01%)
	ExpressFeeCents    int64 // 加急运费(分)
}

// DefaultPricing 返回默认计价参数
func DefaultPricing() Pricing {
	return Pricing{
		TaxRateBasisPoints: DefaultTaxRateBasisPoints,
		ExpressFeeCents:    DefaultExpressFeeCents,
	}
}

// Totals 购物车派生金额(不持久化,每次读取时计算)
type Totals struct {
	ItemCount     int   `json:"item_count"`
	SubtotalCents int64 `json:"subtotal_cents"`
	TaxCents      int64 `json:"tax_cents"`
	ShippingCents int64 `json:"shipping_cents"`
	TotalCents    int64 `json:"total_cents"`
}

// Compute 计算购物车金额
// total = subtotal + tax + shipping
func (p Pricing) Compute(items []LineItem, method ShippingMethod) Totals {
	var t Totals
	for _, it := range items {
		t.ItemCount += it.Quantity
		t.SubtotalCents += int64(it.Quantity) * it.UnitPriceCents
	}
	t.TaxCents = p.Tax(t.SubtotalCents)
	t.ShippingCents = p.Shipping(method)
	t.TotalCents = t.SubtotalCents + t.TaxCents + t.ShippingCents
	return t
}

// Tax 计算税额:round(subtotal × rate),四舍五入(远离零)
func (p Pricing) Tax(subtotalCents int64) int64 {
	return roundDiv(subtotalCents*p.TaxRateBasisPoints, basisPointsDenominator)
}

// Shipping 计算运费
func (p Pricing) Shipping(method ShippingMethod) int64 {
	if method == ShippingExpress {
		return p.ExpressFeeCents
	}
	return 0
}

// Compute 使用快照自身的配送方式计算金额
func (s Snapshot) Compute(p Pricing) Totals {
	return p.Compute(s.Items, s.ShippingMethod)
}

// roundDiv 整数除法,余数过半时远离零进位
func roundDiv(n, d int64) int64 {
	q, r := n/d, n%d
	if r < 0 {
		r = -r
	}
	if 2*r >= d {
		if n < 0 {
			return q - 1
		}
		return q + 1
	}
	return q
}
