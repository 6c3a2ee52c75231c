package cart

import (
	"encoding/json"
	"fmt"
)

// LineItem 购物车行项目
// 设计说明:
// 1. 同一购物车内每个BookID最多出现一次
// 2. UnitPriceCents是加入购物车时的价格快照(分),之后不随目录价格变化
// 3. Title、CoverURL仅用于展示,不参与合并与计价
type LineItem struct {
	BookID         string `json:"book_id"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Title          string `json:"title,omitempty"`
	CoverURL       string `json:"cover_url,omitempty"`
}

// ShippingMethod 配送方式
type ShippingMethod string

const (
	ShippingStandard ShippingMethod = "standard" // 标准配送(免运费)
	ShippingExpress  ShippingMethod = "express"  // 加急配送(固定运费)
)

// ParseShippingMethod 解析配送方式,空字符串视为standard
func ParseShippingMethod(s string) (ShippingMethod, error) {
	switch ShippingMethod(s) {
	case "", ShippingStandard:
		return ShippingStandard, nil
	case ShippingExpress:
		return ShippingExpress, nil
	default:
		return "", fmt.Errorf("unknown shipping method %q", s)
	}
}

// Snapshot 购物车快照
// Items保持插入顺序,便于前端稳定渲染
type Snapshot struct {
	Items          []LineItem
	ShippingMethod ShippingMethod
}

// Book 加入购物车时使用的目录图书记录
// ListPriceCents为nil时按0处理
type Book struct {
	ID             string
	ListPriceCents *int64
	Title          string
	CoverURL       string
}

// AddItem 加入一本图书
// 已存在则数量+1,否则追加数量为1的新行(价格取当前目录价)
// 返回新的切片,不修改入参
func AddItem(items []LineItem, b Book) ([]LineItem, error) {
	if b.ID == "" {
		return items, ErrEmptyBookID
	}

	out := cloneItems(items)
	for i := range out {
		if out[i].BookID == b.ID {
			out[i].Quantity++
			return out, nil
		}
	}

	var price int64
	if b.ListPriceCents != nil {
		price = *b.ListPriceCents
	}
	return append(out, LineItem{
		BookID:         b.ID,
		Quantity:       1,
		UnitPriceCents: price,
		Title:          b.Title,
		CoverURL:       b.CoverURL,
	}), nil
}

// RemoveItem 删除指定图书,不存在时原样返回
func RemoveItem(items []LineItem, bookID string) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, it := range items {
		if it.BookID != bookID {
			out = append(out, it)
		}
	}
	return out
}

// UpdateQuantity 设置数量(替换而非累加)
// quantity<=0 等价于删除;不存在的图书不做处理
// 注意:这里不做上限校验,由调用方(HTTP层)负责
func UpdateQuantity(items []LineItem, bookID string, quantity int) []LineItem {
	if quantity <= 0 {
		return RemoveItem(items, bookID)
	}

	out := cloneItems(items)
	for i := range out {
		if out[i].BookID == bookID {
			out[i].Quantity = quantity
			break
		}
	}
	return out
}

// Find 查找行项目
func Find(items []LineItem, bookID string) (LineItem, bool) {
	for _, it := range items {
		if it.BookID == bookID {
			return it, true
		}
	}
	return LineItem{}, false
}

// EncodeItems 序列化访客购物车(JSON数组)
func EncodeItems(items []LineItem) ([]byte, error) {
	if items == nil {
		items = []LineItem{}
	}
	return json.Marshal(items)
}

// DecodeItems 反序列化访客购物车
// 会丢弃BookID为空或数量<=0的脏数据,并合并重复的BookID
func DecodeItems(data []byte) ([]LineItem, error) {
	if len(data) == 0 {
		return []LineItem{}, nil
	}

	var raw []LineItem
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode guest cart: %w", err)
	}

	out := make([]LineItem, 0, len(raw))
	index := make(map[string]int, len(raw))
	for _, it := range raw {
		if it.BookID == "" || it.Quantity <= 0 {
			continue
		}
		if i, ok := index[it.BookID]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		index[it.BookID] = len(out)
		out = append(out, it)
	}
	return out, nil
}

func cloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}
