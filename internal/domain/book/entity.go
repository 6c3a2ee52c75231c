package book

import (
	"time"
)

// Book 图书实体(聚合根)
// 价格以分为单位;Active=false表示已下架,不能再加入购物车或参与登录合并
type Book struct {
	ID          uint
	ISBN        string
	Title       string
	Author      string
	Publisher   string
	Price       int64 // 价格(分)
	Stock       int
	CoverURL    string
	Description string
	PublisherID uint // 发布者用户ID
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PublishParams 发布图书参数
type PublishParams struct {
	ISBN        string
	Title       string
	Author      string
	Publisher   string
	Price       int64
	Stock       int
	CoverURL    string
	Description string
	PublisherID uint
}

// NewBook 创建新图书,新发布的图书默认上架
func NewBook(p PublishParams) *Book {
	now := time.Now()
	return &Book{
		ISBN:        p.ISBN,
		Title:       p.Title,
		Author:      p.Author,
		Publisher:   p.Publisher,
		Price:       p.Price,
		Stock:       p.Stock,
		CoverURL:    p.CoverURL,
		Description: p.Description,
		PublisherID: p.PublisherID,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// SetActive 上架/下架
func (b *Book) SetActive(active bool) {
	b.Active = active
	b.UpdatedAt = time.Now()
}

// IsOwnedBy 检查图书是否由指定用户发布
func (b *Book) IsOwnedBy(userID uint) bool {
	return b.PublisherID == userID
}
