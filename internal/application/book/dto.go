package book

import (
	"github.com/xiebiao/storefront/internal/domain/book"
	"github.com/xiebiao/storefront/pkg/money"
)

// BookDTO 图书输出DTO
type BookDTO struct {
	ID           uint   `json:"id"`
	ISBN         string `json:"isbn"`
	Title        string `json:"title"`
	Author       string `json:"author"`
	Publisher    string `json:"publisher"`
	Price        int64  `json:"price"`         // 价格(分)
	PriceDisplay string `json:"price_display"` // 如"$12.99"
	Stock        int    `json:"stock"`
	CoverURL     string `json:"cover_url"`
	Description  string `json:"description,omitempty"`
	PublisherID  uint   `json:"publisher_id"`
	Active       bool   `json:"active"`
	CreatedAt    string `json:"created_at"`
}

// toDTO withDescription=false用于列表(不返回描述)
func toDTO(b *book.Book, currency string, withDescription bool) BookDTO {
	price := b.Price
	dto := BookDTO{
		ID:           b.ID,
		ISBN:         b.ISBN,
		Title:        b.Title,
		Author:       b.Author,
		Publisher:    b.Publisher,
		Price:        b.Price,
		PriceDisplay: money.FormatMoneyFromCents(&price, currency),
		Stock:        b.Stock,
		CoverURL:     b.CoverURL,
		PublisherID:  b.PublisherID,
		Active:       b.Active,
		CreatedAt:    b.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if withDescription {
		dto.Description = b.Description
	}
	return dto
}
