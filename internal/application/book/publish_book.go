package book

import (
	"context"

	"github.com/xiebiao/storefront/internal/domain/book"
)

// PublishBookUseCase 图书上架用例
// 业务规则(ISBN格式、价格范围、ISBN唯一)由领域服务校验,这里只做编排
type PublishBookUseCase struct {
	bookService book.Service
	currency    string
}

// NewPublishBookUseCase 创建上架用例
func NewPublishBookUseCase(bookService book.Service, currency string) *PublishBookUseCase {
	return &PublishBookUseCase{bookService: bookService, currency: currency}
}

// PublishBookRequest 上架请求
type PublishBookRequest struct {
	ISBN        string
	Title       string
	Author      string
	Publisher   string
	Price       int64 // 价格(分)
	Stock       int
	CoverURL    string
	Description string
	PublisherID uint // 发布者用户ID(由认证中间件注入)
}

// Execute 执行上架用例
func (uc *PublishBookUseCase) Execute(ctx context.Context, req PublishBookRequest) (*BookDTO, error) {
	b, err := uc.bookService.PublishBook(ctx, book.PublishParams{
		ISBN:        req.ISBN,
		Title:       req.Title,
		Author:      req.Author,
		Publisher:   req.Publisher,
		Price:       req.Price,
		Stock:       req.Stock,
		CoverURL:    req.CoverURL,
		Description: req.Description,
		PublisherID: req.PublisherID,
	})
	if err != nil {
		return nil, err
	}

	dto := toDTO(b, uc.currency, true)
	return &dto, nil
}
