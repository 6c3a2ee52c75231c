package book

import (
	"context"

	"github.com/xiebiao/storefront/internal/domain/book"
)

// GetBookUseCase 图书详情
type GetBookUseCase struct {
	bookService book.Service
	currency    string
}

// NewGetBookUseCase 创建详情用例
func NewGetBookUseCase(bookService book.Service, currency string) *GetBookUseCase {
	return &GetBookUseCase{bookService: bookService, currency: currency}
}

// Execute 查询图书详情
func (uc *GetBookUseCase) Execute(ctx context.Context, id uint) (*BookDTO, error) {
	b, err := uc.bookService.GetBookByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toDTO(b, uc.currency, true)
	return &dto, nil
}
