package book

import (
	"context"
	"errors"
	"strconv"

	"github.com/xiebiao/storefront/internal/domain/book"
	"github.com/xiebiao/storefront/internal/domain/cart"
)

// Catalog 把图书领域服务适配为购物车使用的cart.Catalog
type Catalog struct {
	bookService book.Service
}

// NewCatalog 创建目录适配器
func NewCatalog(bookService book.Service) *Catalog {
	return &Catalog{bookService: bookService}
}

// Lookup 实现cart.Catalog
// 非数字ID与不存在的图书都返回(nil, nil)
func (c *Catalog) Lookup(ctx context.Context, bookID string) (*cart.CatalogBook, error) {
	id, err := strconv.ParseUint(bookID, 10, 64)
	if err != nil || id == 0 {
		return nil, nil
	}

	b, err := c.bookService.GetBookByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, book.ErrBookNotFound) {
			return nil, nil
		}
		return nil, err
	}

	price := b.Price
	return &cart.CatalogBook{
		ID:             bookID,
		ListPriceCents: &price,
		Active:         b.Active,
		Title:          b.Title,
		CoverURL:       b.CoverURL,
	}, nil
}
