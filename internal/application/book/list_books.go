package book

import (
	"context"

	"github.com/xiebiao/storefront/internal/domain/book"
)

// ListBooksUseCase 图书列表查询用例
// 列表不返回description字段
type ListBooksUseCase struct {
	bookService book.Service
	currency    string
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service, currency string) *ListBooksUseCase {
	return &ListBooksUseCase{bookService: bookService, currency: currency}
}

// ListBooksRequest 列表查询请求
type ListBooksRequest struct {
	Page            int    // 页码(从1开始)
	PageSize        int    // 每页数量
	Keyword         string // 搜索标题、作者、出版社
	SortBy          string // price_asc | price_desc | created_at_desc
	IncludeInactive bool   // 是否包含已下架图书
}

// ListBooksResponse 列表查询响应
type ListBooksResponse struct {
	List       []BookDTO `json:"list"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
}

// Execute 执行列表查询
// page默认1;pageSize默认20,最大100
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	books, total, err := uc.bookService.ListBooks(ctx, book.ListParams{
		Page:       req.Page,
		PageSize:   req.PageSize,
		Keyword:    req.Keyword,
		SortBy:     req.SortBy,
		ActiveOnly: !req.IncludeInactive,
	})
	if err != nil {
		return nil, err
	}

	list := make([]BookDTO, len(books))
	for i, b := range books {
		list[i] = toDTO(b, uc.currency, false)
	}

	totalPages := int(total) / req.PageSize
	if int(total)%req.PageSize != 0 {
		totalPages++
	}

	return &ListBooksResponse{
		List:       list,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages,
	}, nil
}
