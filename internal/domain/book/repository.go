package book

import (
	"context"
)

// Repository 图书仓储接口
// 需要参与事务的方法(LockByID、UpdateStock)从context中获取事务
type Repository interface {
	Create(ctx context.Context, book *Book) error

	// FindByID 不存在时返回ErrBookNotFound
	FindByID(ctx context.Context, id uint) (*Book, error)

	FindByISBN(ctx context.Context, isbn string) (*Book, error)

	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// LockByID SELECT ... FOR UPDATE,用于下单时锁定库存行
	LockByID(ctx context.Context, id uint) (*Book, error)

	// UpdateStock 原子更新库存,delta为负表示扣减;扣减后为负返回ErrInsufficientStock
	UpdateStock(ctx context.Context, id uint, delta int) error

	// SetActive 上架/下架
	SetActive(ctx context.Context, id uint, active bool) error
}

// ListParams 列表查询参数
type ListParams struct {
	Page       int    // 页码(从1开始)
	PageSize   int    // 每页数量
	Keyword    string // 搜索标题、作者、出版社
	SortBy     string // price_asc | price_desc | created_at_desc
	ActiveOnly bool   // 只返回在售图书
}
