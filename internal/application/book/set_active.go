package book

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/xiebiao/storefront/internal/domain/book"
)

// CatalogEvictor 目录缓存失效(由redis.CatalogCache实现)
type CatalogEvictor interface {
	Evict(ctx context.Context, bookID string) error
}

// SetActiveUseCase 上架/下架
// 下架后的图书不能再加入购物车,登录合并时也会被跳过;
// 已在购物车中的行保持不变,结算时由库存锁定步骤兜底
type SetActiveUseCase struct {
	bookService book.Service
	currency    string
	evictor     CatalogEvictor
}

// NewSetActiveUseCase 创建上下架用例;evictor可以为nil
func NewSetActiveUseCase(bookService book.Service, currency string, evictor CatalogEvictor) *SetActiveUseCase {
	return &SetActiveUseCase{bookService: bookService, currency: currency, evictor: evictor}
}

// Execute 只有发布者本人可以操作
func (uc *SetActiveUseCase) Execute(ctx context.Context, id, userID uint, active bool) (*BookDTO, error) {
	b, err := uc.bookService.SetActive(ctx, id, userID, active)
	if err != nil {
		return nil, err
	}

	if uc.evictor != nil {
		key := strconv.FormatUint(uint64(id), 10)
		if err := uc.evictor.Evict(ctx, key); err != nil {
			// 缓存条目仍会按TTL过期
			zap.L().Warn("evict catalog cache failed", zap.String("book_id", key), zap.Error(err))
		}
	}

	dto := toDTO(b, uc.currency, true)
	return &dto, nil
}
