package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/storefront/internal/domain/cart"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// CatalogCache 目录查询的旁路缓存,实现cart.Catalog
// Key设计：catalog:book:{id} → JSON,固定TTL
// 只缓存存在的图书;Redis不可用时直接查下游
type CatalogCache struct {
	next   cart.Catalog
	client *redis.Client
	ttl    time.Duration
}

var _ cart.Catalog = (*CatalogCache)(nil)

type cachedBook struct {
	ID             string `json:"id"`
	ListPriceCents *int64 `json:"list_price_cents"`
	Active         bool   `json:"active"`
	Title          string `json:"title,omitempty"`
	CoverURL       string `json:"cover_url,omitempty"`
}

// NewCatalogCache 创建目录缓存
func NewCatalogCache(next cart.Catalog, client *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{next: next, client: client, ttl: ttl}
}

func catalogKey(bookID string) string { return "catalog:book:" + bookID }

// Lookup 先读缓存,未命中再查下游并回填
func (c *CatalogCache) Lookup(ctx context.Context, bookID string) (*cart.CatalogBook, error) {
	if data, err := c.client.Get(ctx, catalogKey(bookID)).Bytes(); err == nil {
		var cb cachedBook
		if json.Unmarshal(data, &cb) == nil {
			return &cart.CatalogBook{
				ID:             cb.ID,
				ListPriceCents: cb.ListPriceCents,
				Active:         cb.Active,
				Title:          cb.Title,
				CoverURL:       cb.CoverURL,
			}, nil
		}
	}

	b, err := c.next.Lookup(ctx, bookID)
	if err != nil || b == nil {
		return b, err
	}

	data, err := json.Marshal(cachedBook{
		ID:             b.ID,
		ListPriceCents: b.ListPriceCents,
		Active:         b.Active,
		Title:          b.Title,
		CoverURL:       b.CoverURL,
	})
	if err == nil {
		_ = c.client.Set(ctx, catalogKey(bookID), data, c.ttl).Err()
	}
	return b, nil
}

// Evict 图书信息变更后删除缓存
func (c *CatalogCache) Evict(ctx context.Context, bookID string) error {
	if err := c.client.Del(ctx, catalogKey(bookID)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return apperrors.Wrap(err, "删除目录缓存失败")
	}
	return nil
}
