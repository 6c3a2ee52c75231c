package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/storefront/internal/domain/cart"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// cartRepository 登录用户购物车,实现cart.RemoteStore
type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓储
func NewCartRepository(db *gorm.DB) cart.RemoteStore {
	return &cartRepository{db: db}
}

type cartRow struct {
	BookID         uint
	Quantity       int
	UnitPriceCents int64
	Title          string
	CoverURL       string
}

// ListByUser 按插入顺序返回,标题和封面取自books表
func (r *cartRepository) ListByUser(ctx context.Context, userID string) ([]cart.LineItem, error) {
	uid, err := parseID("用户", userID)
	if err != nil {
		return nil, err
	}

	var rows []cartRow
	err = getDB(ctx, r.db).
		Table("cart_items AS c").
		Select("c.book_id, c.quantity, c.unit_price_cents, b.title, b.cover_url").
		Joins("LEFT JOIN books AS b ON b.id = c.book_id").
		Where("c.user_id = ?", uid).
		Order("c.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询购物车失败")
	}

	items := make([]cart.LineItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, cart.LineItem{
			BookID:         formatID(row.BookID),
			Quantity:       row.Quantity,
			UnitPriceCents: row.UnitPriceCents,
			Title:          row.Title,
			CoverURL:       row.CoverURL,
		})
	}
	return items, nil
}

func (r *cartRepository) DeleteAllByUser(ctx context.Context, userID string) error {
	uid, err := parseID("用户", userID)
	if err != nil {
		return err
	}
	if err := getDB(ctx, r.db).Where("user_id = ?", uid).Delete(&CartItemModel{}).Error; err != nil {
		return apperrors.Wrap(err, "清空购物车失败")
	}
	return nil
}

// InsertMany 单条INSERT批量写入
func (r *cartRepository) InsertMany(ctx context.Context, userID string, items []cart.LineItem) error {
	if len(items) == 0 {
		return nil
	}
	uid, err := parseID("用户", userID)
	if err != nil {
		return err
	}

	models := make([]CartItemModel, 0, len(items))
	for _, it := range items {
		bid, err := parseID("图书", it.BookID)
		if err != nil {
			return err
		}
		models = append(models, CartItemModel{
			UserID:         uid,
			BookID:         bid,
			Quantity:       it.Quantity,
			UnitPriceCents: it.UnitPriceCents,
		})
	}

	if err := getDB(ctx, r.db).Create(&models).Error; err != nil {
		return apperrors.Wrap(err, "写入购物车失败")
	}
	return nil
}

// UpsertOne 行不存在时按当前目录价插入;已存在时只更新数量,保留原单价
func (r *cartRepository) UpsertOne(ctx context.Context, userID, bookID string, quantity int) error {
	uid, err := parseID("用户", userID)
	if err != nil {
		return err
	}
	bid, err := parseID("图书", bookID)
	if err != nil {
		return err
	}

	db := getDB(ctx, r.db)

	var b BookModel
	err = db.Select("id", "price").Where("id = ?", bid).First(&b).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.Wrap(err, "查询图书价格失败")
	}

	model := CartItemModel{UserID: uid, BookID: bid, Quantity: quantity, UnitPriceCents: b.Price}
	err = db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "book_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   quantity,
			"updated_at": time.Now(),
		}),
	}).Create(&model).Error
	if err != nil {
		return apperrors.Wrap(err, "合并购物车失败")
	}
	return nil
}
