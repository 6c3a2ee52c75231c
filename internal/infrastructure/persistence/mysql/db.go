package mysql

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/storefront/internal/infrastructure/config"
)

// NewDB 创建MySQL连接、配置连接池并迁移表结构
// debug模式下打印SQL
func NewDB(cfg config.DatabaseConfig, mode string, log *zap.Logger) (*gorm.DB, error) {
	logLevel := logger.Silent
	if mode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}
	log.Info("database connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("db", cfg.DBName),
	)

	// 生产环境应改用版本化迁移脚本
	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}
	return db, nil
}

// Migrate 自动迁移全部表结构
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&BookModel{},
		&OrderModel{},
		&OrderItemModel{},
		&CartItemModel{},
	)
}

// UserModel users表
type UserModel struct {
	ID        uint           `gorm:"primaryKey"`
	Email     string         `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string         `gorm:"size:255;not null;comment:密码(bcrypt)"`
	Nickname  string         `gorm:"size:50;not null;comment:昵称"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (UserModel) TableName() string { return "users" }

// BookModel books表,价格以分存储
// Active不设数据库默认值:GORM在零值时会改用默认值,false将无法写入
type BookModel struct {
	ID          uint           `gorm:"primaryKey"`
	ISBN        string         `gorm:"uniqueIndex;size:20;not null;comment:ISBN号"`
	Title       string         `gorm:"index:idx_search;size:200;not null;comment:书名"`
	Author      string         `gorm:"index:idx_search;size:100;not null;comment:作者"`
	Publisher   string         `gorm:"size:100;not null;comment:出版社"`
	Price       int64          `gorm:"index:idx_list;not null;comment:价格(分)"`
	Stock       int            `gorm:"not null;comment:库存数量"`
	CoverURL    string         `gorm:"size:500;comment:封面图片URL"`
	Description string         `gorm:"type:text;comment:图书描述"`
	PublisherID uint           `gorm:"index;not null;comment:发布者用户ID"`
	Active      bool           `gorm:"index;not null;comment:是否在售"`
	CreatedAt   time.Time      `gorm:"index:idx_list"`
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (BookModel) TableName() string { return "books" }

// OrderModel orders表,金额拆分保存,便于对账
type OrderModel struct {
	ID             uint             `gorm:"primaryKey"`
	OrderNo        string           `gorm:"uniqueIndex;size:32;not null;comment:订单号"`
	UserID         uint             `gorm:"index;not null;comment:买家用户ID"`
	Subtotal       int64            `gorm:"not null;comment:商品小计(分)"`
	Tax            int64            `gorm:"not null;comment:税费(分)"`
	Shipping       int64            `gorm:"not null;comment:运费(分)"`
	Total          int64            `gorm:"not null;comment:订单总金额(分)"`
	ShippingMethod string           `gorm:"size:16;not null;comment:配送方式"`
	Status         int              `gorm:"index;not null;comment:订单状态(1待支付2已支付3已发货4已完成5已取消)"`
	Items          []OrderItemModel `gorm:"foreignKey:OrderID"`
	CreatedAt      time.Time        `gorm:"index"`
	UpdatedAt      time.Time
}

func (OrderModel) TableName() string { return "orders" }

// OrderItemModel order_items表,Price为下单时单价快照
type OrderItemModel struct {
	ID       uint  `gorm:"primaryKey"`
	OrderID  uint  `gorm:"index;not null"`
	BookID   uint  `gorm:"index;not null"`
	Quantity int   `gorm:"not null"`
	Price    int64 `gorm:"not null;comment:下单时单价(分)"`
}

func (OrderItemModel) TableName() string { return "order_items" }

// CartItemModel cart_items表:登录用户的购物车行
// (user_id, book_id)唯一,登录合并时按此键upsert;按id升序即插入顺序
type CartItemModel struct {
	ID             uint  `gorm:"primaryKey"`
	UserID         uint  `gorm:"uniqueIndex:uk_user_book;not null"`
	BookID         uint  `gorm:"uniqueIndex:uk_user_book;not null"`
	Quantity       int   `gorm:"not null"`
	UnitPriceCents int64 `gorm:"not null;comment:加入购物车时单价(分)"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (CartItemModel) TableName() string { return "cart_items" }
