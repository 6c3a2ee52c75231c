package cart

import (
	"context"
)

// LocalStore 访客购物车存储,按会话键整体覆盖写入
// Get在键不存在时返回(nil, nil)
type LocalStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// RemoteStore 登录用户购物车存储(关系型数据库)
// 每次持久化都是"先全部删除再批量插入",不是增量更新
type RemoteStore interface {
	// ListByUser 查询用户购物车(按插入顺序)
	ListByUser(ctx context.Context, userID string) ([]LineItem, error)

	// DeleteAllByUser 删除用户所有购物车行
	DeleteAllByUser(ctx context.Context, userID string) error

	// InsertMany 批量插入购物车行
	InsertMany(ctx context.Context, userID string, items []LineItem) error

	// UpsertOne 按(userID, bookID)插入或更新数量
	UpsertOne(ctx context.Context, userID, bookID string, quantity int) error
}

// CatalogBook 目录中的图书(只包含对账需要的字段)
type CatalogBook struct {
	ID             string
	ListPriceCents *int64
	Active         bool
	Title          string
	CoverURL       string
}

// Catalog 图书目录查询
// 图书不存在时返回(nil, nil)
type Catalog interface {
	Lookup(ctx context.Context, bookID string) (*CatalogBook, error)
}

// AuthState 认证状态
type AuthState struct {
	SignedIn bool
	UserID   string
}

// AuthProvider 认证状态来源
// Subscribe注册回调,每次登录/登出转换时被调用;返回取消订阅函数
type AuthProvider interface {
	Current() AuthState
	Subscribe(fn func(AuthState)) (unsubscribe func())
}
