package user

import (
	"context"
)

// Repository 用户仓储接口
// 查询不到时返回apperrors.ErrUserNotFound,邮箱重复时返回apperrors.ErrEmailDuplicate
type Repository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
}
