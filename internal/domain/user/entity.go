package user

import (
	"strconv"
	"time"
)

// User 用户实体(聚合根),Password为bcrypt哈希
type User struct {
	ID        uint
	Email     string
	Password  string
	Nickname  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建新用户,hashedPassword必须已经过bcrypt处理
func NewUser(email, hashedPassword, nickname string) *User {
	now := time.Now()
	return &User{
		Email:     email,
		Password:  hashedPassword,
		Nickname:  nickname,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CartOwnerID 购物车归属标识(远端购物车按此键存储)
func (u *User) CartOwnerID() string {
	return strconv.FormatUint(uint64(u.ID), 10)
}
