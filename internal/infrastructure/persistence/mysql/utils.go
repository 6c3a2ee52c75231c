package mysql

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

type txKey struct{}

// getDB 优先使用context中的事务DB
func getDB(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// isDuplicateError 唯一索引冲突
// TranslateError开启时驱动错误会转为gorm.ErrDuplicatedKey,其余按错误信息兜底(MySQL 1062 / SQLite)
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}

// parseID 字符串ID → 自增主键
func parseID(kind, s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.New(apperrors.ErrCodeInvalidParams, "无效的"+kind+"ID: "+s)
	}
	return uint(id), nil
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
