package cart

import (
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// 购物车领域错误定义
var (
	// ErrEmptyBookID 图书ID为空
	ErrEmptyBookID = apperrors.New(apperrors.ErrCodeCartItemInvalid, "图书ID不能为空")

	// ErrInvalidQuantity 数量超出允许范围
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeCartItemInvalid, "购买数量超出允许范围")

	// ErrBookNotFound 目录中不存在该图书
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrBookInactive 图书已下架
	ErrBookInactive = apperrors.New(apperrors.ErrCodeBookInactive, "图书已下架")

	// ErrEmptyCart 购物车为空
	ErrEmptyCart = apperrors.New(apperrors.ErrCodeEmptyCart, "购物车为空")
)
