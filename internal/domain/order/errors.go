package order

import (
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// 订单领域错误定义
var (
	ErrOrderNotFound           = apperrors.New(apperrors.ErrCodeOrderNotFound, "订单不存在")
	ErrInvalidStatusTransition = apperrors.New(apperrors.ErrCodeInvalidOrderStatus, "订单状态不允许此操作")
	ErrInvalidOrderItems       = apperrors.New(apperrors.ErrCodeInvalidParams, "订单明细不能为空")
	ErrInvalidQuantity         = apperrors.New(apperrors.ErrCodeInvalidParams, "购买数量必须大于0")
)
