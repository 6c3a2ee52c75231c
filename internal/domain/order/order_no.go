package order

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateOrderNo 生成订单号
// 格式:ORD + yyyyMMddHHmmss + 6位随机数,共23位
func GenerateOrderNo() string {
	return fmt.Sprintf("ORD%s%06d", time.Now().Format("20060102150405"), rand.Intn(1000000))
}
