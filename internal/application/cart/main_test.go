package cart

import (
	"testing"

	"go.uber.org/goleak"
)

// 写回协程必须在测试结束前全部退出
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
