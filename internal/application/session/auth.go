package session

import (
	"sync"

	"github.com/xiebiao/storefront/internal/domain/cart"
)

// AuthSession 单个购物车会话的认证状态
// 状态转换(访客→登录、登录→访客、切换用户)同步通知所有订阅者,按注册顺序调用
type AuthSession struct {
	mu    sync.Mutex
	state cart.AuthState
	subs  []subscriber
	next  int
}

type subscriber struct {
	id int
	fn func(cart.AuthState)
}

// NewAuthSession 创建访客状态的会话
func NewAuthSession() *AuthSession {
	return &AuthSession{}
}

// Current 实现cart.AuthProvider
func (a *AuthSession) Current() cart.AuthState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Subscribe 实现cart.AuthProvider
func (a *AuthSession) Subscribe(fn func(cart.AuthState)) func() {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.next
	a.next++
	a.subs = append(a.subs, subscriber{id: id, fn: fn})

	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		for i, s := range a.subs {
			if s.id == id {
				a.subs = append(a.subs[:i], a.subs[i+1:]...)
				return
			}
		}
	}
}

// SignIn 登录;同一用户重复登录不算状态转换
func (a *AuthSession) SignIn(userID string) {
	a.transition(cart.AuthState{SignedIn: true, UserID: userID})
}

// SignOut 登出;已是访客时为no-op
func (a *AuthSession) SignOut() {
	a.transition(cart.AuthState{})
}

// transition 在锁外通知订阅者,回调中可以安全地调用Current
func (a *AuthSession) transition(next cart.AuthState) {
	a.mu.Lock()
	if a.state == next {
		a.mu.Unlock()
		return
	}
	a.state = next
	subs := make([]subscriber, len(a.subs))
	copy(subs, a.subs)
	a.mu.Unlock()

	for _, s := range subs {
		s.fn(next)
	}
}
