package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xiebiao/storefront/internal/domain/cart"
)

func TestAuthSession_NotifiesInOrder(t *testing.T) {
	a := NewAuthSession()

	var calls []string
	a.Subscribe(func(s cart.AuthState) { calls = append(calls, "first:"+s.UserID) })
	a.Subscribe(func(s cart.AuthState) { calls = append(calls, "second:"+s.UserID) })

	a.SignIn("u1")
	assert.Equal(t, []string{"first:u1", "second:u1"}, calls)
	assert.Equal(t, cart.AuthState{SignedIn: true, UserID: "u1"}, a.Current())
}

func TestAuthSession_SameStateIsNotATransition(t *testing.T) {
	a := NewAuthSession()
	count := 0
	a.Subscribe(func(cart.AuthState) { count++ })

	a.SignOut()
	a.SignIn("u1")
	a.SignIn("u1")
	a.SignIn("u2")
	a.SignOut()
	a.SignOut()

	assert.Equal(t, 3, count)
}

func TestAuthSession_Unsubscribe(t *testing.T) {
	a := NewAuthSession()
	count := 0
	unsubscribe := a.Subscribe(func(cart.AuthState) { count++ })
	a.Subscribe(func(cart.AuthState) {})

	a.SignIn("u1")
	unsubscribe()
	unsubscribe()
	a.SignOut()

	assert.Equal(t, 1, count)
}

func TestAuthSession_CallbackCanReadCurrent(t *testing.T) {
	a := NewAuthSession()
	var seen cart.AuthState
	a.Subscribe(func(cart.AuthState) { seen = a.Current() })

	a.SignIn("u1")
	assert.Equal(t, "u1", seen.UserID)
}
