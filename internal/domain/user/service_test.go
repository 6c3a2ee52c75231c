package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

type memRepo struct {
	users map[string]*User
}

func (m *memRepo) Create(_ context.Context, u *User) error {
	if _, ok := m.users[u.Email]; ok {
		return apperrors.ErrEmailDuplicate
	}
	u.ID = uint(len(m.users) + 1)
	m.users[u.Email] = u
	return nil
}

func (m *memRepo) FindByID(_ context.Context, id uint) (*User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (m *memRepo) FindByEmail(_ context.Context, email string) (*User, error) {
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func newTestService() Service {
	return NewService(&memRepo{users: map[string]*User{}}, bcrypt.MinCost)
}

func TestService_RegisterAndLogin(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "reader@example.com", "secret123", "读者")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", u.Password)
	assert.Equal(t, "1", u.CartOwnerID())

	_, err = svc.Register(ctx, "reader@example.com", "secret123", "读者")
	assert.Equal(t, apperrors.ErrEmailDuplicate, err)

	got, err := svc.Login(ctx, "reader@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Login(ctx, "reader@example.com", "wrong1234")
	assert.Equal(t, apperrors.ErrInvalidPassword, err)

	_, err = svc.Login(ctx, "nobody@example.com", "secret123")
	assert.Equal(t, apperrors.ErrUserNotFound, err)
}

func TestService_RegisterValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "not-an-email", "secret123", "读者")
	assert.Error(t, err)

	_, err = svc.Register(ctx, "a@example.com", "short1", "读者")
	assert.Equal(t, apperrors.ErrWeakPassword, err)

	_, err = svc.Register(ctx, "a@example.com", "lettersonly", "读者")
	assert.Equal(t, apperrors.ErrWeakPassword, err)

	_, err = svc.Register(ctx, "a@example.com", "secret123", "x")
	assert.Error(t, err)
}
