package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/storefront/internal/application/session"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
	"github.com/xiebiao/storefront/pkg/jwt"
	"github.com/xiebiao/storefront/pkg/metrics"
	"github.com/xiebiao/storefront/pkg/response"
)

type revoked map[string]bool

func (r revoked) IsInBlacklist(_ context.Context, token string) (bool, error) { return r[token], nil }

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func authRouter(m *AuthMiddleware, required bool) *gin.Engine {
	r := gin.New()
	mw := m.OptionalAuth()
	if required {
		mw = m.RequireAuth()
	}
	r.GET("/me", mw, func(c *gin.Context) {
		_, ttl := GetAccessToken(c)
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c), "has_ttl": ttl > 0})
	})
	return r
}

func get(r http.Handler, path, token string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	jm := jwt.NewManager("k", time.Hour, time.Hour)
	pair, err := jm.GenerateToken(7, "a@b.cd", "n")
	require.NoError(t, err)

	bl := revoked{}
	r := authRouter(NewAuthMiddleware(jm, bl), true)

	w := get(r, "/me", pair.AccessToken)
	assert.JSONEq(t, `{"user_id":7,"has_ttl":true}`, w.Body.String())

	assert.Equal(t, apperrors.ErrCodeUnauthorized, decode(t, get(r, "/me", "")).Code)
	assert.Equal(t, apperrors.ErrCodeInvalidToken, decode(t, get(r, "/me", "garbage")).Code)
	assert.Equal(t, apperrors.ErrCodeInvalidToken, decode(t, get(r, "/me", pair.RefreshToken)).Code, "Refresh Token不能用于鉴权")

	bl[pair.AccessToken] = true
	assert.Equal(t, apperrors.ErrCodeTokenExpired, decode(t, get(r, "/me", pair.AccessToken)).Code)
}

func TestOptionalAuth_InvalidTokenIsGuest(t *testing.T) {
	r := authRouter(NewAuthMiddleware(jwt.NewManager("k", time.Hour, time.Hour), nil), false)

	w := get(r, "/me", "garbage")
	assert.JSONEq(t, `{"user_id":0,"has_ttl":false}`, w.Body.String())
}

type syncCall struct{ id, owner string }

type fakeCarts struct {
	calls    []syncCall
	sessions map[string]*session.Session
}

func (f *fakeCarts) Sync(_ context.Context, id, owner string) (*session.Session, error) {
	f.calls = append(f.calls, syncCall{id, owner})
	if s, ok := f.sessions[id]; ok {
		return s, nil
	}
	return &session.Session{ID: id}, nil
}

func (f *fakeCarts) Get(id string) (*session.Session, bool) {
	s, ok := f.sessions[id]
	return s, ok
}

// signedIn 已由userID登录的会话
func signedIn(id, userID string) *session.Session {
	a := session.NewAuthSession()
	a.SignIn(userID)
	return &session.Session{ID: id, Auth: a}
}

type fakeBindings struct {
	bound   map[uint]string
	bindErr error
}

func (f *fakeBindings) BoundCartSession(_ context.Context, userID uint) (string, error) {
	return f.bound[userID], nil
}

func (f *fakeBindings) BindCartSession(_ context.Context, userID uint, cartSession string) error {
	if f.bindErr != nil {
		return f.bindErr
	}
	f.bound[userID] = cartSession
	return nil
}

func cartRouter(carts CartSessions, bindings CartBindings) (*gin.Engine, *jwt.Manager) {
	jm := jwt.NewManager("k", time.Hour, time.Hour)
	r := gin.New()
	r.Use(NewAuthMiddleware(jm, nil).OptionalAuth(), CartSession(carts, bindings))
	r.GET("/cart", func(c *gin.Context) { c.String(http.StatusOK, CartSessionID(c)) })
	return r, jm
}

func TestCartSession(t *testing.T) {
	jm := jwt.NewManager("k", time.Hour, time.Hour)
	pair, err := jm.GenerateToken(7, "", "")
	require.NoError(t, err)

	carts := &fakeCarts{}
	r := gin.New()
	r.Use(NewAuthMiddleware(jm, nil).OptionalAuth(), CartSession(carts, nil))
	r.GET("/cart", func(c *gin.Context) { c.String(http.StatusOK, GetCartSession(c).ID) })

	w := get(r, "/cart", "")
	generated := w.Header().Get(CartSessionHeader)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, w.Body.String())

	w = get(r, "/cart", pair.AccessToken, CartSessionHeader, "s-1")
	assert.Equal(t, "s-1", w.Header().Get(CartSessionHeader))

	assert.Equal(t, []syncCall{{generated, ""}, {"s-1", "7"}}, carts.calls)
}

func TestCartSession_ManagerError(t *testing.T) {
	r := gin.New()
	r.Use(CartSession(failingCarts{}, nil))
	r.GET("/cart", func(c *gin.Context) { c.String(http.StatusOK, "unreachable") })

	assert.Equal(t, apperrors.ErrCodeInternal, decode(t, get(r, "/cart", "")).Code)
}

type failingCarts struct{}

func (failingCarts) Sync(context.Context, string, string) (*session.Session, error) {
	return nil, apperrors.New(apperrors.ErrCodeInternal, "closed")
}

func (failingCarts) Get(string) (*session.Session, bool) { return nil, false }

func TestCartSession_BoundSessionOverridesHeader(t *testing.T) {
	carts := &fakeCarts{}
	bindings := &fakeBindings{bound: map[uint]string{7: "s-bound"}}
	r, jm := cartRouter(carts, bindings)
	pair, err := jm.GenerateToken(7, "", "")
	require.NoError(t, err)

	w := get(r, "/cart", pair.AccessToken, CartSessionHeader, "s-other")
	assert.Equal(t, "s-bound", w.Header().Get(CartSessionHeader))
	assert.Equal(t, "s-bound", w.Body.String())
	assert.Equal(t, []syncCall{{"s-bound", "7"}}, carts.calls)
}

func TestCartSession_BindsUnboundLogin(t *testing.T) {
	carts := &fakeCarts{}
	bindings := &fakeBindings{bound: map[uint]string{}}
	r, jm := cartRouter(carts, bindings)
	pair, err := jm.GenerateToken(7, "", "")
	require.NoError(t, err)

	get(r, "/cart", pair.AccessToken, CartSessionHeader, "s-1")
	assert.Equal(t, "s-1", bindings.bound[7])

	// 绑定后换一个头也回到原会话
	w := get(r, "/cart", pair.AccessToken, CartSessionHeader, "s-2")
	assert.Equal(t, "s-1", w.Header().Get(CartSessionHeader))
}

func TestCartSession_ForeignSessionGetsFreshGuest(t *testing.T) {
	carts := &fakeCarts{sessions: map[string]*session.Session{"s-9": signedIn("s-9", "9")}}
	r, jm := cartRouter(carts, &fakeBindings{bound: map[uint]string{}})

	// 匿名请求不能把他人的已登录会话切回访客态
	w := get(r, "/cart", "", CartSessionHeader, "s-9")
	fresh := w.Header().Get(CartSessionHeader)
	assert.NotEqual(t, "s-9", fresh)
	assert.NotEmpty(t, fresh)

	// 其他用户同样不能接管
	pair, err := jm.GenerateToken(7, "", "")
	require.NoError(t, err)
	w = get(r, "/cart", pair.AccessToken, CartSessionHeader, "s-9")
	assert.NotEqual(t, "s-9", w.Header().Get(CartSessionHeader))

	for _, call := range carts.calls {
		assert.NotEqual(t, "s-9", call.id)
	}
	assert.True(t, carts.sessions["s-9"].Auth.Current().SignedIn)
}

func TestCartSession_OwnerKeepsSession(t *testing.T) {
	carts := &fakeCarts{sessions: map[string]*session.Session{"s-7": signedIn("s-7", "7")}}
	r, jm := cartRouter(carts, nil)
	pair, err := jm.GenerateToken(7, "", "")
	require.NoError(t, err)

	w := get(r, "/cart", pair.AccessToken, CartSessionHeader, "s-7")
	assert.Equal(t, "s-7", w.Header().Get(CartSessionHeader))
	assert.Equal(t, []syncCall{{"s-7", "7"}}, carts.calls)
}

func TestMetrics(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/api/v1/books/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	get(r, "/api/v1/books/1", "")
	get(r, "/api/v1/books/2", "")
	get(r, "/nope", "")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/books/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.HTTPRequestsInProgress))
}
