package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	cartapp "github.com/xiebiao/storefront/internal/application/cart"
	"github.com/xiebiao/storefront/internal/domain/cart"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// Options Manager的依赖与参数
type Options struct {
	Local          cart.LocalStore
	Remote         cart.RemoteStore
	Catalog        cart.Catalog
	Observer       cartapp.Observer
	Pricing        cart.Pricing
	GuestKeyPrefix string        // 访客购物车键前缀,如"guest_cart:"
	IdleTimeout    time.Duration // 会话空闲超过该时长后被Sweep回收;0表示不回收
	Logger         *zap.Logger
	Active         Gauge // 可为nil
}

// Gauge 活跃会话数上报(prometheus.Gauge满足该接口)
type Gauge interface {
	Set(float64)
}

// Session 一个购物车会话:认证状态 + 对账器
type Session struct {
	ID         string
	Auth       *AuthSession
	Reconciler *cartapp.Reconciler

	lastSeen time.Time
	ready    chan struct{} // 首次加载完成后关闭
}

// Manager 按会话ID管理购物车会话
// 会话ID由客户端通过X-Cart-Session头携带,首次使用时创建并加载
type Manager struct {
	opts Options

	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool

	now func() time.Time
}

// NewManager 创建会话管理器
func NewManager(opts Options) *Manager {
	if opts.GuestKeyPrefix == "" {
		opts.GuestKeyPrefix = "guest_cart:"
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Manager{
		opts:     opts,
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Open 获取会话,不存在则创建并执行首次加载
func (m *Manager) Open(ctx context.Context, sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, apperrors.ErrSessionRequired
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, apperrors.New(apperrors.ErrCodeInternal, "会话管理器已关闭")
	}
	if s, ok := m.sessions[sessionID]; ok {
		s.lastSeen = m.now()
		m.mu.Unlock()
		select {
		case <-s.ready:
			return s, nil
		case <-ctx.Done():
			return nil, apperrors.Wrap(ctx.Err(), "等待购物车加载超时")
		}
	}

	auth := NewAuthSession()
	s := &Session{
		ID:   sessionID,
		Auth: auth,
		Reconciler: cartapp.NewReconciler(cartapp.Deps{
			Local:    m.opts.Local,
			Remote:   m.opts.Remote,
			Catalog:  m.opts.Catalog,
			Auth:     auth,
			Observer: m.opts.Observer,
			Pricing:  m.opts.Pricing,
			GuestKey: m.opts.GuestKeyPrefix + sessionID,
		}),
		lastSeen: m.now(),
		ready:    make(chan struct{}),
	}
	m.sessions[sessionID] = s
	m.reportLocked()
	m.mu.Unlock()

	// 首次加载在Manager锁外执行,同一会话的其他请求等待ready
	s.Reconciler.Start(ctx)
	close(s.ready)
	m.opts.Logger.Debug("cart session opened", zap.String("session_id", sessionID))
	return s, nil
}

// Get 获取已存在的会话
func (m *Manager) Get(sessionID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	return s, ok
}

// Sync 按请求携带的身份驱动会话的认证状态
// userID为空表示访客;与当前状态相同则不触发转换
func (m *Manager) Sync(ctx context.Context, sessionID, userID string) (*Session, error) {
	s, err := m.Open(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if userID == "" {
		s.Auth.SignOut()
	} else {
		s.Auth.SignIn(userID)
	}
	return s, nil
}

// Len 当前会话数
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep 回收空闲会话,返回回收数量
// 回收前等待该会话的写回完成,购物车数据仍保留在存储中
func (m *Manager) Sweep() int {
	if m.opts.IdleTimeout <= 0 {
		return 0
	}

	m.mu.Lock()
	deadline := m.now().Add(-m.opts.IdleTimeout)
	var idle []*Session
	for id, s := range m.sessions {
		if s.lastSeen.Before(deadline) {
			idle = append(idle, s)
			delete(m.sessions, id)
		}
	}
	m.reportLocked()
	m.mu.Unlock()

	for _, s := range idle {
		s.Reconciler.Close()
		s.Reconciler.Wait()
	}
	if len(idle) > 0 {
		m.opts.Logger.Info("cart sessions evicted", zap.Int("count", len(idle)))
	}
	return len(idle)
}

// Run 周期性执行Sweep,直到ctx取消
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// Close 停止所有会话并等待写回完成
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[string]*Session)
	m.reportLocked()
	m.mu.Unlock()

	for _, s := range sessions {
		s.Reconciler.Close()
		s.Reconciler.Wait()
	}
	m.opts.Logger.Info("cart sessions closed", zap.Int("count", len(sessions)))
}

func (m *Manager) reportLocked() {
	if m.opts.Active != nil {
		m.opts.Active.Set(float64(len(m.sessions)))
	}
}
