package cart

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/xiebiao/storefront/internal/domain/cart"
	"github.com/xiebiao/storefront/pkg/tracing"
)

const tracerName = "storefront/cart"

// Deps Reconciler的依赖
// 所有依赖由应用入口显式构造后注入,不使用包级单例
type Deps struct {
	Local    cart.LocalStore
	Remote   cart.RemoteStore
	Catalog  cart.Catalog
	Auth     cart.AuthProvider
	Observer Observer
	Pricing  cart.Pricing
	GuestKey string // 访客购物车在LocalStore中的键
}

// Reconciler 购物车对账器
// 设计说明:
// 1. 独占一个会话的内存购物车,本地/远端存储只是写穿缓存
// 2. 变更同步作用于内存快照,随后异步写回当前认证状态对应的存储
// 3. 写回不排队、不合并:并发写回谁最后完成谁生效(已知限制,通过Event.Seq暴露)
// 4. 所有存储失败只通知Observer,不向调用方返回错误
type Reconciler struct {
	local    cart.LocalStore
	remote   cart.RemoteStore
	catalog  cart.Catalog
	auth     cart.AuthProvider
	observer Observer
	pricing  cart.Pricing
	guestKey string

	mu       sync.Mutex
	items    []cart.LineItem
	shipping cart.ShippingMethod
	state    cart.AuthState
	loading  int

	// merging 登录合并尚未从远端重新加载,期间写回仍落本地
	merging bool
	// strayGuest 合并期间有写回落在本地访客购物车
	strayGuest bool

	// loadMu 串行化加载/合并流程,避免两次认证转换交错执行
	loadMu sync.Mutex

	seq         atomic.Uint64
	tasks       inflight
	baseCtx     context.Context
	unsubscribe func()
}

// NewReconciler 创建对账器
func NewReconciler(d Deps) *Reconciler {
	obs := d.Observer
	if obs == nil {
		obs = nopObserver{}
	}
	pricing := d.Pricing
	if pricing == (cart.Pricing{}) {
		pricing = cart.DefaultPricing()
	}
	return &Reconciler{
		local:    d.Local,
		remote:   d.Remote,
		catalog:  d.Catalog,
		auth:     d.Auth,
		observer: obs,
		pricing:  pricing,
		guestKey: d.GuestKey,
		items:    []cart.LineItem{},
		shipping: cart.ShippingStandard,
		baseCtx:  context.Background(),
	}
}

// Start 执行首次加载并订阅认证状态变化
// ctx的取消不会中断之后的后台写回
func (r *Reconciler) Start(ctx context.Context) {
	r.loadMu.Lock()
	defer r.loadMu.Unlock()

	r.mu.Lock()
	r.baseCtx = context.WithoutCancel(ctx)
	r.mu.Unlock()

	if r.auth == nil {
		r.load(ctx)
		return
	}

	initial := r.auth.Current()
	r.mu.Lock()
	r.state = initial
	r.mu.Unlock()
	r.unsubscribe = r.auth.Subscribe(r.onAuthChange)
	r.load(ctx)

	// 读取状态与订阅之间发生的转换不会回调,这里补上
	if now := r.auth.Current(); now != initial {
		r.transition(now)
	}
}

// Close 取消订阅;不会取消正在进行的写回
func (r *Reconciler) Close() {
	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}
}

// Wait 等待所有已发起的写回完成
func (r *Reconciler) Wait() {
	r.tasks.wait()
}

// =========================================
// 变更操作
// =========================================

// AddItem 加入图书:已存在则数量+1,否则以当前目录价追加一行
func (r *Reconciler) AddItem(b cart.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := cart.AddItem(r.items, b)
	if err != nil {
		return err
	}
	r.items = items
	r.persistLocked()
	return nil
}

// AddBookByID 查询目录后加入购物车
// 目录中不存在或已下架的图书会被拒绝,购物车不变
func (r *Reconciler) AddBookByID(ctx context.Context, bookID string) error {
	if bookID == "" {
		return cart.ErrEmptyBookID
	}
	b, err := r.catalog.Lookup(ctx, bookID)
	if err != nil {
		return err
	}
	if b == nil {
		return cart.ErrBookNotFound
	}
	if !b.Active {
		return cart.ErrBookInactive
	}
	return r.AddItem(cart.Book{
		ID:             b.ID,
		ListPriceCents: b.ListPriceCents,
		Title:          b.Title,
		CoverURL:       b.CoverURL,
	})
}

// RemoveItem 删除行项目,不存在时为no-op(仍会触发写回)
func (r *Reconciler) RemoveItem(bookID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = cart.RemoveItem(r.items, bookID)
	r.persistLocked()
}

// UpdateQuantity 设置数量,quantity<=0时等价于RemoveItem
func (r *Reconciler) UpdateQuantity(bookID string, quantity int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = cart.UpdateQuantity(r.items, bookID, quantity)
	r.persistLocked()
}

// Clear 清空购物车并立即写回空快照
func (r *Reconciler) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = []cart.LineItem{}
	r.persistLocked()
}

// SetShippingMethod 设置配送方式(会话内状态,不写回存储)
func (r *Reconciler) SetShippingMethod(m cart.ShippingMethod) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.shipping = m
}

// =========================================
// 读取
// =========================================

// Items 返回当前行项目的副本
func (r *Reconciler) Items() []cart.LineItem {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]cart.LineItem, len(r.items))
	copy(out, r.items)
	return out
}

// Snapshot 返回当前快照的副本
func (r *Reconciler) Snapshot() cart.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := make([]cart.LineItem, len(r.items))
	copy(items, r.items)
	return cart.Snapshot{Items: items, ShippingMethod: r.shipping}
}

// Totals 计算派生金额
func (r *Reconciler) Totals() cart.Totals {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.pricing.Compute(r.items, r.shipping)
}

// Pricing 返回计价参数
func (r *Reconciler) Pricing() cart.Pricing {
	return r.pricing
}

// Loading 是否正在加载
func (r *Reconciler) Loading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.loading > 0
}

// AuthState 返回对账器当前观察到的认证状态
func (r *Reconciler) AuthState() cart.AuthState {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.state
}

// =========================================
// 写回
// =========================================

// persistLocked 发起一次异步写回,调用方必须持有r.mu
// 写回内容是发起时刻的快照;不排队、不取消
func (r *Reconciler) persistLocked() {
	seq := r.seq.Add(1)
	items := make([]cart.LineItem, len(r.items))
	copy(items, r.items)
	state := r.state
	ctx := r.baseCtx
	if r.merging {
		state.SignedIn = false
		r.strayGuest = true
	}

	r.tasks.add()
	go func() {
		defer r.tasks.done()

		ctx, span := tracing.StartSpan(ctx, tracerName, "cart.persist")
		defer span.End()

		start := time.Now()
		backend, err := r.write(ctx, state, items)
		if err != nil {
			span.RecordError(err)
		}
		r.observer.Observe(Event{
			Kind:     EventPersist,
			Seq:      seq,
			Backend:  backend,
			UserID:   state.UserID,
			Items:    len(items),
			Duration: time.Since(start),
			Err:      err,
		})
	}()
}

// write 按认证状态选择后端写回
// 远端写回为"先删后插":删除成功而插入失败时远端购物车会变空(已知弱点)
func (r *Reconciler) write(ctx context.Context, state cart.AuthState, items []cart.LineItem) (Backend, error) {
	if state.SignedIn {
		if err := r.remote.DeleteAllByUser(ctx, state.UserID); err != nil {
			return BackendRemote, err
		}
		if len(items) == 0 {
			return BackendRemote, nil
		}
		return BackendRemote, r.remote.InsertMany(ctx, state.UserID, items)
	}

	data, err := cart.EncodeItems(items)
	if err != nil {
		return BackendLocal, err
	}
	return BackendLocal, r.local.Set(ctx, r.guestKey, data)
}

// inflight 统计进行中的写回任务
// 与sync.WaitGroup不同,允许wait与add并发调用
type inflight struct {
	mu   sync.Mutex
	cond *sync.Cond
	n    int
}

func (f *inflight) add() {
	f.mu.Lock()
	f.n++
	f.mu.Unlock()
}

func (f *inflight) done() {
	f.mu.Lock()
	f.n--
	if f.n == 0 && f.cond != nil {
		f.cond.Broadcast()
	}
	f.mu.Unlock()
}

func (f *inflight) wait() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cond == nil {
		f.cond = sync.NewCond(&f.mu)
	}
	for f.n > 0 {
		f.cond.Wait()
	}
}
