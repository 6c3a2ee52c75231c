package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/xiebiao/storefront/internal/domain/cart"
)

var errBackendDown = errors.New("backend unavailable")

// memLocal 内存版LocalStore
type memLocal struct {
	mu        sync.Mutex
	data      map[string][]byte
	failGet   error
	failSet   error
	failRm    error
	setCalls  int
	setGates  map[int]chan struct{} // 第N次Set调用在对应channel关闭前阻塞
	setOrders []int                 // Set实际完成的调用顺序
}

func newMemLocal() *memLocal {
	return &memLocal{data: map[string][]byte{}, setGates: map[int]chan struct{}{}}
}

func (m *memLocal) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet != nil {
		return nil, m.failGet
	}
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (m *memLocal) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	m.setCalls++
	call := m.setCalls
	gate := m.setGates[call]
	m.mu.Unlock()

	if gate != nil {
		<-gate
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet != nil {
		return m.failSet
	}
	m.data[key] = append([]byte(nil), value...)
	m.setOrders = append(m.setOrders, call)
	return nil
}

func (m *memLocal) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failRm != nil {
		return m.failRm
	}
	delete(m.data, key)
	return nil
}

func (m *memLocal) raw(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

// memRemote 内存版RemoteStore
type memRemote struct {
	mu         sync.Mutex
	carts      map[string][]cart.LineItem
	prices     map[string]int64
	failList   error
	failDelete error
	failInsert error
	failUpsert map[string]error
}

func newMemRemote() *memRemote {
	return &memRemote{
		carts:      map[string][]cart.LineItem{},
		prices:     map[string]int64{},
		failUpsert: map[string]error{},
	}
}

func (m *memRemote) ListByUser(_ context.Context, userID string) ([]cart.LineItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failList != nil {
		return nil, m.failList
	}
	return append([]cart.LineItem(nil), m.carts[userID]...), nil
}

func (m *memRemote) DeleteAllByUser(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failDelete != nil {
		return m.failDelete
	}
	delete(m.carts, userID)
	return nil
}

func (m *memRemote) InsertMany(_ context.Context, userID string, items []cart.LineItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failInsert != nil {
		return m.failInsert
	}
	m.carts[userID] = append(m.carts[userID], items...)
	return nil
}

func (m *memRemote) UpsertOne(_ context.Context, userID, bookID string, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failUpsert[bookID]; err != nil {
		return err
	}
	items := m.carts[userID]
	for i := range items {
		if items[i].BookID == bookID {
			items[i].Quantity = quantity
			return nil
		}
	}
	m.carts[userID] = append(items, cart.LineItem{BookID: bookID, Quantity: quantity, UnitPriceCents: m.prices[bookID]})
	return nil
}

func (m *memRemote) quantities(userID string) map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]int{}
	for _, it := range m.carts[userID] {
		out[it.BookID] += it.Quantity
	}
	return out
}

func (m *memRemote) seed(userID string, items ...cart.LineItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[userID] = append([]cart.LineItem(nil), items...)
}

// memCatalog 内存版Catalog
type memCatalog struct {
	books   map[string]*cart.CatalogBook
	failFor map[string]error

	mu      sync.Mutex
	hold    string        // 查询该图书时阻塞
	entered chan struct{} // 开始阻塞时关闭
	release chan struct{} // 关闭后放行
}

// holdLookup 让之后对bookID的查询阻塞,直到调用返回的release
func (c *memCatalog) holdLookup(bookID string) (entered <-chan struct{}, release func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hold = bookID
	c.entered = make(chan struct{})
	c.release = make(chan struct{})
	return c.entered, func() { close(c.release) }
}

func newMemCatalog(books ...cart.CatalogBook) *memCatalog {
	c := &memCatalog{books: map[string]*cart.CatalogBook{}, failFor: map[string]error{}}
	for i := range books {
		b := books[i]
		c.books[b.ID] = &b
	}
	return c
}

func (c *memCatalog) Lookup(_ context.Context, bookID string) (*cart.CatalogBook, error) {
	c.mu.Lock()
	if c.hold != "" && c.hold == bookID {
		c.hold = ""
		entered, release := c.entered, c.release
		c.mu.Unlock()
		close(entered)
		<-release
	} else {
		c.mu.Unlock()
	}

	if err := c.failFor[bookID]; err != nil {
		return nil, err
	}
	b, ok := c.books[bookID]
	if !ok {
		return nil, nil
	}
	copied := *b
	return &copied, nil
}

// fakeAuth 同步通知的认证状态源
type fakeAuth struct {
	mu    sync.Mutex
	state cart.AuthState
	subs  map[int]func(cart.AuthState)
	next  int

	beforeSubscribe func() // 注册订阅前调用
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{subs: map[int]func(cart.AuthState){}}
}

func (a *fakeAuth) Current() cart.AuthState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *fakeAuth) Subscribe(fn func(cart.AuthState)) func() {
	if a.beforeSubscribe != nil {
		a.beforeSubscribe()
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.next
	a.next++
	a.subs[id] = fn
	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		delete(a.subs, id)
	}
}

func (a *fakeAuth) set(s cart.AuthState) {
	a.mu.Lock()
	a.state = s
	subs := make([]func(cart.AuthState), 0, len(a.subs))
	for _, fn := range a.subs {
		subs = append(subs, fn)
	}
	a.mu.Unlock()

	for _, fn := range subs {
		fn(s)
	}
}

func (a *fakeAuth) signIn(userID string) { a.set(cart.AuthState{SignedIn: true, UserID: userID}) }
func (a *fakeAuth) signOut()             { a.set(cart.AuthState{}) }

// recorder 记录所有事件
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Observe(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) byKind(kind EventKind) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, ev := range r.events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

func price(c int64) *int64 { return &c }

func activeBook(id string, cents int64) cart.CatalogBook {
	return cart.CatalogBook{ID: id, ListPriceCents: price(cents), Active: true, Title: "Book " + id}
}
