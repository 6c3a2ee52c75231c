package cart

import (
	"context"
	"time"

	"github.com/xiebiao/storefront/internal/domain/cart"
	"github.com/xiebiao/storefront/pkg/tracing"
)

// Load 重新加载购物车
// 已登录且远端可用时读远端,否则读本地;本地数据损坏按空购物车处理
func (r *Reconciler) Load(ctx context.Context) {
	r.loadMu.Lock()
	defer r.loadMu.Unlock()

	r.load(ctx)
}

// load 调用方必须持有loadMu
func (r *Reconciler) load(ctx context.Context) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "cart.load")
	defer span.End()

	r.setLoading(true)
	defer r.setLoading(false)

	start := time.Now()
	state := r.AuthState()

	if state.SignedIn {
		items, err := r.remote.ListByUser(ctx, state.UserID)
		if err == nil {
			if stray := r.replaceItems(items); stray {
				r.dropStrayGuest(ctx, state.UserID)
			}
			r.observer.Observe(Event{
				Kind:     EventLoad,
				Backend:  BackendRemote,
				UserID:   state.UserID,
				Items:    len(items),
				Duration: time.Since(start),
			})
			return
		}
		span.RecordError(err)
		r.observer.Observe(Event{
			Kind:    EventLoadFallback,
			Backend: BackendRemote,
			UserID:  state.UserID,
			Err:     err,
		})
	}

	items := r.readGuest(ctx)
	r.replaceItems(items)
	r.observer.Observe(Event{
		Kind:     EventLoad,
		Backend:  BackendLocal,
		UserID:   state.UserID,
		Items:    len(items),
		Duration: time.Since(start),
	})
}

// readGuest 读取访客购物车,任何失败都返回空购物车
func (r *Reconciler) readGuest(ctx context.Context) []cart.LineItem {
	data, err := r.local.Get(ctx, r.guestKey)
	if err != nil {
		r.observer.Observe(Event{Kind: EventLoad, Backend: BackendLocal, Err: err})
		return []cart.LineItem{}
	}

	items, err := cart.DecodeItems(data)
	if err != nil {
		r.observer.Observe(Event{Kind: EventDecodeFailed, Backend: BackendLocal, Err: err})
		return []cart.LineItem{}
	}
	return items
}

// replaceItems 替换内存快照并结束合并状态,返回合并期间是否写过本地
func (r *Reconciler) replaceItems(items []cart.LineItem) bool {
	if items == nil {
		items = []cart.LineItem{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = items
	r.merging = false
	stray := r.strayGuest
	r.strayGuest = false
	return stray
}

// dropStrayGuest 等合并期间的本地写回落盘后删除访客购物车,避免下次登录重复合并
func (r *Reconciler) dropStrayGuest(ctx context.Context, userID string) {
	r.tasks.wait()
	if err := r.local.Remove(ctx, r.guestKey); err != nil {
		r.observer.Observe(Event{Kind: EventMergeFailed, Backend: BackendLocal, UserID: userID, Reason: "remove_guest", Err: err})
	}
}

func (r *Reconciler) setLoading(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if on {
		r.loading++
	} else {
		r.loading--
	}
}

// onAuthChange 认证状态转换回调
func (r *Reconciler) onAuthChange(next cart.AuthState) {
	r.loadMu.Lock()
	defer r.loadMu.Unlock()

	r.transition(next)
}

// transition 调用方必须持有loadMu
// 访客→登录:执行一次登录合并(其中包含重新加载);其余转换直接重新加载
// 合并完成前的写回仍落本地,远端购物车在合并读取之前不会被访客快照覆盖
func (r *Reconciler) transition(next cart.AuthState) {
	r.mu.Lock()
	prev := r.state
	if prev == next {
		r.mu.Unlock()
		return
	}
	r.state = next
	login := !prev.SignedIn && next.SignedIn
	r.merging = login
	ctx := r.baseCtx
	r.mu.Unlock()

	if login {
		r.mergeOnLogin(ctx, next.UserID)
		return
	}
	r.load(ctx)
}
