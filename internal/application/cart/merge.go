package cart

import (
	"context"
	"time"

	"github.com/xiebiao/storefront/internal/domain/cart"
	"github.com/xiebiao/storefront/pkg/tracing"
)

// mergeOnLogin 登录合并:把访客购物车并入用户的远端购物车
// 调用方必须持有loadMu
//
// 流程:
//  1. 读取本地访客购物车(为空则只重新加载)
//  2. 读取远端购物车,按BookID建立数量映射
//  3. 逐行查询目录:不存在或已下架的图书静默跳过;
//     否则UpsertOne(userID, bookID, 远端数量+访客数量)
//  4. 删除本地访客购物车
//  5. 从远端重新加载
//
// 注意:整个流程不是事务,也没有幂等标记。步骤3部分完成后进程中断,
// 下次登录会对已合并的行重复累加数量。这是已知缺口,保持原行为。
func (r *Reconciler) mergeOnLogin(ctx context.Context, userID string) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "cart.merge")
	defer span.End()

	// 先等本会话已发起的访客写回落盘,否则它可能在删除本地购物车之后才写入
	r.tasks.wait()

	r.setLoading(true)
	defer r.setLoading(false)

	start := time.Now()

	data, err := r.local.Get(ctx, r.guestKey)
	if err != nil {
		r.observer.Observe(Event{Kind: EventMergeFailed, Backend: BackendLocal, UserID: userID, Reason: "read_guest", Err: err})
		r.load(ctx)
		return
	}
	guest, err := cart.DecodeItems(data)
	if err != nil {
		r.observer.Observe(Event{Kind: EventDecodeFailed, Backend: BackendLocal, UserID: userID, Err: err})
		guest = nil
	}
	if len(guest) == 0 {
		r.load(ctx)
		return
	}

	existing, err := r.remote.ListByUser(ctx, userID)
	if err != nil {
		// 远端不可用:保留访客购物车,下次登录再合并
		span.RecordError(err)
		r.observer.Observe(Event{Kind: EventMergeFailed, Backend: BackendRemote, UserID: userID, Reason: "list_remote", Err: err})
		r.load(ctx)
		return
	}
	quantities := make(map[string]int, len(existing))
	for _, it := range existing {
		quantities[it.BookID] = it.Quantity
	}

	merged := 0
	for _, g := range guest {
		b, err := r.catalog.Lookup(ctx, g.BookID)
		switch {
		case err != nil:
			r.observer.Observe(Event{Kind: EventMergeSkip, UserID: userID, BookID: g.BookID, Reason: "lookup_failed", Err: err})
			continue
		case b == nil:
			r.observer.Observe(Event{Kind: EventMergeSkip, UserID: userID, BookID: g.BookID, Reason: "not_found"})
			continue
		case !b.Active:
			r.observer.Observe(Event{Kind: EventMergeSkip, UserID: userID, BookID: g.BookID, Reason: "inactive"})
			continue
		}

		qty := quantities[g.BookID] + g.Quantity
		if err := r.remote.UpsertOne(ctx, userID, g.BookID, qty); err != nil {
			r.observer.Observe(Event{Kind: EventMergeFailed, Backend: BackendRemote, UserID: userID, BookID: g.BookID, Reason: "upsert", Err: err})
			continue
		}
		quantities[g.BookID] = qty
		merged++
	}

	if err := r.local.Remove(ctx, r.guestKey); err != nil {
		r.observer.Observe(Event{Kind: EventMergeFailed, Backend: BackendLocal, UserID: userID, Reason: "remove_guest", Err: err})
	}

	r.observer.Observe(Event{
		Kind:     EventMerge,
		Backend:  BackendRemote,
		UserID:   userID,
		Items:    merged,
		Duration: time.Since(start),
	})

	r.load(ctx)
}
