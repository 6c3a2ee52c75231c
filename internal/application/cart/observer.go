package cart

import (
	"time"
)

// EventKind 对账事件类型
type EventKind string

const (
	EventPersist      EventKind = "persist"       // 一次写回完成(成功或失败)
	EventLoad         EventKind = "load"          // 加载完成
	EventLoadFallback EventKind = "load_fallback" // 远端不可用,回退到本地存储
	EventDecodeFailed EventKind = "decode_failed" // 本地数据损坏,按空购物车处理
	EventMerge        EventKind = "merge"         // 登录合并完成
	EventMergeSkip    EventKind = "merge_skip"    // 合并时跳过某一行
	EventMergeFailed  EventKind = "merge_failed"  // 合并过程中的单步失败
)

// Backend 存储后端
type Backend string

const (
	BackendLocal  Backend = "local"
	BackendRemote Backend = "remote"
)

// Event 对账过程中产生的可观测事件
// Seq只对persist事件有意义:每次写回分配一个递增序号,
// 完成顺序与序号顺序不一致时即发生了覆盖竞争(后完成者胜出)
type Event struct {
	Kind     EventKind
	Seq      uint64
	Backend  Backend
	UserID   string
	BookID   string
	Reason   string
	Items    int
	Duration time.Duration
	Err      error
}

// Observer 事件观察者(日志、指标、消息等)
// Observe可能在后台goroutine中被并发调用,实现需要自行保证并发安全
type Observer interface {
	Observe(ev Event)
}

// ObserverFunc 函数适配器
type ObserverFunc func(ev Event)

// Observe 实现Observer
func (f ObserverFunc) Observe(ev Event) { f(ev) }

// Observers 依次通知多个观察者
type Observers []Observer

// Observe 实现Observer
func (os Observers) Observe(ev Event) {
	for _, o := range os {
		if o != nil {
			o.Observe(ev)
		}
	}
}

type nopObserver struct{}

func (nopObserver) Observe(Event) {}
