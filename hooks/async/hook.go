// Package asynchook decouples hook observers from the controller's hot
// paths: events are queued to a bounded channel and delivered by worker
// goroutines; when the queue is full, events are dropped rather than
// blocking a request.
//
// usage:
//
//	raw := promhook.New(prometheus.DefaultRegisterer)
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	ctrl, _ := offcache.New(offcache.Options{
//	    Version:  "v3",
//	    Provider: provider,
//	    Origin:   origin,
//	    Hooks:    hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"

	"github.com/harborvale/offcache"
)

type Hooks struct {
	inner offcache.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ offcache.Hooks = (*Hooks)(nil)

func New(inner offcache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) SelfHeal(k, r string)           { h.try(func() { h.inner.SelfHeal(k, r) }) }
func (h *Hooks) InstallFailed(p string, err error) {
	h.try(func() { h.inner.InstallFailed(p, err) })
}
func (h *Hooks) RefreshFailed(k string, err error) {
	h.try(func() { h.inner.RefreshFailed(k, err) })
}
func (h *Hooks) RefreshStored(k string)   { h.try(func() { h.inner.RefreshStored(k) }) }
func (h *Hooks) OfflineFallback(k string) { h.try(func() { h.inner.OfflineFallback(k) }) }
func (h *Hooks) GenerationPurged(l string, n int) {
	h.try(func() { h.inner.GenerationPurged(l, n) })
}
func (h *Hooks) ProviderSetRejected(k string) { h.try(func() { h.inner.ProviderSetRejected(k) }) }
