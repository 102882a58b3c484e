package feed

import "sync"

// Trigger turns sentinel visibility into load-more calls. It is purely
// edge-triggered: the callback fires on each not-visible to visible
// transition and never while the sentinel stays visible. The callback is
// expected to be cheap and idempotent (Controller.LoadMore is both).
type Trigger struct {
	mu        sync.Mutex
	onVisible func()
	visible   bool
	detached  bool
}

func NewTrigger(onVisible func()) *Trigger {
	return &Trigger{onVisible: onVisible}
}

// Observe reports the sentinel's current visibility.
func (t *Trigger) Observe(visible bool) {
	t.mu.Lock()
	fire := visible && !t.visible && !t.detached
	t.visible = visible
	cb := t.onVisible
	t.mu.Unlock()

	if fire && cb != nil {
		cb()
	}
}

// Detach makes all further observations inert. Used on teardown so a
// stale trigger cannot invoke a controller that no longer owns the view.
func (t *Trigger) Detach() {
	t.mu.Lock()
	t.detached = true
	t.onVisible = nil
	t.mu.Unlock()
}
