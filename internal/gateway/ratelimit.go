package gateway

import (
	"sync"
	"time"
)

// Defaults matching the production rollout: ten queries per minute.
const (
	DefaultQueriesPerMinute = 10
	rateLimitWindow         = time.Minute
)

// slidingWindow caps queries per fixed interval. It rejects rather than
// blocks, and is safe under concurrent invocations sharing one gateway.
type slidingWindow struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	stamps []time.Time
	now    func() time.Time
}

func newSlidingWindow(limit int, window time.Duration) *slidingWindow {
	if limit <= 0 {
		limit = DefaultQueriesPerMinute
	}
	return &slidingWindow{limit: limit, window: window, now: time.Now}
}

// Allow reports whether a query may run now, recording it if so. Timestamps
// that have left the window are dropped on every call.
func (w *slidingWindow) Allow() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	cutoff := w.now().Add(-w.window)
	kept := w.stamps[:0]
	for _, ts := range w.stamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	w.stamps = kept

	if len(w.stamps) >= w.limit {
		return false
	}
	w.stamps = append(w.stamps, w.now())
	return true
}
