// Package ratelimit 简单的滑动窗口限流，用于挡住外部入口的连点/刷请求。
package ratelimit

import (
	"sync"
	"time"
)

// Window 滑动窗口：任意 size 时间内最多放行 limit 次
type Window struct {
	limit int
	size  time.Duration
	now   func() time.Time

	mu   sync.Mutex
	hits []time.Time
}

// NewWindow limit <= 0 表示不限
func NewWindow(limit int, size time.Duration) *Window {
	return &Window{limit: limit, size: size, now: time.Now}
}

// Allow 是否放行本次请求（放行即计数）
func (w *Window) Allow() bool {
	if w == nil || w.limit <= 0 {
		return true
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	cutoff := now.Add(-w.size)
	kept := w.hits[:0]
	for _, t := range w.hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	w.hits = kept

	if len(w.hits) >= w.limit {
		return false
	}
	w.hits = append(w.hits, now)
	return true
}

// RetryAfter 距离下一次可放行还要多久，0 表示现在就可以
func (w *Window) RetryAfter() time.Duration {
	if w == nil || w.limit <= 0 {
		return 0
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.hits) < w.limit {
		return 0
	}
	d := w.hits[0].Add(w.size).Sub(w.now())
	if d < 0 {
		return 0
	}
	return d
}
