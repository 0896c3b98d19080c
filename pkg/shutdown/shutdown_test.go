package shutdown

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestShutdownRunsAllCallbacksOnce(t *testing.T) {
	m := NewManager()
	var calls atomic.Int32
	m.OnShutdown("a", func(context.Context) error { calls.Add(1); return nil })
	m.OnShutdown("b", func(context.Context) error { calls.Add(1); return errors.New("boom") })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if failed := m.Shutdown(ctx); failed != 1 {
		t.Fatalf("failed=%d want=1", failed)
	}
	if m.Shutdown(ctx) != 0 || calls.Load() != 2 {
		t.Fatalf("callbacks should run once, calls=%d", calls.Load())
	}
}

func TestShutdownTimeout(t *testing.T) {
	m := NewManager()
	release := make(chan struct{})
	defer close(release)
	m.OnShutdown("stuck", func(context.Context) error { <-release; return nil })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	start := time.Now()
	m.Shutdown(ctx)
	if time.Since(start) > time.Second {
		t.Fatalf("shutdown should give up after ctx timeout")
	}
}
