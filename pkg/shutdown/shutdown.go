package shutdown

import (
	"context"
	"sync"

	"github.com/betbot/botdash/pkg/logger"
)

// Handler 关闭处理函数
type Handler func(ctx context.Context) error

type named struct {
	name string
	fn   Handler
}

// Manager 优雅关闭管理器：回调并发执行，整体受 ctx 超时约束
type Manager struct {
	mu        sync.Mutex
	callbacks []named
	done      bool
}

// NewManager 创建新的关闭管理器
func NewManager() *Manager {
	return &Manager{}
}

// OnShutdown 注册关闭回调，name 用于日志
func (m *Manager) OnShutdown(name string, handler Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, named{name: name, fn: handler})
}

// Shutdown 执行所有关闭回调（阻塞，只执行一次）。
// ctx 应该带超时，避免无限等待。返回超时前完成的回调里出错的个数。
func (m *Manager) Shutdown(ctx context.Context) int {
	m.mu.Lock()
	if m.done {
		m.mu.Unlock()
		return 0
	}
	m.done = true
	callbacks := m.callbacks
	m.mu.Unlock()

	if len(callbacks) == 0 {
		logger.Info("没有注册的关闭回调")
		return 0
	}

	logger.Infof("开始优雅关闭，共 %d 个回调", len(callbacks))

	var (
		wg       sync.WaitGroup
		failMu   sync.Mutex
		failures int
	)
	wg.Add(len(callbacks))
	for _, cb := range callbacks {
		go func(cb named) {
			defer wg.Done()
			if err := cb.fn(ctx); err != nil {
				logger.Warnf("关闭 %s 失败: %v", cb.name, err)
				failMu.Lock()
				failures++
				failMu.Unlock()
			}
		}(cb)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("所有关闭回调已完成")
	case <-ctx.Done():
		logger.Warnf("关闭超时: %v", ctx.Err())
	}

	failMu.Lock()
	defer failMu.Unlock()
	return failures
}
