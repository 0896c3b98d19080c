// Package sigchan 合并式事件通知：刷新请求、主题切换、页面变化。
package sigchan

// Chan 只表达"有事发生"，不带数据；接收方来不及处理时重复的通知合并掉
type Chan struct {
	c chan struct{}
}

// New bufferSize < 1 时按 1 处理
func New(bufferSize int) *Chan {
	if bufferSize < 1 {
		bufferSize = 1
	}
	return &Chan{c: make(chan struct{}, bufferSize)}
}

// Emit 不阻塞；缓冲已满说明已有通知待处理，本次直接丢弃
func (c *Chan) Emit() {
	select {
	case c.c <- struct{}{}:
	default:
	}
}

// C 供 select 使用
func (c *Chan) C() <-chan struct{} {
	return c.c
}
