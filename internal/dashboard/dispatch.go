package dashboard

import (
	"errors"
	"fmt"

	"github.com/betbot/botdash/internal/metrics"
	"github.com/betbot/botdash/internal/snapshot"
)

// RenderError 某个渲染器被跳过（数据缺失或渲染失败），其它渲染器照常执行
type RenderError struct {
	Renderer string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Renderer, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

type renderStep struct {
	name string
	fn   func(*snapshot.Snapshot) error
}

// 渲染顺序只影响观感，不影响结果
func (c *Coordinator) steps() []renderStep {
	return []renderStep{
		{"metrics", c.renderMetrics},
		{"indicator", c.renderIndicator},
		{"pnl", c.renderPnL},
		{"projection", c.renderProjection},
		{"tables", c.renderTables},
		{"signal", c.renderSignal},
	}
}

// chartSteps 主题切换时重绘的图表
func (c *Coordinator) chartSteps() []renderStep {
	return []renderStep{
		{"indicator", c.renderIndicator},
		{"pnl", c.renderPnL},
		{"projection", c.renderProjection},
		{"signal", c.renderSignal},
	}
}

// dispatch 调用方持有 renderMu；本轮所有渲染器看到同一个快照
func (c *Coordinator) dispatch(s *snapshot.Snapshot) []error {
	errs := c.run(s, c.steps())
	metrics.RenderCycles.Add(1)
	for _, err := range errs {
		log.Warnf("%v", err)
	}
	return errs
}

func (c *Coordinator) renderCharts(s *snapshot.Snapshot) []error {
	return c.run(s, c.chartSteps())
}

func (c *Coordinator) run(s *snapshot.Snapshot, steps []renderStep) []error {
	var errs []error
	for _, st := range steps {
		if err := st.fn(s); err != nil {
			metrics.RenderSkipped.Add(1)
			errs = append(errs, &RenderError{Renderer: st.name, Err: err})
		}
	}
	return errs
}

func joinRenderErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}
