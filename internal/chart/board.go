package chart

import (
	"fmt"
	"sort"
	"sync"

	"github.com/betbot/botdash/pkg/sigchan"
)

// Stats 每个图表被如何更新过（用来观察“一次创建、之后打补丁”的策略）
type Stats struct {
	Creates       int `json:"creates"`
	Replaces      int `json:"replaces"`
	DataPatches   int `json:"data_patches"`
	LayoutPatches int `json:"layout_patches"`
}

// Figure 一个图表的当前状态
type Figure struct {
	ID      string  `json:"id"`
	Traces  []Trace `json:"data"`
	Layout  Layout  `json:"layout"`
	Options Options `json:"config"`
	Stats   Stats   `json:"stats"`
	Version uint64  `json:"version"`
}

// Board 内存版 Renderer，并发安全。返回的 Figure 是拷贝，按只读使用。
type Board struct {
	mu      sync.RWMutex
	figures map[string]*Figure
	changed *sigchan.Chan
}

var _ Renderer = (*Board)(nil)

func NewBoard() *Board {
	return &Board{
		figures: make(map[string]*Figure),
		changed: sigchan.New(1),
	}
}

func (b *Board) Create(id string, traces []Trace, layout Layout, opts Options) error {
	b.mu.Lock()
	f, ok := b.figures[id]
	if !ok {
		f = &Figure{ID: id}
		b.figures[id] = f
	}
	f.Traces = cloneTraces(traces)
	f.Layout = cloneLayout(layout)
	f.Options = opts
	f.Stats.Creates++
	f.Version++
	b.mu.Unlock()
	b.changed.Emit()
	return nil
}

func (b *Board) Replace(id string, traces []Trace, layout Layout) error {
	b.mu.Lock()
	f, ok := b.figures[id]
	if !ok {
		f = &Figure{ID: id, Options: Options{Responsive: true}}
		b.figures[id] = f
	}
	f.Traces = cloneTraces(traces)
	f.Layout = cloneLayout(layout)
	f.Stats.Replaces++
	f.Version++
	b.mu.Unlock()
	b.changed.Emit()
	return nil
}

func (b *Board) PatchData(id, field string, values []any, traceIndex int) error {
	b.mu.Lock()
	f, ok := b.figures[id]
	if !ok {
		b.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNoFigure, id)
	}
	if traceIndex < 0 || traceIndex >= len(f.Traces) {
		b.mu.Unlock()
		return fmt.Errorf("%w: %s[%d]", ErrTraceIndex, id, traceIndex)
	}
	vals := append([]any(nil), values...)
	switch field {
	case "x":
		f.Traces[traceIndex].X = vals
	case "y":
		f.Traces[traceIndex].Y = vals
	default:
		b.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	f.Stats.DataPatches++
	f.Version++
	b.mu.Unlock()
	b.changed.Emit()
	return nil
}

func (b *Board) PatchLayout(id string, partial map[string]any) error {
	b.mu.Lock()
	f, ok := b.figures[id]
	if !ok {
		b.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNoFigure, id)
	}

	// 先校验再落地，避免补丁只应用一半
	next := cloneLayout(f.Layout)
	for key, raw := range partial {
		if err := applyLayoutKey(&next, key, raw); err != nil {
			b.mu.Unlock()
			return err
		}
	}
	f.Layout = next
	f.Stats.LayoutPatches++
	f.Version++
	b.mu.Unlock()
	b.changed.Emit()
	return nil
}

func applyLayoutKey(l *Layout, key string, raw any) error {
	s, ok := raw.(string)
	if !ok {
		return fmt.Errorf("%w: %s expects string, got %T", ErrUnknownField, key, raw)
	}
	switch key {
	case "title.text":
		if l.Title == nil {
			l.Title = &Title{}
		}
		l.Title.Text = s
	case "title.font.color":
		if l.Title == nil {
			l.Title = &Title{}
		}
		if l.Title.Font == nil {
			l.Title.Font = &Font{}
		}
		l.Title.Font.Color = s
	case "paper_bgcolor":
		l.PaperBGColor = s
	case "plot_bgcolor":
		l.PlotBGColor = s
	case "font.color":
		if l.Font == nil {
			l.Font = &Font{}
		}
		l.Font.Color = s
	case "xaxis.color":
		if l.XAxis == nil {
			l.XAxis = &Axis{}
		}
		l.XAxis.Color = s
	case "yaxis.color":
		ensureYAxis(l)
		l.YAxes[0].Color = s
	case "yaxis.gridcolor":
		ensureYAxis(l)
		l.YAxes[0].GridColor = s
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	return nil
}

func ensureYAxis(l *Layout) {
	if len(l.YAxes) == 0 {
		l.YAxes = []Axis{{}}
	}
}

// Figure 取一个图表的拷贝
func (b *Board) Figure(id string) (Figure, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	f, ok := b.figures[id]
	if !ok {
		return Figure{}, false
	}
	return cloneFigure(f), true
}

// Figures 全部图表（按 ID 排序）
func (b *Board) Figures() []Figure {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Figure, 0, len(b.figures))
	for _, f := range b.figures {
		out = append(out, cloneFigure(f))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Changed 有图表更新时发出信号
func (b *Board) Changed() <-chan struct{} {
	return b.changed.C()
}

func cloneFigure(f *Figure) Figure {
	cp := *f
	cp.Traces = cloneTraces(f.Traces)
	cp.Layout = cloneLayout(f.Layout)
	return cp
}

// cloneTraces 浅拷贝 trace；数据数组只会被整体替换，不会原地改
func cloneTraces(in []Trace) []Trace {
	if in == nil {
		return nil
	}
	return append([]Trace(nil), in...)
}

// cloneLayout 拷贝 PatchLayout 会改到的部分
func cloneLayout(l Layout) Layout {
	cp := l
	if l.Title != nil {
		t := *l.Title
		if l.Title.Font != nil {
			f := *l.Title.Font
			t.Font = &f
		}
		cp.Title = &t
	}
	if l.Font != nil {
		f := *l.Font
		cp.Font = &f
	}
	if l.XAxis != nil {
		x := *l.XAxis
		cp.XAxis = &x
	}
	if l.YAxes != nil {
		cp.YAxes = append([]Axis(nil), l.YAxes...)
	}
	if l.Shapes != nil {
		cp.Shapes = append([]Shape(nil), l.Shapes...)
	}
	if l.Annotations != nil {
		cp.Annotations = append([]Annotation(nil), l.Annotations...)
	}
	return cp
}
