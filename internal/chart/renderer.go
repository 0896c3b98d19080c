package chart

import "errors"

// Renderer 图表渲染能力（宿主可以是浏览器里的 Plotly，也可以是内存 Board）
type Renderer interface {
	// Create 完整初始化一个图表
	Create(id string, traces []Trace, layout Layout, opts Options) error
	// Replace 整体替换数据与布局；图表不存在时创建
	Replace(id string, traces []Trace, layout Layout) error
	// PatchData 只替换某条 trace 的一个数据数组（"x" / "y"）
	PatchData(id, field string, values []any, traceIndex int) error
	// PatchLayout 局部更新布局，key 用点号路径，例如 "title.text"
	PatchLayout(id string, partial map[string]any) error
}

var (
	ErrNoFigure     = errors.New("chart: figure not created")
	ErrTraceIndex   = errors.New("chart: trace index out of range")
	ErrUnknownField = errors.New("chart: unknown field")
)

// Palette 主题配色
type Palette struct {
	Background string
	Grid       string
	Text       string
}

var (
	LightPalette = Palette{Background: "#FFFFFF", Grid: "#f0f0f0", Text: "#000"}
	DarkPalette  = Palette{Background: "#2d2d2d", Grid: "#444", Text: "#e0e0e0"}
)

// ThemePalette 按暗色开关取配色
func ThemePalette(dark bool) Palette {
	if dark {
		return DarkPalette
	}
	return LightPalette
}
