package chart

import (
	"encoding/json"
	"fmt"
)

// Trace 一条图表序列。字段名与 Plotly 保持一致，JSON 可直接交给浏览器端。
type Trace struct {
	Type string `json:"type,omitempty"`
	Name string `json:"name,omitempty"`
	Mode string `json:"mode,omitempty"`

	X []any `json:"x,omitempty"`
	Y []any `json:"y,omitempty"`

	// candlestick
	Open  []float64 `json:"open,omitempty"`
	High  []float64 `json:"high,omitempty"`
	Low   []float64 `json:"low,omitempty"`
	Close []float64 `json:"close,omitempty"`

	// bar
	Base        []float64 `json:"base,omitempty"`
	Orientation string    `json:"orientation,omitempty"`

	XAxis string `json:"xaxis,omitempty"`
	YAxis string `json:"yaxis,omitempty"`

	Line       *Line        `json:"line,omitempty"`
	Marker     *Marker      `json:"marker,omitempty"`
	Increasing *CandleStyle `json:"increasing,omitempty"`
	Decreasing *CandleStyle `json:"decreasing,omitempty"`

	ShowLegend    *bool  `json:"showlegend,omitempty"`
	HoverInfo     string `json:"hoverinfo,omitempty"`
	HoverTemplate string `json:"hovertemplate,omitempty"`
}

type Line struct {
	Color string  `json:"color,omitempty"`
	Width float64 `json:"width,omitempty"`
	Dash  string  `json:"dash,omitempty"`
}

// Marker Color 可以是单色 string，也可以是逐点 []string
type Marker struct {
	Color   any     `json:"color,omitempty"`
	Size    int     `json:"size,omitempty"`
	Opacity float64 `json:"opacity,omitempty"`
	Line    *Line   `json:"line,omitempty"`
}

type CandleStyle struct {
	Line      *Line  `json:"line,omitempty"`
	FillColor string `json:"fillcolor,omitempty"`
}

type Font struct {
	Size   int    `json:"size,omitempty"`
	Color  string `json:"color,omitempty"`
	Weight string `json:"weight,omitempty"`
}

type Title struct {
	Text string `json:"text"`
	Font *Font  `json:"font,omitempty"`
}

type Margin struct {
	T int `json:"t"`
	R int `json:"r"`
	B int `json:"b"`
	L int `json:"l"`
}

type Grid struct {
	Rows       int       `json:"rows"`
	Columns    int       `json:"columns"`
	Pattern    string    `json:"pattern,omitempty"`
	RowOrder   string    `json:"roworder,omitempty"`
	RowHeights []float64 `json:"rowheights,omitempty"`
}

type RangeSlider struct {
	Visible bool `json:"visible"`
}

// Axis 坐标轴；AutoRange 可以是 bool 或 "reversed"
type Axis struct {
	Title          string       `json:"title,omitempty"`
	Domain         []float64    `json:"domain,omitempty"`
	AutoRange      any          `json:"autorange,omitempty"`
	Range          []float64    `json:"range,omitempty"`
	Type           string       `json:"type,omitempty"`
	Anchor         string       `json:"anchor,omitempty"`
	TickFormat     string       `json:"tickformat,omitempty"`
	TickAngle      int          `json:"tickangle,omitempty"`
	TickFont       *Font        `json:"tickfont,omitempty"`
	ShowTickLabels *bool        `json:"showticklabels,omitempty"`
	ShowGrid       *bool        `json:"showgrid,omitempty"`
	GridColor      string       `json:"gridcolor,omitempty"`
	ZeroLine       *bool        `json:"zeroline,omitempty"`
	ZeroLineColor  string       `json:"zerolinecolor,omitempty"`
	Color          string       `json:"color,omitempty"`
	RangeSlider    *RangeSlider `json:"rangeslider,omitempty"`
}

type Shape struct {
	Type string  `json:"type"`
	XRef string  `json:"xref,omitempty"`
	YRef string  `json:"yref,omitempty"`
	X0   float64 `json:"x0"`
	Y0   float64 `json:"y0"`
	X1   float64 `json:"x1"`
	Y1   float64 `json:"y1"`
	Line *Line   `json:"line,omitempty"`
}

type Annotation struct {
	XRef      string  `json:"xref,omitempty"`
	YRef      string  `json:"yref,omitempty"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Text      string  `json:"text"`
	ShowArrow bool    `json:"showarrow"`
	Font      *Font   `json:"font,omitempty"`
	XAnchor   string  `json:"xanchor,omitempty"`
}

// Layout 图表布局。XAxis/YAxes 在 JSON 里展开成 xaxis / yaxis / yaxis2 ...
type Layout struct {
	Title        *Title       `json:"title,omitempty"`
	Height       int          `json:"height,omitempty"`
	Margin       *Margin      `json:"margin,omitempty"`
	PlotBGColor  string       `json:"plot_bgcolor,omitempty"`
	PaperBGColor string       `json:"paper_bgcolor,omitempty"`
	ShowLegend   bool         `json:"showlegend"`
	Font         *Font        `json:"font,omitempty"`
	Grid         *Grid        `json:"grid,omitempty"`
	Shapes       []Shape      `json:"shapes,omitempty"`
	Annotations  []Annotation `json:"annotations,omitempty"`

	XAxis *Axis  `json:"-"`
	YAxes []Axis `json:"-"`
}

// Options 创建图表时的配置
type Options struct {
	Responsive     bool `json:"responsive"`
	DisplayModeBar bool `json:"displayModeBar"`
}

// Bool 便于填 *bool 字段
func Bool(v bool) *bool { return &v }

// YAxisName 第 i 个 y 轴（从 0 开始）在 Plotly 里的名字：yaxis, yaxis2, ...
func YAxisName(i int) string {
	if i == 0 {
		return "yaxis"
	}
	return fmt.Sprintf("yaxis%d", i+1)
}

type layoutAlias Layout

func (l Layout) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(layoutAlias(l))
	if err != nil {
		return nil, err
	}
	if l.XAxis == nil && len(l.YAxes) == 0 {
		return base, nil
	}
	m := map[string]json.RawMessage{}
	if err := json.Unmarshal(base, &m); err != nil {
		return nil, err
	}
	if l.XAxis != nil {
		b, err := json.Marshal(l.XAxis)
		if err != nil {
			return nil, err
		}
		m["xaxis"] = b
	}
	for i := range l.YAxes {
		b, err := json.Marshal(l.YAxes[i])
		if err != nil {
			return nil, err
		}
		m[YAxisName(i)] = b
	}
	return json.Marshal(m)
}

// Floats / Strings 把类型化序列转成 Trace.X / Trace.Y 用的 []any
func Floats(v []float64) []any {
	out := make([]any, len(v))
	for i, f := range v {
		out[i] = f
	}
	return out
}

func Strings(v []string) []any {
	out := make([]any, len(v))
	for i, s := range v {
		out[i] = s
	}
	return out
}
