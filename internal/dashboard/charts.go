package dashboard

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/betbot/botdash/internal/chart"
	"github.com/betbot/botdash/internal/snapshot"
	"github.com/betbot/botdash/internal/ui"
)

const (
	colorUp   = "#2ecc71"
	colorDown = "#e74c3c"
	colorBlue = "#3498db"

	indicatorTitle = "SUI/USDC Chart Analysis (15 Min)"
	pnlTitle       = "Cumulative PnL Over Time"
)

var chartOptions = chart.Options{Responsive: true, DisplayModeBar: false}

func titled(text string, p chart.Palette) *chart.Title {
	return &chart.Title{Text: text, Font: &chart.Font{Size: 14, Color: p.Text}}
}

// paletteLayout 补丁路径上一起下发的配色，切换主题后不必重建图表
func paletteLayout(title string, p chart.Palette, grid bool) map[string]any {
	m := map[string]any{
		"title.text":       title,
		"title.font.color": p.Text,
		"paper_bgcolor":    p.Background,
		"plot_bgcolor":     p.Background,
		"font.color":       p.Text,
		"xaxis.color":      p.Text,
		"yaxis.color":      p.Text,
	}
	if grid {
		m["yaxis.gridcolor"] = p.Grid
	}
	return m
}

// ---- 指标图：首次创建，之后整体替换 ----

func (c *Coordinator) renderIndicator(s *snapshot.Snapshot) error {
	if err := s.RequireCandles(); err != nil {
		return err
	}
	traces := IndicatorTraces(s.Candlestick)
	layout := indicatorLayout(c.palette())

	if !c.indicatorCreated {
		if err := c.opts.Charts.Create(ui.CandlestickChart, traces, layout, chartOptions); err != nil {
			return err
		}
		c.indicatorCreated = true
		return nil
	}
	return c.opts.Charts.Replace(ui.CandlestickChart, traces, layout)
}

// IndicatorTraces K 线 + 均线 + 布林带 + 成交量 + MACD + RSI，共 11 条
func IndicatorTraces(d *snapshot.Candlestick) []chart.Trace {
	x := chart.Strings(d.Dates)
	line := func(name, yaxis, color string, y []float64) chart.Trace {
		return chart.Trace{
			Type: "scatter", Mode: "lines", Name: name,
			X: x, Y: chart.Floats(y), XAxis: "x", YAxis: yaxis,
			Line: &chart.Line{Color: color, Width: 1},
		}
	}
	band := func(name string, y []float64) chart.Trace {
		t := line(name, "y", "gray", y)
		t.Line.Dash = "dash"
		t.ShowLegend = chart.Bool(false)
		return t
	}

	volumeColors := make([]string, len(d.Dates))
	for i := range volumeColors {
		volumeColors[i] = colorDown
		if i < len(d.Close) && i < len(d.Open) && d.Close[i] > d.Open[i] {
			volumeColors[i] = colorUp
		}
	}

	return []chart.Trace{
		{
			Type: "candlestick", Name: "Price", X: x,
			Open: d.Open, High: d.High, Low: d.Low, Close: d.Close,
			XAxis: "x", YAxis: "y",
			Increasing: &chart.CandleStyle{Line: &chart.Line{Color: colorUp}, FillColor: colorUp},
			Decreasing: &chart.CandleStyle{Line: &chart.Line{Color: colorDown}, FillColor: colorDown},
		},
		line("EMA 9", "y", "orange", d.EMA9),
		line("EMA 21", "y", "blue", d.EMA21),
		line("SMA 50", "y", "red", d.SMA50),
		band("BB Upper", d.BBUpper),
		band("BB Lower", d.BBLower),
		{
			Type: "bar", Name: "Volume", X: x, Y: chart.Floats(d.Volume),
			XAxis: "x", YAxis: "y2",
			Marker: &chart.Marker{Color: volumeColors, Opacity: 0.6},
		},
		{
			Type: "bar", Name: "MACD Hist", X: x, Y: chart.Floats(d.MACDHist),
			XAxis: "x", YAxis: "y3",
			Marker: &chart.Marker{Color: "lightgray"},
		},
		line("MACD", "y3", "blue", d.MACDLine),
		line("Signal", "y3", "red", d.SignalLine),
		line("RSI", "y4", "#9b59b6", d.RSI),
	}
}

func indicatorLayout(p chart.Palette) chart.Layout {
	return chart.Layout{
		Title:        titled(indicatorTitle, p),
		Height:       800,
		Margin:       &chart.Margin{T: 40, R: 10, B: 60, L: 60},
		PlotBGColor:  p.Background,
		PaperBGColor: p.Background,
		ShowLegend:   true,
		Font:         &chart.Font{Color: p.Text},
		Grid: &chart.Grid{
			Rows: 4, Columns: 1, Pattern: "independent", RowOrder: "top to bottom",
			RowHeights: []float64{0.55, 0.15, 0.15, 0.15},
		},
		XAxis: &chart.Axis{
			Anchor: "y4", Type: "date", RangeSlider: &chart.RangeSlider{Visible: false},
			ShowGrid: chart.Bool(false), Color: p.Text,
		},
		YAxes: []chart.Axis{
			{Domain: []float64{0.45, 1.0}, Title: "Price", AutoRange: true, TickFormat: ".4f",
				ShowGrid: chart.Bool(true), GridColor: p.Grid, Color: p.Text},
			{Domain: []float64{0.30, 0.45}, Title: "Volume", AutoRange: true,
				ShowTickLabels: chart.Bool(false), ShowGrid: chart.Bool(false), Color: p.Text},
			{Domain: []float64{0.15, 0.30}, Title: "MACD", AutoRange: true,
				ShowTickLabels: chart.Bool(false), ShowGrid: chart.Bool(true), GridColor: p.Grid, Color: p.Text},
			{Domain: []float64{0.0, 0.15}, Title: "RSI", AutoRange: true,
				ShowGrid: chart.Bool(true), GridColor: p.Grid, Color: p.Text},
		},
	}
}

// ---- 累计收益：首次创建，之后只打 x/y 补丁 + 标题/配色 ----

func (c *Coordinator) renderPnL(s *snapshot.Snapshot) error {
	if err := s.RequirePnL(); err != nil {
		return err
	}
	p := c.palette()
	x := chart.Strings(s.CumulativePnL.Dates)
	y := chart.Floats(s.CumulativePnL.PnL)

	if !c.pnlCreated {
		trace := chart.Trace{
			Type: "scatter", Mode: "lines+markers", Name: "Cumulative PnL",
			X: x, Y: y,
			Line:      &chart.Line{Color: colorBlue, Width: 2},
			Marker:    &chart.Marker{Size: 4, Color: colorBlue},
			HoverInfo: "x+y",
		}
		layout := chart.Layout{
			Title:  titled(pnlTitle, p),
			Margin: &chart.Margin{T: 40, R: 10, B: 60, L: 60},
			XAxis: &chart.Axis{
				ShowGrid: chart.Bool(false), TickAngle: -45,
				TickFont: &chart.Font{Size: 10}, Color: p.Text,
			},
			YAxes: []chart.Axis{{
				Title: "PnL ($)", TickFormat: "$,.2f",
				ShowGrid: chart.Bool(true), GridColor: p.Grid, Color: p.Text,
			}},
			PlotBGColor:  p.Background,
			PaperBGColor: p.Background,
			Font:         &chart.Font{Color: p.Text},
		}
		if err := c.opts.Charts.Create(ui.PnLChart, []chart.Trace{trace}, layout, chartOptions); err != nil {
			return err
		}
		c.pnlCreated = true
		return nil
	}

	if err := c.opts.Charts.PatchData(ui.PnLChart, "x", x, 0); err != nil {
		return err
	}
	if err := c.opts.Charts.PatchData(ui.PnLChart, "y", y, 0); err != nil {
		return err
	}
	return c.opts.Charts.PatchLayout(ui.PnLChart, paletteLayout(pnlTitle, p, true))
}

// ---- 信号分布：首次创建，之后只打 y 补丁 + 标题/配色 ----

func (c *Coordinator) renderSignal(s *snapshot.Snapshot) error {
	if err := s.RequireLive(); err != nil {
		return err
	}
	p := c.palette()
	rsi := s.LiveData.RSI
	dist := SignalDistribution(rsi, c.opts.Rand)
	values := make([]any, 0, 5)
	for _, v := range dist.Values() {
		values = append(values, v)
	}
	title := fmt.Sprintf("Signal Distribution (RSI: %.1f)", rsi)

	if !c.signalCreated {
		trace := chart.Trace{
			Type:          "bar",
			X:             chart.Strings(SignalLabels),
			Y:             values,
			Marker:        &chart.Marker{Color: SignalColors},
			HoverTemplate: "%{y:.0f}<extra></extra>",
		}
		layout := chart.Layout{
			Title:  titled(title, p),
			Margin: &chart.Margin{T: 40, R: 10, B: 40, L: 40},
			XAxis:  &chart.Axis{Title: "Signal Type", ShowGrid: chart.Bool(false), Color: p.Text},
			YAxes:  []chart.Axis{{Title: "Count (%)", Range: []float64{0, 100}, Color: p.Text}},

			PlotBGColor:  p.Background,
			PaperBGColor: p.Background,
			Font:         &chart.Font{Color: p.Text},
		}
		if err := c.opts.Charts.Create(ui.SignalChart, []chart.Trace{trace}, layout, chartOptions); err != nil {
			return err
		}
		c.signalCreated = true
		return nil
	}

	if err := c.opts.Charts.PatchData(ui.SignalChart, "y", values, 0); err != nil {
		return err
	}
	return c.opts.Charts.PatchLayout(ui.SignalChart, paletteLayout(title, p, false))
}

// ---- 预测区间：标记线和标注的位置随当前余额变化，每次整体替换 ----

func (c *Coordinator) renderProjection(s *snapshot.Snapshot) error {
	if err := s.RequireProjection(); err != nil {
		return err
	}
	traces, layout := ProjectionFigure(s.Projection, c.palette())
	return c.opts.Charts.Replace(ui.ProjectionChart, traces, layout)
}

// ProjectionFigure 水平区间条 [worst, best] + 当前余额竖线与标注
func ProjectionFigure(d *snapshot.Projection, p chart.Palette) ([]chart.Trace, chart.Layout) {
	mark := d.CurrentBalance
	bar := chart.Trace{
		Type:        "bar",
		Orientation: "h",
		Name:        "Expected Range",
		X:           chart.Floats([]float64{d.BestCaseValue - d.WorstCaseValue}),
		Y:           chart.Strings([]string{d.ScenarioLabel}),
		Base:        []float64{d.WorstCaseValue},
		ShowLegend:  chart.Bool(false),
		Marker: &chart.Marker{
			Color: "rgba(52, 152, 219, 0.5)",
			Line:  &chart.Line{Color: "rgba(0,0,0,0)"},
		},
		HoverTemplate: "Range: $%{base:,.2f} to $%{x+base:,.2f}<extra></extra>",
	}
	layout := chart.Layout{
		Height:       100,
		Margin:       &chart.Margin{T: 20, R: 10, B: 20, L: 140},
		PlotBGColor:  p.Background,
		PaperBGColor: p.Background,
		Font:         &chart.Font{Color: p.Text},
		XAxis: &chart.Axis{
			Title: "PnL ($)", ShowGrid: chart.Bool(true), TickFormat: "$,.0f", GridColor: p.Grid,
			ZeroLine: chart.Bool(true), ZeroLineColor: "gray", Color: p.Text,
		},
		YAxes: []chart.Axis{{ShowGrid: chart.Bool(false), AutoRange: "reversed", Color: p.Text}},
		Shapes: []chart.Shape{{
			Type: "line", XRef: "x", YRef: "paper",
			X0: mark, Y0: 0, X1: mark, Y1: 1,
			Line: &chart.Line{Color: colorDown, Width: 3, Dash: "solid"},
		}},
		Annotations: []chart.Annotation{{
			XRef: "x", YRef: "paper", X: mark, Y: 1.15,
			Text:      "Current Balance: $" + formatMoney(decimal.NewFromFloat(mark)),
			ShowArrow: false,
			Font:      &chart.Font{Color: colorBlue, Size: 10, Weight: "bold"},
			XAnchor:   "center",
		}},
	}
	return []chart.Trace{bar}, layout
}
