package ui

// Surface 协调器唯一能碰到的“页面”能力：
// 写文本、写 class、整表替换行、跳转。不读页面、不做别的交互。
type Surface interface {
	SetText(id, text string)
	SetClass(id, class string)
	SetRows(tableID string, rows []Row)
	Navigate(url string)
}

// Cell 表格单元格
type Cell struct {
	Text    string `json:"text"`
	Class   string `json:"class,omitempty"`
	ColSpan int    `json:"colspan,omitempty"`
}

// Row 表格行
type Row []Cell

// 元素 ID（与原页面保持一致，方便浏览器视图直接复用）
const (
	Body           = "body"
	DarkModeToggle = "dark-mode-toggle"
	LastUpdateTime = "last-update-time"

	TotalSignals       = "total-signals"
	TotalTrades        = "total-trades"
	OpenPositionsCount = "open-positions-count"
	LastSignalTime     = "last-signal-time"

	LivePrice     = "live-price"
	LiveVWAP      = "live-vwap"
	LiveRSI       = "live-rsi"
	CurrentSignal = "current-signal"
	LiveSide      = "live-side"
	LiveSize      = "live-size"

	TotalPnL   = "total-pnl"
	WinRate    = "win-rate"
	AvgWin     = "avg-win"
	AvgLoss    = "avg-loss"
	RiskReward = "risk-reward"

	CurrentBalance       = "current-balance"
	TotalTradesBreakdown = "total-trades-breakdown"
	LosingTrades         = "losing-trades"
	RiskBest             = "risk-best"
)

// 表格
const (
	SignalsTable   = "recent-signals-table"
	DecisionsTable = "recent-decisions-table"
	TradesTable    = "recent-trades-table"
)

// 图表容器
const (
	CandlestickChart = "candlestick-chart"
	PnLChart         = "cumulative-pnl-chart"
	SignalChart      = "signal-strength-chart"
	ProjectionChart  = "projection-chart"
)

// 样式 class
const (
	ClassGreen    = "status-green"
	ClassRed      = "status-red"
	ClassHold     = "status-hold"
	ClassPending  = "status-pending"
	ClassExecuted = "status-executed"
	ClassLoss     = "data-loss"
	ClassProfit   = "data-profit"
	ClassDarkMode = "dark-mode"
)
