package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
)

// Snapshot 一次拉取得到的完整看板数据。解码后只读，不在原地修改。
type Snapshot struct {
	Metrics          *Metrics          `json:"metrics,omitempty"`
	LiveData         *LiveData         `json:"live_data,omitempty"`
	Performance      *Performance      `json:"performance,omitempty"`
	ProjectedBalance *ProjectedBalance `json:"projected_balance,omitempty"`
	TradeBreakdown   *TradeBreakdown   `json:"trade_breakdown,omitempty"`
	RiskAssessment   *RiskAssessment   `json:"risk_assessment,omitempty"`
	Candlestick      *Candlestick      `json:"candlestick_data,omitempty"`
	CumulativePnL    *CumulativePnL    `json:"cumulative_pnl_data,omitempty"`
	Projection       *Projection       `json:"projection_data,omitempty"`

	RecentSignals   []Row `json:"recent_signals"`
	RecentDecisions []Row `json:"recent_decisions"`
	RecentTrades    []Row `json:"recent_trades"`
}

// Metrics 顶部汇总
type Metrics struct {
	TotalSignals       int64  `json:"total_signals"`
	TotalTrades        int64  `json:"total_trades"`
	OpenPositionsCount int64  `json:"open_positions_count"`
	LastSignalTime     string `json:"last_signal_time"`
}

// LiveData 实时行情与持仓
type LiveData struct {
	Price         float64 `json:"Price"`
	VWAP          float64 `json:"VWAP"`
	RSI           float64 `json:"RSI"`
	CurrentSignal string  `json:"CurrentSignal"`
	Side          string  `json:"Side"` // "LONG" | "SHORT" | "NONE"
	Size          float64 `json:"Size"`
}

// Performance 绩效（数据源已经格式化成展示字符串）
type Performance struct {
	WinRate    string `json:"win_rate"`
	TotalPnL   string `json:"total_pnl"`
	AvgWin     string `json:"avg_win"`
	AvgLoss    string `json:"avg_loss"`
	MaxLoss    string `json:"max_loss"`
	RiskReward string `json:"risk_reward"`
}

type TradeBreakdown struct {
	TotalTrades int64 `json:"total_trades"`
	Winning     int64 `json:"winning"`
	Losing      int64 `json:"losing"`
}

type ProjectedBalance struct {
	Current      string `json:"current"`
	Conservative string `json:"conservative"`
	Realistic    string `json:"realistic"`
	RLEnhanced   string `json:"rl_enhanced"`
}

type RiskAssessment struct {
	BestCase      string `json:"best_case"`
	WorstCase     string `json:"worst_case"`
	ExpectedRange string `json:"expected_range"`
}

// Candlestick OHLC + 指标序列，所有序列与 Dates 按下标对齐
type Candlestick struct {
	Dates      []string  `json:"dates"`
	Open       []float64 `json:"open"`
	High       []float64 `json:"high"`
	Low        []float64 `json:"low"`
	Close      []float64 `json:"close"`
	Volume     []float64 `json:"volume"`
	RSI        []float64 `json:"rsi"`
	MACDLine   []float64 `json:"macd_line"`
	SignalLine []float64 `json:"signal_line"`
	MACDHist   []float64 `json:"macd_hist"`
	EMA9       []float64 `json:"ema9"`
	EMA21      []float64 `json:"ema21"`
	SMA50      []float64 `json:"sma50"`
	BBUpper    []float64 `json:"bb_upper"`
	BBLower    []float64 `json:"bb_lower"`
}

type CumulativePnL struct {
	Dates []string  `json:"dates"`
	PnL   []float64 `json:"pnl"`
}

// Projection 预测区间：worst..best，CurrentBalance 是标记线位置
type Projection struct {
	ScenarioLabel  string  `json:"scenario_label"`
	WorstCaseValue float64 `json:"worst_case_value"`
	BestCaseValue  float64 `json:"best_case_value"`
	CurrentBalance float64 `json:"current_balance"`
}

// Empty 首次拉取成功之前使用的空快照
func Empty() *Snapshot {
	return &Snapshot{}
}

// Decode 解析数据源返回的 JSON 文档
func Decode(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &s, nil
}
