package snapshot

import "fmt"

// MissingFieldError 渲染前校验失败：某个区块或字段缺失/不一致
type MissingFieldError struct {
	Section string
	Field   string
	Reason  string
}

func (e *MissingFieldError) Error() string {
	msg := "snapshot: missing " + e.Section
	if e.Field != "" {
		msg += "." + e.Field
	}
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

func missing(section, field string) error {
	return &MissingFieldError{Section: section, Field: field}
}

// RequireMetrics 指标面板需要的全部区块
func (s *Snapshot) RequireMetrics() error {
	switch {
	case s == nil:
		return missing("snapshot", "")
	case s.Metrics == nil:
		return missing("metrics", "")
	case s.LiveData == nil:
		return missing("live_data", "")
	case s.Performance == nil:
		return missing("performance", "")
	case s.ProjectedBalance == nil:
		return missing("projected_balance", "")
	case s.TradeBreakdown == nil:
		return missing("trade_breakdown", "")
	case s.RiskAssessment == nil:
		return missing("risk_assessment", "")
	}
	return nil
}

// RequireLive 信号分布图只依赖实时 RSI
func (s *Snapshot) RequireLive() error {
	if s == nil || s.LiveData == nil {
		return missing("live_data", "")
	}
	return nil
}

// RequireCandles K 线图：OHLC 和每条指标序列都必须与 dates 等长
func (s *Snapshot) RequireCandles() error {
	if s == nil || s.Candlestick == nil {
		return missing("candlestick_data", "")
	}
	c := s.Candlestick
	if len(c.Dates) == 0 {
		return missing("candlestick_data", "dates")
	}
	n := len(c.Dates)
	for _, f := range []struct {
		name   string
		series []float64
	}{
		{"open", c.Open}, {"high", c.High}, {"low", c.Low}, {"close", c.Close},
		{"ema9", c.EMA9}, {"ema21", c.EMA21}, {"sma50", c.SMA50},
		{"bb_upper", c.BBUpper}, {"bb_lower", c.BBLower},
		{"volume", c.Volume},
		{"macd_hist", c.MACDHist}, {"macd_line", c.MACDLine}, {"signal_line", c.SignalLine},
		{"rsi", c.RSI},
	} {
		if len(f.series) != n {
			return &MissingFieldError{
				Section: "candlestick_data",
				Field:   f.name,
				Reason:  fmt.Sprintf("len %d != dates %d", len(f.series), n),
			}
		}
	}
	return nil
}

// RequirePnL 累计收益曲线
func (s *Snapshot) RequirePnL() error {
	if s == nil || s.CumulativePnL == nil {
		return missing("cumulative_pnl_data", "")
	}
	if len(s.CumulativePnL.Dates) != len(s.CumulativePnL.PnL) {
		return &MissingFieldError{
			Section: "cumulative_pnl_data",
			Field:   "pnl",
			Reason:  fmt.Sprintf("len %d != dates %d", len(s.CumulativePnL.PnL), len(s.CumulativePnL.Dates)),
		}
	}
	return nil
}

// RequireProjection 预测区间条
func (s *Snapshot) RequireProjection() error {
	if s == nil || s.Projection == nil {
		return missing("projection_data", "")
	}
	return nil
}

// RequireTables 三张表；行列表本身可以为空
func (s *Snapshot) RequireTables() error {
	if s == nil {
		return missing("snapshot", "")
	}
	return nil
}
