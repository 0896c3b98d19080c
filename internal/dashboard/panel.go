package dashboard

import (
	"github.com/betbot/botdash/internal/snapshot"
	"github.com/betbot/botdash/internal/ui"
)

// renderMetrics 顶部指标、实时行情、绩效、预测余额、风险评估
func (c *Coordinator) renderMetrics(s *snapshot.Snapshot) error {
	if err := s.RequireMetrics(); err != nil {
		return err
	}
	surf := c.opts.Surface

	m := s.Metrics
	surf.SetText(ui.TotalSignals, formatCount(m.TotalSignals))
	surf.SetText(ui.TotalTrades, formatCount(m.TotalTrades))
	surf.SetText(ui.OpenPositionsCount, formatPlainInt(m.OpenPositionsCount))
	surf.SetText(ui.LastSignalTime, m.LastSignalTime)

	live := s.LiveData
	surf.SetText(ui.LivePrice, formatFixed(live.Price, 4))
	surf.SetText(ui.LiveVWAP, formatFixed(live.VWAP, 4))
	surf.SetText(ui.LiveRSI, formatPlain(live.RSI))
	surf.SetText(ui.CurrentSignal, live.CurrentSignal)
	surf.SetText(ui.LiveSide, live.Side)
	surf.SetClass(ui.LiveSide, sideClass(live.Side))
	surf.SetText(ui.LiveSize, formatPlain(live.Size))

	perf := s.Performance
	pnlText, pnlClass := totalPnL(perf.TotalPnL)
	surf.SetText(ui.TotalPnL, pnlText)
	surf.SetClass(ui.TotalPnL, pnlClass)
	surf.SetText(ui.WinRate, perf.WinRate)
	surf.SetText(ui.AvgWin, perf.AvgWin)
	surf.SetText(ui.AvgLoss, perf.AvgLoss)
	surf.SetText(ui.RiskReward, perf.RiskReward)

	surf.SetText(ui.CurrentBalance, "$"+moneyText(s.ProjectedBalance.Current))
	surf.SetText(ui.TotalTradesBreakdown, formatPlainInt(s.TradeBreakdown.TotalTrades))
	surf.SetText(ui.LosingTrades, formatPlainInt(s.TradeBreakdown.Losing))

	surf.SetText(ui.RiskBest, s.RiskAssessment.BestCase)
	return nil
}

// totalPnL 符号和样式跟随数值本身：负数 "-$1,234.50" + data-loss，否则 "$1,234.50" + data-profit
func totalPnL(raw string) (string, string) {
	d, err := parseAmount(raw)
	if err != nil {
		log.Warnf("total_pnl 无法解析: %q", raw)
		return raw, ""
	}
	if d.IsNegative() {
		return "-$" + formatMoney(d.Abs()), ui.ClassLoss
	}
	return "$" + formatMoney(d), ui.ClassProfit
}
