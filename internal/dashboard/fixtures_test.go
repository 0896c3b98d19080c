package dashboard

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/betbot/botdash/internal/chart"
	"github.com/betbot/botdash/internal/snapshot"
	"github.com/betbot/botdash/internal/ui"
	"github.com/betbot/botdash/pkg/prefstore"
)

// fixedRand 总是返回同一个值
type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

// funcFetcher 用函数实现 Fetcher，并记录调用次数
type funcFetcher struct {
	mu    sync.Mutex
	calls int
	fn    func(ctx context.Context, call int) (*snapshot.Snapshot, error)
}

func (f *funcFetcher) Fetch(ctx context.Context) (*snapshot.Snapshot, error) {
	f.mu.Lock()
	f.calls++
	n := f.calls
	f.mu.Unlock()
	return f.fn(ctx, n)
}

func (f *funcFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func staticFetcher(s *snapshot.Snapshot, err error) *funcFetcher {
	return &funcFetcher{fn: func(context.Context, int) (*snapshot.Snapshot, error) { return s, err }}
}

type harness struct {
	c     *Coordinator
	page  *ui.Page
	board *chart.Board
	prefs prefstore.Store
}

func newHarness(t *testing.T, f Fetcher, mutate ...func(*Options)) *harness {
	t.Helper()
	h := &harness{
		page:  ui.NewPage(),
		board: chart.NewBoard(),
		prefs: prefstore.NewMemoryStore(),
	}
	opts := Options{
		Fetcher: f,
		Surface: h.page,
		Charts:  h.board,
		Prefs:   h.prefs,
		Rand:    fixedRand(0.5),
		Now: func() time.Time {
			return time.Date(2026, 10, 18, 14, 5, 9, 0, time.Local)
		},
	}
	for _, m := range mutate {
		m(&opts)
	}
	c, err := New(opts)
	require.NoError(t, err)
	h.c = c
	return h
}

// sampleSnapshot n 根 K 线的完整快照；seed 改变数值，便于区分不同快照
func sampleSnapshot(n int, seed float64) *snapshot.Snapshot {
	series := func(base float64) []float64 {
		out := make([]float64, n)
		for i := range out {
			out[i] = base + seed + float64(i)*0.01
		}
		return out
	}
	dates := make([]string, n)
	start := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	for i := range dates {
		dates[i] = start.Add(time.Duration(i) * 15 * time.Minute).Format("2006-01-02 15:04:05")
	}
	open := series(3.5)
	closes := series(3.5)
	for i := range closes {
		if i%2 == 0 {
			closes[i] += 0.02
		} else {
			closes[i] -= 0.02
		}
	}

	return &snapshot.Snapshot{
		Metrics: &snapshot.Metrics{
			TotalSignals: 12345, TotalTrades: 1024, OpenPositionsCount: 1,
			LastSignalTime: "2026-10-18 13:45:00",
		},
		LiveData: &snapshot.LiveData{
			Price: 3.55 + seed, VWAP: 3.5412, RSI: 45.67, CurrentSignal: "HOLD", Side: "SHORT", Size: 250,
		},
		Performance: &snapshot.Performance{
			WinRate: "54.2%", TotalPnL: "-1,234.5", AvgWin: "$42.10", AvgLoss: "$-38.70",
			MaxLoss: "$-310.00", RiskReward: "1.09",
		},
		ProjectedBalance: &snapshot.ProjectedBalance{
			Current: "15966.96", Conservative: "16,200.00", Realistic: "16,900.00", RLEnhanced: "17,400.00",
		},
		TradeBreakdown: &snapshot.TradeBreakdown{TotalTrades: 1024, Winning: 555, Losing: 469},
		RiskAssessment: &snapshot.RiskAssessment{
			BestCase: "+$1,800", WorstCase: "-$900", ExpectedRange: "-$900 to +$1,800",
		},
		Candlestick: &snapshot.Candlestick{
			Dates: dates, Open: open, High: series(3.6), Low: series(3.4), Close: closes,
			Volume: series(1000), RSI: series(50), MACDLine: series(0.01), SignalLine: series(0.005),
			MACDHist: series(0.002), EMA9: series(3.51), EMA21: series(3.52), SMA50: series(3.53),
			BBUpper: series(3.7), BBLower: series(3.3),
		},
		CumulativePnL: &snapshot.CumulativePnL{
			Dates: dates[:3], PnL: []float64{-10 + seed, 5, 12.5},
		},
		Projection: &snapshot.Projection{
			ScenarioLabel: "Next 30 Days", WorstCaseValue: 15000, BestCaseValue: 17800, CurrentBalance: 15966.96 + seed,
		},
		RecentSignals: []snapshot.Row{
			snapshot.NewRow("TIME", "13:45", "SIGNAL", "BUY", "PRICE", 3.55, "STATUS", "Pending"),
			snapshot.NewRow("TIME", "13:30", "SIGNAL", "SELL", "PRICE", 3.57, "STATUS", "Executed"),
		},
		RecentDecisions: []snapshot.Row{
			snapshot.NewRow("TIME", "13:45", "ORIGINAL", "HOLD", "FINAL", "BUY", "CONFIDENCE", 0.8666),
		},
		RecentTrades: []snapshot.Row{
			snapshot.NewRow("TIME", "13:00", "SIDE", "LONG", "ENTRY", 3.41, "EXIT", 3.49, "PNL", 12.3456),
			snapshot.NewRow("TIME", "12:00", "SIDE", "SHORT", "ENTRY", 3.6, "EXIT", 3.65, "PNL", "-5.5"),
		},
	}
}

func figure(t *testing.T, b *chart.Board, id string) chart.Figure {
	t.Helper()
	f, ok := b.Figure(id)
	require.True(t, ok, "figure %s not created", id)
	return f
}
