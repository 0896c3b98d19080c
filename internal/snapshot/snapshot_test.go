package snapshot

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

const sampleDoc = `{
  "metrics": {"total_signals": 131129, "total_trades": 85, "open_positions_count": 0, "last_signal_time": "Mar 01, 10:02 AM"},
  "live_data": {"Price": 3.5481, "RSI": 41.2, "VWAP": 3.5915, "CurrentSignal": "HOLD (0)", "Side": "NONE", "Size": 0.0},
  "performance": {"win_rate": "0.00%", "total_pnl": "15,966.96", "avg_win": "$0.00", "avg_loss": "-$1064.46", "max_loss": "-$1308.33", "risk_reward": "1:0.00"},
  "recent_trades": [],
  "recent_signals": [{"TIME": "Mar 01, 10:02 AM", "SIGNAL": "BUY", "STRENGTH": 77, "PRICE": 3.5512, "STATUS": "Pending"}],
  "recent_decisions": [{"TIME": "10:02:11 AM", "ORIGINAL": "SELL", "RL_ACTION": "RL recommends: BUY, confidence: 0.8", "FINAL": "BUY", "CONFIDENCE": 0.8, "REASON": "ok"}]
}`

func TestDecodeKeepsColumnOrder(t *testing.T) {
	s, err := Decode(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if s.Metrics == nil || s.Metrics.TotalSignals != 131129 {
		t.Fatalf("metrics not decoded: %+v", s.Metrics)
	}
	if s.LiveData.RSI != 41.2 {
		t.Fatalf("RSI got=%v", s.LiveData.RSI)
	}

	if len(s.RecentSignals) != 1 {
		t.Fatalf("signals len=%d", len(s.RecentSignals))
	}
	got := strings.Join(s.RecentSignals[0].Columns(), ",")
	want := "TIME,SIGNAL,STRENGTH,PRICE,STATUS"
	if got != want {
		t.Fatalf("columns got=%s want=%s", got, want)
	}
	v, _ := s.RecentSignals[0].Get("STRENGTH")
	if f, ok := Float(v); !ok || f != 77 {
		t.Fatalf("STRENGTH got=%v", v)
	}

	cols := s.RecentDecisions[0].Columns()
	if cols[len(cols)-1] != "REASON" || cols[0] != "TIME" {
		t.Fatalf("decision columns out of order: %v", cols)
	}
	if s.RecentTrades == nil || len(s.RecentTrades) != 0 {
		t.Fatalf("empty trades should decode to empty slice, got %v", s.RecentTrades)
	}
}

func TestRowMarshalRoundTripOrder(t *testing.T) {
	r := NewRow("Z", 1.5, "A", "x", "M", nil)
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(b) != `{"Z":1.5,"A":"x","M":null}` {
		t.Fatalf("got %s", b)
	}
}

func TestDecodeNullRowsAsEmpty(t *testing.T) {
	doc := `{"recent_trades": [null, {"TIME": "10:00", "SIDE": "LONG"}], "metrics": {"total_signals": 3}}`
	s, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(s.RecentTrades) != 2 {
		t.Fatalf("trades len=%d", len(s.RecentTrades))
	}
	if s.RecentTrades[0].Len() != 0 {
		t.Fatalf("null row should be empty, got %v", s.RecentTrades[0].Columns())
	}
	if got := strings.Join(s.RecentTrades[1].Columns(), ","); got != "TIME,SIDE" {
		t.Fatalf("columns got=%s", got)
	}
	if s.Metrics == nil || s.Metrics.TotalSignals != 3 {
		t.Fatalf("metrics should still decode: %+v", s.Metrics)
	}
}

func TestRowRejectsNonObject(t *testing.T) {
	var r Row
	if err := json.Unmarshal([]byte(`[1,2]`), &r); err == nil {
		t.Fatalf("expected error for array row")
	}
}

func TestText(t *testing.T) {
	cases := map[string]any{
		"3.55":  3.55,
		"77":    float64(77),
		"":      nil,
		"BUY":   "BUY",
		"false": false,
	}
	for want, in := range cases {
		if got := Text(in); got != want {
			t.Errorf("Text(%v) got=%q want=%q", in, got, want)
		}
	}
}

func TestValidators(t *testing.T) {
	empty := Empty()
	for name, fn := range map[string]func() error{
		"metrics":    empty.RequireMetrics,
		"live":       empty.RequireLive,
		"candles":    empty.RequireCandles,
		"pnl":        empty.RequirePnL,
		"projection": empty.RequireProjection,
	} {
		err := fn()
		var mf *MissingFieldError
		if !errors.As(err, &mf) {
			t.Errorf("%s: expected MissingFieldError, got %v", name, err)
		}
	}

	var nilSnap *Snapshot
	var mf *MissingFieldError
	if err := nilSnap.RequireTables(); !errors.As(err, &mf) || mf.Section != "snapshot" {
		t.Fatalf("nil snapshot tables: %v", err)
	}
	if err := empty.RequireTables(); err != nil {
		t.Fatalf("empty tables are fine: %v", err)
	}
}

func alignedCandles(n int) *Candlestick {
	s := func() []float64 { return make([]float64, n) }
	return &Candlestick{
		Dates: make([]string, n),
		Open:  s(), High: s(), Low: s(), Close: s(), Volume: s(),
		RSI: s(), MACDLine: s(), SignalLine: s(), MACDHist: s(),
		EMA9: s(), EMA21: s(), SMA50: s(), BBUpper: s(), BBLower: s(),
	}
}

func TestRequireCandlesChecksEverySeries(t *testing.T) {
	tests := []struct {
		field  string
		mutate func(c *Candlestick)
	}{
		{"close", func(c *Candlestick) { c.Close = c.Close[:1] }},
		{"ema9", func(c *Candlestick) { c.EMA9 = c.EMA9[:1] }},
		{"bb_lower", func(c *Candlestick) { c.BBLower = nil }},
		{"volume", func(c *Candlestick) { c.Volume = append(c.Volume, 1) }},
		{"signal_line", func(c *Candlestick) { c.SignalLine = nil }},
		{"rsi", func(c *Candlestick) { c.RSI = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			s := &Snapshot{Candlestick: alignedCandles(3)}
			tt.mutate(s.Candlestick)
			var mf *MissingFieldError
			if err := s.RequireCandles(); !errors.As(err, &mf) || mf.Field != tt.field {
				t.Fatalf("expected %s length mismatch, got %v", tt.field, err)
			}
		})
	}

	s := &Snapshot{Candlestick: alignedCandles(3)}
	if err := s.RequireCandles(); err != nil {
		t.Fatalf("aligned candles should validate: %v", err)
	}
}
