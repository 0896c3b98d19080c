package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/betbot/botdash/internal/chart"
	"github.com/betbot/botdash/internal/ui"
)

type fakeActions struct {
	refresh, toggle int
}

func (f *fakeActions) RequestRefresh() { f.refresh++ }
func (f *fakeActions) RequestToggle()  { f.toggle++ }

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeysTriggerActions(t *testing.T) {
	acts := &fakeActions{}
	m := newModel(ui.NewPage(), chart.NewBoard(), acts)

	next, _ := m.Update(key("r"))
	next, _ = next.Update(key("d"))
	if acts.refresh != 1 || acts.toggle != 1 {
		t.Fatalf("refresh=%d toggle=%d", acts.refresh, acts.toggle)
	}
	if _, cmd := next.Update(key("q")); cmd == nil {
		t.Fatalf("q should quit")
	}
}

func TestViewShowsPageAndCharts(t *testing.T) {
	page := ui.NewPage()
	board := chart.NewBoard()
	page.SetText(ui.LivePrice, "3.5500")
	page.SetText(ui.TotalPnL, "-$1,234.50")
	page.SetClass(ui.TotalPnL, ui.ClassLoss)
	page.SetClass(ui.Body, ui.ClassDarkMode)
	page.SetRows(ui.TradesTable, []ui.Row{{{Text: "No trades found", ColSpan: 5}}})
	_ = board.Create(ui.SignalChart, []chart.Trace{{
		Type: "bar",
		X:    chart.Strings([]string{"Strong Buy", "Buy", "Hold", "Sell", "Strong Sell"}),
		Y:    []any{10, 20, 40, 20, 10},
	}}, chart.Layout{Title: &chart.Title{Text: "Signal Distribution (RSI: 45.7)"}}, chart.Options{})

	m := newModel(page, board, &fakeActions{})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 160, Height: 60})
	out := next.View()

	for _, want := range []string{"3.5500", "-$1,234.50", "Theme: Dark", "No trades found", "Signal Distribution (RSI: 45.7)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q", want)
		}
	}
}

func TestNavigationEndsSession(t *testing.T) {
	page := ui.NewPage()
	m := newModel(page, chart.NewBoard(), &fakeActions{})
	page.Navigate("/login")

	next, cmd := m.Update(changedMsg{})
	if cmd == nil {
		t.Fatalf("navigation should quit the program")
	}
	if !strings.Contains(next.View(), "/login") {
		t.Fatalf("view should show login destination")
	}
}
