package ui

import "testing"

func TestPageReplacesRows(t *testing.T) {
	p := NewPage()
	p.SetRows(TradesTable, []Row{{{Text: "a"}}, {{Text: "b"}}})
	p.SetRows(TradesTable, []Row{{{Text: "c"}}})

	rows := p.Rows(TradesTable)
	if len(rows) != 1 || rows[0][0].Text != "c" {
		t.Fatalf("rows should be replaced, got %+v", rows)
	}
}

func TestPageSignalsChanges(t *testing.T) {
	p := NewPage()
	p.SetText(LivePrice, "3.5500")
	p.SetClass(LiveSide, ClassGreen)

	select {
	case <-p.Changed():
	default:
		t.Fatalf("expected change signal")
	}

	v := p.View()
	if v.Text[LivePrice] != "3.5500" || v.Class[LiveSide] != ClassGreen {
		t.Fatalf("unexpected view: %+v", v)
	}
	if v.Version != 2 {
		t.Fatalf("version got=%d want=2", v.Version)
	}

	p.Navigate("/login")
	if p.NavigatedTo() != "/login" {
		t.Fatalf("navigate not recorded")
	}
}

func TestRowsCopyIsolation(t *testing.T) {
	p := NewPage()
	in := []Row{{{Text: "x"}}}
	p.SetRows(SignalsTable, in)
	in[0][0].Text = "mutated"
	if p.Rows(SignalsTable)[0][0].Text != "x" {
		t.Fatalf("page must not alias caller rows")
	}
}
