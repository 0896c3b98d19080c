package chart

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestBoardPatchBeforeCreate(t *testing.T) {
	b := NewBoard()
	if err := b.PatchData("x", "y", nil, 0); !errors.Is(err, ErrNoFigure) {
		t.Fatalf("expected ErrNoFigure, got %v", err)
	}
	if err := b.PatchLayout("x", map[string]any{"title.text": "t"}); !errors.Is(err, ErrNoFigure) {
		t.Fatalf("expected ErrNoFigure, got %v", err)
	}
}

func TestBoardReplaceCreatesMissingFigure(t *testing.T) {
	b := NewBoard()
	if err := b.Replace("p", []Trace{{Type: "bar"}}, Layout{Height: 100}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	f, ok := b.Figure("p")
	if !ok {
		t.Fatalf("figure should exist")
	}
	if f.Stats.Replaces != 1 || f.Stats.Creates != 0 || f.Layout.Height != 100 {
		t.Fatalf("unexpected figure: %+v", f)
	}
}

func TestBoardPatchData(t *testing.T) {
	b := NewBoard()
	_ = b.Create("pnl", []Trace{{Type: "scatter", X: Strings([]string{"a"}), Y: Floats([]float64{1})}}, Layout{}, Options{})

	if err := b.PatchData("pnl", "y", Floats([]float64{1, 2, 3}), 0); err != nil {
		t.Fatalf("patch y: %v", err)
	}
	if err := b.PatchData("pnl", "y", nil, 1); !errors.Is(err, ErrTraceIndex) {
		t.Fatalf("expected ErrTraceIndex, got %v", err)
	}
	if err := b.PatchData("pnl", "z", nil, 0); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}

	f, _ := b.Figure("pnl")
	if len(f.Traces[0].Y) != 3 || len(f.Traces[0].X) != 1 {
		t.Fatalf("patch should only touch y: %+v", f.Traces[0])
	}
	if f.Stats.DataPatches != 1 || f.Version != 2 {
		t.Fatalf("stats=%+v version=%d", f.Stats, f.Version)
	}
}

func TestBoardPatchLayoutAtomic(t *testing.T) {
	b := NewBoard()
	_ = b.Create("sig", []Trace{{Type: "bar"}}, Layout{Title: &Title{Text: "old"}}, Options{})

	err := b.PatchLayout("sig", map[string]any{"title.text": "new", "bogus": "x"})
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	f, _ := b.Figure("sig")
	if f.Layout.Title.Text != "old" {
		t.Fatalf("failed patch must not apply partially, title=%q", f.Layout.Title.Text)
	}

	err = b.PatchLayout("sig", map[string]any{
		"title.text":      "new",
		"paper_bgcolor":   DarkPalette.Background,
		"plot_bgcolor":    DarkPalette.Background,
		"font.color":      DarkPalette.Text,
		"xaxis.color":     DarkPalette.Text,
		"yaxis.color":     DarkPalette.Text,
		"yaxis.gridcolor": DarkPalette.Grid,
	})
	if err != nil {
		t.Fatalf("patch layout: %v", err)
	}
	f, _ = b.Figure("sig")
	if f.Layout.Title.Text != "new" || f.Layout.PaperBGColor != "#2d2d2d" || f.Layout.Font.Color != "#e0e0e0" {
		t.Fatalf("unexpected layout: %+v", f.Layout)
	}
	if f.Layout.YAxes[0].GridColor != "#444" || f.Layout.XAxis.Color != "#e0e0e0" {
		t.Fatalf("axes not patched: %+v %+v", f.Layout.XAxis, f.Layout.YAxes)
	}
}

func TestBoardFigureIsCopy(t *testing.T) {
	b := NewBoard()
	_ = b.Create("c", []Trace{{Name: "a"}}, Layout{Title: &Title{Text: "t"}}, Options{})
	f, _ := b.Figure("c")
	f.Traces[0].Name = "mutated"
	f.Layout.Title.Text = "mutated"

	g, _ := b.Figure("c")
	if g.Traces[0].Name != "a" || g.Layout.Title.Text != "t" {
		t.Fatalf("board leaked internal state: %+v", g)
	}
}

func TestLayoutJSONAxes(t *testing.T) {
	l := Layout{
		XAxis: &Axis{RangeSlider: &RangeSlider{Visible: false}},
		YAxes: []Axis{{Domain: []float64{0.45, 1}}, {Domain: []float64{0.3, 0.45}}},
	}
	raw, err := json.Marshal(l)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, k := range []string{"xaxis", "yaxis", "yaxis2"} {
		if _, ok := m[k]; !ok {
			t.Fatalf("missing %s in %s", k, raw)
		}
	}
}

func TestSketches(t *testing.T) {
	if s := Sparkline([]float64{1, 2, 3}, 0); len([]rune(s)) != 3 || !strings.HasPrefix(s, "▁") || !strings.HasSuffix(s, "█") {
		t.Fatalf("sparkline=%q", s)
	}
	if s := Sparkline([]float64{1, 2, 3, 4}, 2); len([]rune(s)) != 2 {
		t.Fatalf("sparkline width not applied: %q", s)
	}
	if s := HBar(5, 10, 10); len([]rune(s)) != 5 {
		t.Fatalf("hbar=%q", s)
	}
	if s := HBar(-1, 10, 10); s != "" {
		t.Fatalf("negative bar should be empty, got %q", s)
	}
	if s := Range(0, 10, 20, 5); !strings.HasSuffix(s, ">") {
		t.Fatalf("out of range mark should be flagged: %q", s)
	}
	if n := Numbers([]any{1.5, "x", 2}); len(n) != 2 {
		t.Fatalf("numbers=%v", n)
	}
}
