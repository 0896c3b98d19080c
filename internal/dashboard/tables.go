package dashboard

import (
	"strconv"

	"github.com/betbot/botdash/internal/snapshot"
	"github.com/betbot/botdash/internal/ui"
)

const (
	noTradesText    = "No trades found"
	tradesTableCols = 5
)

// cellStyler 按列名和值决定展示文本与样式
type cellStyler func(col string, v any) ui.Cell

// renderTables 三张表每轮整表替换
func (c *Coordinator) renderTables(s *snapshot.Snapshot) error {
	if err := s.RequireTables(); err != nil {
		return err
	}
	surf := c.opts.Surface
	surf.SetRows(ui.SignalsTable, buildRows(s.RecentSignals, signalCell))
	surf.SetRows(ui.DecisionsTable, buildRows(s.RecentDecisions, decisionCell))

	trades := buildRows(s.RecentTrades, tradeCell)
	if len(trades) == 0 {
		trades = []ui.Row{{{Text: noTradesText, ColSpan: tradesTableCols}}}
	}
	surf.SetRows(ui.TradesTable, trades)
	return nil
}

func buildRows(src []snapshot.Row, style cellStyler) []ui.Row {
	rows := make([]ui.Row, 0, len(src))
	for _, r := range src {
		if r.Len() == 0 {
			continue
		}
		cols := r.Columns()
		row := make(ui.Row, 0, len(cols))
		for _, col := range cols {
			v, _ := r.Get(col)
			row = append(row, style(col, v))
		}
		rows = append(rows, row)
	}
	return rows
}

func signalCell(col string, v any) ui.Cell {
	cell := ui.Cell{Text: snapshot.Text(v)}
	switch col {
	case "STATUS":
		switch cell.Text {
		case "Pending":
			cell.Class = ui.ClassPending
		case "Executed":
			cell.Class = ui.ClassExecuted
		}
	case "SIGNAL":
		cell.Class = signalClass(cell.Text)
	}
	return cell
}

func decisionCell(col string, v any) ui.Cell {
	cell := ui.Cell{Text: snapshot.Text(v)}
	switch col {
	case "FINAL", "ORIGINAL":
		cell.Class = signalClass(cell.Text)
	case "CONFIDENCE":
		if f, ok := snapshot.Float(v); ok {
			cell.Text = formatFixed(f, 2)
		}
	}
	return cell
}

func tradeCell(col string, v any) ui.Cell {
	cell := ui.Cell{Text: snapshot.Text(v)}
	switch col {
	case "SIDE":
		switch cell.Text {
		case "LONG":
			cell.Class = ui.ClassGreen
		case "SHORT":
			cell.Class = ui.ClassRed
		}
	case "PNL":
		if f, ok := snapshot.Float(v); ok {
			cell.Text = formatFixed(f, 2)
			// 按两位小数后的值判断，"-0.00" 算作非负
			if rounded, _ := strconv.ParseFloat(cell.Text, 64); rounded >= 0 {
				cell.Class = ui.ClassGreen
			} else {
				cell.Class = ui.ClassRed
			}
		}
	}
	return cell
}
