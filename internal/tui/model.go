package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/betbot/botdash/internal/chart"
	"github.com/betbot/botdash/internal/metrics"
	"github.com/betbot/botdash/internal/ui"
)

var log = logrus.WithField("module", "tui")

// Actions 终端里可以触发的操作
type Actions interface {
	RequestRefresh()
	RequestToggle()
}

type changedMsg struct{}

// theme 终端配色，跟随页面 body 的 dark-mode
type theme struct {
	accent, text, muted, border lipgloss.Color
}

var (
	lightTheme = theme{accent: "33", text: "235", muted: "245", border: "33"}
	darkTheme  = theme{accent: "39", text: "252", muted: "242", border: "39"}
)

var classColors = map[string]lipgloss.Color{
	ui.ClassGreen:    "46",
	ui.ClassProfit:   "46",
	ui.ClassExecuted: "46",
	ui.ClassRed:      "196",
	ui.ClassLoss:     "196",
	ui.ClassHold:     "214",
	ui.ClassPending:  "214",
}

type model struct {
	page    *ui.Page
	board   *chart.Board
	actions Actions

	view    ui.View
	figures map[string]chart.Figure
	width   int
	height  int
	status  string

	// loginURL 非空表示页面已跳转（会话结束），显示后退出
	loginURL string
}

func newModel(page *ui.Page, board *chart.Board, actions Actions) model {
	m := model{page: page, board: board, actions: actions}
	m.sync()
	return m
}

func (m *model) sync() {
	m.view = m.page.View()
	m.figures = make(map[string]chart.Figure)
	for _, f := range m.board.Figures() {
		m.figures[f.ID] = f
	}
	m.loginURL = m.view.Navigate
}

func (m model) Init() tea.Cmd {
	return m.waitForUpdate()
}

// waitForUpdate 页面或图表有变化时唤醒一次
func (m model) waitForUpdate() tea.Cmd {
	page, board := m.page.Changed(), m.board.Changed()
	return func() tea.Msg {
		select {
		case <-page:
		case <-board:
		}
		return changedMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.status = "refresh requested"
			m.actions.RequestRefresh()
			return m, nil
		case "d":
			m.status = "theme toggle requested"
			m.actions.RequestToggle()
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case changedMsg:
		m.sync()
		if m.loginURL != "" {
			log.Warnf("会话需要登录: %s", m.loginURL)
			return m, tea.Quit
		}
		return m, m.waitForUpdate()
	}
	return m, nil
}

func (m model) theme() theme {
	if m.view.Class[ui.Body] == ui.ClassDarkMode {
		return darkTheme
	}
	return lightTheme
}

func (m model) View() string {
	th := m.theme()
	if m.loginURL != "" {
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")).Padding(1, 2).
			Render(fmt.Sprintf("Session expired, please log in: %s", m.loginURL))
	}

	width := m.width - 4
	if width < 80 {
		width = 80
	}
	half := width/2 - 1

	header := m.renderHeader(th)
	panels := lipgloss.JoinHorizontal(lipgloss.Top,
		m.box(th, half, m.renderMetrics(th)+"\n\n"+m.renderLive(th)),
		"  ",
		m.box(th, half, m.renderPerformance(th)+"\n\n"+m.renderProjection(th, half-4)),
	)
	charts := lipgloss.JoinHorizontal(lipgloss.Top,
		m.box(th, half, m.renderIndicator(th, half-4)+"\n\n"+m.renderPnL(th, half-4)),
		"  ",
		m.box(th, half, m.renderSignal(th, half-4)),
	)
	tables := m.box(th, width, strings.Join([]string{
		m.renderTable(th, "Recent Signals", ui.SignalsTable),
		m.renderTable(th, "Recent RL Decisions", ui.DecisionsTable),
		m.renderTable(th, "Recent Trades", ui.TradesTable),
	}, "\n\n"))
	footer := lipgloss.NewStyle().Foreground(th.muted).Render(m.footer())

	return lipgloss.JoinVertical(lipgloss.Left, header, panels, charts, tables, footer)
}

func (m model) box(th theme, width int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.border).
		Padding(0, 1).
		Render(content)
}

func (m model) title(th theme, s string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(th.accent).Render(s)
}

func (m model) text(id string) string {
	if v := m.view.Text[id]; v != "" {
		return v
	}
	return "-"
}

// styled 按页面上的 class 给文本上色
func (m model) styled(th theme, id string) string {
	style := lipgloss.NewStyle().Foreground(th.text)
	if c, ok := classColors[m.view.Class[id]]; ok {
		style = style.Foreground(c).Bold(true)
	}
	return style.Render(m.text(id))
}

func (m model) renderHeader(th theme) string {
	mode := "Light"
	if m.view.Class[ui.Body] == ui.ClassDarkMode {
		mode = "Dark"
	}
	return lipgloss.NewStyle().Bold(true).Foreground(th.accent).Padding(0, 1).Render(
		fmt.Sprintf("Trading Bot Dashboard | Last Update: %s | Theme: %s", m.text(ui.LastUpdateTime), mode))
}

func (m model) renderMetrics(th theme) string {
	lines := []string{
		m.title(th, "Overview"),
		fmt.Sprintf("Total Signals:  %s", m.styled(th, ui.TotalSignals)),
		fmt.Sprintf("Total Trades:   %s", m.styled(th, ui.TotalTrades)),
		fmt.Sprintf("Open Positions: %s", m.styled(th, ui.OpenPositionsCount)),
		fmt.Sprintf("Last Signal:    %s", m.styled(th, ui.LastSignalTime)),
	}
	return strings.Join(lines, "\n")
}

func (m model) renderLive(th theme) string {
	lines := []string{
		m.title(th, "Live Market"),
		fmt.Sprintf("Price: %s  VWAP: %s  RSI: %s",
			m.styled(th, ui.LivePrice), m.styled(th, ui.LiveVWAP), m.styled(th, ui.LiveRSI)),
		fmt.Sprintf("Signal: %s  Side: %s  Size: %s",
			m.styled(th, ui.CurrentSignal), m.styled(th, ui.LiveSide), m.styled(th, ui.LiveSize)),
	}
	return strings.Join(lines, "\n")
}

func (m model) renderPerformance(th theme) string {
	lines := []string{
		m.title(th, "Performance"),
		fmt.Sprintf("Total PnL:   %s", m.styled(th, ui.TotalPnL)),
		fmt.Sprintf("Win Rate:    %s", m.styled(th, ui.WinRate)),
		fmt.Sprintf("Avg Win:     %s  Avg Loss: %s", m.styled(th, ui.AvgWin), m.styled(th, ui.AvgLoss)),
		fmt.Sprintf("Risk/Reward: %s", m.styled(th, ui.RiskReward)),
	}
	return strings.Join(lines, "\n")
}

func (m model) renderProjection(th theme, width int) string {
	lines := []string{
		m.title(th, "Projection"),
		fmt.Sprintf("Balance: %s  Trades: %s  Losing: %s  Best: %s",
			m.styled(th, ui.CurrentBalance), m.styled(th, ui.TotalTradesBreakdown),
			m.styled(th, ui.LosingTrades), m.styled(th, ui.RiskBest)),
	}
	if f, ok := m.figures[ui.ProjectionChart]; ok && len(f.Traces) > 0 && len(f.Traces[0].Base) > 0 {
		lo := f.Traces[0].Base[0]
		span := chart.Numbers(f.Traces[0].X)
		hi := lo
		if len(span) > 0 {
			hi = lo + span[0]
		}
		mark := lo
		if len(f.Layout.Shapes) > 0 {
			mark = f.Layout.Shapes[0].X0
		}
		lines = append(lines, fmt.Sprintf("%.0f %s %.0f", lo, chart.Range(lo, hi, mark, width-20), hi))
	}
	return strings.Join(lines, "\n")
}

func (m model) renderIndicator(th theme, width int) string {
	f, ok := m.figures[ui.CandlestickChart]
	if !ok || len(f.Traces) == 0 {
		return m.title(th, "Price") + "\nwaiting for data..."
	}
	lines := []string{m.title(th, figureTitle(f, "Price"))}
	lines = append(lines, "Close "+chart.Sparkline(f.Traces[0].Close, width-6))
	for _, tr := range f.Traces[1:] {
		if tr.Name == "RSI" || tr.Name == "MACD" {
			lines = append(lines, fmt.Sprintf("%-5s %s", tr.Name, chart.Sparkline(chart.Numbers(tr.Y), width-6)))
		}
	}
	return strings.Join(lines, "\n")
}

func (m model) renderPnL(th theme, width int) string {
	f, ok := m.figures[ui.PnLChart]
	if !ok || len(f.Traces) == 0 {
		return m.title(th, "Cumulative PnL") + "\nwaiting for data..."
	}
	ys := chart.Numbers(f.Traces[0].Y)
	last := "-"
	if len(ys) > 0 {
		last = fmt.Sprintf("%.2f", ys[len(ys)-1])
	}
	return m.title(th, figureTitle(f, "Cumulative PnL")) + "\n" + chart.Sparkline(ys, width) + "\nlast: " + last
}

func (m model) renderSignal(th theme, width int) string {
	f, ok := m.figures[ui.SignalChart]
	if !ok || len(f.Traces) == 0 {
		return m.title(th, "Signal Distribution") + "\nwaiting for data..."
	}
	tr := f.Traces[0]
	values := chart.Numbers(tr.Y)
	var colors []string
	if tr.Marker != nil {
		colors, _ = tr.Marker.Color.([]string)
	}
	lines := []string{m.title(th, figureTitle(f, "Signal Distribution"))}
	for i, x := range tr.X {
		if i >= len(values) {
			break
		}
		bar := chart.HBar(values[i], 100, width-20)
		if i < len(colors) {
			bar = lipgloss.NewStyle().Foreground(lipgloss.Color(colors[i])).Render(bar)
		}
		lines = append(lines, fmt.Sprintf("%-11v %3.0f%% %s", x, values[i], bar))
	}
	return strings.Join(lines, "\n")
}

func (m model) renderTable(th theme, name, id string) string {
	lines := []string{m.title(th, name)}
	rows := m.view.Tables[id]
	if len(rows) == 0 {
		return strings.Join(append(lines, "-"), "\n")
	}
	for _, row := range rows {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			style := lipgloss.NewStyle().Foreground(th.text)
			if c, ok := classColors[cell.Class]; ok {
				style = style.Foreground(c)
			}
			cells = append(cells, style.Render(cell.Text))
		}
		lines = append(lines, strings.Join(cells, "  "))
	}
	return strings.Join(lines, "\n")
}

func (m model) footer() string {
	vals := metrics.Values()
	s := fmt.Sprintf("[r] refresh  [d] dark mode  [q] quit | fetch=%d err=%d skipped=%d",
		vals["fetch_total"], vals["fetch_errors"], vals["render_skipped"])
	if m.status != "" {
		s += " | " + m.status
	}
	return s
}

func figureTitle(f chart.Figure, fallback string) string {
	if f.Layout.Title != nil && f.Layout.Title.Text != "" {
		return f.Layout.Title.Text
	}
	return fallback
}
