// Package tui 终端前端：把内存页面和图表画到终端，按键触发刷新和主题切换。
package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/betbot/botdash/internal/chart"
	"github.com/betbot/botdash/internal/ui"
)

// Run 阻塞运行终端界面，直到按 q、ctx 结束或页面跳转到登录页
func Run(ctx context.Context, page *ui.Page, board *chart.Board, actions Actions) error {
	p := tea.NewProgram(newModel(page, board, actions), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	if m, ok := final.(model); ok && m.loginURL != "" {
		log.Infof("终端界面退出：需要登录 %s", m.loginURL)
	}
	return nil
}
