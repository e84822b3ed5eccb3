package system

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	ctx.PerformAutomaticBackup()

	watchCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var changes <-chan struct{}
	if w, ok := ctx.Store.(storage.Watcher); ok {
		ch, err := w.Watch(watchCtx)
		if err != nil {
			logger.Warn("Store changes will only show on refresh", "error", err)
		} else {
			changes = ch
		}
	}

	p := tea.NewProgram(tui.NewModel(ctx.Store, ctx.Reminders, changes), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui exited with error: %w", err)
	}
	return nil
}
