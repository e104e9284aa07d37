package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/maticai/matic/internal/cli"
	"github.com/maticai/matic/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	ctx.PerformAutomaticBackup()

	p := tea.NewProgram(tui.NewModel(ctx.Tracker), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
