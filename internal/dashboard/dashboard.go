package dashboard

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hostscope/hostscope/internal/errors"
	"github.com/hostscope/hostscope/internal/surface"
)

// Dashboard is the interactive surface. It refuses to run without an
// interactive terminal so selection can fall back to plain output.
type Dashboard struct {
	Collect surface.CollectFunc
	Opts    Options
}

func (d *Dashboard) Name() string { return "dashboard" }

func (d *Dashboard) CanRun() error {
	if !surface.IsInteractive(int(os.Stdout.Fd())) {
		return fmt.Errorf("stdout is not an interactive terminal")
	}
	return nil
}

// Run drives the Bubble Tea program until the user quits.
func (d *Dashboard) Run(ctx context.Context) error {
	m := NewModel(d.Collect, d.Opts)
	m.ctx = ctx
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrDisplay, "Dashboard terminated unexpectedly", "")
	}
	return nil
}
