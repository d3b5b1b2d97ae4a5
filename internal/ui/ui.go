package ui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/slumber/internal/bootstrap"
	"github.com/five82/slumber/internal/capability"
	"github.com/five82/slumber/internal/sleep"
	"github.com/five82/slumber/internal/theme"
)

// Options configures the UI.
type Options struct {
	Context    context.Context
	Theme      *theme.Store
	Bootstrap  *bootstrap.Store
	Capability *capability.Store
	Sleep      *sleep.Store
	DeviceURL  string
}

func (o Options) validate() error {
	switch {
	case o.Theme == nil:
		return fmt.Errorf("ui requires a theme store")
	case o.Bootstrap == nil:
		return fmt.Errorf("ui requires a bootstrap store")
	case o.Capability == nil:
		return fmt.Errorf("ui requires a capability store")
	case o.Sleep == nil:
		return fmt.Errorf("ui requires a sleep store")
	}
	return nil
}

// Run blocks until the user quits or the context is cancelled.
func Run(opts Options) error {
	if err := opts.validate(); err != nil {
		return err
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	opts.Context = ctx

	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
