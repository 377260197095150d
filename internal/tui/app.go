package tui

import (
	"context"
	"fmt"

	"github.com/buemura/recon/internal/scanner"
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive TUI around s and blocks until the user quits.
func Run(ctx context.Context, s scanner.Scanner, initial string) error {
	m := NewModel(ctx, s, initial)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
