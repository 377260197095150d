package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/buemura/recon/internal/scanner"
	"github.com/buemura/recon/internal/tui/styles"
	"github.com/buemura/recon/pkg/types"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ScanCompleteMsg is sent when a scan finishes.
type ScanCompleteMsg struct {
	Result *types.ScanResult
}

// ScanFailedMsg is sent when a scan aborts before producing a report.
type ScanFailedMsg struct {
	Err error
}

// ScanModel is the view model for the scan progress view.
type ScanModel struct {
	spinner spinner.Model
	scanner scanner.Scanner
	ctx     context.Context
	target  string
	err     string
}

// NewScanModel creates a scan progress view for target. The engine enforces
// its own deadline; ctx only carries cancellation from the caller.
func NewScanModel(ctx context.Context, s scanner.Scanner, target string) ScanModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.ColorAccent)

	return ScanModel{
		spinner: sp,
		scanner: s,
		ctx:     ctx,
		target:  target,
	}
}

// Init starts the spinner and launches the scan.
func (m ScanModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.runScan())
}

// Update handles spinner ticks and scan failure.
func (m ScanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ScanFailedMsg:
		m.err = msg.Err.Error()
		return m, nil

	case spinner.TickMsg:
		if m.Failed() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// Failed reports whether the scan aborted.
func (m ScanModel) Failed() bool {
	return m.err != ""
}

// View renders the scan progress.
func (m ScanModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("recon: interactive mode"))
	b.WriteString("\n\n")

	if m.Failed() {
		b.WriteString(styles.ErrorStyle.Render(fmt.Sprintf("Scan failed: %s", m.err)))
		b.WriteString("\n\n")
		b.WriteString(styles.HelpStyle.Render("esc new target • ctrl+c quit"))
		return b.String()
	}

	b.WriteString(fmt.Sprintf("%s Scanning %s\n",
		m.spinner.View(),
		styles.SelectedStyle.Render(m.target)))
	b.WriteString("  DNS, HTTP, ports and robots.txt\n")
	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("ctrl+c quit"))

	return b.String()
}

func (m ScanModel) runScan() tea.Cmd {
	ctx, s, target := m.ctx, m.scanner, m.target
	return func() tea.Msg {
		result, err := s.Scan(ctx, target)
		if err != nil {
			return ScanFailedMsg{Err: err}
		}
		return ScanCompleteMsg{Result: result}
	}
}
