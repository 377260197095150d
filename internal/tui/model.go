package tui

import (
	"context"

	"github.com/buemura/recon/internal/scanner"
	"github.com/buemura/recon/internal/tui/views"
	tea "github.com/charmbracelet/bubbletea"
)

// appState represents which view is currently active.
type appState int

const (
	stateTarget  appState = iota // Target input
	stateScan                    // Scan in progress or failed
	stateResults                 // Report display
)

// Model is the root Bubble Tea model that manages view transitions.
type Model struct {
	state   appState
	ctx     context.Context
	scanner scanner.Scanner
	last    string
	width   int
	height  int

	// Sub-models for each view.
	target  views.TargetModel
	scan    views.ScanModel
	results views.ResultsModel
}

// NewModel creates a root model around s. A non-empty initial target
// pre-fills the input.
func NewModel(ctx context.Context, s scanner.Scanner, initial string) Model {
	target := views.NewTargetModel()
	target.SetValue(initial)

	return Model{
		state:   stateTarget,
		ctx:     ctx,
		scanner: s,
		last:    initial,
		target:  target,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return m.target.Init()
}

// Update handles messages and manages state transitions.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			return m.handleBack()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	switch m.state {
	case stateTarget:
		return m.updateTarget(msg)
	case stateScan:
		return m.updateScan(msg)
	case stateResults:
		return m.updateResults(msg)
	}

	return m, nil
}

// View renders the current view.
func (m Model) View() string {
	switch m.state {
	case stateTarget:
		return m.target.View()
	case stateScan:
		return m.scan.View()
	case stateResults:
		return m.results.View()
	}
	return ""
}

// handleBack returns to the target input from a report or a failed scan.
// A running scan cannot be abandoned; ctrl+c quits instead.
func (m Model) handleBack() (tea.Model, tea.Cmd) {
	if m.state == stateResults || (m.state == stateScan && m.scan.Failed()) {
		m.target = views.NewTargetModel()
		m.target.SetValue(m.last)
		m.state = stateTarget
		return m, m.target.Init()
	}
	return m, nil
}

func (m Model) updateTarget(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "enter" {
		if _, err := m.target.ValidatedTarget(); err == nil {
			m.last = m.target.Value()
			m.scan = views.NewScanModel(m.ctx, m.scanner, m.last)
			m.state = stateScan
			return m, m.scan.Init()
		}
	}

	updated, cmd := m.target.Update(msg)
	m.target = updated.(views.TargetModel)
	return m, cmd
}

func (m Model) updateScan(msg tea.Msg) (tea.Model, tea.Cmd) {
	if scanMsg, ok := msg.(views.ScanCompleteMsg); ok {
		m.results = views.NewResultsModel(scanMsg.Result)
		m.state = stateResults
		if m.height > 0 {
			updated, _ := m.results.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
			m.results = updated.(views.ResultsModel)
		}
		return m, nil
	}

	updated, cmd := m.scan.Update(msg)
	m.scan = updated.(views.ScanModel)
	return m, cmd
}

func (m Model) updateResults(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.results.Update(msg)
	m.results = updated.(views.ResultsModel)
	return m, cmd
}
