package views

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/buemura/recon/internal/output"
	"github.com/buemura/recon/internal/scanner/port"
	"github.com/buemura/recon/internal/tui/styles"
	"github.com/buemura/recon/pkg/types"
	tea "github.com/charmbracelet/bubbletea"
)

// ExportFile is the name the results view writes the JSON report to.
const ExportFile = "recon-result.json"

// ResultsModel is the view model for displaying one scan report.
type ResultsModel struct {
	result    *types.ScanResult
	cursor    int
	offset    int
	maxRows   int
	exportDir string
	exported  string
	exportErr string
}

// NewResultsModel creates a results view for result.
func NewResultsModel(result *types.ScanResult) ResultsModel {
	return ResultsModel{
		result:  result,
		maxRows: 10,
	}
}

// Init returns nil (no initial command).
func (m ResultsModel) Init() tea.Cmd {
	return nil
}

// Update handles key events for scrolling hints and export.
func (m ResultsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	hints := m.result.Hints

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(hints)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.maxRows {
					m.offset = m.cursor - m.maxRows + 1
				}
			}
		case "e":
			m.exportJSON()
		case "q":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		// Leave room for the summary, ports and footer.
		if rows := msg.Height - 20; rows > 3 {
			m.maxRows = rows
		}
	}

	return m, nil
}

// View renders the report.
func (m ResultsModel) View() string {
	r := m.result
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("recon: scan results"))
	b.WriteString("\n\n")

	risk := styles.RiskStyle(r.Risk).Render(strings.ToUpper(string(r.Risk)))
	b.WriteString(fmt.Sprintf("%s  risk %s\n\n", styles.SelectedStyle.Render(r.Host), risk))

	field := func(name, value string) {
		b.WriteString(fmt.Sprintf("  %-12s %s\n", name, value))
	}
	field("IP", r.IP)
	if r.ReverseDNS != "" {
		field("Reverse DNS", r.ReverseDNS)
	}
	field("HTTP", output.HTTPSummary(r))
	if r.HTTPFingerprint != nil {
		if r.Title != "" {
			field("Title", truncate(r.Title, 60))
		}
		field("Final URL", truncate(r.FinalURL, 60))
	}
	field("robots.txt", output.RobotsSummary(r))

	b.WriteString("\n")
	b.WriteString(styles.HeaderStyle.Render("Ports"))
	b.WriteString("\n")
	for _, p := range r.SortedPorts() {
		status := r.Ports[p]
		b.WriteString(fmt.Sprintf("  %-6d %-10s %s\n", p, port.IdentifyService(p),
			styles.PortStyle(status).Render(string(status))))
	}

	b.WriteString("\n")
	b.WriteString(styles.HeaderStyle.Render(fmt.Sprintf("Hints (%d)", len(r.Hints))))
	b.WriteString("\n")
	if len(r.Hints) == 0 {
		b.WriteString("  No hints.\n")
	} else {
		end := m.offset + m.maxRows
		if end > len(r.Hints) {
			end = len(r.Hints)
		}
		for i := m.offset; i < end; i++ {
			cursor := "  "
			if i == m.cursor {
				cursor = styles.CursorStyle.Render("> ")
			}
			b.WriteString(fmt.Sprintf("%s%s\n", cursor, truncate(r.Hints[i], 100)))
		}
		if len(r.Hints) > m.maxRows {
			b.WriteString(fmt.Sprintf("\n  Showing %d-%d of %d hints\n", m.offset+1, end, len(r.Hints)))
		}
	}

	if m.exported != "" {
		b.WriteString("\n")
		b.WriteString(styles.SelectedStyle.Render("Report exported to " + m.exported))
	}
	if m.exportErr != "" {
		b.WriteString("\n")
		b.WriteString(styles.ErrorStyle.Render(m.exportErr))
	}

	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("↑/↓ scroll • e export JSON • esc new scan • q quit"))

	return b.String()
}

func (m *ResultsModel) exportJSON() {
	path := filepath.Join(m.exportDir, ExportFile)

	f, err := os.Create(path)
	if err != nil {
		m.exportErr = fmt.Sprintf("export failed: %v", err)
		return
	}
	defer f.Close()

	if err := (&output.JSONFormatter{}).Format(f, m.result); err != nil {
		m.exportErr = fmt.Sprintf("export failed: %v", err)
		return
	}

	m.exported = path
	m.exportErr = ""
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
