package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/buemura/recon/pkg/types"
)

// MarkdownFormatter renders the result as Markdown suitable for pasting
// into docs, issues, or pull-request descriptions.
type MarkdownFormatter struct{}

func (f *MarkdownFormatter) Format(w io.Writer, result *types.ScanResult) error {
	fmt.Fprintf(w, "## %s — risk %s\n\n", escapeMarkdown(result.Host), riskBadge(result.Risk))

	fmt.Fprintln(w, "| Field | Value |")
	fmt.Fprintln(w, "|-------|-------|")
	row := func(k, v string) { fmt.Fprintf(w, "| %s | %s |\n", k, escapeMarkdown(v)) }
	row("Target", result.Target)
	row("IP", result.IP)
	if result.ReverseDNS != "" {
		row("Reverse DNS", result.ReverseDNS)
	}
	row("Scheme", result.Scheme)
	row("HTTP", HTTPSummary(result))
	if result.HTTPFingerprint != nil {
		row("Final URL", result.FinalURL)
		if result.Title != "" {
			row("Title", result.Title)
		}
	}
	row("robots.txt", RobotsSummary(result))
	row("Scanned at", result.Timestamp.Format(time.RFC3339))

	fmt.Fprint(w, "\n### Ports\n\n")
	fmt.Fprintln(w, "| Port | Service | Status |")
	fmt.Fprintln(w, "|------|---------|--------|")
	for _, p := range portRows(result) {
		fmt.Fprintf(w, "| %d | %s | %s |\n", p.Port, p.Service, p.Status)
	}

	fmt.Fprint(w, "\n### Hints\n\n")
	if len(result.Hints) == 0 {
		fmt.Fprintln(w, "_No hints._")
		return nil
	}
	for _, hint := range result.Hints {
		fmt.Fprintf(w, "- %s\n", hint)
	}
	return nil
}

// riskBadge returns a bold, uppercased risk label for Markdown.
func riskBadge(r types.Risk) string {
	return fmt.Sprintf("**%s**", strings.ToUpper(string(r)))
}

// escapeMarkdown escapes pipe characters that would break Markdown tables.
func escapeMarkdown(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
