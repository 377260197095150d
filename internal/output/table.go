package output

import (
	"fmt"
	"io"
	"time"

	"github.com/buemura/recon/pkg/types"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// TableFormatter renders the result as colored terminal tables.
type TableFormatter struct{}

func (f *TableFormatter) Format(w io.Writer, result *types.ScanResult) error {
	fmt.Fprintf(w, "\n%s — risk %s\n\n", result.Host, colorRisk(result.Risk))

	summary := tablewriter.NewWriter(w)
	summary.SetHeader([]string{"Field", "Value"})
	summary.SetAutoWrapText(false)
	summary.SetBorder(false)
	summary.SetColumnSeparator("│")

	summary.Append([]string{"Target", result.Target})
	summary.Append([]string{"IP", result.IP})
	if result.ReverseDNS != "" {
		summary.Append([]string{"Reverse DNS", result.ReverseDNS})
	}
	summary.Append([]string{"Scheme", result.Scheme})
	summary.Append([]string{"HTTP", HTTPSummary(result)})
	if result.HTTPFingerprint != nil {
		summary.Append([]string{"Final URL", result.FinalURL})
		if result.Title != "" {
			summary.Append([]string{"Title", result.Title})
		}
		for _, name := range []string{"server", "x-powered-by"} {
			if v, ok := result.InterestingHeaders[name]; ok {
				summary.Append([]string{name, v})
			}
		}
	}
	summary.Append([]string{"robots.txt", RobotsSummary(result)})
	summary.Append([]string{"Scanned at", result.Timestamp.Format(time.RFC3339)})
	summary.Render()

	fmt.Fprintln(w)
	ports := tablewriter.NewWriter(w)
	ports.SetHeader([]string{"Port", "Service", "Status"})
	ports.SetBorder(false)
	ports.SetColumnSeparator("│")
	for _, row := range portRows(result) {
		ports.Append([]string{fmt.Sprintf("%d", row.Port), row.Service, colorPort(row.Status)})
	}
	ports.Render()

	fmt.Fprintln(w)
	if len(result.Hints) == 0 {
		fmt.Fprintln(w, "  No hints.")
		return nil
	}
	fmt.Fprintf(w, "  Hints (%d):\n", len(result.Hints))
	for _, hint := range result.Hints {
		fmt.Fprintf(w, "  • %s\n", hint)
	}
	return nil
}

func colorRisk(r types.Risk) string {
	switch r {
	case types.RiskHigh:
		return color.RedString("HIGH")
	case types.RiskMedium:
		return color.YellowString("MEDIUM")
	case types.RiskLow:
		return color.GreenString("LOW")
	default:
		return string(r)
	}
}

func colorPort(s types.PortStatus) string {
	if s == types.PortOpen {
		return color.YellowString(string(s))
	}
	return string(s)
}
