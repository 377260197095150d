// Package output renders a scan result for humans and machines.
package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/buemura/recon/internal/scanner/port"
	"github.com/buemura/recon/pkg/types"
)

// Formatter renders a scan result to a writer.
type Formatter interface {
	Format(w io.Writer, result *types.ScanResult) error
}

// Formats lists the supported format names.
var Formats = []string{"table", "json", "markdown", "html"}

// GetFormatter returns the appropriate formatter for the given format string.
func GetFormatter(format string) (Formatter, error) {
	switch strings.ToLower(format) {
	case "table":
		return &TableFormatter{}, nil
	case "json":
		return &JSONFormatter{}, nil
	case "markdown", "md":
		return &MarkdownFormatter{}, nil
	case "html":
		return &HTMLFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (supported: %s)", format, strings.Join(Formats, ", "))
	}
}

// portRow is one line of the ports table shared by every formatter.
type portRow struct {
	Port    int
	Service string
	Status  types.PortStatus
}

func portRows(r *types.ScanResult) []portRow {
	rows := make([]portRow, 0, len(r.Ports))
	for _, p := range r.SortedPorts() {
		rows = append(rows, portRow{Port: p, Service: port.IdentifyService(p), Status: r.Ports[p]})
	}
	return rows
}

// HTTPSummary returns "200 (2xx) in 42ms", or "unreachable" when the HTTP
// probe produced nothing.
func HTTPSummary(r *types.ScanResult) string {
	if r.HTTPFingerprint == nil {
		return "unreachable"
	}
	return fmt.Sprintf("%d (%s) in %dms", r.StatusCode, r.StatusFamily, r.ResponseTimeMS)
}

// RobotsSummary describes the robots.txt outcome in one line.
func RobotsSummary(r *types.ScanResult) string {
	switch {
	case r.Robots == nil:
		return "not checked"
	case r.Robots.Found:
		return fmt.Sprintf("found (%d preview lines)", len(r.Robots.Preview))
	case r.Robots.StatusCode != nil:
		return "not found (HTTP " + strconv.Itoa(*r.Robots.StatusCode) + ")"
	default:
		return "not found (no response)"
	}
}
