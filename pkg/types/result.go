package types

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"
)

// Risk is the overall verdict of a scan.
type Risk string

const (
	RiskLow    Risk = "low"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)

// RiskRank returns a numeric rank for ordering (higher = riskier).
// Unknown values rank below RiskLow.
func RiskRank(r Risk) int {
	switch r {
	case RiskLow:
		return 1
	case RiskMedium:
		return 2
	case RiskHigh:
		return 3
	default:
		return 0
	}
}

// MaxRisk returns the riskier of a and b.
func MaxRisk(a, b Risk) Risk {
	if RiskRank(b) > RiskRank(a) {
		return b
	}
	return a
}

// RiskFromRank maps a rank back to a tier, clamped to [low, high].
func RiskFromRank(rank int) Risk {
	switch {
	case rank <= 1:
		return RiskLow
	case rank == 2:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// ParseRisk parses a tier name case-insensitively.
func ParseRisk(s string) (Risk, error) {
	r := Risk(strings.ToLower(strings.TrimSpace(s)))
	if RiskRank(r) == 0 {
		return "", fmt.Errorf("unknown risk tier %q (supported: low, medium, high)", s)
	}
	return r, nil
}

// PortStatus is the public classification of a port probe.
type PortStatus string

const (
	PortOpen   PortStatus = "open"
	PortClosed PortStatus = "closed"
)

// HTTPFingerprint is the outcome of a successful HTTP probe.
type HTTPFingerprint struct {
	FinalURL           string            `json:"final_url"`
	StatusCode         int               `json:"status_code"`
	StatusFamily       string            `json:"status_family"`
	ResponseTimeMS     int64             `json:"response_time_ms"`
	Title              string            `json:"title,omitempty"`
	ContentLength      int64             `json:"content_length"`
	InterestingHeaders map[string]string `json:"interesting_headers"`
	Headers            http.Header       `json:"-"`
}

// StatusFamily buckets a status code into "1xx".."5xx".
func StatusFamily(code int) string {
	if code < 100 || code > 599 {
		return "unknown"
	}
	return fmt.Sprintf("%dxx", code/100)
}

// RobotsInfo is the outcome of the robots.txt fetch.
type RobotsInfo struct {
	URL        string   `json:"url"`
	Found      bool     `json:"found"`
	StatusCode *int     `json:"status_code,omitempty"`
	Preview    []string `json:"preview,omitempty"`
	Disallowed []string `json:"-"`
}

// ScanResult is the report returned for one target. Fingerprint fields are
// promoted from the embedded pointer and disappear together when it is nil.
type ScanResult struct {
	Target     string `json:"target"`
	Host       string `json:"host"`
	IP         string `json:"ip"`
	ReverseDNS string `json:"reverse_dns,omitempty"`
	Scheme     string `json:"scheme"`

	*HTTPFingerprint

	Ports     map[int]PortStatus `json:"ports"`
	Robots    *RobotsInfo        `json:"robots,omitempty"`
	Hints     []string           `json:"hints"`
	Risk      Risk               `json:"risk"`
	Timestamp time.Time          `json:"timestamp"`
}

// OpenPorts returns the open ports in ascending order.
func (r *ScanResult) OpenPorts() []int {
	var open []int
	for p, s := range r.Ports {
		if s == PortOpen {
			open = append(open, p)
		}
	}
	sort.Ints(open)
	return open
}

// SortedPorts returns every scanned port in ascending order.
func (r *ScanResult) SortedPorts() []int {
	ports := make([]int, 0, len(r.Ports))
	for p := range r.Ports {
		ports = append(ports, p)
	}
	sort.Ints(ports)
	return ports
}
