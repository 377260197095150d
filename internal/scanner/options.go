package scanner

import (
	"context"
	"fmt"
	"time"

	"github.com/buemura/recon/internal/scanner/resolve"
	"github.com/buemura/recon/internal/scanner/risk"
	"github.com/buemura/recon/pkg/types"
)

// Scanner runs one scan for a raw target string. The web layer and the CLI
// depend on this interface rather than on *Engine.
type Scanner interface {
	Scan(ctx context.Context, target string) (*types.ScanResult, error)
}

// Options holds every engine tunable.
type Options struct {
	ScanTimeout time.Duration
	DNSTimeout  time.Duration

	HTTPTimeout  time.Duration
	MaxRedirects int
	UserAgent    string

	PortTimeout     time.Duration
	PortConcurrency int
	// PortRate limits connection attempts per second; zero means unlimited.
	PortRate float64
	// Ports overrides the built-in port catalog.
	Ports []int

	RobotsTimeout      time.Duration
	RobotsPreviewLines int
	RobotsLineLength   int

	Policy risk.Policy

	// Lookup replaces the system resolver.
	Lookup resolve.Lookuper
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		ScanTimeout:        20 * time.Second,
		DNSTimeout:         5 * time.Second,
		HTTPTimeout:        10 * time.Second,
		MaxRedirects:       5,
		UserAgent:          "recon/1.0",
		PortTimeout:        1500 * time.Millisecond,
		PortConcurrency:    8,
		RobotsTimeout:      5 * time.Second,
		RobotsPreviewLines: 20,
		RobotsLineLength:   200,
		Policy:             risk.DefaultPolicy(),
	}
}

// Validate reports the first unusable option.
func (o Options) Validate() error {
	if o.ScanTimeout <= 0 {
		return fmt.Errorf("scan timeout must be positive, got %s", o.ScanTimeout)
	}
	if o.MaxRedirects < 0 {
		return fmt.Errorf("max redirects cannot be negative, got %d", o.MaxRedirects)
	}
	if o.PortConcurrency < 0 {
		return fmt.Errorf("port concurrency cannot be negative, got %d", o.PortConcurrency)
	}
	if o.PortRate < 0 {
		return fmt.Errorf("port rate cannot be negative, got %g", o.PortRate)
	}
	for _, p := range o.Ports {
		if p < 1 || p > 65535 {
			return fmt.Errorf("port %d out of range (1-65535)", p)
		}
	}
	if err := o.Policy.Validate(); err != nil {
		return fmt.Errorf("risk policy: %w", err)
	}
	return nil
}
