// Package scanner orchestrates a single reconnaissance scan: resolve the
// target, run the HTTP, port and robots probes concurrently under one
// deadline, then score what came back.
package scanner

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/buemura/recon/internal/logging"
	"github.com/buemura/recon/internal/scanner/headers"
	"github.com/buemura/recon/internal/scanner/httpprobe"
	"github.com/buemura/recon/internal/scanner/port"
	"github.com/buemura/recon/internal/scanner/resolve"
	"github.com/buemura/recon/internal/scanner/risk"
	"github.com/buemura/recon/internal/scanner/robots"
	"github.com/buemura/recon/pkg/types"
	"go.uber.org/zap"
)

// Phase is a step of the scan lifecycle.
type Phase string

const (
	PhaseResolving Phase = "resolving"
	PhaseProbing   Phase = "probing"
	PhaseScoring   Phase = "scoring"
	PhaseDone      Phase = "done"
	PhaseError     Phase = "error"
)

// Engine runs scans. It is safe for concurrent use; scans share nothing but
// read-only catalogs and configuration.
type Engine struct {
	opts     Options
	logger   *zap.Logger
	resolver *resolve.Resolver
	prober   *httpprobe.Prober
	ports    *port.Scanner
	robots   *robots.Analyzer
	scorer   *risk.Scorer
	now      func() time.Time
}

// New builds an Engine from validated options.
func New(opts Options, logger *zap.Logger) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	logger = logging.OrNop(logger)

	return &Engine{
		opts:     opts,
		logger:   logging.Component(logger, "engine"),
		resolver: resolve.New(opts.Lookup, opts.DNSTimeout, logger),
		prober: httpprobe.New(httpprobe.Options{
			Timeout:      opts.HTTPTimeout,
			MaxRedirects: opts.MaxRedirects,
			UserAgent:    opts.UserAgent,
		}, logger),
		ports: port.New(port.Options{
			Ports:       opts.Ports,
			Timeout:     opts.PortTimeout,
			Concurrency: opts.PortConcurrency,
			Rate:        opts.PortRate,
		}, logger),
		robots: robots.New(robots.Options{
			Timeout:      opts.RobotsTimeout,
			PreviewLines: opts.RobotsPreviewLines,
			LineLength:   opts.RobotsLineLength,
			UserAgent:    opts.UserAgent,
		}, logger),
		scorer: risk.New(opts.Policy),
		now:    time.Now,
	}, nil
}

// probeResults collects what the probes produced. Fields are written under mu.
type probeResults struct {
	mu       sync.Mutex
	http     *types.HTTPFingerprint
	analysis headers.Analysis
	ports    map[int]types.PortStatus
	robots   *types.RobotsInfo
}

func (r *probeResults) snapshot() (*types.HTTPFingerprint, headers.Analysis, map[int]types.PortStatus, *types.RobotsInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.http, r.analysis, r.ports, r.robots
}

// Scan runs one scan. The only errors are an invalid target and a DNS
// failure; every later problem is folded into the returned result.
func (e *Engine) Scan(ctx context.Context, raw string) (*types.ScanResult, error) {
	start := time.Now()
	log := e.logger.With(zap.String("target", raw))
	log.Debug("scan phase", zap.String("phase", string(PhaseResolving)))

	target, err := types.ParseTarget(raw)
	if err != nil {
		log.Info("scan phase", zap.String("phase", string(PhaseError)), zap.Error(err))
		return nil, err
	}

	resolved, err := e.resolver.Resolve(ctx, target)
	if err != nil {
		log.Info("scan phase", zap.String("phase", string(PhaseError)), zap.Error(err))
		return nil, err
	}
	log = log.With(zap.String("ip", resolved.IP))

	log.Debug("scan phase", zap.String("phase", string(PhaseProbing)))
	results := e.probe(ctx, resolved, log)

	log.Debug("scan phase", zap.String("phase", string(PhaseScoring)))
	fp, analysis, ports, robotsInfo := results.snapshot()
	if ports == nil {
		ports = e.ports.AllClosed()
	}

	assessment := e.scorer.Score(risk.Signals{
		HTTP:    fp,
		Headers: analysis,
		Ports:   ports,
		Robots:  robotsInfo,
	})

	result := &types.ScanResult{
		Target:          raw,
		Host:            resolved.Host,
		IP:              resolved.IP,
		ReverseDNS:      resolved.ReverseDNS,
		Scheme:          resolved.Scheme,
		HTTPFingerprint: fp,
		Ports:           ports,
		Robots:          robotsInfo,
		Hints:           assessment.Hints,
		Risk:            assessment.Risk,
		Timestamp:       e.now().UTC(),
	}

	log.Info("scan phase",
		zap.String("phase", string(PhaseDone)),
		zap.String("risk", string(result.Risk)),
		zap.Int("hints", len(result.Hints)),
		zap.Duration("elapsed", time.Since(start)))
	return result, nil
}

// probe runs the three probes concurrently under the scan deadline and
// returns whatever finished in time.
func (e *Engine) probe(ctx context.Context, target types.ResolvedTarget, log *zap.Logger) *probeResults {
	scanCtx, cancel := context.WithTimeout(ctx, e.opts.ScanTimeout)
	defer cancel()

	results := &probeResults{}

	probes := []probe{
		{name: "http", run: func(ctx context.Context) {
			fp, err := e.prober.Probe(ctx, target)
			if err != nil {
				log.Info("http probe failed", zap.Error(err))
				return
			}
			analysis := headers.Analyze(fp.Headers, strings.HasPrefix(fp.FinalURL, "https://"))
			fp.InterestingHeaders = analysis.Interesting

			results.mu.Lock()
			results.http = fp
			results.analysis = analysis
			results.mu.Unlock()
		}},
		{name: "ports", run: func(ctx context.Context) {
			ports := e.ports.Scan(ctx, target.IP)

			results.mu.Lock()
			results.ports = ports
			results.mu.Unlock()
		}},
		{name: "robots", run: func(ctx context.Context) {
			info := e.robots.Analyze(ctx, target.Target)

			results.mu.Lock()
			results.robots = info
			results.mu.Unlock()
		}},
	}

	if unfinished := runProbes(scanCtx, probes); len(unfinished) > 0 {
		log.Warn("scoring partial results",
			zap.Error(types.ErrScanDeadlineExceeded),
			zap.Strings("unfinished", unfinished),
			zap.Duration("deadline", e.opts.ScanTimeout))
	}
	return results
}
