// Package port performs TCP connect probes against the fixed port catalog.
package port

import (
	"context"
	"errors"
	"net"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/buemura/recon/internal/logging"
	"github.com/buemura/recon/pkg/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Options configures a Scanner.
type Options struct {
	// Ports overrides Catalog. Production callers leave it nil.
	Ports       []int
	Timeout     time.Duration
	Concurrency int
	// Rate limits connection attempts per second; zero means unlimited.
	Rate float64
}

// Scanner performs TCP connect scans.
type Scanner struct {
	ports       []int
	timeout     time.Duration
	concurrency int
	rate        float64
	logger      *zap.Logger
	dial        func(ctx context.Context, network, addr string) (net.Conn, error)
}

// New creates a scanner, filling zero options with defaults.
func New(opts Options, logger *zap.Logger) *Scanner {
	ports := opts.Ports
	if len(ports) == 0 {
		ports = Catalog
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 1500 * time.Millisecond
	}
	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = len(ports)
	}

	s := &Scanner{
		ports:       append([]int(nil), ports...),
		timeout:     timeout,
		concurrency: concurrency,
		rate:        opts.Rate,
		logger:      logging.Component(logger, "port"),
	}
	dialer := &net.Dialer{Timeout: timeout}
	s.dial = dialer.DialContext
	return s
}

// Ports returns the ports this scanner probes.
func (s *Scanner) Ports() []int {
	return append([]int(nil), s.ports...)
}

// AllClosed returns a complete result with every port closed.
func (s *Scanner) AllClosed() map[int]types.PortStatus {
	out := make(map[int]types.PortStatus, len(s.ports))
	for _, p := range s.ports {
		out[p] = types.PortClosed
	}
	return out
}

// Scan probes every port on ip and always returns an entry for each one.
// Probes that cannot complete, including those cut short by ctx, are closed.
func (s *Scanner) Scan(ctx context.Context, ip string) map[int]types.PortStatus {
	result := s.AllClosed()

	limit := rate.Inf
	if s.rate > 0 {
		limit = rate.Limit(s.rate)
	}
	limiter := rate.NewLimiter(limit, 1)

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(s.concurrency)

	for _, p := range s.ports {
		port := p
		g.Go(func() error {
			outcome, err := s.probe(ctx, limiter, ip, port)
			if outcome == OutcomeFiltered {
				s.logger.Debug("port filtered",
					zap.String("ip", ip),
					zap.Int("port", port),
					zap.Error(err))
			}
			if outcome == OutcomeOpen {
				mu.Lock()
				result[port] = types.PortOpen
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return result
}

func (s *Scanner) probe(ctx context.Context, limiter *rate.Limiter, ip string, port int) (Outcome, error) {
	if err := limiter.Wait(ctx); err != nil {
		return OutcomeFiltered, err
	}

	dialCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	conn, err := s.dial(dialCtx, "tcp", net.JoinHostPort(ip, strconv.Itoa(port)))
	if err != nil {
		return Classify(err), err
	}
	conn.Close()
	return OutcomeOpen, nil
}

// Classify maps a dial error to closed (explicit refusal) or filtered.
func Classify(err error) Outcome {
	if err == nil {
		return OutcomeOpen
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return OutcomeClosed
	}
	return OutcomeFiltered
}
