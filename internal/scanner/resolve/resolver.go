// Package resolve turns a normalized target into an address.
package resolve

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/buemura/recon/internal/logging"
	"github.com/buemura/recon/pkg/types"
	"go.uber.org/zap"
)

// Lookuper is the subset of *net.Resolver the resolver needs.
type Lookuper interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
	LookupAddr(ctx context.Context, addr string) ([]string, error)
}

// Resolver performs forward and best-effort reverse DNS lookups.
type Resolver struct {
	lookup  Lookuper
	timeout time.Duration
	logger  *zap.Logger
}

// New creates a Resolver. A nil lookup uses the pure-Go system resolver.
func New(lookup Lookuper, timeout time.Duration, logger *zap.Logger) *Resolver {
	if lookup == nil {
		lookup = &net.Resolver{PreferGo: true}
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Resolver{
		lookup:  lookup,
		timeout: timeout,
		logger:  logging.Component(logger, "resolve"),
	}
}

// Resolve looks up the target's address. Failure to find any address is a
// *types.DNSResolutionError; a failed reverse lookup leaves ReverseDNS empty.
func (r *Resolver) Resolve(ctx context.Context, target types.Target) (types.ResolvedTarget, error) {
	resolved := types.ResolvedTarget{Target: target}

	if ip := net.ParseIP(target.Host); ip != nil {
		resolved.IP = ip.String()
	} else {
		ip, err := r.forward(ctx, target.Host)
		if err != nil {
			return types.ResolvedTarget{}, err
		}
		resolved.IP = ip
	}

	resolved.ReverseDNS = r.reverse(ctx, resolved.IP)
	return resolved, nil
}

func (r *Resolver) forward(ctx context.Context, host string) (string, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	addrs, err := r.lookup.LookupIPAddr(lookupCtx, host)
	if err != nil {
		return "", &types.DNSResolutionError{Host: host, Err: err}
	}
	if len(addrs) == 0 {
		return "", &types.DNSResolutionError{Host: host}
	}

	for _, a := range addrs {
		if a.IP.To4() != nil {
			return a.IP.String(), nil
		}
	}
	return addrs[0].IP.String(), nil
}

func (r *Resolver) reverse(ctx context.Context, ip string) string {
	lookupCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	names, err := r.lookup.LookupAddr(lookupCtx, ip)
	if err != nil || len(names) == 0 {
		r.logger.Debug("reverse lookup yielded nothing", zap.String("ip", ip), zap.Error(err))
		return ""
	}
	return strings.TrimSuffix(names[0], ".")
}
