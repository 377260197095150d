package resolve

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/buemura/recon/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeLookup struct {
	addrs      []net.IPAddr
	forwardErr error
	names      []string
	reverseErr error
	forwardHit int
}

func (f *fakeLookup) LookupIPAddr(_ context.Context, _ string) ([]net.IPAddr, error) {
	f.forwardHit++
	return f.addrs, f.forwardErr
}

func (f *fakeLookup) LookupAddr(_ context.Context, _ string) ([]string, error) {
	return f.names, f.reverseErr
}

func ipAddrs(ips ...string) []net.IPAddr {
	out := make([]net.IPAddr, len(ips))
	for i, ip := range ips {
		out[i] = net.IPAddr{IP: net.ParseIP(ip)}
	}
	return out
}

func TestResolve_PrefersIPv4(t *testing.T) {
	lookup := &fakeLookup{
		addrs: ipAddrs("2606:2800:220:1::1", "93.184.216.34"),
		names: []string{"edge.example.net."},
	}
	r := New(lookup, time.Second, zaptest.NewLogger(t))

	got, err := r.Resolve(context.Background(), types.Target{Host: "example.com", Scheme: "https"})
	require.NoError(t, err)
	assert.Equal(t, "93.184.216.34", got.IP)
	assert.Equal(t, "edge.example.net", got.ReverseDNS)
	assert.Equal(t, "example.com", got.Host)
}

func TestResolve_IPv6Only(t *testing.T) {
	lookup := &fakeLookup{addrs: ipAddrs("2606:2800:220:1::1")}
	r := New(lookup, time.Second, nil)

	got, err := r.Resolve(context.Background(), types.Target{Host: "v6.example.com"})
	require.NoError(t, err)
	assert.Equal(t, "2606:2800:220:1::1", got.IP)
}

func TestResolve_IPLiteralSkipsForwardLookup(t *testing.T) {
	lookup := &fakeLookup{names: []string{"localhost."}}
	r := New(lookup, time.Second, nil)

	got, err := r.Resolve(context.Background(), types.Target{Host: "127.0.0.1"})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", got.IP)
	assert.Equal(t, "localhost", got.ReverseDNS)
	assert.Zero(t, lookup.forwardHit)
}

func TestResolve_NoAddresses(t *testing.T) {
	r := New(&fakeLookup{}, time.Second, nil)

	_, err := r.Resolve(context.Background(), types.Target{Host: "empty.example.com"})
	require.Error(t, err)

	var dnsErr *types.DNSResolutionError
	require.True(t, errors.As(err, &dnsErr))
	assert.Equal(t, "empty.example.com", dnsErr.Host)
}

func TestResolve_LookupError(t *testing.T) {
	inner := &net.DNSError{Err: "no such host", Name: "nope.invalid", IsNotFound: true}
	r := New(&fakeLookup{forwardErr: inner}, time.Second, nil)

	_, err := r.Resolve(context.Background(), types.Target{Host: "nope.invalid"})
	var dnsErr *types.DNSResolutionError
	require.True(t, errors.As(err, &dnsErr))
	assert.ErrorIs(t, err, inner)
}

func TestResolve_ReverseFailureIsAbsence(t *testing.T) {
	lookup := &fakeLookup{
		addrs:      ipAddrs("10.0.0.5"),
		reverseErr: errors.New("nxdomain"),
	}
	r := New(lookup, time.Second, zaptest.NewLogger(t))

	got, err := r.Resolve(context.Background(), types.Target{Host: "internal.example.com"})
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5", got.IP)
	assert.Empty(t, got.ReverseDNS)
}
