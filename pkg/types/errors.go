package types

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrScanDeadlineExceeded marks a scan whose overall budget elapsed with
// probes still in flight. It is logged, never returned to callers.
var ErrScanDeadlineExceeded = errors.New("scan deadline exceeded")

// InvalidTargetError reports a target that cannot be normalized into a host.
type InvalidTargetError struct {
	Raw    string
	Reason string
}

func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("invalid target %q: %s", e.Raw, e.Reason)
}

// DNSResolutionError reports a host that resolved to no usable address.
type DNSResolutionError struct {
	Host string
	Err  error
}

func (e *DNSResolutionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("resolving %s: no addresses found", e.Host)
	}
	return fmt.Sprintf("resolving %s: %v", e.Host, e.Err)
}

func (e *DNSResolutionError) Unwrap() error { return e.Err }

// ProbeTimeoutError is a probe that ran out of time.
type ProbeTimeoutError struct {
	Probe string
	Err   error
}

func (e *ProbeTimeoutError) Error() string {
	return fmt.Sprintf("%s probe timed out: %v", e.Probe, e.Err)
}

func (e *ProbeTimeoutError) Unwrap() error { return e.Err }

// ProbeConnectionError is a probe that failed to connect, negotiate TLS,
// follow redirects, or read the response.
type ProbeConnectionError struct {
	Probe string
	Err   error
}

func (e *ProbeConnectionError) Error() string {
	return fmt.Sprintf("%s probe failed: %v", e.Probe, e.Err)
}

func (e *ProbeConnectionError) Unwrap() error { return e.Err }

// ClassifyProbeError wraps err as a ProbeTimeoutError or ProbeConnectionError.
func ClassifyProbeError(probe string, err error) error {
	if err == nil {
		return nil
	}
	if IsTimeout(err) {
		return &ProbeTimeoutError{Probe: probe, Err: err}
	}
	return &ProbeConnectionError{Probe: probe, Err: err}
}

// IsTimeout reports whether err is a deadline or network timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
