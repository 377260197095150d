package types

import (
	"net"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/idna"
)

// Target is a normalized scan target.
type Target struct {
	Raw    string `json:"raw"`
	Scheme string `json:"scheme"`
	Host   string `json:"host"`
	Port   int    `json:"port,omitempty"`
	URL    string `json:"url"`
}

// Origin returns scheme://host[:port] without any path.
func (t Target) Origin() string {
	host := t.Host
	if t.Port != 0 {
		host = net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
	} else if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	return t.Scheme + "://" + host
}

// ResolvedTarget is a Target with its forward and reverse DNS answers.
type ResolvedTarget struct {
	Target
	IP         string `json:"ip"`
	ReverseDNS string `json:"reverse_dns,omitempty"`
}

// ParseTarget accepts a hostname, host:port, or http(s) URL and normalizes it.
// Inputs without a scheme default to https.
func ParseTarget(raw string) (Target, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Target{}, &InvalidTargetError{Raw: raw, Reason: "target cannot be empty"}
	}

	withScheme := raw
	if !strings.Contains(raw, "://") {
		withScheme = "https://" + raw
	}

	u, err := url.Parse(withScheme)
	if err != nil {
		return Target{}, &InvalidTargetError{Raw: raw, Reason: "unparseable URL: " + err.Error()}
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return Target{}, &InvalidTargetError{Raw: raw, Reason: "unsupported scheme " + strconv.Quote(u.Scheme)}
	}

	host, err := normalizeHost(u.Hostname())
	if err != nil {
		return Target{}, &InvalidTargetError{Raw: raw, Reason: err.Error()}
	}

	t := Target{
		Raw:    raw,
		Scheme: scheme,
		Host:   host,
	}

	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return Target{}, &InvalidTargetError{Raw: raw, Reason: "invalid port " + strconv.Quote(p)}
		}
		if port < 1 || port > 65535 {
			return Target{}, &InvalidTargetError{Raw: raw, Reason: "port " + p + " out of range (1-65535)"}
		}
		t.Port = port
	}

	u.Scheme = scheme
	u.User = nil
	u.Fragment = ""
	u.RawFragment = ""
	u.Host = strings.TrimPrefix(t.Origin(), scheme+"://")
	if u.Path == "" {
		u.Path = "/"
	}
	t.URL = u.String()

	return t, nil
}

type hostError string

func (e hostError) Error() string { return string(e) }

// normalizeHost lower-cases the host, converts IDNs to punycode and checks
// that the result is an IP literal or a well-formed DNS name.
func normalizeHost(host string) (string, error) {
	if host == "" {
		return "", hostError("no hostname")
	}
	if ip := net.ParseIP(host); ip != nil {
		return ip.String(), nil
	}

	host = strings.TrimSuffix(strings.ToLower(host), ".")
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return "", hostError("invalid hostname " + strconv.Quote(host))
	}

	if len(ascii) == 0 || len(ascii) > 253 {
		return "", hostError("invalid hostname length")
	}
	for _, label := range strings.Split(ascii, ".") {
		if !validLabel(label) {
			return "", hostError("invalid hostname " + strconv.Quote(host))
		}
	}
	return ascii, nil
}

func validLabel(label string) bool {
	if len(label) == 0 || len(label) > 63 {
		return false
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return false
	}
	for i := 0; i < len(label); i++ {
		c := label[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '-':
		default:
			return false
		}
	}
	return true
}
