// Package httpprobe fingerprints a target with a single HTTP GET.
package httpprobe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/buemura/recon/internal/logging"
	"github.com/buemura/recon/pkg/types"
	"go.uber.org/zap"
)

const probeName = "http"

// MaxBodyBytes caps how much of the response body is read.
const MaxBodyBytes = 2 << 20

// Options configures a Prober.
type Options struct {
	Timeout      time.Duration
	MaxRedirects int
	UserAgent    string
}

// Prober issues the fingerprinting request.
type Prober struct {
	opts   Options
	logger *zap.Logger
}

// New creates a Prober, filling zero options with defaults.
func New(opts Options, logger *zap.Logger) *Prober {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.MaxRedirects < 0 {
		opts.MaxRedirects = 0
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "recon"
	}
	return &Prober{opts: opts, logger: logging.Component(logger, "httpprobe")}
}

// Probe fetches target.URL, dialing the target host at the resolved IP.
// Failures are returned as *types.ProbeTimeoutError or *types.ProbeConnectionError.
func (p *Prober) Probe(ctx context.Context, target types.ResolvedTarget) (*types.HTTPFingerprint, error) {
	client := p.client(target)
	defer client.CloseIdleConnections()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.URL, nil)
	if err != nil {
		return nil, types.ClassifyProbeError(probeName, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("User-Agent", p.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,*/*;q=0.8")

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		p.logger.Debug("request failed", zap.String("url", target.URL), zap.Error(err))
		return nil, types.ClassifyProbeError(probeName, fmt.Errorf("GET %s: %w", target.URL, err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))
	if err != nil {
		p.logger.Debug("reading body failed", zap.String("url", target.URL), zap.Error(err))
		return nil, types.ClassifyProbeError(probeName, fmt.Errorf("reading body: %w", err))
	}
	elapsed := time.Since(start)

	fp := &types.HTTPFingerprint{
		FinalURL:       resp.Request.URL.String(),
		StatusCode:     resp.StatusCode,
		StatusFamily:   types.StatusFamily(resp.StatusCode),
		ResponseTimeMS: elapsed.Milliseconds(),
		ContentLength:  int64(len(body)),
		Headers:        resp.Header.Clone(),
	}
	if isHTML(resp.Header.Get("Content-Type"), body) {
		fp.Title = ExtractTitle(body)
	}

	p.logger.Debug("probe complete",
		zap.String("url", target.URL),
		zap.String("final_url", fp.FinalURL),
		zap.Int("status", fp.StatusCode),
		zap.Duration("elapsed", elapsed))

	return fp, nil
}

// client builds a per-probe client whose dialer pins the target host to the
// resolved IP. Other hosts reached through redirects resolve normally.
func (p *Prober) client(target types.ResolvedTarget) *http.Client {
	dialer := &net.Dialer{Timeout: p.opts.Timeout}
	pinned := pinnedAddrs(target)

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		if ipAddr, ok := pinned[addr]; ok {
			addr = ipAddr
		}
		return dialer.DialContext(ctx, network, addr)
	}
	transport.ResponseHeaderTimeout = p.opts.Timeout

	maxRedirects := p.opts.MaxRedirects
	return &http.Client{
		Timeout:   p.opts.Timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
}

func pinnedAddrs(target types.ResolvedTarget) map[string]string {
	if target.IP == "" {
		return nil
	}
	ports := []int{80, 443}
	if target.Port != 0 {
		ports = append(ports, target.Port)
	}
	m := make(map[string]string, len(ports))
	for _, port := range ports {
		ps := strconv.Itoa(port)
		m[net.JoinHostPort(target.Host, ps)] = net.JoinHostPort(target.IP, ps)
	}
	return m
}

func isHTML(contentType string, body []byte) bool {
	if contentType == "" {
		contentType = http.DetectContentType(body)
	}
	return strings.Contains(strings.ToLower(contentType), "html")
}

// ExtractTitle returns the whitespace-collapsed text of the first <title>
// element, or "" when there is none.
func ExtractTitle(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	title := doc.Find("title").First().Text()
	return strings.Join(strings.Fields(title), " ")
}
