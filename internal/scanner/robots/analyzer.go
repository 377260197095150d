// Package robots fetches and previews a target's robots.txt.
package robots

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/buemura/recon/internal/logging"
	"github.com/buemura/recon/pkg/types"
	"go.uber.org/zap"
)

const (
	probeName    = "robots"
	maxBodyBytes = 512 << 10
	maxRedirects = 3
)

// Options configures an Analyzer.
type Options struct {
	Timeout      time.Duration
	PreviewLines int
	LineLength   int
	UserAgent    string
}

// Analyzer fetches /robots.txt independently of the main HTTP probe.
type Analyzer struct {
	opts   Options
	client *http.Client
	logger *zap.Logger
}

// New creates an Analyzer, filling zero options with defaults.
func New(opts Options, logger *zap.Logger) *Analyzer {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.PreviewLines <= 0 {
		opts.PreviewLines = 20
	}
	if opts.LineLength <= 0 {
		opts.LineLength = 200
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "recon"
	}

	client := &http.Client{
		Timeout: opts.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}

	return &Analyzer{opts: opts, client: client, logger: logging.Component(logger, "robots")}
}

// URL returns the robots.txt location for a target.
func URL(target types.Target) string {
	return target.Origin() + "/robots.txt"
}

// Analyze fetches robots.txt. It never fails: fetch errors and non-2xx
// responses yield Found=false.
func (a *Analyzer) Analyze(ctx context.Context, target types.Target) *types.RobotsInfo {
	info := &types.RobotsInfo{URL: URL(target)}

	body, status, err := a.fetch(ctx, info.URL)
	if status != 0 {
		code := status
		info.StatusCode = &code
	}
	if err != nil {
		a.logger.Debug("robots.txt unavailable", zap.String("url", info.URL), zap.Error(err))
		return info
	}
	if status < 200 || status > 299 {
		return info
	}

	info.Found = true
	info.Preview = Preview(body, a.opts.PreviewLines, a.opts.LineLength)
	info.Disallowed = Disallowed(body)
	return info
}

func (a *Analyzer) fetch(ctx context.Context, url string) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", 0, types.ClassifyProbeError(probeName, err)
	}
	req.Header.Set("User-Agent", a.opts.UserAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", 0, types.ClassifyProbeError(probeName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return "", resp.StatusCode, nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", resp.StatusCode, types.ClassifyProbeError(probeName, err)
	}
	return string(data), resp.StatusCode, nil
}

// Preview returns the first maxLines lines of body, each cut to maxLen runes.
func Preview(body string, maxLines, maxLen int) []string {
	body = strings.TrimSuffix(strings.ReplaceAll(body, "\r\n", "\n"), "\n")
	if body == "" {
		return nil
	}

	lines := strings.SplitN(body, "\n", maxLines+1)
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		line = strings.TrimRight(line, "\r")
		if r := []rune(line); len(r) > maxLen {
			line = string(r[:maxLen])
		}
		out[i] = line
	}
	return out
}

// Disallowed returns the non-empty Disallow paths in order of appearance.
func Disallowed(body string) []string {
	var paths []string
	for _, line := range strings.Split(body, "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "disallow") {
			continue
		}
		if value = strings.TrimSpace(value); value != "" {
			paths = append(paths, value)
		}
	}
	return paths
}
