// Package risk folds the signals of a scan into a risk tier and an ordered
// list of hints.
package risk

import (
	"fmt"
	"sort"
	"strings"

	"github.com/buemura/recon/internal/scanner/headers"
	"github.com/buemura/recon/internal/scanner/port"
	"github.com/buemura/recon/pkg/types"
)

// Rule names, in evaluation order.
const (
	RuleHTTPUnreachable     = "http-unreachable"
	RuleMissingProtection   = "missing-protection"
	RuleHeaderDisclosure    = "header-disclosure"
	RuleUnexpectedOpenPort  = "unexpected-open-port"
	RuleRobotsSensitivePath = "robots-sensitive-path"
)

// Signals is everything the scorer looks at.
type Signals struct {
	// HTTP is nil when the HTTP probe failed or did not finish.
	HTTP    *types.HTTPFingerprint
	Headers headers.Analysis
	Ports   map[int]types.PortStatus
	Robots  *types.RobotsInfo
}

// Hit is one triggered rule.
type Hit struct {
	Rule string
	Tier types.Risk
}

// Assessment is the scorer's verdict.
type Assessment struct {
	Risk  types.Risk
	Hints []string
	Hits  []Hit
}

// Scorer evaluates Signals against a Policy. It holds no mutable state.
type Scorer struct {
	policy     Policy
	expected   map[int]bool
	highRisk   map[int]bool
	categories int
}

// New creates a Scorer. Callers validate the policy beforehand.
func New(p Policy) *Scorer {
	s := &Scorer{
		policy:     p,
		expected:   make(map[int]bool),
		highRisk:   make(map[int]bool),
		categories: p.CategoriesPerTier,
	}
	if s.categories < 1 {
		s.categories = 1
	}
	for _, port := range p.ExpectedPorts {
		s.expected[port] = true
	}
	for _, port := range p.HighRiskPorts {
		s.highRisk[port] = true
	}
	return s
}

// Score evaluates the rule table. The verdict is the highest tier any rule
// triggered; hints are grouped headers, then ports, then robots.
func (s *Scorer) Score(sig Signals) Assessment {
	a := Assessment{Risk: types.RiskLow, Hints: []string{}}

	hit := func(rule string, tier types.Risk) {
		a.Hits = append(a.Hits, Hit{Rule: rule, Tier: tier})
		a.Risk = types.MaxRisk(a.Risk, tier)
	}

	// Headers group.
	if sig.HTTP == nil {
		hit(RuleHTTPUnreachable, types.RiskLow)
		a.Hints = append(a.Hints, "HTTP probe failed: the host did not return an HTTP response")
	} else {
		if n := len(sig.Headers.MissingCategories); n > 0 {
			steps := (n + s.categories - 1) / s.categories
			hit(RuleMissingProtection, types.RiskFromRank(types.RiskRank(types.RiskLow)+steps))
		}
		if len(sig.Headers.Disclosed) > 0 {
			hit(RuleHeaderDisclosure, s.policy.DisclosureTier)
		}
		a.Hints = append(a.Hints, sig.Headers.Hints...)
	}

	// Ports group.
	open := make([]int, 0, len(sig.Ports))
	for p, status := range sig.Ports {
		if status == types.PortOpen && !s.expected[p] {
			open = append(open, p)
		}
	}
	sort.Ints(open)
	for _, p := range open {
		tier := s.policy.UnexpectedPortTier
		if s.highRisk[p] {
			tier = s.policy.HighRiskPortTier
		}
		hit(RuleUnexpectedOpenPort, tier)
		a.Hints = append(a.Hints, fmt.Sprintf("Port %d (%s) is open to the network", p, port.IdentifyService(p)))
	}

	// Robots group.
	if sig.Robots != nil && sig.Robots.Found {
		for _, path := range sig.Robots.Disallowed {
			if s.sensitive(path) {
				hit(RuleRobotsSensitivePath, s.policy.SensitiveRobotsTier)
				a.Hints = append(a.Hints, fmt.Sprintf("robots.txt disallows %s, which may reveal a sensitive area", path))
			}
		}
	}

	return a
}

// sensitive reports whether any path segment starts with a sensitive keyword
// or ends with one after a '-' or '_' separator (e.g. "wp-admin").
func (s *Scorer) sensitive(path string) bool {
	for _, seg := range strings.Split(strings.ToLower(path), "/") {
		seg = strings.Trim(seg, "*$")
		if seg == "" {
			continue
		}
		for _, kw := range s.policy.SensitiveKeywords {
			kw = strings.ToLower(kw)
			if kw == "" {
				continue
			}
			if strings.HasPrefix(seg, kw) || strings.HasSuffix(seg, "-"+kw) || strings.HasSuffix(seg, "_"+kw) {
				return true
			}
		}
	}
	return false
}
