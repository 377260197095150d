package risk

import (
	"fmt"

	"github.com/buemura/recon/pkg/types"
)

// Policy is the tunable rule table used by the Scorer.
type Policy struct {
	// CategoriesPerTier is how many missing protective categories raise the
	// verdict by one tier.
	CategoriesPerTier int
	DisclosureTier    types.Risk
	// ExpectedPorts may be open without raising the verdict.
	ExpectedPorts      []int
	UnexpectedPortTier types.Risk
	HighRiskPorts      []int
	HighRiskPortTier   types.Risk
	// SensitiveKeywords are matched case-insensitively against robots.txt
	// Disallow paths.
	SensitiveKeywords   []string
	SensitiveRobotsTier types.Risk
}

// DefaultPolicy returns the built-in rule table.
func DefaultPolicy() Policy {
	return Policy{
		CategoriesPerTier:   2,
		DisclosureTier:      types.RiskMedium,
		ExpectedPorts:       []int{80, 443},
		UnexpectedPortTier:  types.RiskMedium,
		HighRiskPorts:       []int{21, 3306},
		HighRiskPortTier:    types.RiskHigh,
		SensitiveKeywords:   []string{"admin", "backup", ".git", ".env", "config", "private", "internal", "secret", "db", "sql"},
		SensitiveRobotsTier: types.RiskMedium,
	}
}

// Validate reports the first malformed field.
func (p Policy) Validate() error {
	if p.CategoriesPerTier < 1 {
		return fmt.Errorf("categories_per_tier must be at least 1, got %d", p.CategoriesPerTier)
	}
	tiers := map[string]types.Risk{
		"disclosure_tier":       p.DisclosureTier,
		"unexpected_port_tier":  p.UnexpectedPortTier,
		"high_risk_port_tier":   p.HighRiskPortTier,
		"sensitive_robots_tier": p.SensitiveRobotsTier,
	}
	for _, name := range []string{"disclosure_tier", "unexpected_port_tier", "high_risk_port_tier", "sensitive_robots_tier"} {
		if types.RiskRank(tiers[name]) == 0 {
			return fmt.Errorf("%s: unknown risk tier %q", name, tiers[name])
		}
	}
	for _, list := range [][]int{p.ExpectedPorts, p.HighRiskPorts} {
		for _, port := range list {
			if port < 1 || port > 65535 {
				return fmt.Errorf("port %d out of range (1-65535)", port)
			}
		}
	}
	return nil
}
