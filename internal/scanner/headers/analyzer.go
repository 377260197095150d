// Package headers inspects HTTP response headers against a catalog of
// security-relevant names.
package headers

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Analysis is the outcome of inspecting one set of response headers.
type Analysis struct {
	// Interesting holds catalog headers present in the response, keyed by
	// lower-cased name.
	Interesting       map[string]string
	Hints             []string
	MissingProtective []string
	MissingCategories []string
	Disclosed         []string
}

// Analyze checks h against the catalog. HTTPS-only rules are skipped when
// https is false.
func Analyze(h http.Header, https bool) Analysis {
	a := Analysis{Interesting: make(map[string]string)}

	missingCats := map[string]struct{}{}
	var disclosureHints []string

	for _, rule := range catalog {
		values := h.Values(rule.Name)
		value := strings.Join(values, ", ")
		if len(values) > 0 {
			a.Interesting[strings.ToLower(rule.Name)] = value
		}

		switch rule.Class {
		case Protective:
			if rule.HTTPSOnly && !https {
				continue
			}
			if strings.TrimSpace(value) == "" {
				a.MissingProtective = append(a.MissingProtective, rule.Name)
				missingCats[rule.Category] = struct{}{}
				a.Hints = append(a.Hints, fmt.Sprintf("Missing %s header: %s", rule.Name, rule.Consequence))
			}
		case Disclosure:
			if strings.TrimSpace(value) != "" {
				a.Disclosed = append(a.Disclosed, rule.Name)
				disclosureHints = append(disclosureHints, fmt.Sprintf("%s header discloses %q", rule.Name, value))
			}
		}
	}

	a.Hints = append(a.Hints, disclosureHints...)

	for cat := range missingCats {
		a.MissingCategories = append(a.MissingCategories, cat)
	}
	sort.Strings(a.MissingCategories)

	return a
}
