package headers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func allProtective() http.Header {
	h := http.Header{}
	h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
	h.Set("Content-Security-Policy", "default-src 'self'")
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("X-Frame-Options", "DENY")
	h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
	h.Set("Permissions-Policy", "camera=(), microphone=()")
	return h
}

func TestAnalyze_AllProtectivePresent(t *testing.T) {
	a := Analyze(allProtective(), true)

	assert.Empty(t, a.Hints)
	assert.Empty(t, a.MissingProtective)
	assert.Empty(t, a.MissingCategories)
	assert.Empty(t, a.Disclosed)
	assert.Len(t, a.Interesting, 6)
	assert.Equal(t, "DENY", a.Interesting["x-frame-options"])
}

func TestAnalyze_AllMissingOverHTTPS(t *testing.T) {
	a := Analyze(http.Header{}, true)

	assert.Equal(t, []string{
		"Strict-Transport-Security",
		"Content-Security-Policy",
		"X-Content-Type-Options",
		"X-Frame-Options",
		"Referrer-Policy",
		"Permissions-Policy",
	}, a.MissingProtective)
	assert.Equal(t, []string{"content", "framing", "privacy", "transport"}, a.MissingCategories)
	assert.Len(t, a.Hints, 6)
	assert.Empty(t, a.Interesting)
}

func TestAnalyze_HSTSOnlyOnHTTPS(t *testing.T) {
	h := allProtective()
	h.Del("Strict-Transport-Security")

	plain := Analyze(h, false)
	assert.Empty(t, plain.Hints, "HSTS should not be expected on plain HTTP")

	tls := Analyze(h, true)
	assert.Equal(t, []string{"Strict-Transport-Security"}, tls.MissingProtective)
	assert.Equal(t, []string{"transport"}, tls.MissingCategories)
}

func TestAnalyze_MissingHSTSAndDisclosure(t *testing.T) {
	h := allProtective()
	h.Del("Strict-Transport-Security")
	h.Set("Server", "Apache/2.4.41 (Ubuntu)")

	a := Analyze(h, true)

	assert.Equal(t, []string{
		"Missing Strict-Transport-Security header: browsers may be downgraded to plain HTTP",
		`Server header discloses "Apache/2.4.41 (Ubuntu)"`,
	}, a.Hints)
	assert.Equal(t, "Apache/2.4.41 (Ubuntu)", a.Interesting["server"])
	assert.Equal(t, []string{"Server"}, a.Disclosed)
}

func TestAnalyze_EmptyDisclosureValueIsNotAHint(t *testing.T) {
	h := allProtective()
	h["Server"] = []string{""}

	a := Analyze(h, true)
	assert.Empty(t, a.Hints)
	assert.Empty(t, a.Disclosed)
	assert.Contains(t, a.Interesting, "server")
}

func TestAnalyze_IgnoresNonCatalogHeaders(t *testing.T) {
	h := allProtective()
	h.Set("Set-Cookie", "session=abc")
	h.Set("Content-Type", "text/html")
	h.Set("X-Powered-By", "PHP/8.1")

	a := Analyze(h, true)
	assert.NotContains(t, a.Interesting, "set-cookie")
	assert.NotContains(t, a.Interesting, "content-type")
	assert.Equal(t, "PHP/8.1", a.Interesting["x-powered-by"])
	for k := range a.Interesting {
		assert.Equal(t, strings.ToLower(k), k)
	}
}

func TestAnalyze_JoinsRepeatedValues(t *testing.T) {
	h := allProtective()
	h.Add("Server", "cloudflare")
	h.Add("Server", "envoy")

	a := Analyze(h, true)
	assert.Equal(t, "cloudflare, envoy", a.Interesting["server"])
}

func TestAnalyze_Deterministic(t *testing.T) {
	h := http.Header{}
	h.Set("X-Powered-By", "Express")
	h.Set("Server", "nginx")

	first := Analyze(h, true)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first.Hints, Analyze(h, true).Hints)
	}
	// Disclosure hints follow catalog order, not header insertion order.
	n := len(first.Hints)
	assert.Equal(t, `Server header discloses "nginx"`, first.Hints[n-2])
	assert.Equal(t, `X-Powered-By header discloses "Express"`, first.Hints[n-1])
}

func TestCatalog_ReturnsCopy(t *testing.T) {
	c := Catalog()
	c[0].Name = "mutated"
	assert.Equal(t, "Strict-Transport-Security", Catalog()[0].Name)
}

