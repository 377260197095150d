package headers

// Class separates headers that should be present from those that should not.
type Class int

const (
	// Protective headers harden the client and should be present.
	Protective Class = iota
	// Disclosure headers advertise server technology and should be absent.
	Disclosure
)

// Rule describes one catalog header.
type Rule struct {
	Name  string
	Class Class
	// Category groups protective headers that defend against the same
	// class of attack. Empty for disclosure headers.
	Category string
	// Consequence is appended to the hint emitted when a protective header
	// is missing.
	Consequence string
	// HTTPSOnly rules are only evaluated for responses served over TLS.
	HTTPSOnly bool
}

var catalog = []Rule{
	{
		Name:        "Strict-Transport-Security",
		Class:       Protective,
		Category:    "transport",
		Consequence: "browsers may be downgraded to plain HTTP",
		HTTPSOnly:   true,
	},
	{
		Name:        "Content-Security-Policy",
		Class:       Protective,
		Category:    "content",
		Consequence: "no policy restricts script and resource origins",
	},
	{
		Name:        "X-Content-Type-Options",
		Class:       Protective,
		Category:    "content",
		Consequence: "browsers may MIME-sniff responses",
	},
	{
		Name:        "X-Frame-Options",
		Class:       Protective,
		Category:    "framing",
		Consequence: "pages may be framed for clickjacking",
	},
	{
		Name:        "Referrer-Policy",
		Class:       Protective,
		Category:    "privacy",
		Consequence: "full URLs may leak through the Referer header",
	},
	{
		Name:        "Permissions-Policy",
		Class:       Protective,
		Category:    "privacy",
		Consequence: "browser features are not explicitly restricted",
	},
	{Name: "Server", Class: Disclosure},
	{Name: "X-Powered-By", Class: Disclosure},
	{Name: "X-AspNet-Version", Class: Disclosure},
	{Name: "X-AspNetMvc-Version", Class: Disclosure},
	{Name: "X-Generator", Class: Disclosure},
}

// Catalog returns a copy of the header catalog in evaluation order.
func Catalog() []Rule {
	out := make([]Rule, len(catalog))
	copy(out, catalog)
	return out
}
