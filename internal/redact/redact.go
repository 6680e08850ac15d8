package redact

import "regexp"

// Marker replaces every secret-like match.
const Marker = "[REDACTED]"

// Placeholders substituted for anonymized organization names.
const (
	ClientPlaceholder   = "Client"
	CustomerPlaceholder = "Customer"
)

// Rule is a single ordered substitution.
type Rule struct {
	Name        string
	Pattern     *regexp.Regexp
	Replacement string
}

// rules run in order; each pass covers the whole text.
var rules = []Rule{
	// Any long alphanumeric run. Supersedes the vendor shapes below in
	// practice; those stay so each can be tested on its own.
	{Name: "long-token", Pattern: regexp.MustCompile(`(?i)[A-Za-z0-9]{20,}`), Replacement: Marker},
	{Name: "openai-key", Pattern: regexp.MustCompile(`(?i)sk-[A-Za-z0-9]{32,}`), Replacement: Marker},
	{Name: "github-pat", Pattern: regexp.MustCompile(`(?i)ghp_[A-Za-z0-9]{36}`), Replacement: Marker},
	{Name: "github-app-token", Pattern: regexp.MustCompile(`(?i)ghs_[A-Za-z0-9]{36}`), Replacement: Marker},
	{Name: "password-assignment", Pattern: regexp.MustCompile(`(?i)password\s*[:=]\s*\S+`), Replacement: Marker},
	{Name: "token-assignment", Pattern: regexp.MustCompile(`(?i)token\s*[:=]\s*\S+`), Replacement: Marker},
	{Name: "corp-name", Pattern: regexp.MustCompile(`\b[A-Z][a-z]+Corp\b`), Replacement: ClientPlaceholder},
	{Name: "inc-name", Pattern: regexp.MustCompile(`\b[A-Z][a-z]+Inc\b`), Replacement: CustomerPlaceholder},
}

// Rules returns a copy of the ordered rule list.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Apply runs a single rule over text.
func (r Rule) Apply(text string) string {
	return r.Pattern.ReplaceAllLiteralString(text, r.Replacement)
}

// Sanitize applies every rule in order.
func Sanitize(text string) string {
	for _, r := range rules {
		text = r.Apply(text)
	}
	return text
}
