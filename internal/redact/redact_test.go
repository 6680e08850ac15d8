package redact

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ruleByName(t *testing.T, name string) Rule {
	t.Helper()
	for _, r := range Rules() {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("rule %q not found", name)
	return Rule{}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "clean text unchanged",
			in:   "feat: add login page",
			want: "feat: add login page",
		},
		{
			name: "token assignment with colon",
			in:   "token: abc123",
			want: Marker,
		},
		{
			name: "token assignment inside sentence",
			in:   "rotate Token = s3cr3t before release",
			want: "rotate " + Marker + " before release",
		},
		{
			name: "password assignment is case insensitive",
			in:   "fix PASSWORD=hunter2 leak",
			want: "fix " + Marker + " leak",
		},
		{
			name: "plural tokens is not an assignment",
			in:   "bump max tokens: 600",
			want: "bump max tokens: 600",
		},
		{
			name: "long alphanumeric run",
			in:   "commit abcdefghij0123456789xyz done",
			want: "commit " + Marker + " done",
		},
		{
			name: "nineteen characters kept",
			in:   "id abcdefghij012345678",
			want: "id abcdefghij012345678",
		},
		{
			name: "openai style key loses its body",
			in:   "key sk-" + strings.Repeat("a", 40),
			want: "key sk-" + Marker,
		},
		{
			name: "github token loses its body",
			in:   "ghp_" + strings.Repeat("B", 36),
			want: "ghp_" + Marker,
		},
		{
			name: "company names anonymized",
			in:   "Shipped the dashboard for AcmeCorp and GlobexInc",
			want: "Shipped the dashboard for Client and Customer",
		},
		{
			name: "all caps company prefix ignored",
			in:   "ACMECorp",
			want: "ACMECorp",
		},
		{
			name: "long company name hits the token rule first",
			in:   "MegaLongCompanyNameCorp",
			want: Marker,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestVendorRulesIndependently(t *testing.T) {
	tests := []struct {
		rule string
		in   string
		want string
	}{
		{"openai-key", "sk-" + strings.Repeat("x", 32), Marker},
		{"openai-key", "sk-" + strings.Repeat("x", 31), "sk-" + strings.Repeat("x", 31)},
		{"github-pat", "ghp_" + strings.Repeat("1", 36), Marker},
		{"github-app-token", "ghs_" + strings.Repeat("z", 36), Marker},
		{"github-app-token", "ghs_short", "ghs_short"},
	}

	for _, tt := range tests {
		t.Run(tt.rule, func(t *testing.T) {
			assert.Equal(t, tt.want, ruleByName(t, tt.rule).Apply(tt.in))
		})
	}
}

func TestRulesOrder(t *testing.T) {
	names := make([]string, 0, len(Rules()))
	for _, r := range Rules() {
		names = append(names, r.Name)
	}
	require.Equal(t, []string{
		"long-token",
		"openai-key",
		"github-pat",
		"github-app-token",
		"password-assignment",
		"token-assignment",
		"corp-name",
		"inc-name",
	}, names)
}

func TestRulesReturnsCopy(t *testing.T) {
	got := Rules()
	got[0] = Rule{Name: "mutated"}
	assert.Equal(t, "long-token", Rules()[0].Name)
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"token: abc123",
		"password:\nhunter2 and more",
		"token:",
		"xtoken: [REDACTED]",
		"AcmeCorp ships ghp_" + strings.Repeat("q", 36),
		"Productive week with 5 updates! Latest: fix auth 🚀 #coding #development",
		"tokentoken=abc password = x y",
		strings.Repeat("a", 100) + " " + strings.Repeat("b", 19),
		"FooInc, BarCorp; BazIncorporated",
	}

	for _, in := range inputs {
		once := Sanitize(in)
		assert.Equal(t, once, Sanitize(once), "input %q", in)
	}
}

func TestSanitizeNeverLeaksAssignedToken(t *testing.T) {
	secrets := []string{"abc123", "s3cr3t!", "p@ss", "x"}
	for _, s := range secrets {
		for _, prefix := range []string{"token: ", "token=", "TOKEN :", "password= "} {
			out := Sanitize("before " + prefix + s + " after")
			assert.NotContains(t, out, prefix+s)
			assert.Contains(t, out, Marker)
		}
	}
}
