package commits

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func commit(sha, msg, date string) Commit {
	return Commit{
		SHA:        sha,
		Message:    msg,
		AuthorDate: at(date),
		URL:        "https://github.com/acme/app/commit/" + sha,
	}
}

func shas(list []Commit) []string {
	out := make([]string, 0, len(list))
	for _, c := range list {
		out = append(out, c.SHA)
	}
	return out
}

func TestCommitTitleBody(t *testing.T) {
	c := Commit{Message: "  feat: add login  \n\nAdds OAuth flow.\nSecond line.\n"}
	assert.Equal(t, "feat: add login", c.Title())
	assert.Equal(t, "Adds OAuth flow.\nSecond line.", c.Body())

	single := Commit{Message: "fix: typo"}
	assert.Equal(t, "fix: typo", single.Title())
	assert.Empty(t, single.Body())
}

func TestCommitDayIsUTC(t *testing.T) {
	c := Commit{AuthorDate: at("2026-10-16T01:30:00+05:00")}
	assert.Equal(t, "2026-10-15", c.Day())
}

func TestIsNoise(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{"chore: bump deps", true},
		{"CHORE: release", true},
		{"Chore:tidy", true},
		{"fix: move fixtures to tests/data", true},
		{"refactor TESTS/helpers", true},
		{"feat: add chore: scheduler", false},
		{"chore bump deps", false},
		{"feat: add tests", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsNoise(tt.msg), "IsNoise(%q)", tt.msg)
	}
}

func TestFilterByContent_PreservesOrder(t *testing.T) {
	in := []Commit{
		commit("a", "feat: one", "2026-10-10T00:00:00Z"),
		commit("b", "chore: deps", "2026-10-11T00:00:00Z"),
		commit("c", "fix: two", "2026-10-12T00:00:00Z"),
		commit("d", "update tests/unit", "2026-10-13T00:00:00Z"),
		commit("e", "docs: three", "2026-10-14T00:00:00Z"),
	}

	got := FilterByContent(in)
	assert.Equal(t, []string{"a", "c", "e"}, shas(got))
}

func TestFilterByContent_SubsequenceProperty(t *testing.T) {
	messages := []string{"feat", "chore: x", "tests/", "Chore: y", "fix", "a TESTS/ b", "docs"}
	for n := 0; n < 64; n++ {
		var in []Commit
		for i, m := range messages {
			if n&(1<<(i%6)) != 0 {
				in = append(in, commit(fmt.Sprintf("%d-%d", n, i), m, "2026-10-10T00:00:00Z"))
			}
		}

		got := FilterByContent(in)

		j := 0
		for _, c := range got {
			assert.False(t, IsNoise(c.Message))
			for j < len(in) && in[j].SHA != c.SHA {
				j++
			}
			require.Less(t, j, len(in), "output is not a subsequence of input")
			j++
		}
	}
}

func TestFilterSince_NoWatermarkReturnsInput(t *testing.T) {
	in := []Commit{
		commit("a", "feat: one", "2020-01-01T00:00:00Z"),
		commit("b", "feat: two", "2030-01-01T00:00:00Z"),
	}

	for _, wm := range []string{"", "   "} {
		got, err := FilterSince(in, wm)
		require.NoError(t, err)
		assert.Equal(t, in, got)
	}
}

func TestFilterSince_AllEncodingsAgree(t *testing.T) {
	in := []Commit{
		commit("old", "feat: old", "2026-10-15T09:59:59Z"),
		commit("equal", "feat: equal", "2026-10-15T10:00:00Z"),
		commit("new", "feat: new", "2026-10-15T10:00:01Z"),
		commit("offset", "feat: offset", "2026-10-15T12:30:00+02:00"),
	}

	watermarks := []string{
		"2026-10-15T10:00:00Z",
		"2026-10-15T10:00:00.000000Z",
		"2026-10-15T10:00:00+00:00",
		"2026-10-15T12:00:00+02:00",
		"2026-10-15T05:00:00-05:00",
		"2026-10-15T10:00:00",
		"2026-10-15 10:00:00",
	}

	for _, wm := range watermarks {
		t.Run(wm, func(t *testing.T) {
			got, err := FilterSince(in, wm)
			require.NoError(t, err)
			assert.Equal(t, []string{"new", "offset"}, shas(got))
		})
	}
}

func TestFilterSince_InvalidWatermark(t *testing.T) {
	_, err := FilterSince([]Commit{commit("a", "feat", "2026-01-01T00:00:00Z")}, "last tuesday")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTimestamp))
	assert.Contains(t, err.Error(), "watermark")
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2026-10-15T10:00:00Z", "2026-10-15T10:00:00Z"},
		{"2026-10-15T10:00:00.123456Z", "2026-10-15T10:00:00.123456Z"},
		{"2026-10-15T10:00:00.123456+00:00", "2026-10-15T10:00:00.123456Z"},
		{"2026-10-15T10:00:00-04:00", "2026-10-15T14:00:00Z"},
		{"2026-10-15T10:00:00+0530", "2026-10-15T04:30:00Z"},
		{"2026-10-15T10:00:00", "2026-10-15T10:00:00Z"},
		{"2026-10-15 10:00:00.5", "2026-10-15T10:00:00.5Z"},
		{"2026-10-15", "2026-10-15T00:00:00Z"},
		// zoned but malformed offset falls back to naive UTC
		{"2026-10-15T10:00:00+5", "2026-10-15T10:00:00Z"},
		{"2026-10-15T10:00:00z", "2026-10-15T10:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in)
			require.NoError(t, err)
			assert.Equal(t, at(tt.want), got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParseTimestamp_Invalid(t *testing.T) {
	for _, in := range []string{"", "yesterday", "2026-13-45T99:00:00Z", "2026/10/15"} {
		_, err := ParseTimestamp(in)
		assert.ErrorIs(t, err, ErrInvalidTimestamp, "input %q", in)
	}
}

func TestFormatWatermarkRoundTrip(t *testing.T) {
	ts := time.Date(2026, 10, 16, 8, 30, 0, 123456000, time.FixedZone("CEST", 2*3600))

	formatted := FormatWatermark(ts)
	assert.Equal(t, "2026-10-16T06:30:00.123456Z", formatted)
	assert.True(t, strings.HasSuffix(formatted, "Z"))

	parsed, err := ParseWatermark(formatted)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(ts))
}

func TestExclude(t *testing.T) {
	all := []Commit{
		commit("a", "feat: a", "2026-10-10T00:00:00Z"),
		commit("b", "feat: b", "2026-10-11T00:00:00Z"),
		commit("c", "feat: c", "2026-10-12T00:00:00Z"),
	}

	assert.Equal(t, []string{"a", "c"}, shas(Exclude(all, all[1:2])))
	assert.Empty(t, Exclude(all, all))

	noSHA := []Commit{{Message: "x", URL: "u1"}, {Message: "y", URL: "u2"}}
	assert.Equal(t, "y", Exclude(noSHA, noSHA[:1])[0].Message)
}

func TestSanitizeMessages(t *testing.T) {
	list := []Commit{{Message: "a"}, {Message: "b"}}
	SanitizeMessages(list, strings.ToUpper)
	assert.Equal(t, "A", list[0].Message)
	assert.Equal(t, "B", list[1].Message)
}
