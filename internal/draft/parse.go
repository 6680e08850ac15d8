package draft

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

var (
	twitterSection  = regexp.MustCompile(`(?is)TWITTER:\s*(.*?)(?:LINKEDIN:|\z)`)
	linkedinSection = regexp.MustCompile(`(?is)LINKEDIN:\s*(.*?)(?:TWITTER:|\z)`)

	whitespaceRun = regexp.MustCompile(`[\s\v\x{85}\p{Z}]+`)
	twitterLabel  = regexp.MustCompile(`(?i)^twitter:?\s*`)
	linkedinLabel = regexp.MustCompile(`(?i)^linkedin:?\s*`)
)

// structuralKeywords mark heading lines such as "LinkedIn Version (650 chars)".
var structuralKeywords = []string{"VERSION", "CHARS", "TWITTER", "LINKEDIN"}

// maxHeadingLen is the length below which a keyword line counts as a heading.
const maxHeadingLen = 50

// maxHashtagLineFields is the most fields a bare hashtag line may have.
const maxHashtagLineFields = 5

// ParseResponse extracts both posts from a free-form backend reply.
//
// Labeled "TWITTER:" and "LINKEDIN:" sections are used when present. When
// either is missing, the reply is split into candidate posts and the gap is
// filled by length: the shortest candidate becomes the short post and the
// longest the long one. Fields may come back empty when nothing usable is
// found; the result is always within bounds.
func ParseResponse(raw string) Content {
	text := strings.TrimSpace(raw)

	var short, long string
	if m := twitterSection.FindStringSubmatch(text); m != nil {
		short = strings.TrimSpace(m[1])
	}
	if m := linkedinSection.FindStringSubmatch(text); m != nil {
		long = strings.TrimSpace(m[1])
	}

	if short == "" || long == "" {
		candidates := splitCandidates(text)
		switch {
		case len(candidates) >= 2:
			sort.SliceStable(candidates, func(i, j int) bool {
				return utf8.RuneCountInString(candidates[i]) < utf8.RuneCountInString(candidates[j])
			})
			if short == "" {
				short = candidates[0]
			}
			if long == "" {
				long = candidates[len(candidates)-1]
			}
		case len(candidates) == 1:
			if short == "" {
				short = truncate(candidates[0], MaxShort)
			}
			if long == "" {
				long = candidates[0]
			}
		}
	}

	return Content{
		Short: cleanField(short, twitterLabel),
		Long:  cleanField(long, linkedinLabel),
	}.Bounded()
}

// splitCandidates groups consecutive content lines into candidate posts.
// Heading lines end the current run; bare hashtag lines are skipped
// without ending it.
func splitCandidates(text string) []string {
	var candidates []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			candidates = append(candidates, strings.Join(current, " "))
			current = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if isHeading(line) {
			flush()
			continue
		}
		if isHashtagLine(line) {
			continue
		}
		current = append(current, line)
	}
	flush()

	return candidates
}

func isHeading(line string) bool {
	if utf8.RuneCountInString(line) >= maxHeadingLen {
		return false
	}
	upper := strings.ToUpper(line)
	for _, kw := range structuralKeywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

func isHashtagLine(line string) bool {
	return strings.HasPrefix(line, "#") && len(strings.Fields(line)) <= maxHashtagLineFields
}

// cleanField collapses whitespace and drops a restated leading label.
func cleanField(s string, label *regexp.Regexp) string {
	s = strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
	return label.ReplaceAllString(s, "")
}
