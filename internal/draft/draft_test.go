package draft

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorewood/contentbot/internal/commits"
	"github.com/gorewood/contentbot/internal/llm"
	"github.com/gorewood/contentbot/internal/prompt"
)

func mkCommit(sha, msg, date string) commits.Commit {
	ts, err := time.Parse(time.RFC3339, date)
	if err != nil {
		panic(err)
	}
	return commits.Commit{SHA: sha, Message: msg, AuthorDate: ts, URL: "https://github.com/acme/app/commit/" + sha}
}

func TestCommitsText(t *testing.T) {
	newCommits := []commits.Commit{
		mkCommit("a", "feat: add login\n\nOAuth via GitHub.", "2026-10-15T09:00:00Z"),
		mkCommit("b", "fix: crash", "2026-10-16T01:00:00Z"),
		mkCommit("c", "docs: readme\n\n"+strings.Repeat("x", 101), "2026-10-16T02:00:00Z"),
		mkCommit("d", "perf: cache\n\n"+strings.Repeat("y", 100), "2026-10-16T03:00:00Z"),
	}
	older := []commits.Commit{
		mkCommit("o1", "feat: old one\n\nbody is hidden", "2026-10-01T00:00:00Z"),
	}

	got := CommitsText(newCommits, older)
	want := "NEW COMMITS (focus on these):\n" +
		"[2026-10-15] feat: add login - OAuth via GitHub.\n" +
		"[2026-10-16] fix: crash\n" +
		"[2026-10-16] docs: readme - " + strings.Repeat("x", 100) + "...\n" +
		"[2026-10-16] perf: cache - " + strings.Repeat("y", 100) + "\n\n" +
		"OLDER COMMITS (brief context only):\n" +
		"[2026-10-01] feat: old one"
	assert.Equal(t, want, got)
}

func TestCommitsText_NoOlder(t *testing.T) {
	got := CommitsText([]commits.Commit{mkCommit("a", "feat: x", "2026-10-15T00:00:00Z")}, nil)
	assert.Equal(t, "NEW COMMITS (focus on these):\n[2026-10-15] feat: x", got)
}

func TestCommitsText_NoNewCommits(t *testing.T) {
	older := []commits.Commit{
		mkCommit("a", "feat: a", "2026-10-01T00:00:00Z"),
		mkCommit("b", "feat: b", "2026-10-02T00:00:00Z"),
	}
	assert.Equal(t, "[2026-10-01] feat: a\n[2026-10-02] feat: b", CommitsText(nil, older))
}

func TestOlderContext(t *testing.T) {
	all := []commits.Commit{
		mkCommit("n1", "feat: n1", "2026-10-16T00:00:00Z"),
		mkCommit("o1", "feat: o1", "2026-10-10T00:00:00Z"),
		mkCommit("o2", "feat: o2", "2026-10-09T00:00:00Z"),
		mkCommit("n2", "feat: n2", "2026-10-15T00:00:00Z"),
		mkCommit("o3", "feat: o3", "2026-10-08T00:00:00Z"),
		mkCommit("o4", "feat: o4", "2026-10-07T00:00:00Z"),
	}
	newCommits := []commits.Commit{all[0], all[3]}

	older := OlderContext(newCommits, all)
	require.Len(t, older, 3)
	assert.Equal(t, "o1", older[0].SHA)
	assert.Equal(t, "o2", older[1].SHA)
	assert.Equal(t, "o3", older[2].SHA)
}

func TestBuildPrompt(t *testing.T) {
	all := []commits.Commit{
		mkCommit("n1", "feat: streaming export", "2026-10-16T00:00:00Z"),
		mkCommit("o1", "fix: old bug", "2026-10-10T00:00:00Z"),
	}

	got := BuildPrompt(nil, all[:1], all)
	assert.True(t, strings.HasPrefix(got, "Based on these ACTUAL commit messages, create social media posts:\n\n"+
		"NEW COMMITS (focus on these):\n[2026-10-16] feat: streaming export\n\n"+
		"OLDER COMMITS (brief context only):\n[2026-10-10] fix: old bug\n\nREQUIREMENTS:\n"))
	assert.Contains(t, got, "TWITTER: (180-260 chars)")
	assert.NotContains(t, got, "{{commits}}")

	custom := &prompt.Template{Content: "Posts for:\n{{commits}}"}
	assert.Equal(t, "Posts for:\nNEW COMMITS (focus on these):\n[2026-10-16] feat: streaming export\n\n"+
		"OLDER COMMITS (brief context only):\n[2026-10-10] fix: old bug", BuildPrompt(custom, all[:1], all))
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantShort string
		wantLong  string
	}{
		{
			name:      "labeled sections",
			raw:       "TWITTER: Shipped OAuth login 🚀 #golang\n\nLINKEDIN: This week we shipped OAuth login.\nIt took a while.",
			wantShort: "Shipped OAuth login 🚀 #golang",
			wantLong:  "This week we shipped OAuth login. It took a while.",
		},
		{
			name:      "labels are case insensitive and order free",
			raw:       "linkedin: The long one.\ntwitter: The short one.",
			wantShort: "The short one.",
			wantLong:  "The long one.",
		},
		{
			name:      "restated label is stripped",
			raw:       "TWITTER:\nTwitter: hello   world\n\tagain\nLINKEDIN:\nLinkedIn: Big news",
			wantShort: "hello world again",
			wantLong:  "Big news",
		},
		{
			name: "unlabeled headings split candidates",
			raw: "Here are your posts\n" +
				"**Twitter Version**\n" +
				"Short post here 🚀\n" +
				"LinkedIn Version (650 chars)\n" +
				"Long post line one.\n" +
				"#dev #go\n" +
				"Long post line two.",
			wantShort: "Short post here 🚀",
			wantLong:  "Long post line one. Long post line two.",
		},
		{
			name:      "equal lengths keep first as short",
			raw:       "aaaa\nVERSION\nbbbb",
			wantShort: "aaaa",
			wantLong:  "bbbb",
		},
		{
			name:      "blank lines do not split candidates",
			raw:       "first paragraph\n\nsecond paragraph",
			wantShort: "first paragraph second paragraph",
			wantLong:  "first paragraph second paragraph",
		},
		{
			name:      "long hashtag line is content",
			raw:       "#one #two #three #four #five #six",
			wantShort: "#one #two #three #four #five #six",
			wantLong:  "#one #two #three #four #five #six",
		},
		{
			name:      "keyword in long line is content",
			raw:       "This is a long sentence that mentions the Twitter version of things.",
			wantShort: "This is a long sentence that mentions the Twitter version of things.",
			wantLong:  "This is a long sentence that mentions the Twitter version of things.",
		},
		{
			name:      "only twitter label",
			raw:       "TWITTER: short one",
			wantShort: "short one",
			wantLong:  "",
		},
		{
			name:      "labeled short fills long from candidates",
			raw:       "TWITTER: tweet\nA somewhat longer standalone paragraph for LinkedIn readers.",
			wantShort: "tweet A somewhat longer standalone paragraph for LinkedIn readers.",
			wantLong:  "A somewhat longer standalone paragraph for LinkedIn readers.",
		},
		{
			name: "empty",
			raw:  "   \n ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseResponse(tt.raw)
			assert.Equal(t, tt.wantShort, got.Short)
			assert.Equal(t, tt.wantLong, got.Long)
		})
	}
}

func TestParseResponse_SingleCandidateTruncatesShort(t *testing.T) {
	post := strings.Repeat("é", 300)
	got := ParseResponse(post)
	assert.Equal(t, strings.Repeat("é", MaxShort), got.Short)
	assert.Equal(t, post, got.Long)
}

func TestParseResponse_Bounds(t *testing.T) {
	inputs := []string{
		"TWITTER: " + strings.Repeat("🚀 ", 400) + "\nLINKEDIN: " + strings.Repeat("word ", 400),
		strings.Repeat("line of text\n", 200),
		"x\nTWITTER\n" + strings.Repeat("y", 2000),
	}
	for i, in := range inputs {
		got := ParseResponse(in)
		assert.LessOrEqual(t, utf8.RuneCountInString(got.Short), MaxShort, "input %d", i)
		assert.LessOrEqual(t, utf8.RuneCountInString(got.Long), MaxLong, "input %d", i)
		assert.True(t, utf8.ValidString(got.Short))
		assert.True(t, utf8.ValidString(got.Long))
	}
}

func TestFallback(t *testing.T) {
	day := "2026-10-16T00:00:00Z"

	t.Run("no commits", func(t *testing.T) {
		got := Fallback(nil)
		assert.Equal(t, NoUpdatesShort, got.Short)
		assert.Equal(t, NoUpdatesLong, got.Long)
	})

	t.Run("one commit", func(t *testing.T) {
		got := Fallback([]commits.Commit{mkCommit("a", "feat: add login\n\nbody", day)})
		assert.Equal(t, "✅ feat: add login #coding #development", got.Short)
		assert.Equal(t, "Recent development progress (1 commits):\n\n• feat: add login\n\n"+
			"Continuous improvement and feature development in progress! 💪 #development #coding #progress", got.Long)
	})

	t.Run("five commits", func(t *testing.T) {
		var list []commits.Commit
		for i := 0; i < 5; i++ {
			list = append(list, mkCommit(fmt.Sprint(i), fmt.Sprintf("feat: change %d", i), day))
		}
		got := Fallback(list)
		assert.Equal(t, "Productive week with 5 updates! Latest: feat: change 0 🚀 #coding #development", got.Short)
		assert.Equal(t, "Recent development progress (5 commits):\n\n"+
			"• feat: change 0\n• feat: change 1\n• feat: change 2\n"+
			"• ...and 2 more improvements\n\n"+
			"Continuous improvement and feature development in progress! 💪 #development #coding #progress", got.Long)
	})

	t.Run("long titles are shortened", func(t *testing.T) {
		exact := strings.Repeat("a", 60)
		long := strings.Repeat("b", 61)
		got := Fallback([]commits.Commit{mkCommit("x", long, day), mkCommit("y", exact, day)})
		assert.Contains(t, got.Short, "Latest: "+strings.Repeat("b", 57)+"... 🚀")
		assert.Contains(t, got.Long, "• "+exact+"\n")
	})
}

// fakeCompleter records the last request.
type fakeCompleter struct {
	content string
	err     error
	req     llm.Request
	ctx     context.Context
}

func (f *fakeCompleter) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	f.req = req
	f.ctx = ctx
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Response{Content: f.content, Model: "test-model"}, nil
}

func TestGenerator_Unavailable(t *testing.T) {
	result := NewGenerator(nil).Generate(context.Background(), nil, nil)
	assert.Equal(t, StatusUnavailable, result.Status)
	assert.False(t, result.OK())

	var nilGen *Generator
	assert.False(t, nilGen.Available())
}

func TestGenerator_BackendError(t *testing.T) {
	backend := &fakeCompleter{err: errors.New("502 bad gateway")}
	result := NewGenerator(backend).Generate(context.Background(), nil, nil)
	assert.Equal(t, StatusFailed, result.Status)
	assert.Contains(t, result.Reason, "502")
}

func TestGenerator_UnusableReply(t *testing.T) {
	backend := &fakeCompleter{content: "TWITTER: only a tweet"}
	result := NewGenerator(backend).Generate(context.Background(), nil, nil)
	assert.Equal(t, StatusFailed, result.Status)
	assert.Equal(t, "only a tweet", result.Content.Short)
}

func TestGenerator_Success(t *testing.T) {
	backend := &fakeCompleter{content: "TWITTER: tweet text\nLINKEDIN: post text"}
	gen := NewGenerator(backend, WithTimeout(time.Minute))
	newCommits := []commits.Commit{mkCommit("a", "feat: export", "2026-10-16T00:00:00Z")}

	result := gen.Generate(context.Background(), newCommits, newCommits)
	require.True(t, result.OK())
	assert.Equal(t, Content{Short: "tweet text", Long: "post text"}, result.Content)
	assert.Equal(t, "test-model", result.Model)

	assert.Equal(t, MaxTokens, backend.req.MaxTokens)
	assert.Equal(t, Temperature, backend.req.Temperature)
	assert.Contains(t, backend.req.Prompt, "[2026-10-16] feat: export")
	assert.Equal(t, gen.Prompt(newCommits, newCommits), backend.req.Prompt)

	_, hasDeadline := backend.ctx.Deadline()
	assert.True(t, hasDeadline)
}

func TestGenerator_CustomTemplate(t *testing.T) {
	backend := &fakeCompleter{content: "TWITTER: a\nLINKEDIN: b"}
	gen := NewGenerator(backend, WithTemplate(&prompt.Template{Content: "custom {{commits}}"}))

	gen.Generate(context.Background(), []commits.Commit{mkCommit("a", "fix: x", "2026-10-16T00:00:00Z")}, nil)
	assert.Equal(t, "custom NEW COMMITS (focus on these):\n[2026-10-16] fix: x", backend.req.Prompt)
}

func TestContentHelpers(t *testing.T) {
	c := Content{Short: strings.Repeat("s", 300), Long: strings.Repeat("l", 800)}.Bounded()
	assert.Len(t, c.Short, MaxShort)
	assert.Len(t, c.Long, MaxLong)

	assert.True(t, Content{Short: "x"}.Empty())
	assert.False(t, Content{Short: "x", Long: "y"}.Empty())
	assert.Equal(t, Content{Short: "X", Long: "Y"}, Content{Short: "x", Long: "y"}.Map(strings.ToUpper))
}
