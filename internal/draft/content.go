package draft

import "unicode/utf8"

// Length bounds for the two post variants, in characters.
const (
	MaxShort = 260
	MaxLong  = 700
)

// Content is the generated pair of posts.
type Content struct {
	Short string `json:"short"`
	Long  string `json:"long"`
}

// Bounded returns c with both fields truncated to their limits.
func (c Content) Bounded() Content {
	return Content{
		Short: truncate(c.Short, MaxShort),
		Long:  truncate(c.Long, MaxLong),
	}
}

// Map applies fn to both fields.
func (c Content) Map(fn func(string) string) Content {
	return Content{Short: fn(c.Short), Long: fn(c.Long)}
}

// Empty reports whether either field is empty.
func (c Content) Empty() bool {
	return c.Short == "" || c.Long == ""
}

// truncate cuts s to at most n characters.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// Status reports how the backed path ended.
type Status string

// Backed path outcomes. Anything but StatusSuccess means the caller should
// use Fallback.
const (
	StatusSuccess     Status = "success"
	StatusUnavailable Status = "unavailable"
	StatusFailed      Status = "failed"
)

// Result is the outcome of Generator.Generate.
type Result struct {
	Status  Status
	Content Content
	Model   string
	// Reason explains a non-success status.
	Reason string
}

// OK reports whether the result carries usable content.
func (r Result) OK() bool {
	return r.Status == StatusSuccess
}
