package draft

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gorewood/contentbot/internal/commits"
)

// Placeholder posts used when there is nothing to report.
const (
	NoUpdatesShort = "No recent updates to share 🤔 #coding #development"
	NoUpdatesLong  = "Taking a moment to plan the next phase of development. " +
		"Sometimes the best progress happens in the thinking phase! 🧠 #development #planning #coding"
)

const (
	fallbackTitles    = 4
	fallbackBullets   = 3
	maxFallbackTitle  = 60
	fallbackTitleKeep = 57
)

// Fallback builds both posts from commit titles alone. It never fails and
// needs no network.
func Fallback(list []commits.Commit) Content {
	n := len(list)
	if n == 0 {
		return Content{Short: NoUpdatesShort, Long: NoUpdatesLong}
	}

	titles := make([]string, 0, fallbackTitles)
	for i := 0; i < n && i < fallbackTitles; i++ {
		titles = append(titles, shortTitle(list[i].Title()))
	}

	var short string
	if n == 1 {
		short = fmt.Sprintf("✅ %s #coding #development", titles[0])
	} else {
		short = fmt.Sprintf("Productive week with %d updates! Latest: %s 🚀 #coding #development", n, titles[0])
	}

	var long strings.Builder
	fmt.Fprintf(&long, "Recent development progress (%d commits):\n\n", n)
	for i := 0; i < len(titles) && i < fallbackBullets; i++ {
		fmt.Fprintf(&long, "• %s\n", titles[i])
	}
	if n > fallbackBullets {
		fmt.Fprintf(&long, "• ...and %d more improvements\n", n-fallbackBullets)
	}
	long.WriteString("\nContinuous improvement and feature development in progress! 💪 #development #coding #progress")

	return Content{Short: short, Long: long.String()}.Bounded()
}

func shortTitle(title string) string {
	if utf8.RuneCountInString(title) > maxFallbackTitle {
		return truncate(title, fallbackTitleKeep) + "..."
	}
	return title
}
