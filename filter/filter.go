// Package filter decides whether a feed item reads like hard news.
package filter

import "regexp"

type rule struct {
	name    string
	pattern *regexp.Regexp
}

// Titles matching any of these are digests, multimedia or commentary rather
// than breaking news. Matching is case-insensitive and unanchored.
var skipRules = []rule{
	{"time_digest", regexp.MustCompile(`\d+/\d+:`)},
	{"morning_news", regexp.MustCompile(`(?i)morning news`)},
	{"evening_news", regexp.MustCompile(`(?i)evening news`)},
	{"live", regexp.MustCompile(`(?i)live:`)},
	{"watch", regexp.MustCompile(`(?i)watch:`)},
	{"video", regexp.MustCompile(`(?i)video:`)},
	{"podcast", regexp.MustCompile(`(?i)podcast`)},
	{"newsletter", regexp.MustCompile(`(?i)newsletter`)},
	{"opinion", regexp.MustCompile(`(?i)opinion`)},
	{"analysis", regexp.MustCompile(`(?i)analysis`)},
	{"recap", regexp.MustCompile(`(?i)recap`)},
	{"review", regexp.MustCompile(`(?i)review`)},
}

// Classify returns true if the title passes every skip rule. When it does
// not, reason names the first rule that matched.
func Classify(title string) (bool, string) {
	for _, r := range skipRules {
		if r.pattern.MatchString(title) {
			return false, "exclude_pattern[" + r.name + "]"
		}
	}
	return true, ""
}

// IsBreakingNews reports whether the title qualifies for reposting.
func IsBreakingNews(title string) bool {
	ok, _ := Classify(title)
	return ok
}
