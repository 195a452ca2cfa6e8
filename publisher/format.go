package publisher

import "unicode/utf8"

const (
	// MaxPostLength is the posting API's character limit.
	MaxPostLength = 280

	postPrefix = "BREAKING: "
	ellipsis   = "..."
)

// FormatPost builds "BREAKING: {title} {link}". When that exceeds
// MaxPostLength characters the title is cut and followed by "..." so the
// whole post fits. The link is never shortened.
func FormatPost(title, link string) string {
	text := postPrefix + title + " " + link
	if utf8.RuneCountInString(text) <= MaxPostLength {
		return text
	}

	maxTitle := MaxPostLength - utf8.RuneCountInString(postPrefix) - len(ellipsis) - 1 - utf8.RuneCountInString(link)
	return postPrefix + truncateRunes(title, maxTitle) + ellipsis + " " + link
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
