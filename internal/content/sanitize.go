package content

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// articlePolicy allows the formatting tags the editor produces and
	// strips scripts, event handlers and the like.
	articlePolicy = bluemonday.UGCPolicy()
	// textPolicy removes every tag.
	textPolicy = bluemonday.StrictPolicy()
)

// ExcerptLength is the number of characters taken for a generated excerpt.
const ExcerptLength = 200

// SanitizeHTML cleans article body HTML.
func SanitizeHTML(s string) string {
	return strings.TrimSpace(articlePolicy.Sanitize(s))
}

// PlainText strips all markup and decodes entities.
func PlainText(s string) string {
	text := html.UnescapeString(textPolicy.Sanitize(s))
	return strings.Join(strings.Fields(text), " ")
}

// Excerpt returns the first n characters of the plain text of body.
func Excerpt(body string, n int) string {
	return Truncate(PlainText(body), n)
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n]))
}

// MaxTagLength is the longest stored tag, in runes.
const MaxTagLength = 100

// NormalizeTags trims, truncates, drops empties and de-duplicates tags
// case-insensitively, keeping the first spelling seen.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = Truncate(strings.TrimSpace(PlainText(tag)), MaxTagLength)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
	}
	return out
}
