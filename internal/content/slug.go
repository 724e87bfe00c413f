// Package content normalizes user supplied article and comment text.
package content

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// nonSlugChars matches anything that is not a lowercase letter, digit, hyphen or space.
	nonSlugChars = regexp.MustCompile(`[^a-z0-9\s-]+`)
	// spaces matches runs of whitespace.
	spaces = regexp.MustCompile(`\s+`)
	// multipleHyphens matches multiple consecutive hyphens.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// maxSlugBase bounds the title part of a slug.
const maxSlugBase = 80

// Slugify converts a title to a URL-safe string: accents folded,
// non-latin scripts transliterated, lowercased, whitespace to hyphens.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	result = unidecode.Unidecode(result)

	result = strings.ToLower(result)
	result = nonSlugChars.ReplaceAllString(result, "")
	result = spaces.ReplaceAllString(strings.TrimSpace(result), "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	if len(result) > maxSlugBase {
		result = strings.TrimRight(result[:maxSlugBase], "-")
	}
	return result
}

// ArticleSlug builds a unique slug for a new article from its title. The
// millisecond timestamp keeps slugs ordered; the random tail separates
// articles with the same title created within the same millisecond.
func ArticleSlug(title string, now time.Time) string {
	base := Slugify(title)
	if base == "" {
		base = "article"
	}
	return fmt.Sprintf("%s-%d-%s", base, now.UnixMilli(), uuid.NewString()[:6])
}
