package content

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Local Markets Rally", "local-markets-rally"},
		{"  Hello,   World!  ", "hello-world"},
		{"Café au lait", "cafe-au-lait"},
		{"Mumbai -- Rains", "mumbai-rains"},
		{"100% Growth?", "100-growth"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestSlugifyTransliterates(t *testing.T) {
	slug := Slugify("Привет мир")
	assert.NotEmpty(t, slug)
	assert.Regexp(t, `^[a-z0-9-]+$`, slug)
}

func TestArticleSlugUnique(t *testing.T) {
	now := time.Now()
	a := ArticleSlug("Local Markets Rally", now)
	b := ArticleSlug("Local Markets Rally", now)

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "local-markets-rally-"))
	assert.Regexp(t, `^[a-z0-9-]+$`, a)
}

func TestArticleSlugEmptyTitle(t *testing.T) {
	assert.True(t, strings.HasPrefix(ArticleSlug("!!!", time.Now()), "article-"))
}

func TestSanitizeHTML(t *testing.T) {
	out := SanitizeHTML(`<p onclick="x()">Hi <script>alert(1)</script><b>there</b></p>`)
	assert.NotContains(t, out, "script")
	assert.NotContains(t, out, "onclick")
	assert.Contains(t, out, "<b>there</b>")
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Hello world & friends", PlainText("<p>Hello <i>world</i> &amp; friends</p>"))
}

func TestExcerpt(t *testing.T) {
	body := "<p>" + strings.Repeat("a", 300) + "</p>"
	assert.Len(t, Excerpt(body, ExcerptLength), ExcerptLength)
	assert.Equal(t, "short", Excerpt("<p>short</p>", ExcerptLength))
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{" Mumbai ", "mumbai", "", "Markets", "<b>Economy</b>"})
	assert.Equal(t, []string{"Mumbai", "Markets", "Economy"}, got)
}

func TestNormalizeTagsDedupesAfterTruncation(t *testing.T) {
	prefix := strings.Repeat("x", MaxTagLength)
	got := NormalizeTags([]string{prefix + "-one", prefix + "-two"})
	assert.Equal(t, []string{prefix}, got)
}
