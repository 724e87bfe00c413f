package ai

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"newsdesk/internal/content"
)

// Sources reported with each result.
const (
	SourceModel    = "model"
	SourceFallback = "fallback"
)

const (
	summaryLength  = 300
	headlineCount  = 5
	headlineLength = 90
	systemPrompt   = "You are a professional assistant for a news publishing platform."
)

// Result is a generated text and where it came from.
type Result struct {
	Text   string `json:"result"`
	Source string `json:"source"`
}

// Headlines is a set of generated headlines and where they came from.
type Headlines struct {
	Headlines []string `json:"headlines"`
	Source    string   `json:"source"`
}

// Assistant generates summaries and headlines.
type Assistant struct {
	completer Completer
	log       zerolog.Logger
}

// NewAssistant creates an assistant. A nil completer means fallback only.
func NewAssistant(completer Completer, log zerolog.Logger) *Assistant {
	a := &Assistant{log: log.With().Str("component", "ai").Logger()}
	// guard against a typed nil *OpenAICompleter
	if c, ok := completer.(*OpenAICompleter); !ok || c != nil {
		a.completer = completer
	}
	return a
}

// Summarize returns a short excerpt for body.
func (a *Assistant) Summarize(ctx context.Context, body string) Result {
	text := content.PlainText(body)
	if a.completer != nil {
		out, err := a.completer.Complete(ctx,
			systemPrompt+" You are an expert at summarizing news articles. Create a concise, engaging summary of the text provided. Keep it under 300 characters.",
			"Summarize this content:\n\n"+text, 500)
		if err == nil {
			return Result{Text: content.Truncate(out, summaryLength), Source: SourceModel}
		}
		a.log.Warn().Err(err).Msg("summarize failed, using fallback")
	}
	return Result{Text: fallbackSummary(text), Source: SourceFallback}
}

// GenerateHeadlines proposes headlines for body.
func (a *Assistant) GenerateHeadlines(ctx context.Context, body string) Headlines {
	text := content.PlainText(body)
	if a.completer != nil {
		out, err := a.completer.Complete(ctx,
			systemPrompt+" You are a creative headline writer. Generate 5 catchy, SEO-friendly headlines for the text provided. Return them as a numbered list.",
			"Generate headlines for this content:\n\n"+text, 500)
		if err == nil {
			if lines := parseList(out); len(lines) > 0 {
				return Headlines{Headlines: lines, Source: SourceModel}
			}
		} else {
			a.log.Warn().Err(err).Msg("headline generation failed, using fallback")
		}
	}
	return Headlines{Headlines: fallbackHeadlines(text), Source: SourceFallback}
}

var (
	sentenceEnd = regexp.MustCompile(`[.!?]+(\s+|$)`)
	listMarker  = regexp.MustCompile(`^\s*(\d+[.)]|[-*•])\s*`)
)

func sentences(text string) []string {
	var out []string
	for _, s := range sentenceEnd.Split(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// fallbackSummary takes whole leading sentences up to the summary length.
func fallbackSummary(text string) string {
	var b strings.Builder
	for _, s := range sentences(text) {
		next := s + "."
		if b.Len() > 0 {
			next = " " + next
		}
		if b.Len()+len(next) > summaryLength {
			break
		}
		b.WriteString(next)
	}
	if b.Len() == 0 {
		return content.Truncate(text, summaryLength)
	}
	return b.String()
}

// fallbackHeadlines uses the leading sentences as headline candidates.
func fallbackHeadlines(text string) []string {
	out := make([]string, 0, headlineCount)
	for _, s := range sentences(text) {
		out = append(out, content.Truncate(s, headlineLength))
		if len(out) == headlineCount {
			break
		}
	}
	return out
}

// parseList strips numbering, bullets and quotes from a model's list output.
func parseList(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.Trim(listMarker.ReplaceAllString(line, ""), " \t\"*")
		if line != "" {
			out = append(out, line)
		}
		if len(out) == headlineCount {
			break
		}
	}
	return out
}
