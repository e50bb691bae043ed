package props

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictOnce   sync.Once
	strictPolicy *bluemonday.Policy
	inlineOnce   sync.Once
	inlinePolicy *bluemonday.Policy
)

func sanitize(raw string, markup bool) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if markup {
		return strings.TrimSpace(inlineSanitizer().Sanitize(trimmed))
	}
	// The strict policy escapes entities; labels are plain text afterwards.
	return strings.TrimSpace(html.UnescapeString(strictSanitizer().Sanitize(trimmed)))
}

func strictSanitizer() *bluemonday.Policy {
	strictOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

func inlineSanitizer() *bluemonday.Policy {
	inlineOnce.Do(func() {
		policy := bluemonday.NewPolicy()
		policy.AllowElements("b", "strong", "i", "em", "u", "code", "small", "br", "abbr")
		policy.AllowAttrs("title").OnElements("abbr")
		policy.AllowAttrs("href").OnElements("a")
		policy.AllowStandardURLs()
		policy.RequireNoFollowOnLinks(true)
		policy.AddTargetBlankToFullyQualifiedLinks(true)
		inlinePolicy = policy
	})
	return inlinePolicy
}
