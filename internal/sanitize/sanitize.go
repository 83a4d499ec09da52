// Package sanitize renders assistant answers for inline display. The
// tour-guide API returns markdown-flavored text generated by a language
// model; it is converted to HTML and then stripped of everything outside a
// small formatting allowlist before it reaches a chat bubble.
package sanitize

import (
	"bytes"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	policy   *bluemonday.Policy
	markdown goldmark.Markdown
	initOnce sync.Once
)

// setup builds the shared markdown renderer and sanitization policy on
// first use. The renderer is configured unsafe (raw HTML passes through)
// precisely because bluemonday runs on its output; answers are prose, so
// only basic inline and block formatting survives, and scripts, event
// handlers, and javascript: URLs never do.
func setup() {
	initOnce.Do(func() {
		markdown = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		)

		policy = bluemonday.NewPolicy()
		policy.AllowElements(
			"p", "br", "em", "strong", "b", "i",
			"ul", "ol", "li", "blockquote", "code", "pre",
			"h3", "h4",
		)
		policy.AllowStandardURLs()
		policy.AllowAttrs("href").OnElements("a")
		policy.RequireNoFollowOnLinks(true)
	})
}

// Answer renders one assistant answer to sanitized HTML: markdown in,
// allowlisted markup out. A markdown parse failure falls back to
// sanitizing the raw text, so something always renders.
func Answer(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	setup()

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(input), &buf); err != nil {
		return strings.TrimSpace(policy.Sanitize(input))
	}

	return strings.TrimSpace(policy.SanitizeReader(&buf).String())
}
