// Package markdown converts GitHub Markdown bodies to the HTML stored in
// ADO rich-text fields, and provides the best-effort reverse conversion
// used when comparing ADO content against a live GitHub issue.
package markdown

import (
	"bytes"
	"regexp"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/issuebridge/gitsync/internal/logging"
)

// converter is shared through a sync.Once because the configuration
// (extensions, options) never changes and goldmark instances are safe
// for concurrent use.
var (
	converterOnce sync.Once
	converter     goldmark.Markdown
)

func getConverter() goldmark.Markdown {
	converterOnce.Do(func() {
		converter = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		)
	})
	return converter
}

// ToHTML renders Markdown to HTML. Empty input yields an empty string so
// patch values are never absent.
func ToHTML(source string) string {
	if source == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := getConverter().Convert([]byte(source), &buf); err != nil {
		// goldmark only fails on writer errors, which a bytes.Buffer
		// cannot produce; guard anyway.
		logging.Warn("markdown conversion failed", "error", err)
		return ""
	}

	return strings.TrimSuffix(buf.String(), "\n")
}

var (
	brPattern  = regexp.MustCompile(`<br\s*/?>`)
	prePattern = regexp.MustCompile(`(?s)<pre[^>]*>.*?</pre>`)
)

// ToMarkdown is a best-effort equality check helper, not a guaranteed
// inverse of ToHTML. It collapses <br/>-style line breaks to newlines
// outside <pre> blocks and preserves <pre> content byte-for-byte, which
// is enough for content round-tripped through GitHub to compare equal
// when nothing changed. Broader Markdown fidelity (inline code, lists,
// links) is out of scope.
func ToMarkdown(html string) string {
	if html == "" {
		return ""
	}

	var out strings.Builder
	last := 0
	for _, loc := range prePattern.FindAllStringIndex(html, -1) {
		out.WriteString(brPattern.ReplaceAllString(html[last:loc[0]], "\n"))
		out.WriteString(html[loc[0]:loc[1]])
		last = loc[1]
	}
	out.WriteString(brPattern.ReplaceAllString(html[last:], "\n"))

	return out.String()
}
