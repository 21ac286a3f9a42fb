package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHTML(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		contains string
	}{
		{
			name:     "Plain paragraph",
			input:    "hello world",
			contains: "<p>hello world</p>",
		},
		{
			name:     "Heading",
			input:    "# Title",
			contains: "<h1>Title</h1>",
		},
		{
			name:     "Emphasis",
			input:    "some *emphasis* here",
			contains: "<em>emphasis</em>",
		},
		{
			name:     "Fenced code block",
			input:    "```\ncode here\n```",
			contains: "<pre><code>code here\n</code></pre>",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			html := ToHTML(tc.input)
			assert.Contains(t, html, tc.contains)
		})
	}
}

func TestToHTMLEmptyInput(t *testing.T) {
	// absent body must yield an empty patch value, never a missing one
	assert.Equal(t, "", ToHTML(""))
}

func TestToHTMLDeterministic(t *testing.T) {
	input := "# Title\n\nbody with `code` and *emphasis*"
	first := ToHTML(input)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ToHTML(input))
	}
}

func TestToMarkdownCollapsesLineBreaks(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Self-closing break",
			input:    "line one<br/>line two",
			expected: "line one\nline two",
		},
		{
			name:     "Break with space",
			input:    "line one<br />line two",
			expected: "line one\nline two",
		},
		{
			name:     "Bare break",
			input:    "line one<br>line two",
			expected: "line one\nline two",
		},
		{
			name:     "Empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "No breaks",
			input:    "<p>unchanged</p>",
			expected: "<p>unchanged</p>",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ToMarkdown(tc.input))
		})
	}
}

func TestToMarkdownPreservesPreBlocks(t *testing.T) {
	// breaks inside <pre> blocks must survive untouched so code content
	// compares byte-for-byte
	input := "before<br/><pre><code>a<br/>b</code></pre>after<br/>end"
	expected := "before\n<pre><code>a<br/>b</code></pre>after\nend"

	assert.Equal(t, expected, ToMarkdown(input))
}

func TestToMarkdownMultiplePreBlocks(t *testing.T) {
	input := "<pre>x<br/>y</pre>mid<br/>dle<pre class=\"hl\">z<br></pre>"
	got := ToMarkdown(input)

	assert.Contains(t, got, "<pre>x<br/>y</pre>")
	assert.Contains(t, got, "<pre class=\"hl\">z<br></pre>")
	assert.Contains(t, got, "mid\ndle")
	assert.Equal(t, 2, strings.Count(got, "<pre"))
}
