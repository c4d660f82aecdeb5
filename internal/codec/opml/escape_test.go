package opml_test

import (
	"testing"

	"opml-gardener/internal/codec/opml"
)

func TestEscapeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{input: "Arts & Culture", want: "Arts &amp; Culture"},
		{input: `Text with "quotes"`, want: "Text with &quot;quotes&quot;"},
		{input: "Text with 'apostrophe'", want: "Text with &apos;apostrophe&apos;"},
		{input: "Less <than>", want: "Less &lt;than&gt;"},
		{input: `Multiple & < > " ' symbols`, want: "Multiple &amp; &lt; &gt; &quot; &apos; symbols"},
		{input: "https://example.com/feed?a=1&b=2", want: "https://example.com/feed?a=1&amp;b=2"},
		{input: `<script>alert("XSS")</script>`, want: "&lt;script&gt;alert(&quot;XSS&quot;)&lt;/script&gt;"},
		{input: "plain text", want: "plain text"},
		{input: "", want: ""},
	}

	for _, tt := range tests {
		if got := opml.EscapeText(tt.input); got != tt.want {
			t.Errorf("EscapeText(%q)=%q, want %q", tt.input, got, tt.want)
		}
	}
}
