package opml

import "strings"

// escaper rewrites the five XML reserved characters as named entities in a
// single pass, so entities it emits are never rescanned into forms like
// &amp;lt;.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// EscapeText escapes a string for use in XML attribute values and
// element text.
func EscapeText(s string) string {
	return escaper.Replace(s)
}
