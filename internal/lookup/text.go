package lookup

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// CleanText strips any markup an upstream embedded in a text field and
// collapses runs of whitespace.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	stripped := html.UnescapeString(strictPolicy.Sanitize(s))
	return CollapseSpace(stripped)
}

// CollapseSpace trims s and joins its words with single spaces. Use it for
// text that is already decoded, such as XML character data, where a literal
// "<" is content and not markup.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
