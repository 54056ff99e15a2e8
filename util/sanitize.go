package util

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

// XSSPolicy permits basic user-generated markup and strips anything
// scriptable.
var XSSPolicy = bluemonday.UGCPolicy()

// XSSSanitize cleans post and comment content before it is stored. The policy
// escapes what it keeps, so the result is unescaped back to plain text.
func XSSSanitize(val string) string {
	return html.UnescapeString(XSSPolicy.Sanitize(val))
}
