package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richTextPolicy  = bluemonday.UGCPolicy()
	plainTextPolicy = bluemonday.StrictPolicy()
)

// SanitizeRichText keeps the formatting the listing editor produces and
// strips scripts, event handlers and javascript: links.
func SanitizeRichText(input string) string {
	return strings.TrimSpace(richTextPolicy.Sanitize(input))
}

// SanitizePlainText removes all markup from user-submitted text. The result
// is stored unescaped; escaping is left to whatever renders it.
func SanitizePlainText(input string) string {
	return strings.TrimSpace(html.UnescapeString(plainTextPolicy.Sanitize(input)))
}
