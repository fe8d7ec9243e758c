package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strictPolicy strips every HTML element. Free-text fields such as property
// descriptions and tenant notes are stored as plain text only.
var strictPolicy = bluemonday.StrictPolicy()

// SanitizeText strips HTML from user-supplied free text and trims surrounding
// whitespace. Entities escaped by the policy are decoded back so that plain
// characters like & and ' survive the round trip.
func SanitizeText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}
