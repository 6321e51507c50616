package services

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strictPolicy strips all HTML from free-text form fields before they reach
// validation or storage.
var strictPolicy = bluemonday.StrictPolicy()

// CleanInput trims whitespace and removes any markup from user-supplied text.
func CleanInput(s string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(s))
}
