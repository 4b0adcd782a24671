package validation

import "strings"

var angleBrackets = strings.NewReplacer("<", "", ">", "")

// Sanitizer is implemented by request bodies that clean their own fields
// before validation.
type Sanitizer interface {
	Sanitize()
}

// Clean strips angle brackets and surrounding whitespace.
func Clean(s string) string {
	return strings.TrimSpace(angleBrackets.Replace(s))
}
