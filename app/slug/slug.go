// Package slug derives URL-safe post identifiers from titles.
package slug

import "strings"

// Make lower-cases the title, collapses every run of characters
// outside [a-z0-9] into a single hyphen and strips hyphens from both
// ends. It is total and idempotent; a title with no alphanumeric
// characters yields the empty string.
func Make(title string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}
