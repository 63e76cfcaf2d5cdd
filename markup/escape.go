package markup

import "strings"

var escaper = strings.NewReplacer(`\`, `\\`, `[`, `\[`, `]`, `\]`)

// Escape quotes s so that it parses back to itself as plain text.
func Escape(s string) string {
	return escaper.Replace(s)
}
