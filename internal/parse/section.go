// Package parse turns free-form model output into structured campaign data.
//
// Every function in this package is total: malformed input degrades to a
// documented fallback value, never an error. The raw text is retained on the
// parsed records so irregular responses can be inspected after the fact.
package parse

import "strings"

// Section returns the text strictly between the first occurrence of start
// and the first occurrence of end after it. It returns "" when either marker
// is absent.
func Section(text, start, end string) string {
	i := strings.Index(text, start)
	if i < 0 {
		return ""
	}
	rest := text[i+len(start):]
	j := strings.Index(rest, end)
	if j < 0 {
		return ""
	}
	return rest[:j]
}
