// Package fielderr carries per-field validation failures from services to
// the HTTP edge, where they are rendered beneath the offending inputs.
package fielderr

import (
	"sort"
	"strings"
)

// Errors maps field names to human-readable validation messages.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Any reports whether any field failed validation.
func (e Errors) Any() bool {
	return len(e) > 0
}
