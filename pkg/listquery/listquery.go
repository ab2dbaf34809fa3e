// Package listquery implements the filter/sort engine shared by every
// list-bearing API surface: independent predicates combined with AND
// semantics, and a single-key direction-toggling sort.
package listquery

import (
	"sort"
	"strings"
	"time"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort is the active sort key for a list view.
type Sort struct {
	Field string
	Dir   Direction
}

// Toggle returns the sort state after the user selects field: selecting the
// current field flips direction, selecting a new field resets to ascending.
func (s Sort) Toggle(field string) Sort {
	if s.Field == field {
		if s.Dir == Asc {
			return Sort{Field: field, Dir: Desc}
		}
		return Sort{Field: field, Dir: Asc}
	}
	return Sort{Field: field, Dir: Asc}
}

// SortFromParams builds the sort state from list query params. When toggle
// names a column, the sort advances as if that column header were selected:
// the current column flips direction, a new column resets to ascending.
func SortFromParams(field, dir, toggle string) Sort {
	s := Sort{Field: field, Dir: ParseDirection(dir)}
	if toggle != "" {
		return s.Toggle(toggle)
	}
	return s
}

// ParseDirection maps a query-param value to a Direction, defaulting to asc.
func ParseDirection(s string) Direction {
	if strings.EqualFold(s, string(Desc)) {
		return Desc
	}
	return Asc
}

// Predicate reports whether a record matches one filter. A nil Predicate is
// the identity (matches everything) and is skipped by Filter.
type Predicate[T any] func(T) bool

// Text returns a case-insensitive substring predicate over the given fields.
// An empty query is the identity predicate.
func Text[T any](query string, fields func(T) []string) Predicate[T] {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	return func(v T) bool {
		for _, f := range fields(v) {
			if strings.Contains(strings.ToLower(f), q) {
				return true
			}
		}
		return false
	}
}

// Equals returns an equality predicate over an enum/category field.
// Empty string and "all" are the identity predicate.
func Equals[T any](value string, field func(T) string) Predicate[T] {
	if value == "" || strings.EqualFold(value, "all") {
		return nil
	}
	return func(v T) bool {
		return strings.EqualFold(field(v), value)
	}
}

// DateRange returns an inclusive date-range predicate. Nil bounds are open.
func DateRange[T any](from, to *time.Time, field func(T) time.Time) Predicate[T] {
	if from == nil && to == nil {
		return nil
	}
	return func(v T) bool {
		d := field(v)
		if from != nil && d.Before(*from) {
			return false
		}
		if to != nil && d.After(*to) {
			return false
		}
		return true
	}
}

// Filter returns the records matching every non-nil predicate.
func Filter[T any](items []T, preds ...Predicate[T]) []T {
	out := make([]T, 0, len(items))
	for _, v := range items {
		ok := true
		for _, p := range preds {
			if p != nil && !p(v) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, v)
		}
	}
	return out
}

// SortStable sorts items in place by less, honoring dir. The sort is stable
// so records with equal keys keep their store order.
func SortStable[T any](items []T, dir Direction, less func(a, b T) bool) {
	if less == nil {
		return
	}
	if dir == Desc {
		sort.SliceStable(items, func(i, j int) bool { return less(items[j], items[i]) })
		return
	}
	sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })
}

// CompareStrings is a case-folded string comparison for sort keys.
func CompareStrings(a, b string) bool {
	return strings.ToLower(a) < strings.ToLower(b)
}
