package listquery

import (
	"testing"
	"time"
)

type rec struct {
	Name   string
	Status string
	When   time.Time
}

var fixtures = []rec{
	{"Avery Johnson", "active", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
	{"Blake Ortiz", "inactive", time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)},
	{"carmen avery", "active", time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)},
}

func names(r rec) []string { return []string{r.Name} }

func TestTextCaseInsensitiveSubstring(t *testing.T) {
	got := Filter(fixtures, Text("AVERY", names))
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
}

func TestEmptyAndAllFiltersAreIdentity(t *testing.T) {
	for _, v := range []string{"", "all", "All"} {
		got := Filter(fixtures, Equals(v, func(r rec) string { return r.Status }), Text("", names))
		if len(got) != len(fixtures) {
			t.Errorf("filter %q: expected identity, got %d of %d", v, len(got), len(fixtures))
		}
	}
}

func TestPredicatesCombineWithAnd(t *testing.T) {
	got := Filter(fixtures,
		Text("avery", names),
		Equals("active", func(r rec) string { return r.Status }),
	)
	if len(got) != 2 {
		t.Fatalf("expected 2, got %d", len(got))
	}
	got = Filter(fixtures,
		Text("blake", names),
		Equals("active", func(r rec) string { return r.Status }),
	)
	if len(got) != 0 {
		t.Fatalf("expected 0, got %d", len(got))
	}
}

func TestDateRangeInclusive(t *testing.T) {
	from := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	got := Filter(fixtures, DateRange(&from, &to, func(r rec) time.Time { return r.When }))
	if len(got) != 2 {
		t.Fatalf("expected both boundary records, got %d", len(got))
	}
}

func TestSortToggle(t *testing.T) {
	s := Sort{}
	s = s.Toggle("name")
	if s.Field != "name" || s.Dir != Asc {
		t.Fatalf("new field should sort ascending, got %+v", s)
	}
	s = s.Toggle("name")
	if s.Dir != Desc {
		t.Fatalf("same field should flip to descending, got %+v", s)
	}
	s = s.Toggle("date")
	if s.Field != "date" || s.Dir != Asc {
		t.Fatalf("switching fields should reset to ascending, got %+v", s)
	}
}

func TestSortFromParams(t *testing.T) {
	s := SortFromParams("name", "desc", "")
	if s.Field != "name" || s.Dir != Desc {
		t.Fatalf("plain params: %+v", s)
	}
	s = SortFromParams("name", "asc", "name")
	if s.Field != "name" || s.Dir != Desc {
		t.Fatalf("toggling the current column should flip direction, got %+v", s)
	}
	s = SortFromParams("name", "desc", "date")
	if s.Field != "date" || s.Dir != Asc {
		t.Fatalf("toggling a new column should reset to ascending, got %+v", s)
	}
}

func TestSortStableDirections(t *testing.T) {
	items := append([]rec(nil), fixtures...)
	SortStable(items, Asc, func(a, b rec) bool { return CompareStrings(a.Name, b.Name) })
	if items[0].Name != "Avery Johnson" || items[2].Name != "carmen avery" {
		t.Fatalf("ascending case-folded order wrong: %+v", items)
	}
	SortStable(items, Desc, func(a, b rec) bool { return CompareStrings(a.Name, b.Name) })
	if items[0].Name != "carmen avery" {
		t.Fatalf("descending order wrong: %+v", items)
	}
}
