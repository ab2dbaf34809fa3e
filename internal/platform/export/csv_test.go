package export

import (
	"strings"
	"testing"
)

func TestCSVBytesQuotesPerRFC4180(t *testing.T) {
	data, err := CSVBytes(
		[]string{"name", "note"},
		[][]string{{`Reyes, Dana`, `said "hi", left`}},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := string(data)
	if !strings.Contains(got, `"Reyes, Dana"`) {
		t.Errorf("comma field not quoted: %q", got)
	}
	if !strings.Contains(got, `"said ""hi"", left"`) {
		t.Errorf("embedded quotes not doubled: %q", got)
	}
}

func TestCSVBytesHeaderOnly(t *testing.T) {
	data, err := CSVBytes([]string{"a", "b"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(string(data)) != "a,b" {
		t.Errorf("unexpected output: %q", data)
	}
}
