package auditevent

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sirena/sirena/internal/platform/middleware"
)

func TestRecordAccessAppends(t *testing.T) {
	s := NewService(NewRepoMem(), zerolog.Nop())

	err := s.RecordAccess(middleware.AccessEntry{
		UserID:     "u-1",
		UserName:   "Dana Reyes",
		Resource:   "clients",
		Action:     "read",
		Method:     "GET",
		Path:       "/api/v1/clients",
		StatusCode: 200,
		Timestamp:  time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	items, matched, storeTotal, err := s.Search(context.Background(), Query{}, 0, 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if matched != 1 || storeTotal != 1 {
		t.Fatalf("matched=%d storeTotal=%d", matched, storeTotal)
	}
	e := items[0]
	if e.ID == 0 || e.UserName != "Dana Reyes" || e.Resource != "clients" || e.Action != "read" {
		t.Errorf("event = %+v", e)
	}
}

func TestSearchFiltersByActionAndUser(t *testing.T) {
	s := NewService(NewRepoMem(), zerolog.Nop())
	entries := []middleware.AccessEntry{
		{UserID: "u-1", UserName: "Dana", Resource: "clients", Action: "read", Method: "GET", Path: "/api/v1/clients"},
		{UserID: "u-1", UserName: "Dana", Resource: "notes", Action: "update", Method: "PUT", Path: "/api/v1/notes/1"},
		{UserID: "u-2", UserName: "Sam", Resource: "clients", Action: "delete", Method: "DELETE", Path: "/api/v1/clients/4"},
	}
	for _, e := range entries {
		if err := s.RecordAccess(e); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	_, matched, _, _ := s.Search(context.Background(), Query{Action: "read"}, 0, 0)
	if matched != 1 {
		t.Errorf("action filter matched = %d, want 1", matched)
	}
	_, matched, _, _ = s.Search(context.Background(), Query{UserID: "u-1"}, 0, 0)
	if matched != 2 {
		t.Errorf("user filter matched = %d, want 2", matched)
	}
	_, matched, _, _ = s.Search(context.Background(), Query{Resource: "clients", UserID: "u-2"}, 0, 0)
	if matched != 1 {
		t.Errorf("combined filter matched = %d, want 1", matched)
	}
}

func TestEventsKeepInsertionOrder(t *testing.T) {
	s := NewService(NewRepoMem(), zerolog.Nop())
	for i := 0; i < 3; i++ {
		s.RecordAccess(middleware.AccessEntry{UserID: "u-1", Resource: "clients", Action: "read"})
	}
	items, _, _, _ := s.Search(context.Background(), Query{}, 0, 0)
	for i := 1; i < len(items); i++ {
		if items[i].ID != items[i-1].ID+1 {
			t.Errorf("ids not sequential: %d then %d", items[i-1].ID, items[i].ID)
		}
	}
}
