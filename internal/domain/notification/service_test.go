package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func newTestService() *Service {
	return NewService(NewRepoMem(nil), zerolog.Nop())
}

func TestNotifyAndList(t *testing.T) {
	ctx := context.Background()
	s := newTestService()

	if _, err := s.Notify(ctx, "u-1", KindCosign, "Cosign requested", "Note #4 needs your signature"); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if _, err := s.Notify(ctx, "u-1", KindAuthExpiry, "Authorization expiring", ""); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if _, err := s.Notify(ctx, "u-2", KindSystem, "Welcome", ""); err != nil {
		t.Fatalf("notify: %v", err)
	}

	items, unread, err := s.List(ctx, "u-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 || unread != 2 {
		t.Fatalf("len=%d unread=%d, want 2/2", len(items), unread)
	}
	for _, n := range items {
		if n.UserID != "u-1" {
			t.Errorf("leaked notification for %q", n.UserID)
		}
	}
}

func TestMarkReadIsScopedToUser(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	n, _ := s.Notify(ctx, "u-1", KindSystem, "Hello", "")

	if err := s.MarkRead(ctx, "u-2", n.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("cross-user mark read: got %v, want ErrNotFound", err)
	}
	if err := s.MarkRead(ctx, "u-1", n.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	_, unread, _ := s.List(ctx, "u-1")
	if unread != 0 {
		t.Errorf("unread = %d, want 0", unread)
	}
}

func TestMarkAllReadAndClearAll(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	for i := 0; i < 3; i++ {
		s.Notify(ctx, "u-1", KindSystem, "msg", "")
	}
	s.Notify(ctx, "u-2", KindSystem, "other", "")

	marked, err := s.MarkAllRead(ctx, "u-1")
	if err != nil {
		t.Fatalf("mark all: %v", err)
	}
	if marked != 3 {
		t.Errorf("marked = %d, want 3", marked)
	}

	cleared, err := s.ClearAll(ctx, "u-1")
	if err != nil {
		t.Fatalf("clear all: %v", err)
	}
	if cleared != 3 {
		t.Errorf("cleared = %d, want 3", cleared)
	}
	items, _, _ := s.List(ctx, "u-1")
	if len(items) != 0 {
		t.Errorf("len = %d after clear", len(items))
	}
	others, _, _ := s.List(ctx, "u-2")
	if len(others) != 1 {
		t.Errorf("other user's notifications were cleared")
	}
}

func TestNotifyRequiresUserAndTitle(t *testing.T) {
	s := newTestService()
	if _, err := s.Notify(context.Background(), "", "", "", ""); err == nil {
		t.Error("expected validation error")
	}
}
