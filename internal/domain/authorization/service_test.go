package authorization

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestService(seed []*Authorization) *Service {
	return NewService(NewRepoMem(seed), zerolog.Nop())
}

func grant() *Authorization {
	return &Authorization{
		ClientID: 1, ClientName: "Mia Alvarez", PayerName: "Aetna",
		AuthNumber: "AUTH-1", CPTCode: "97153", TotalUnits: 100,
		StartDate: at("2026-01-01"), EndDate: at("2026-12-31"),
	}
}

func TestRecordUsageAccumulates(t *testing.T) {
	ctx := context.Background()
	s := newTestService(nil)
	a, err := s.Create(ctx, grant())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := s.RecordUsage(ctx, a.ID, 30); err != nil {
		t.Fatalf("usage: %v", err)
	}
	if err := s.RecordUsage(ctx, a.ID, 20); err != nil {
		t.Fatalf("usage: %v", err)
	}
	got, _ := s.Get(ctx, a.ID)
	if got.UsedUnits != 50 {
		t.Errorf("used = %d, want 50", got.UsedUnits)
	}
	if got.RemainingUnits() != 50 {
		t.Errorf("remaining = %d, want 50", got.RemainingUnits())
	}
	if got.PercentUsed() != 50 {
		t.Errorf("percent = %d, want 50", got.PercentUsed())
	}
	if got.Status != StatusActive {
		t.Errorf("status = %q", got.Status)
	}
}

func TestExhaustionFlipsStatus(t *testing.T) {
	ctx := context.Background()
	s := newTestService(nil)
	a, _ := s.Create(ctx, grant())

	if err := s.RecordUsage(ctx, a.ID, 100); err != nil {
		t.Fatalf("usage: %v", err)
	}
	got, _ := s.Get(ctx, a.ID)
	if got.Status != StatusExhausted {
		t.Errorf("status = %q, want exhausted", got.Status)
	}
	if got.RemainingUnits() != 0 {
		t.Errorf("remaining = %d", got.RemainingUnits())
	}
}

func TestOverageIsRecordedButClamped(t *testing.T) {
	ctx := context.Background()
	s := newTestService(nil)
	a, _ := s.Create(ctx, grant())

	if err := s.RecordUsage(ctx, a.ID, 120); err != nil {
		t.Fatalf("usage: %v", err)
	}
	got, _ := s.Get(ctx, a.ID)
	if got.UsedUnits != 120 {
		t.Errorf("used = %d, overage must be kept for reporting", got.UsedUnits)
	}
	if got.RemainingUnits() != 0 {
		t.Errorf("remaining = %d, want 0", got.RemainingUnits())
	}
	if got.PercentUsed() != 100 {
		t.Errorf("percent = %d, want capped at 100", got.PercentUsed())
	}
}

func TestRecordUsageRejectsNonPositive(t *testing.T) {
	ctx := context.Background()
	s := newTestService(nil)
	a, _ := s.Create(ctx, grant())
	if err := s.RecordUsage(ctx, a.ID, 0); err == nil {
		t.Error("expected zero units to fail")
	}
	if err := s.RecordUsage(ctx, 999, 5); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown authorization: got %v, want ErrNotFound", err)
	}
}

func TestExpireStale(t *testing.T) {
	ctx := context.Background()
	s := newTestService(nil)
	old := grant()
	old.AuthNumber = "AUTH-OLD"
	old.EndDate = at("2026-06-30")
	s.Create(ctx, old)
	current := grant()
	current.AuthNumber = "AUTH-CUR"
	s.Create(ctx, current)

	n, err := s.ExpireStale(ctx, at("2026-08-31"))
	if err != nil {
		t.Fatalf("expire: %v", err)
	}
	if n != 1 {
		t.Fatalf("expired = %d, want 1", n)
	}
	items, _, _, _ := s.Search(ctx, Query{Status: StatusExpired}, 0, 0)
	if len(items) != 1 || items[0].AuthNumber != "AUTH-OLD" {
		t.Errorf("wrong authorization expired: %+v", items)
	}
}

func TestExpiresWithin(t *testing.T) {
	a := grant()
	a.EndDate = at("2026-09-15")
	now := at("2026-08-31")
	if !a.ExpiresWithin(now, 30*24*time.Hour) {
		t.Error("should report expiring within 30 days")
	}
	if a.ExpiresWithin(now, 7*24*time.Hour) {
		t.Error("should not report expiring within 7 days")
	}
}
