package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sirena/sirena/pkg/fielderr"
)

type usageSpy struct {
	authID int64
	units  int
	calls  int
}

func (u *usageSpy) RecordUsage(_ context.Context, authorizationID int64, units int) error {
	u.authID = authorizationID
	u.units = units
	u.calls++
	return nil
}

func newTestService(seed []*Appointment, usage UsageRecorder) *Service {
	return NewService(NewRepoMem(seed), usage, zerolog.Nop())
}

func scheduled() *Appointment {
	return &Appointment{
		ClientID: 1, ClientName: "Mia Alvarez", ProviderID: 2, ProviderName: "Dana Reyes",
		SessionType: TypeABASession,
		Start:       at("2026-09-01T09:00:00Z"), End: at("2026-09-01T11:00:00Z"),
		Units: 8, AuthorizationID: 5,
	}
}

func TestCreateValidation(t *testing.T) {
	s := newTestService(nil, nil)
	a := scheduled()
	a.ClientID = 0
	a.End = a.Start.Add(-time.Hour)
	_, err := s.Create(context.Background(), a)
	var fe fielderr.Errors
	if !errors.As(err, &fe) {
		t.Fatalf("expected fielderr.Errors, got %v", err)
	}
	if _, ok := fe["client_id"]; !ok {
		t.Error("expected client_id error")
	}
	if _, ok := fe["end"]; !ok {
		t.Error("expected end error")
	}
}

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{StatusScheduled, StatusCompleted, true},
		{StatusScheduled, StatusCancelled, true},
		{StatusScheduled, StatusNoShow, true},
		{StatusCompleted, StatusScheduled, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusCompleted, false},
		{StatusNoShow, StatusScheduled, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.ok {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.ok)
		}
	}
}

func TestCompleteRecordsAuthorizationUsage(t *testing.T) {
	ctx := context.Background()
	spy := &usageSpy{}
	s := newTestService(nil, spy)
	a, err := s.Create(ctx, scheduled())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.UpdateStatus(ctx, a.ID, StatusCompleted)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Errorf("status = %q", got.Status)
	}
	if spy.calls != 1 || spy.authID != 5 || spy.units != 8 {
		t.Errorf("usage recorded %+v, want 1 call with auth 5 / 8 units", spy)
	}
}

func TestCancelDoesNotRecordUsage(t *testing.T) {
	ctx := context.Background()
	spy := &usageSpy{}
	s := newTestService(nil, spy)
	a, _ := s.Create(ctx, scheduled())

	if _, err := s.UpdateStatus(ctx, a.ID, StatusCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if spy.calls != 0 {
		t.Errorf("usage recorded on cancel")
	}
}

func TestCompletedIsTerminal(t *testing.T) {
	ctx := context.Background()
	s := newTestService(nil, nil)
	a, _ := s.Create(ctx, scheduled())
	if _, err := s.UpdateStatus(ctx, a.ID, StatusCompleted); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, err := s.UpdateStatus(ctx, a.ID, StatusCancelled); err == nil {
		t.Error("expected transition out of completed to fail")
	}
}

func TestRescheduleResetsStatusAndSlot(t *testing.T) {
	ctx := context.Background()
	s := newTestService(nil, nil)
	a, _ := s.Create(ctx, scheduled())
	if _, err := s.UpdateStatus(ctx, a.ID, StatusNoShow); err != nil {
		t.Fatalf("no_show: %v", err)
	}

	start := at("2026-09-03T09:00:00Z")
	end := at("2026-09-03T11:00:00Z")
	got, err := s.Reschedule(ctx, a.ID, start, end)
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if got.Status != StatusScheduled {
		t.Errorf("status = %q, want scheduled", got.Status)
	}
	if !got.Start.Equal(start) || !got.End.Equal(end) {
		t.Errorf("slot = %v..%v", got.Start, got.End)
	}
	if got.ClientID != a.ClientID || got.CPTCode != a.CPTCode || got.Units != a.Units {
		t.Error("reschedule should preserve everything but the slot")
	}
}

func TestUpdatePreservesStoredStatus(t *testing.T) {
	ctx := context.Background()
	s := newTestService(nil, nil)
	a, _ := s.Create(ctx, scheduled())
	if _, err := s.UpdateStatus(ctx, a.ID, StatusCompleted); err != nil {
		t.Fatalf("complete: %v", err)
	}

	edit := *a
	edit.Location = "Telehealth"
	edit.Status = StatusScheduled // must be ignored
	got, err := s.Update(ctx, &edit)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Errorf("status = %q, edits must not move the lifecycle", got.Status)
	}
	if got.Location != "Telehealth" {
		t.Errorf("location = %q", got.Location)
	}
}

func TestSearchDateRange(t *testing.T) {
	s := newTestService(DefaultSeed(), nil)
	from := at("2026-08-24T00:00:00Z")
	to := at("2026-08-25T23:59:59Z")
	items, matched, storeTotal, err := s.Search(context.Background(), Query{From: &from, To: &to}, 0, 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if storeTotal != 4 {
		t.Errorf("storeTotal = %d, want 4", storeTotal)
	}
	if matched != 2 {
		t.Fatalf("matched = %d, want 2", matched)
	}
	for _, a := range items {
		if a.Start.Before(from) || a.Start.After(to) {
			t.Errorf("appointment %d outside range: %v", a.ID, a.Start)
		}
	}
}
