package reporting

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sirena/sirena/internal/domain/appointment"
	"github.com/sirena/sirena/internal/domain/authorization"
	"github.com/sirena/sirena/internal/domain/note"
)

func at(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func newTestService(auths []*authorization.Authorization, appts []*appointment.Appointment, notes []*note.Note) *Service {
	return NewService(
		authorization.NewService(authorization.NewRepoMem(auths), zerolog.Nop()),
		appointment.NewService(appointment.NewRepoMem(appts), nil, zerolog.Nop()),
		note.NewService(note.NewRepoMem(notes), nil, zerolog.Nop()),
		zerolog.Nop(),
	)
}

func TestAuthorizationUsageReport(t *testing.T) {
	now := at("2026-08-31T00:00:00Z")
	auths := []*authorization.Authorization{
		{ID: 1, ClientName: "Mia Alvarez", AuthNumber: "A-1", TotalUnits: 480, UsedUnits: 312,
			StartDate: at("2026-03-01T00:00:00Z"), EndDate: at("2026-09-15T00:00:00Z"),
			Status: authorization.StatusActive},
		{ID: 2, ClientName: "Noah Kim", AuthNumber: "A-2", TotalUnits: 400, UsedUnits: 400,
			StartDate: at("2026-02-15T00:00:00Z"), EndDate: at("2027-02-15T00:00:00Z"),
			Status: authorization.StatusExhausted},
	}
	s := newTestService(auths, nil, nil)

	report, err := s.AuthorizationUsageReport(context.Background(), now)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(report) != 2 {
		t.Fatalf("len = %d, want 2", len(report))
	}

	first := report[0]
	if first.PercentUsed != 65 || first.RemainingUnits != 168 {
		t.Errorf("utilization: percent=%d remaining=%d", first.PercentUsed, first.RemainingUnits)
	}
	if !first.ExpiresSoon {
		t.Error("authorization ending 2026-09-15 should be flagged on 2026-08-31")
	}

	second := report[1]
	if second.ExpiresSoon {
		t.Error("exhausted authorization should not be flagged as expiring")
	}
	if second.PercentUsed != 100 || second.RemainingUnits != 0 {
		t.Errorf("exhausted utilization: percent=%d remaining=%d", second.PercentUsed, second.RemainingUnits)
	}
}

func TestMissingNotesReport(t *testing.T) {
	now := at("2026-08-31T00:00:00Z")
	appts := []*appointment.Appointment{
		{ID: 1, ClientName: "Mia Alvarez", ProviderName: "Dana Reyes", SessionType: "aba_session",
			Start: at("2026-08-24T09:00:00Z"), End: at("2026-08-24T11:00:00Z"),
			Status: appointment.StatusCompleted},
		{ID: 2, ClientName: "Noah Kim", ProviderName: "Dana Reyes", SessionType: "aba_session",
			Start: at("2026-08-26T09:00:00Z"), End: at("2026-08-26T11:00:00Z"),
			Status: appointment.StatusCompleted},
		{ID: 3, ClientName: "Ava Okafor", ProviderName: "Sam Whitfield", SessionType: "assessment",
			Start: at("2026-08-27T09:00:00Z"), End: at("2026-08-27T11:00:00Z"),
			Status: appointment.StatusCancelled},
		{ID: 4, ClientName: "Ava Okafor", ProviderName: "Sam Whitfield", SessionType: "aba_session",
			Start: at("2026-08-20T09:00:00Z"), End: at("2026-08-20T11:00:00Z"),
			Status: appointment.StatusCompleted},
	}
	notes := []*note.Note{
		{ID: 1, AppointmentID: 1, ClientID: 1, ClientName: "Mia Alvarez",
			ProviderID: 2, ProviderName: "Dana Reyes",
			SessionDate: at("2026-08-24T09:00:00Z"), Status: note.StatusSigned},
	}
	s := newTestService(nil, appts, notes)

	report, err := s.MissingNotesReport(context.Background(), now)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(report) != 2 {
		t.Fatalf("len = %d, want 2 (only the completed sessions without notes)", len(report))
	}
	if report[0].AppointmentID != 4 || report[1].AppointmentID != 2 {
		t.Errorf("report not ordered oldest first: %d, %d", report[0].AppointmentID, report[1].AppointmentID)
	}
	if report[1].DaysOverdue != 4 {
		t.Errorf("days overdue = %d, want 4", report[1].DaysOverdue)
	}
}
