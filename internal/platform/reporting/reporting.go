// Package reporting assembles cross-domain read models: authorization
// utilization and sessions that completed without a note.
package reporting

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/sirena/sirena/internal/domain/appointment"
	"github.com/sirena/sirena/internal/domain/authorization"
	"github.com/sirena/sirena/internal/domain/note"
)

// ExpirySoonWindow is how far ahead the utilization report looks for
// authorizations about to lapse.
const ExpirySoonWindow = 30 * 24 * time.Hour

type Service struct {
	authorizations *authorization.Service
	appointments   *appointment.Service
	notes          *note.Service
	logger         zerolog.Logger
}

func NewService(auths *authorization.Service, appts *appointment.Service, notes *note.Service, logger zerolog.Logger) *Service {
	return &Service{
		authorizations: auths,
		appointments:   appts,
		notes:          notes,
		logger:         logger.With().Str("component", "reporting").Logger(),
	}
}

// AuthorizationUsage is one row of the utilization report.
type AuthorizationUsage struct {
	AuthorizationID int64     `json:"authorization_id"`
	ClientName      string    `json:"client_name"`
	PayerName       string    `json:"payer_name"`
	AuthNumber      string    `json:"auth_number"`
	CPTCode         string    `json:"cpt_code"`
	UsedUnits       int       `json:"used_units"`
	TotalUnits      int       `json:"total_units"`
	RemainingUnits  int       `json:"remaining_units"`
	PercentUsed     int       `json:"percent_used"`
	EndDate         time.Time `json:"end_date"`
	ExpiresSoon     bool      `json:"expires_soon"`
	Status          string    `json:"status"`
}

// AuthorizationUsageReport builds the utilization report for every
// authorization, flagging the ones whose window closes within
// ExpirySoonWindow of now.
func (s *Service) AuthorizationUsageReport(ctx context.Context, now time.Time) ([]AuthorizationUsage, error) {
	auths, _, _, err := s.authorizations.Search(ctx, authorization.Query{}, 0, 0)
	if err != nil {
		return nil, err
	}
	report := make([]AuthorizationUsage, 0, len(auths))
	for _, a := range auths {
		report = append(report, AuthorizationUsage{
			AuthorizationID: a.ID,
			ClientName:      a.ClientName,
			PayerName:       a.PayerName,
			AuthNumber:      a.AuthNumber,
			CPTCode:         a.CPTCode,
			UsedUnits:       a.UsedUnits,
			TotalUnits:      a.TotalUnits,
			RemainingUnits:  a.RemainingUnits(),
			PercentUsed:     a.PercentUsed(),
			EndDate:         a.EndDate,
			ExpiresSoon:     a.Status == authorization.StatusActive && a.ExpiresWithin(now, ExpirySoonWindow),
			Status:          a.Status,
		})
	}
	return report, nil
}

// MissingNote is one completed session without a matching session note.
type MissingNote struct {
	AppointmentID int64     `json:"appointment_id"`
	ClientName    string    `json:"client_name"`
	ProviderName  string    `json:"provider_name"`
	SessionType   string    `json:"session_type"`
	Start         time.Time `json:"start"`
	DaysOverdue   int       `json:"days_overdue"`
}

// MissingNotesReport lists completed appointments that have no note linked to
// them, oldest first.
func (s *Service) MissingNotesReport(ctx context.Context, now time.Time) ([]MissingNote, error) {
	appts, _, _, err := s.appointments.Search(ctx, appointment.Query{Status: appointment.StatusCompleted}, 0, 0)
	if err != nil {
		return nil, err
	}
	notes, _, _, err := s.notes.Search(ctx, note.Query{}, 0, 0)
	if err != nil {
		return nil, err
	}
	noted := make(map[int64]bool, len(notes))
	for _, n := range notes {
		if n.AppointmentID != 0 {
			noted[n.AppointmentID] = true
		}
	}

	report := make([]MissingNote, 0)
	for _, a := range appts {
		if noted[a.ID] {
			continue
		}
		overdue := int(now.Sub(a.Start).Hours() / 24)
		if overdue < 0 {
			overdue = 0
		}
		report = append(report, MissingNote{
			AppointmentID: a.ID,
			ClientName:    a.ClientName,
			ProviderName:  a.ProviderName,
			SessionType:   a.SessionType,
			Start:         a.Start,
			DaysOverdue:   overdue,
		})
	}
	sort.Slice(report, func(i, j int) bool { return report[i].Start.Before(report[j].Start) })
	return report, nil
}
