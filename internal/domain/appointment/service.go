package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sirena/sirena/pkg/fielderr"
)

var validTypes = map[string]bool{
	TypeABASession:     true,
	TypeParentTraining: true,
	TypeAssessment:     true,
	TypeSupervision:    true,
}

var validStatuses = map[string]bool{
	StatusScheduled: true,
	StatusCompleted: true,
	StatusCancelled: true,
	StatusNoShow:    true,
}

// UsageRecorder consumes units against a service authorization when a
// session completes.
type UsageRecorder interface {
	RecordUsage(ctx context.Context, authorizationID int64, units int) error
}

type Service struct {
	repo   Repository
	usage  UsageRecorder
	logger zerolog.Logger
}

// NewService builds the appointment service. usage may be nil when no
// authorization tracking is wired in.
func NewService(repo Repository, usage UsageRecorder, logger zerolog.Logger) *Service {
	return &Service{repo: repo, usage: usage, logger: logger.With().Str("domain", "appointment").Logger()}
}

func (s *Service) validate(a *Appointment) error {
	errs := fielderr.Errors{}
	if a.ClientID == 0 {
		errs["client_id"] = "client is required"
	}
	if a.ProviderID == 0 {
		errs["provider_id"] = "provider is required"
	}
	if !validTypes[a.SessionType] {
		errs["session_type"] = "invalid session type: " + a.SessionType
	}
	if a.Start.IsZero() {
		errs["start"] = "start time is required"
	}
	if !a.Start.IsZero() && !a.End.After(a.Start) {
		errs["end"] = "end must be after start"
	}
	if a.Units < 0 {
		errs["units"] = "units cannot be negative"
	}
	if a.Status != "" && !validStatuses[a.Status] {
		errs["status"] = "invalid status: " + a.Status
	}
	if errs.Any() {
		return errs
	}
	return nil
}

func (s *Service) Create(ctx context.Context, a *Appointment) (*Appointment, error) {
	if a.Status == "" {
		a.Status = StatusScheduled
	}
	if err := s.validate(a); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("appointment_id", a.ID).Time("start", a.Start).Msg("appointment created")
	return a, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

// Update edits appointment details without moving it through the lifecycle:
// the stored status always wins over whatever the caller sent.
func (s *Service) Update(ctx context.Context, a *Appointment) (*Appointment, error) {
	cur, err := s.repo.GetByID(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	a.Status = cur.Status
	if err := s.validate(a); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Search(ctx context.Context, q Query, limit, offset int) ([]*Appointment, int, int, error) {
	return s.repo.Search(ctx, q, limit, offset)
}

// UpdateStatus moves the appointment to a new lifecycle state. Completing a
// session consumes its units against the linked authorization.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !validStatuses[status] {
		return nil, fielderr.Errors{"status": "invalid status: " + status}
	}
	if !CanTransition(a.Status, status) {
		return nil, fielderr.Errors{"status": fmt.Sprintf("cannot move appointment from %s to %s", a.Status, status)}
	}
	a.Status = status
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	if status == StatusCompleted && s.usage != nil && a.AuthorizationID != 0 && a.Units > 0 {
		if err := s.usage.RecordUsage(ctx, a.AuthorizationID, a.Units); err != nil {
			s.logger.Warn().Err(err).
				Int64("appointment_id", a.ID).
				Int64("authorization_id", a.AuthorizationID).
				Msg("could not record authorization usage")
		}
	}
	s.logger.Info().Int64("appointment_id", a.ID).Str("status", status).Msg("appointment status changed")
	return a, nil
}

// Reschedule replaces the time slot and returns the appointment to the
// calendar. Everything else about the record is preserved.
func (s *Service) Reschedule(ctx context.Context, id int64, start, end time.Time) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !end.After(start) {
		return nil, fielderr.Errors{"end": "end must be after start"}
	}
	a.Start = start
	a.End = end
	a.Status = StatusScheduled
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("appointment_id", a.ID).Time("start", start).Msg("appointment rescheduled")
	return a, nil
}
