package authorization

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/sirena/sirena/pkg/fielderr"
)

var validStatuses = map[string]bool{
	StatusActive:    true,
	StatusExhausted: true,
	StatusExpired:   true,
}

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger.With().Str("domain", "authorization").Logger()}
}

func (s *Service) validate(a *Authorization) error {
	errs := fielderr.Errors{}
	if a.ClientID == 0 {
		errs["client_id"] = "client is required"
	}
	if a.AuthNumber == "" {
		errs["auth_number"] = "authorization number is required"
	}
	if a.TotalUnits <= 0 {
		errs["total_units"] = "total units must be positive"
	}
	if a.UsedUnits < 0 {
		errs["used_units"] = "used units cannot be negative"
	}
	if a.StartDate.IsZero() || a.EndDate.IsZero() {
		errs["start_date"] = "authorization window is required"
	} else if !a.EndDate.After(a.StartDate) {
		errs["end_date"] = "end date must be after start date"
	}
	if a.Status != "" && !validStatuses[a.Status] {
		errs["status"] = "invalid status: " + a.Status
	}
	if errs.Any() {
		return errs
	}
	return nil
}

func (s *Service) Create(ctx context.Context, a *Authorization) (*Authorization, error) {
	if a.Status == "" {
		a.Status = StatusActive
	}
	if err := s.validate(a); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("authorization_id", a.ID).Str("auth_number", a.AuthNumber).Msg("authorization created")
	return a, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Authorization, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, a *Authorization) (*Authorization, error) {
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

func (s *Service) Search(ctx context.Context, q Query, limit, offset int) ([]*Authorization, int, int, error) {
	return s.repo.Search(ctx, q, limit, offset)
}

// RecordUsage draws units down when a session completes. Usage past the
// approved block is still recorded so utilization reporting shows the
// overage, but the status flips to exhausted the moment the block is spent.
func (s *Service) RecordUsage(ctx context.Context, authorizationID int64, units int) error {
	if units <= 0 {
		return fielderr.Errors{"units": "units must be positive"}
	}
	a, err := s.repo.GetByID(ctx, authorizationID)
	if err != nil {
		return err
	}
	a.UsedUnits += units
	if a.UsedUnits >= a.TotalUnits && a.Status == StatusActive {
		a.Status = StatusExhausted
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return err
	}
	s.logger.Info().
		Int64("authorization_id", a.ID).
		Int("units", units).
		Int("used_units", a.UsedUnits).
		Int("total_units", a.TotalUnits).
		Msg("authorization usage recorded")
	return nil
}

// ExpireStale flips active authorizations whose window has closed. Returns
// the number of authorizations expired.
func (s *Service) ExpireStale(ctx context.Context, now time.Time) (int, error) {
	all, _, _, err := s.repo.Search(ctx, Query{Status: StatusActive}, 0, 0)
	if err != nil {
		return 0, err
	}
	expired := 0
	for _, a := range all {
		if a.EndDate.Before(now) {
			a.Status = StatusExpired
			if err := s.repo.Update(ctx, a); err != nil {
				return expired, err
			}
			expired++
		}
	}
	if expired > 0 {
		s.logger.Info().Int("count", expired).Msg("authorizations expired")
	}
	return expired, nil
}
