package notification

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/sirena/sirena/pkg/fielderr"
)

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger.With().Str("domain", "notification").Logger()}
}

// Notify creates a notification for a user. Other services call this when
// something needs the user's attention.
func (s *Service) Notify(ctx context.Context, userID, kind, title, body string) (*Notification, error) {
	errs := fielderr.Errors{}
	if userID == "" {
		errs["user_id"] = "user is required"
	}
	if title == "" {
		errs["title"] = "title is required"
	}
	if errs.Any() {
		return nil, errs
	}
	if kind == "" {
		kind = KindSystem
	}
	n := &Notification{UserID: userID, Kind: kind, Title: title, Body: body}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]*Notification, int, error) {
	return s.repo.ListForUser(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, userID string, id int64) error {
	return s.repo.MarkRead(ctx, userID, id)
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) (int, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *Service) Delete(ctx context.Context, userID string, id int64) error {
	return s.repo.Delete(ctx, userID, id)
}

func (s *Service) ClearAll(ctx context.Context, userID string) (int, error) {
	return s.repo.ClearAll(ctx, userID)
}
