package auditevent

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/sirena/sirena/internal/platform/middleware"
)

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger.With().Str("domain", "auditevent").Logger()}
}

// RecordAccess implements middleware.AccessRecorder, persisting one API
// access as an audit event.
func (s *Service) RecordAccess(entry middleware.AccessEntry) error {
	e := &Event{
		UserID:     entry.UserID,
		UserName:   entry.UserName,
		Resource:   entry.Resource,
		Action:     entry.Action,
		Method:     entry.Method,
		Path:       entry.Path,
		IPAddress:  entry.IPAddress,
		UserAgent:  entry.UserAgent,
		RequestID:  entry.RequestID,
		StatusCode: entry.StatusCode,
		OccurredAt: entry.Timestamp,
	}
	return s.repo.Append(context.Background(), e)
}

func (s *Service) Get(ctx context.Context, id int64) (*Event, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Search(ctx context.Context, q Query, limit, offset int) ([]*Event, int, int, error) {
	return s.repo.Search(ctx, q, limit, offset)
}
