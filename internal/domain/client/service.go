package client

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sirena/sirena/pkg/fielderr"
)

var validStatuses = map[string]bool{
	StatusActive:   true,
	StatusInactive: true,
	StatusPending:  true,
}

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger.With().Str("domain", "client").Logger()}
}

func (s *Service) validate(c *Client) error {
	errs := fielderr.Errors{}
	if strings.TrimSpace(c.FirstName) == "" {
		errs["first_name"] = "first name is required"
	}
	if strings.TrimSpace(c.LastName) == "" {
		errs["last_name"] = "last name is required"
	}
	if strings.TrimSpace(c.DOB) == "" {
		errs["dob"] = "date of birth is required"
	}
	if c.Status != "" && !validStatuses[c.Status] {
		errs["status"] = "invalid status: " + c.Status
	}
	if errs.Any() {
		return errs
	}
	return nil
}

func (s *Service) Create(ctx context.Context, c *Client) (*Client, error) {
	if c.Status == "" {
		c.Status = StatusActive
	}
	if err := s.validate(c); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("client_id", c.ID).Msg("client created")
	return c, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Client, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, c *Client) (*Client, error) {
	if err := s.validate(c); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("client_id", c.ID).Msg("client updated")
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("client_id", id).Msg("client deleted")
	return nil
}

func (s *Service) Search(ctx context.Context, q Query, limit, offset int) ([]*Client, int, int, error) {
	return s.repo.Search(ctx, q, limit, offset)
}
