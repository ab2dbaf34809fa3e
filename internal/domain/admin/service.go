package admin

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sirena/sirena/internal/platform/auth"
	"github.com/sirena/sirena/pkg/fielderr"
)

// ErrBadCredentials covers both unknown accounts and wrong passwords so the
// login response never reveals which one it was.
var ErrBadCredentials = errors.New("invalid email or password")

var validRoles = map[string]bool{
	auth.RoleAdmin:      true,
	auth.RoleProvider:   true,
	auth.RoleSupervisor: true,
	auth.RoleBilling:    true,
}

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger.With().Str("domain", "admin").Logger()}
}

func (s *Service) validate(u *User, password string, creating bool) error {
	errs := fielderr.Errors{}
	if !strings.Contains(u.Email, "@") {
		errs["email"] = "a valid email is required"
	}
	if strings.TrimSpace(u.Name) == "" {
		errs["name"] = "name is required"
	}
	if !validRoles[u.Role] {
		errs["role"] = "invalid role: " + u.Role
	}
	if creating && len(password) < 8 {
		errs["password"] = "password must be at least 8 characters"
	}
	if errs.Any() {
		return errs
	}
	return nil
}

func (s *Service) Create(ctx context.Context, u *User, password string) (*User, error) {
	if err := s.validate(u, password, true); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByEmail(ctx, u.Email); err == nil {
		return nil, fielderr.Errors{"email": "email is already in use"}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = string(hash)
	u.Active = true
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("user_id", u.ID).Str("role", u.Role).Msg("user created")
	return u, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// Update edits profile fields. An empty password keeps the current one.
func (s *Service) Update(ctx context.Context, u *User, password string) (*User, error) {
	cur, err := s.repo.GetByID(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if err := s.validate(u, password, false); err != nil {
		return nil, err
	}
	u.PasswordHash = cur.PasswordHash
	if password != "" {
		if len(password) < 8 {
			return nil, fielderr.Errors{"password": "password must be at least 8 characters"}
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = string(hash)
	}
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Deactivate disables login without destroying the account's history.
func (s *Service) Deactivate(ctx context.Context, id int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Active = false
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("user_id", u.ID).Msg("user deactivated")
	return u, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Search(ctx context.Context, q Query, limit, offset int) ([]*User, int, int, error) {
	return s.repo.Search(ctx, q, limit, offset)
}

// Authenticate checks a login attempt and returns the account on success.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		// burn a comparison so unknown emails cost the same as bad passwords
		bcrypt.CompareHashAndPassword([]byte("$2a$10$0000000000000000000000000000000000000000000000000000"), []byte(password))
		return nil, ErrBadCredentials
	}
	if !u.Active {
		return nil, ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrBadCredentials
	}
	return u, nil
}

// SubjectID is the token subject for a user.
func (u *User) SubjectID() string {
	return strconv.FormatInt(u.ID, 10)
}
