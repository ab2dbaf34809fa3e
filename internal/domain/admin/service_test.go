package admin

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sirena/sirena/internal/platform/auth"
	"github.com/sirena/sirena/pkg/fielderr"
)

func newTestService() *Service {
	return NewService(NewRepoMem(nil), zerolog.Nop())
}

func TestCreateHashesPassword(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	u, err := s.Create(ctx, &User{Email: "dana@clinic.test", Name: "Dana Reyes", Role: auth.RoleProvider}, "s3cret-pass")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.PasswordHash == "" || u.PasswordHash == "s3cret-pass" {
		t.Error("password stored without hashing")
	}
	if !u.Active {
		t.Error("new user should be active")
	}
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	s.Create(ctx, &User{Email: "dana@clinic.test", Name: "Dana", Role: auth.RoleProvider}, "s3cret-pass")
	_, err := s.Create(ctx, &User{Email: "DANA@clinic.test", Name: "Other", Role: auth.RoleProvider}, "s3cret-pass")
	var fe fielderr.Errors
	if !errors.As(err, &fe) {
		t.Fatalf("expected fielderr.Errors, got %v", err)
	}
	if _, ok := fe["email"]; !ok {
		t.Error("expected email error")
	}
}

func TestCreateRejectsShortPasswordAndBadRole(t *testing.T) {
	s := newTestService()
	_, err := s.Create(context.Background(), &User{Email: "x@y.test", Name: "X", Role: "owner"}, "short")
	var fe fielderr.Errors
	if !errors.As(err, &fe) {
		t.Fatalf("expected fielderr.Errors, got %v", err)
	}
	if _, ok := fe["password"]; !ok {
		t.Error("expected password error")
	}
	if _, ok := fe["role"]; !ok {
		t.Error("expected role error")
	}
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	s.Create(ctx, &User{Email: "dana@clinic.test", Name: "Dana Reyes", Role: auth.RoleProvider}, "s3cret-pass")

	u, err := s.Authenticate(ctx, "dana@clinic.test", "s3cret-pass")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if u.Name != "Dana Reyes" {
		t.Errorf("name = %q", u.Name)
	}

	if _, err := s.Authenticate(ctx, "dana@clinic.test", "wrong"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("wrong password: got %v", err)
	}
	if _, err := s.Authenticate(ctx, "nobody@clinic.test", "s3cret-pass"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("unknown email: got %v", err)
	}
}

func TestDeactivatedUserCannotLogin(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	u, _ := s.Create(ctx, &User{Email: "dana@clinic.test", Name: "Dana", Role: auth.RoleProvider}, "s3cret-pass")
	if _, err := s.Deactivate(ctx, u.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := s.Authenticate(ctx, "dana@clinic.test", "s3cret-pass"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("inactive login: got %v, want ErrBadCredentials", err)
	}
}

func TestUpdateKeepsPasswordWhenBlank(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	u, _ := s.Create(ctx, &User{Email: "dana@clinic.test", Name: "Dana", Role: auth.RoleProvider}, "s3cret-pass")

	edit := &User{ID: u.ID, Email: u.Email, Name: "Dana R.", Role: u.Role, Active: true}
	if _, err := s.Update(ctx, edit, ""); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := s.Authenticate(ctx, "dana@clinic.test", "s3cret-pass"); err != nil {
		t.Errorf("old password should still work: %v", err)
	}

	if _, err := s.Update(ctx, edit, "new-password1"); err != nil {
		t.Fatalf("update with password: %v", err)
	}
	if _, err := s.Authenticate(ctx, "dana@clinic.test", "new-password1"); err != nil {
		t.Errorf("new password should work: %v", err)
	}
}

func TestEnsureSeedUsersIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	if err := EnsureSeedUsers(ctx, s); err != nil {
		t.Fatalf("seed: %v", err)
	}
	_, _, first, _ := s.Search(ctx, Query{}, 0, 0)
	if first == 0 {
		t.Fatal("no users seeded")
	}
	if err := EnsureSeedUsers(ctx, s); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	_, _, second, _ := s.Search(ctx, Query{}, 0, 0)
	if second != first {
		t.Errorf("seed is not idempotent: %d then %d", first, second)
	}
}
