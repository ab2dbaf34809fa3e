package admin

import (
	"context"

	"github.com/sirena/sirena/internal/platform/auth"
)

// EnsureSeedUsers creates the default staff accounts if the store has none.
// Passwords here are for local development; production stores start empty
// and accounts are created through the admin API.
func EnsureSeedUsers(ctx context.Context, s *Service) error {
	if _, _, total, err := s.Search(ctx, Query{}, 1, 0); err != nil || total > 0 {
		return err
	}
	seed := []struct {
		user     User
		password string
	}{
		{User{Email: "admin@sirena.local", Name: "Site Admin", Role: auth.RoleAdmin}, "sirena-admin"},
		{User{Email: "dana.reyes@sirena.local", Name: "Dana Reyes", Role: auth.RoleProvider, Credentials: "BCBA"}, "sirena-dana"},
		{User{Email: "sam.whitfield@sirena.local", Name: "Sam Whitfield", Role: auth.RoleSupervisor, Credentials: "BCBA-D"}, "sirena-sam1"},
		{User{Email: "billing@sirena.local", Name: "Robin Tran", Role: auth.RoleBilling}, "sirena-robin"},
	}
	for i := range seed {
		u := seed[i].user
		if _, err := s.Create(ctx, &u, seed[i].password); err != nil {
			return err
		}
	}
	return nil
}
