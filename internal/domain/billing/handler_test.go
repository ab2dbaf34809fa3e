package billing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/sirena/sirena/internal/platform/auth"
)

func newTestServer(role string) *echo.Echo {
	e := echo.New()
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := context.WithValue(c.Request().Context(), auth.UserRolesKey, []string{role})
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})
	NewHandler(newTestService(DefaultSeed())).RegisterRoutes(e.Group("/api/v1"))
	return e
}

func get(e *echo.Echo, path string) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code
}

func TestBillingRoutesRequireBillingRole(t *testing.T) {
	cases := []struct {
		role string
		want int
	}{
		{auth.RoleBilling, http.StatusOK},
		{auth.RoleAdmin, http.StatusOK},
		{auth.RoleProvider, http.StatusForbidden},
		{auth.RoleSupervisor, http.StatusForbidden},
	}
	for _, tc := range cases {
		e := newTestServer(tc.role)
		if code := get(e, "/api/v1/billing/invoices"); code != tc.want {
			t.Errorf("role %s on invoices: status = %d, want %d", tc.role, code, tc.want)
		}
	}
}

func TestClaimRoutesShareTheBillingGate(t *testing.T) {
	if code := get(newTestServer(auth.RoleProvider), "/api/v1/billing/claims"); code != http.StatusForbidden {
		t.Errorf("provider on claims: status = %d, want 403", code)
	}
	if code := get(newTestServer(auth.RoleBilling), "/api/v1/billing/claims"); code != http.StatusOK {
		t.Errorf("billing on claims: status = %d, want 200", code)
	}
}
