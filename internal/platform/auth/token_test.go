package auth

import (
	"testing"
	"time"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestIssueAndVerify(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, "sirena", time.Hour)
	token, expiresAt, err := issuer.Issue("7", "Dana Reyes", []string{RoleProvider})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if time.Until(expiresAt) < 59*time.Minute {
		t.Errorf("unexpected expiry %v", expiresAt)
	}

	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "7" || claims.Name != "Dana Reyes" {
		t.Errorf("claims mismatch: %+v", claims)
	}
	if len(claims.Roles) != 1 || claims.Roles[0] != RoleProvider {
		t.Errorf("roles mismatch: %v", claims.Roles)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, "sirena", time.Hour)
	other := NewTokenIssuer([]byte("ffffffffffffffffffffffffffffffff"), "sirena", time.Hour)
	token, _, err := issuer.Issue("7", "Dana Reyes", nil)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := other.Verify(token); err == nil {
		t.Fatal("expected verification failure")
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, "sirena", -time.Minute)
	token, _, err := issuer.Issue("7", "Dana Reyes", nil)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := issuer.Verify(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}
