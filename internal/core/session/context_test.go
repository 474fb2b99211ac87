package session

import (
	"testing"

	"github.com/civicreport/civic-portal/internal/core/domain"
)

func TestZeroValueIsUnknown(t *testing.T) {
	var c Context
	if c.State() != StateUnknown {
		t.Fatalf("zero value should be Unknown, got %v", c.State())
	}
	if c.IsAuthenticated() || c.IsAdmin() || c.IsCitizen() {
		t.Fatalf("unresolved context must answer false to all predicates")
	}
	if _, ok := c.User(); ok {
		t.Fatalf("unresolved context should expose no user")
	}
}

func TestAnonymous(t *testing.T) {
	c := Anonymous()
	if c.State() != StateAnonymous {
		t.Fatalf("expected Anonymous state, got %v", c.State())
	}
	if c.IsAuthenticated() {
		t.Fatalf("anonymous context must not be authenticated")
	}
	if c.Identity() != nil {
		t.Fatalf("anonymous identity must be nil")
	}
}

func TestAuthenticated(t *testing.T) {
	c := Authenticated(domain.User{ID: "u1", Role: domain.RoleCitizen, PasswordHash: "x"})

	if !c.IsAuthenticated() || !c.IsCitizen() || c.IsAdmin() {
		t.Fatalf("predicates inconsistent with citizen identity")
	}
	u, ok := c.User()
	if !ok || u.ID != "u1" {
		t.Fatalf("expected user u1, got %+v ok=%v", u, ok)
	}
	if u.PasswordHash != "" {
		t.Fatalf("context must hold sanitized identity only")
	}
}

func TestAuthenticatedAdmin(t *testing.T) {
	c := Authenticated(domain.User{ID: "u9", Role: domain.RoleAdmin})
	if !c.IsAdmin() || c.IsCitizen() {
		t.Fatalf("admin predicates wrong")
	}
	if c.Identity() == nil {
		t.Fatalf("identity pointer should be set")
	}
}
