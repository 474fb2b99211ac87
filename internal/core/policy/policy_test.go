package policy

import (
	"testing"

	"github.com/civicreport/civic-portal/internal/core/domain"
)

func TestCanViewOwnerDetails_Admin(t *testing.T) {
	admin := &domain.User{ID: "u9", Role: domain.RoleAdmin}
	issue := &domain.Issue{ID: "i1", UserID: "u1"}

	if !CanViewOwnerDetails(admin, issue) {
		t.Fatalf("admin should see owner details")
	}
}

func TestCanViewOwnerDetails_Owner(t *testing.T) {
	owner := &domain.User{ID: "u1", Role: domain.RoleCitizen}
	issue := &domain.Issue{ID: "i1", UserID: "u1"}

	if !CanViewOwnerDetails(owner, issue) {
		t.Fatalf("owner should see their own details")
	}
}

func TestCanViewOwnerDetails_OtherCitizen(t *testing.T) {
	other := &domain.User{ID: "u2", Role: domain.RoleCitizen}
	issue := &domain.Issue{ID: "i1", UserID: "u1"}

	if CanViewOwnerDetails(other, issue) {
		t.Fatalf("unrelated citizen should not see owner details")
	}
}

func TestCanViewOwnerDetails_NilIdentity(t *testing.T) {
	issue := &domain.Issue{ID: "i1", UserID: "u1"}

	if CanViewOwnerDetails(nil, issue) {
		t.Fatalf("nil identity must be treated as unauthenticated")
	}
	if CanViewOwnerDetails(nil, nil) {
		t.Fatalf("nil issue must not panic or allow")
	}
}

func TestCanMutateStatus(t *testing.T) {
	issue := &domain.Issue{ID: "i1", UserID: "u1"}

	if !CanMutateStatus(&domain.User{ID: "u9", Role: domain.RoleAdmin}, issue) {
		t.Fatalf("admin should mutate status")
	}
	if CanMutateStatus(&domain.User{ID: "u1", Role: domain.RoleCitizen}, issue) {
		t.Fatalf("owner citizen should not mutate status")
	}
	if CanMutateStatus(nil, issue) {
		t.Fatalf("nil identity should not mutate status")
	}
}

func TestCanDelete(t *testing.T) {
	submitted := &domain.Issue{ID: "i1", UserID: "u1", Status: domain.StatusSubmitted}
	inProgress := &domain.Issue{ID: "i2", UserID: "u1", Status: domain.StatusInProgress}
	owner := &domain.User{ID: "u1", Role: domain.RoleCitizen}
	admin := &domain.User{ID: "u9", Role: domain.RoleAdmin}

	if !CanDelete(owner, submitted) {
		t.Fatalf("owner should withdraw a submitted issue")
	}
	if CanDelete(owner, inProgress) {
		t.Fatalf("owner should not delete once triage started")
	}
	if !CanDelete(admin, inProgress) {
		t.Fatalf("admin should delete any issue")
	}
}

func TestDefaultDepartmentScope(t *testing.T) {
	if got := DefaultDepartmentScope(&domain.User{Role: domain.RoleAdmin, DepartmentID: 3}); got != 3 {
		t.Fatalf("expected scope 3, got %d", got)
	}
	if got := DefaultDepartmentScope(&domain.User{Role: domain.RoleAdmin}); got != ScopeAll {
		t.Fatalf("admin without department should default to all, got %d", got)
	}
	if got := DefaultDepartmentScope(&domain.User{Role: domain.RoleCitizen, DepartmentID: 3}); got != ScopeAll {
		t.Fatalf("citizen scope should be all, got %d", got)
	}
	if got := DefaultDepartmentScope(nil); got != ScopeAll {
		t.Fatalf("nil identity scope should be all, got %d", got)
	}
}
