// Package policy holds the pure access rules gating issue visibility and
// mutation. Every predicate is total: a nil identity is the unauthenticated
// case and answers false, never panics.
package policy

import "github.com/civicreport/civic-portal/internal/core/domain"

// ReporterRedacted is the label shown in place of the reporter's name to
// viewers who may not see owner details.
const ReporterRedacted = "Citizen"

// ScopeAll is the department scope meaning "no department filter".
const ScopeAll = 0

// CanViewOwnerDetails reports whether identity may see who reported the issue.
// Admins see every reporter; citizens only see themselves.
func CanViewOwnerDetails(identity *domain.User, issue *domain.Issue) bool {
	if identity == nil || issue == nil {
		return false
	}
	return identity.Role == domain.RoleAdmin || identity.ID == issue.UserID
}

// CanMutateStatus reports whether identity may change the issue's status.
func CanMutateStatus(identity *domain.User, issue *domain.Issue) bool {
	if identity == nil || issue == nil {
		return false
	}
	return identity.Role == domain.RoleAdmin
}

// CanDelete reports whether identity may delete the issue. Admins always can;
// the reporter can withdraw their own issue while it is still submitted.
func CanDelete(identity *domain.User, issue *domain.Issue) bool {
	if identity == nil || issue == nil {
		return false
	}
	if identity.Role == domain.RoleAdmin {
		return true
	}
	return identity.ID == issue.UserID && issue.Status == domain.StatusSubmitted
}

// DefaultDepartmentScope returns the department id an admin's console filters
// by when no explicit filter is chosen: their own department when set,
// ScopeAll otherwise. Non-admins always get ScopeAll.
func DefaultDepartmentScope(identity *domain.User) int {
	if identity == nil || identity.Role != domain.RoleAdmin {
		return ScopeAll
	}
	return identity.DepartmentID
}
