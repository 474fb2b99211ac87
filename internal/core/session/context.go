// Package session defines the per-request authentication context. The
// middleware resolves a bearer token into a Context before any handler runs,
// so a handler never observes the Unknown state.
package session

import "github.com/civicreport/civic-portal/internal/core/domain"

// State is the resolution state of a request's session.
type State int

const (
	// StateUnknown means resolution has not completed yet.
	StateUnknown State = iota
	// StateAnonymous means no valid session accompanied the request.
	StateAnonymous
	// StateAuthenticated means a session was resolved to a live identity.
	StateAuthenticated
)

// Context holds the resolved session for one request. The zero value is
// Unknown. Predicates are computed from the state on every call; nothing is
// cached beside it.
type Context struct {
	state State
	user  domain.User
}

// Anonymous returns a resolved context with no identity.
func Anonymous() Context {
	return Context{state: StateAnonymous}
}

// Authenticated returns a resolved context for the given sanitized identity.
func Authenticated(user domain.User) Context {
	return Context{state: StateAuthenticated, user: user.Sanitized()}
}

// State returns the resolution state.
func (c Context) State() State {
	return c.state
}

// User returns the authenticated identity, or false when the context is
// anonymous or unresolved.
func (c Context) User() (domain.User, bool) {
	if c.state != StateAuthenticated {
		return domain.User{}, false
	}
	return c.user, true
}

// Identity returns a pointer to the authenticated identity for use with the
// policy predicates, or nil for the unauthenticated case.
func (c Context) Identity() *domain.User {
	if c.state != StateAuthenticated {
		return nil
	}
	u := c.user
	return &u
}

func (c Context) IsAuthenticated() bool {
	return c.state == StateAuthenticated
}

func (c Context) IsAdmin() bool {
	return c.state == StateAuthenticated && c.user.Role == domain.RoleAdmin
}

func (c Context) IsCitizen() bool {
	return c.state == StateAuthenticated && c.user.Role == domain.RoleCitizen
}
