package handler

import "github.com/civicreport/civic-portal/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Phone    string `json:"phone"    validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
	Location string `json:"location" validate:"required"`
	Address  string `json:"address"  validate:"required"`
}

// loginRequest is deliberately not schema-validated: empty fields are
// rejected by the credential service, and a malformed email is just an
// unknown one. Both failure modes stay indistinguishable from a wrong
// password at the surface.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// updateProfileRequest carries PATCH semantics: nil fields stay unchanged.
type updateProfileRequest struct {
	Name     *string `json:"name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Location *string `json:"location,omitempty"`
	Address  *string `json:"address,omitempty"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}
