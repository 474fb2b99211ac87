package domain

import (
	"errors"
	"time"
)

// IssueStatus represents the lifecycle state of a reported issue.
type IssueStatus string

const (
	StatusSubmitted    IssueStatus = "submitted"
	StatusAcknowledged IssueStatus = "acknowledged"
	StatusInProgress   IssueStatus = "in_progress"
	StatusResolved     IssueStatus = "resolved"
	StatusClosed       IssueStatus = "closed"
)

// validTransitions defines the allowed state machine transitions.
var validTransitions = map[IssueStatus][]IssueStatus{
	StatusSubmitted:    {StatusAcknowledged, StatusClosed},
	StatusAcknowledged: {StatusInProgress, StatusClosed},
	StatusInProgress:   {StatusResolved},
	StatusResolved:     {StatusClosed},
}

var ErrIssueNotFound = errors.New("issue not found")
var ErrInvalidTransition = errors.New("invalid status transition")
var ErrForbidden = errors.New("access forbidden")
var ErrUnknownDepartment = errors.New("unknown department")
var ErrUnknownCategory = errors.New("unknown category")

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s IssueStatus) CanTransitionTo(next IssueStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsKnown reports whether s is one of the defined lifecycle statuses.
func (s IssueStatus) IsKnown() bool {
	switch s {
	case StatusSubmitted, StatusAcknowledged, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// Coordinates represents a geographic point attached to a report.
type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// Comment is a dated remark on an issue, by a citizen or an administrator.
type Comment struct {
	ID        string    `json:"id" bson:"id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	UserName  string    `json:"user_name" bson:"user_name"`
	Body      string    `json:"body" bson:"body"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Issue is the core aggregate root: a citizen-reported civic problem.
type Issue struct {
	ID           string       `json:"id" bson:"_id,omitempty"`
	Title        string       `json:"title" bson:"title"`
	Description  string       `json:"description" bson:"description"`
	CategoryID   int          `json:"category_id" bson:"category_id"`
	Priority     string       `json:"priority" bson:"priority"`
	Location     string       `json:"location" bson:"location"`
	Coordinates  *Coordinates `json:"coordinates,omitempty" bson:"coordinates,omitempty"`
	PhotoURL     string       `json:"photo_url,omitempty" bson:"photo_url,omitempty"`
	UserID       string       `json:"user_id" bson:"user_id"`
	UserName     string       `json:"user_name,omitempty" bson:"user_name,omitempty"`
	DepartmentID int          `json:"department_id,omitempty" bson:"department_id,omitempty"`
	Status       IssueStatus  `json:"status" bson:"status"`
	Upvotes      int          `json:"upvotes" bson:"upvotes"`
	Comments     []Comment    `json:"comments,omitempty" bson:"comments,omitempty"`
	CreatedAt    time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" bson:"updated_at"`
}

// IssueEvent records one audit trail entry for an issue: a status change or
// a department assignment, with the acting admin.
type IssueEvent struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	IssueID   string    `json:"issue_id" bson:"issue_id"`
	Action    string    `json:"action" bson:"action"`
	ActorID   string    `json:"actor_id" bson:"actor_id"`
	From      string    `json:"from,omitempty" bson:"from,omitempty"`
	To        string    `json:"to,omitempty" bson:"to,omitempty"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

const (
	EventStatusChanged      = "status_changed"
	EventDepartmentAssigned = "department_assigned"
)
