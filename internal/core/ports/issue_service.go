package ports

import (
	"context"

	"github.com/civicreport/civic-portal/internal/core/domain"
)

// CreateIssueInput carries a new report from an authenticated citizen.
type CreateIssueInput struct {
	Title       string
	Description string
	CategoryID  int
	Priority    string
	Location    string
	Coordinates *domain.Coordinates
	PhotoURL    string
}

// IssueStats is the dashboard aggregate over all issues.
type IssueStats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Resolved   int `json:"resolved"`
}

// IssueService implements the issue lifecycle: creation by citizens, triage
// by administrators, and public reads.
type IssueService interface {
	Create(ctx context.Context, reporter domain.User, in CreateIssueInput) (*domain.Issue, error)
	GetByID(ctx context.Context, id string) (*domain.Issue, error)
	List(ctx context.Context, filters IssueFilters) ([]domain.Issue, error)
	UpdateStatus(ctx context.Context, actor domain.User, id string, next domain.IssueStatus) (*domain.Issue, error)
	AssignDepartment(ctx context.Context, actor domain.User, id string, departmentID int) (*domain.Issue, error)
	Upvote(ctx context.Context, id string) (*domain.Issue, error)
	AddComment(ctx context.Context, author domain.User, id, body string) (*domain.Issue, error)
	Delete(ctx context.Context, actor domain.User, id string) error
	Stats(ctx context.Context) (*IssueStats, error)
}
