package ports

import (
	"context"
	"time"

	"github.com/civicreport/civic-portal/internal/core/domain"
)

// IssueFilters narrows an issue listing. Zero values mean "no filter".
type IssueFilters struct {
	Status       domain.IssueStatus
	CategoryID   int
	DepartmentID int
	UserID       string
}

// IssueRepository defines the interface for issue persistence.
type IssueRepository interface {
	Create(ctx context.Context, issue *domain.Issue) (*domain.Issue, error)
	FindByID(ctx context.Context, id string) (*domain.Issue, error)
	List(ctx context.Context, filters IssueFilters) ([]domain.Issue, error)
	UpdateStatus(ctx context.Context, id string, status domain.IssueStatus, at time.Time) (*domain.Issue, error)
	AssignDepartment(ctx context.Context, id string, departmentID int, at time.Time) (*domain.Issue, error)
	IncrementUpvotes(ctx context.Context, id string) (*domain.Issue, error)
	AddComment(ctx context.Context, id string, comment domain.Comment) (*domain.Issue, error)
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (map[domain.IssueStatus]int, error)
}
