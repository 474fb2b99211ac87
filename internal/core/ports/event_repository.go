package ports

import (
	"context"

	"github.com/civicreport/civic-portal/internal/core/domain"
)

// EventRepository defines the interface for the issue audit trail.
type EventRepository interface {
	InsertEvent(ctx context.Context, event *domain.IssueEvent) error
	ListByIssue(ctx context.Context, issueID string) ([]domain.IssueEvent, error)
}
