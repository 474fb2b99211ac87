package ports

import (
	"context"
	"time"
)

// IssueEventInput is one audit entry queued for asynchronous recording.
type IssueEventInput struct {
	IssueID   string
	Action    string
	ActorID   string
	From      string
	To        string
	Timestamp time.Time
}

// AuditService records issue audit events.
type AuditService interface {
	Process(ctx context.Context, in IssueEventInput) error
}
