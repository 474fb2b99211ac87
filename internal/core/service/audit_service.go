package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/civicreport/civic-portal/internal/core/domain"
	"github.com/civicreport/civic-portal/internal/core/ports"
)

type auditService struct {
	events ports.EventRepository
	log    zerolog.Logger
}

// NewAuditService returns an AuditService that records issue events into the
// audit trail.
func NewAuditService(events ports.EventRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{events: events, log: log}
}

// Process persists a single audit entry.
func (s *auditService) Process(ctx context.Context, in ports.IssueEventInput) error {
	event := &domain.IssueEvent{
		IssueID:   in.IssueID,
		Action:    in.Action,
		ActorID:   in.ActorID,
		From:      in.From,
		To:        in.To,
		Timestamp: in.Timestamp,
	}
	if err := s.events.InsertEvent(ctx, event); err != nil {
		return fmt.Errorf("record audit event: %w", err)
	}

	s.log.Debug().
		Str("issue_id", in.IssueID).
		Str("action", in.Action).
		Str("actor_id", in.ActorID).
		Msg("audit event recorded")
	return nil
}
