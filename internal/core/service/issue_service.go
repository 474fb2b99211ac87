package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/civicreport/civic-portal/internal/core/domain"
	"github.com/civicreport/civic-portal/internal/core/policy"
	"github.com/civicreport/civic-portal/internal/core/ports"
)

// AuditQueue abstracts the asynchronous audit pipeline (the sharded
// dispatcher). A nil queue disables auditing.
type AuditQueue interface {
	Enqueue(event ports.IssueEventInput)
}

// IssueService implements the issue lifecycle over the issue repository.
type IssueService struct {
	repo  ports.IssueRepository
	audit AuditQueue
	log   zerolog.Logger
}

func NewIssueService(repo ports.IssueRepository, audit AuditQueue, log zerolog.Logger) *IssueService {
	return &IssueService{repo: repo, audit: audit, log: log}
}

// Create files a new report owned by the caller. New issues always start as
// submitted with zero upvotes.
func (s *IssueService) Create(ctx context.Context, reporter domain.User, in ports.CreateIssueInput) (*domain.Issue, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" || strings.TrimSpace(in.Location) == "" {
		return nil, fmt.Errorf("%w: title, description and location are required", domain.ErrValidation)
	}
	if !domain.KnownCategory(in.CategoryID) {
		return nil, domain.ErrUnknownCategory
	}

	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}

	now := time.Now().UTC()
	issue := &domain.Issue{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		CategoryID:  in.CategoryID,
		Priority:    priority,
		Location:    strings.TrimSpace(in.Location),
		Coordinates: in.Coordinates,
		PhotoURL:    in.PhotoURL,
		UserID:      reporter.ID,
		UserName:    reporter.Name,
		Status:      domain.StatusSubmitted,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, issue)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create issue")
		return nil, err
	}

	s.log.Info().Str("issue_id", created.ID).Str("user_id", reporter.ID).Int("category_id", created.CategoryID).Msg("issue created")
	return created, nil
}

func (s *IssueService) GetByID(ctx context.Context, id string) (*domain.Issue, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *IssueService) List(ctx context.Context, filters ports.IssueFilters) ([]domain.Issue, error) {
	return s.repo.List(ctx, filters)
}

// UpdateStatus moves an issue through its lifecycle. Admin only, and only
// along valid transitions.
func (s *IssueService) UpdateStatus(ctx context.Context, actor domain.User, id string, next domain.IssueStatus) (*domain.Issue, error) {
	if !next.IsKnown() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, next)
	}

	issue, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanMutateStatus(&actor, issue) {
		return nil, domain.ErrForbidden
	}
	if !issue.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, issue.Status, next)
	}

	now := time.Now().UTC()
	updated, err := s.repo.UpdateStatus(ctx, id, next, now)
	if err != nil {
		return nil, err
	}

	s.enqueueAudit(ports.IssueEventInput{
		IssueID:   id,
		Action:    domain.EventStatusChanged,
		ActorID:   actor.ID,
		From:      string(issue.Status),
		To:        string(next),
		Timestamp: now,
	})

	s.log.Info().Str("issue_id", id).Str("from", string(issue.Status)).Str("to", string(next)).Str("actor_id", actor.ID).Msg("issue status updated")
	return updated, nil
}

// AssignDepartment routes an issue to a municipal department. Requires an
// explicit department id; there is no matching by department name.
func (s *IssueService) AssignDepartment(ctx context.Context, actor domain.User, id string, departmentID int) (*domain.Issue, error) {
	if !domain.KnownDepartment(departmentID) {
		return nil, domain.ErrUnknownDepartment
	}

	issue, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanMutateStatus(&actor, issue) {
		return nil, domain.ErrForbidden
	}

	now := time.Now().UTC()
	updated, err := s.repo.AssignDepartment(ctx, id, departmentID, now)
	if err != nil {
		return nil, err
	}

	s.enqueueAudit(ports.IssueEventInput{
		IssueID:   id,
		Action:    domain.EventDepartmentAssigned,
		ActorID:   actor.ID,
		From:      fmt.Sprintf("%d", issue.DepartmentID),
		To:        fmt.Sprintf("%d", departmentID),
		Timestamp: now,
	})

	return updated, nil
}

func (s *IssueService) Upvote(ctx context.Context, id string) (*domain.Issue, error) {
	return s.repo.IncrementUpvotes(ctx, id)
}

func (s *IssueService) AddComment(ctx context.Context, author domain.User, id, body string) (*domain.Issue, error) {
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%w: comment body is required", domain.ErrValidation)
	}

	comment := domain.Comment{
		ID:        newCommentID(),
		UserID:    author.ID,
		UserName:  author.Name,
		Body:      strings.TrimSpace(body),
		CreatedAt: time.Now().UTC(),
	}
	return s.repo.AddComment(ctx, id, comment)
}

// Delete removes an issue. Admins may delete anything; reporters may withdraw
// their own issue while it is still submitted.
func (s *IssueService) Delete(ctx context.Context, actor domain.User, id string) error {
	issue, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanDelete(&actor, issue) {
		return domain.ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

// Stats aggregates issue counts for the dashboard cards. Acknowledged issues
// count as in progress; closed issues count as resolved.
func (s *IssueService) Stats(ctx context.Context) (*ports.IssueStats, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	stats := &ports.IssueStats{
		Pending:    counts[domain.StatusSubmitted],
		InProgress: counts[domain.StatusAcknowledged] + counts[domain.StatusInProgress],
		Resolved:   counts[domain.StatusResolved] + counts[domain.StatusClosed],
	}
	for _, n := range counts {
		stats.Total += n
	}
	return stats, nil
}

func (s *IssueService) enqueueAudit(event ports.IssueEventInput) {
	if s.audit == nil {
		return
	}
	s.audit.Enqueue(event)
}

func newCommentID() string {
	return fmt.Sprintf("c_%d", time.Now().UnixNano())
}
