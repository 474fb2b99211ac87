package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/civicreport/civic-portal/internal/core/domain"
	"github.com/civicreport/civic-portal/internal/core/ports"
)

type stubIssueRepo struct {
	issues map[string]*domain.Issue
	nextID int
}

func newStubIssueRepo() *stubIssueRepo {
	return &stubIssueRepo{issues: make(map[string]*domain.Issue)}
}

func (r *stubIssueRepo) Create(_ context.Context, issue *domain.Issue) (*domain.Issue, error) {
	r.nextID++
	copy := *issue
	copy.ID = fmt.Sprintf("i%d", r.nextID)
	r.issues[copy.ID] = &copy
	out := copy
	return &out, nil
}

func (r *stubIssueRepo) FindByID(_ context.Context, id string) (*domain.Issue, error) {
	issue, ok := r.issues[id]
	if !ok {
		return nil, domain.ErrIssueNotFound
	}
	copy := *issue
	return &copy, nil
}

func (r *stubIssueRepo) List(_ context.Context, filters ports.IssueFilters) ([]domain.Issue, error) {
	var out []domain.Issue
	for _, issue := range r.issues {
		if filters.Status != "" && issue.Status != filters.Status {
			continue
		}
		if filters.CategoryID != 0 && issue.CategoryID != filters.CategoryID {
			continue
		}
		if filters.DepartmentID != 0 && issue.DepartmentID != filters.DepartmentID {
			continue
		}
		if filters.UserID != "" && issue.UserID != filters.UserID {
			continue
		}
		out = append(out, *issue)
	}
	return out, nil
}

func (r *stubIssueRepo) UpdateStatus(_ context.Context, id string, status domain.IssueStatus, at time.Time) (*domain.Issue, error) {
	issue, ok := r.issues[id]
	if !ok {
		return nil, domain.ErrIssueNotFound
	}
	issue.Status = status
	issue.UpdatedAt = at
	copy := *issue
	return &copy, nil
}

func (r *stubIssueRepo) AssignDepartment(_ context.Context, id string, departmentID int, at time.Time) (*domain.Issue, error) {
	issue, ok := r.issues[id]
	if !ok {
		return nil, domain.ErrIssueNotFound
	}
	issue.DepartmentID = departmentID
	issue.UpdatedAt = at
	copy := *issue
	return &copy, nil
}

func (r *stubIssueRepo) IncrementUpvotes(_ context.Context, id string) (*domain.Issue, error) {
	issue, ok := r.issues[id]
	if !ok {
		return nil, domain.ErrIssueNotFound
	}
	issue.Upvotes++
	copy := *issue
	return &copy, nil
}

func (r *stubIssueRepo) AddComment(_ context.Context, id string, comment domain.Comment) (*domain.Issue, error) {
	issue, ok := r.issues[id]
	if !ok {
		return nil, domain.ErrIssueNotFound
	}
	issue.Comments = append(issue.Comments, comment)
	copy := *issue
	return &copy, nil
}

func (r *stubIssueRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.issues[id]; !ok {
		return domain.ErrIssueNotFound
	}
	delete(r.issues, id)
	return nil
}

func (r *stubIssueRepo) CountByStatus(_ context.Context) (map[domain.IssueStatus]int, error) {
	counts := make(map[domain.IssueStatus]int)
	for _, issue := range r.issues {
		counts[issue.Status]++
	}
	return counts, nil
}

type recordingQueue struct {
	events []ports.IssueEventInput
}

func (q *recordingQueue) Enqueue(event ports.IssueEventInput) {
	q.events = append(q.events, event)
}

var (
	citizen = domain.User{ID: "u1", Name: "Asha Rao", Role: domain.RoleCitizen}
	admin   = domain.User{ID: "u9", Name: "Dept Admin", Role: domain.RoleAdmin}
)

func createInput() ports.CreateIssueInput {
	return ports.CreateIssueInput{
		Title:       "Broken streetlight",
		Description: "Lamp out on 5th cross",
		CategoryID:  5,
		Location:    "5th Cross, Ranchi",
	}
}

func TestCreateIssue(t *testing.T) {
	repo := newStubIssueRepo()
	svc := NewIssueService(repo, nil, zerolog.Nop())

	issue, err := svc.Create(context.Background(), citizen, createInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if issue.Status != domain.StatusSubmitted {
		t.Fatalf("new issue must start submitted, got %s", issue.Status)
	}
	if issue.UserID != citizen.ID {
		t.Fatalf("owner not set to reporter")
	}
	if issue.Priority != domain.PriorityMedium {
		t.Fatalf("expected default medium priority, got %s", issue.Priority)
	}
	if issue.Upvotes != 0 {
		t.Fatalf("new issue must have zero upvotes")
	}
}

func TestCreateIssue_Validation(t *testing.T) {
	svc := NewIssueService(newStubIssueRepo(), nil, zerolog.Nop())

	in := createInput()
	in.Title = " "
	if _, err := svc.Create(context.Background(), citizen, in); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	in = createInput()
	in.CategoryID = 99
	if _, err := svc.Create(context.Background(), citizen, in); !errors.Is(err, domain.ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestUpdateStatus_AdminValidTransition(t *testing.T) {
	repo := newStubIssueRepo()
	queue := &recordingQueue{}
	svc := NewIssueService(repo, queue, zerolog.Nop())

	issue, _ := svc.Create(context.Background(), citizen, createInput())

	updated, err := svc.UpdateStatus(context.Background(), admin, issue.ID, domain.StatusAcknowledged)
	if err != nil {
		t.Fatalf("update status failed: %v", err)
	}
	if updated.Status != domain.StatusAcknowledged {
		t.Fatalf("status not updated: %s", updated.Status)
	}
	if len(queue.events) != 1 || queue.events[0].Action != domain.EventStatusChanged {
		t.Fatalf("expected one status_changed audit event, got %+v", queue.events)
	}
	if queue.events[0].From != "submitted" || queue.events[0].To != "acknowledged" {
		t.Fatalf("audit transition wrong: %+v", queue.events[0])
	}
}

func TestUpdateStatus_CitizenForbidden(t *testing.T) {
	repo := newStubIssueRepo()
	svc := NewIssueService(repo, nil, zerolog.Nop())

	issue, _ := svc.Create(context.Background(), citizen, createInput())

	if _, err := svc.UpdateStatus(context.Background(), citizen, issue.ID, domain.StatusAcknowledged); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUpdateStatus_InvalidTransition(t *testing.T) {
	repo := newStubIssueRepo()
	svc := NewIssueService(repo, nil, zerolog.Nop())

	issue, _ := svc.Create(context.Background(), citizen, createInput())

	if _, err := svc.UpdateStatus(context.Background(), admin, issue.ID, domain.StatusResolved); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for submitted->resolved, got %v", err)
	}
}

func TestAssignDepartment(t *testing.T) {
	repo := newStubIssueRepo()
	queue := &recordingQueue{}
	svc := NewIssueService(repo, queue, zerolog.Nop())

	issue, _ := svc.Create(context.Background(), citizen, createInput())

	updated, err := svc.AssignDepartment(context.Background(), admin, issue.ID, 3)
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if updated.DepartmentID != 3 {
		t.Fatalf("department not assigned: %d", updated.DepartmentID)
	}
	if len(queue.events) != 1 || queue.events[0].Action != domain.EventDepartmentAssigned {
		t.Fatalf("expected department_assigned audit event, got %+v", queue.events)
	}
}

func TestAssignDepartment_UnknownDepartment(t *testing.T) {
	repo := newStubIssueRepo()
	svc := NewIssueService(repo, nil, zerolog.Nop())

	issue, _ := svc.Create(context.Background(), citizen, createInput())

	if _, err := svc.AssignDepartment(context.Background(), admin, issue.ID, 42); !errors.Is(err, domain.ErrUnknownDepartment) {
		t.Fatalf("expected ErrUnknownDepartment, got %v", err)
	}
}

func TestDelete_OwnerWhileSubmitted(t *testing.T) {
	repo := newStubIssueRepo()
	svc := NewIssueService(repo, nil, zerolog.Nop())

	issue, _ := svc.Create(context.Background(), citizen, createInput())

	if err := svc.Delete(context.Background(), citizen, issue.ID); err != nil {
		t.Fatalf("owner delete of submitted issue failed: %v", err)
	}
}

func TestDelete_OwnerAfterTriageForbidden(t *testing.T) {
	repo := newStubIssueRepo()
	svc := NewIssueService(repo, nil, zerolog.Nop())

	issue, _ := svc.Create(context.Background(), citizen, createInput())
	if _, err := svc.UpdateStatus(context.Background(), admin, issue.ID, domain.StatusAcknowledged); err != nil {
		t.Fatalf("setup transition failed: %v", err)
	}

	if err := svc.Delete(context.Background(), citizen, issue.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestStats(t *testing.T) {
	repo := newStubIssueRepo()
	svc := NewIssueService(repo, nil, zerolog.Nop())

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(context.Background(), citizen, createInput()); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}
	issue, _ := svc.Create(context.Background(), citizen, createInput())
	if _, err := svc.UpdateStatus(context.Background(), admin, issue.ID, domain.StatusAcknowledged); err != nil {
		t.Fatalf("transition failed: %v", err)
	}

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.Total != 4 || stats.Pending != 3 || stats.InProgress != 1 || stats.Resolved != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestAddComment(t *testing.T) {
	repo := newStubIssueRepo()
	svc := NewIssueService(repo, nil, zerolog.Nop())

	issue, _ := svc.Create(context.Background(), citizen, createInput())

	updated, err := svc.AddComment(context.Background(), admin, issue.ID, "crew scheduled")
	if err != nil {
		t.Fatalf("add comment failed: %v", err)
	}
	if len(updated.Comments) != 1 || updated.Comments[0].UserID != admin.ID {
		t.Fatalf("comment not recorded: %+v", updated.Comments)
	}

	if _, err := svc.AddComment(context.Background(), admin, issue.ID, "  "); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty body, got %v", err)
	}
}
