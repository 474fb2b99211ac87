package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/civicreport/civic-portal/internal/api/middleware"
	"github.com/civicreport/civic-portal/internal/core/domain"
	"github.com/civicreport/civic-portal/internal/core/ports"
	"github.com/civicreport/civic-portal/internal/core/session"
)

type stubIssueService struct {
	createFn       func(ctx context.Context, reporter domain.User, in ports.CreateIssueInput) (*domain.Issue, error)
	getFn          func(ctx context.Context, id string) (*domain.Issue, error)
	listFn         func(ctx context.Context, filters ports.IssueFilters) ([]domain.Issue, error)
	updateStatusFn func(ctx context.Context, actor domain.User, id string, next domain.IssueStatus) (*domain.Issue, error)
	assignFn       func(ctx context.Context, actor domain.User, id string, departmentID int) (*domain.Issue, error)
	upvoteFn       func(ctx context.Context, id string) (*domain.Issue, error)
	addCommentFn   func(ctx context.Context, author domain.User, id, body string) (*domain.Issue, error)
	deleteFn       func(ctx context.Context, actor domain.User, id string) error
	statsFn        func(ctx context.Context) (*ports.IssueStats, error)
}

func (s *stubIssueService) Create(ctx context.Context, reporter domain.User, in ports.CreateIssueInput) (*domain.Issue, error) {
	return s.createFn(ctx, reporter, in)
}

func (s *stubIssueService) GetByID(ctx context.Context, id string) (*domain.Issue, error) {
	return s.getFn(ctx, id)
}

func (s *stubIssueService) List(ctx context.Context, filters ports.IssueFilters) ([]domain.Issue, error) {
	return s.listFn(ctx, filters)
}

func (s *stubIssueService) UpdateStatus(ctx context.Context, actor domain.User, id string, next domain.IssueStatus) (*domain.Issue, error) {
	return s.updateStatusFn(ctx, actor, id, next)
}

func (s *stubIssueService) AssignDepartment(ctx context.Context, actor domain.User, id string, departmentID int) (*domain.Issue, error) {
	return s.assignFn(ctx, actor, id, departmentID)
}

func (s *stubIssueService) Upvote(ctx context.Context, id string) (*domain.Issue, error) {
	return s.upvoteFn(ctx, id)
}

func (s *stubIssueService) AddComment(ctx context.Context, author domain.User, id, body string) (*domain.Issue, error) {
	return s.addCommentFn(ctx, author, id, body)
}

func (s *stubIssueService) Delete(ctx context.Context, actor domain.User, id string) error {
	return s.deleteFn(ctx, actor, id)
}

func (s *stubIssueService) Stats(ctx context.Context) (*ports.IssueStats, error) {
	return s.statsFn(ctx)
}

type stubEventRepo struct {
	listFn func(ctx context.Context, issueID string) ([]domain.IssueEvent, error)
}

func (s *stubEventRepo) InsertEvent(ctx context.Context, event *domain.IssueEvent) error {
	return nil
}

func (s *stubEventRepo) ListByIssue(ctx context.Context, issueID string) ([]domain.IssueEvent, error) {
	return s.listFn(ctx, issueID)
}

func authedCtx(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, user domain.User) echo.Context {
	c := e.NewContext(req, rec)
	c.Set(middleware.ContextKey, session.Authenticated(user))
	return c
}

func TestIssueHandler_Create_RequiresSession(t *testing.T) {
	e := newTestEcho()
	handler := NewIssueHandler(&stubIssueService{}, &stubEventRepo{})

	req := httptest.NewRequest(http.MethodPost, "/v1/issues", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	err := handler.Create(e.NewContext(req, rec))
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestIssueHandler_Create_Success(t *testing.T) {
	e := newTestEcho()
	reporter := domain.User{ID: "u1", Name: "Maria", Role: domain.RoleCitizen}
	handler := NewIssueHandler(&stubIssueService{
		createFn: func(ctx context.Context, got domain.User, in ports.CreateIssueInput) (*domain.Issue, error) {
			if got.ID != "u1" {
				t.Fatalf("unexpected reporter %+v", got)
			}
			if in.Title != "Broken streetlight" || in.CategoryID != 2 {
				t.Fatalf("unexpected input %+v", in)
			}
			return &domain.Issue{
				ID: "i1", Title: in.Title, CategoryID: in.CategoryID,
				UserID: got.ID, UserName: got.Name,
				Status: domain.StatusSubmitted, Priority: "medium",
			}, nil
		},
	}, &stubEventRepo{})

	body := strings.NewReader(`{"title":"Broken streetlight","description":"Pole 12 is dark","category_id":2,"location":"5th and Main"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/issues", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := handler.Create(authedCtx(e, req, rec, reporter)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	// The reporter sees their own name, not the redacted label.
	if resp["reporter"] != "Maria" {
		t.Fatalf("expected own name as reporter, got %v", resp["reporter"])
	}
}

func TestIssueHandler_List_AnonymousSeesRedactedReporter(t *testing.T) {
	e := newTestEcho()
	handler := NewIssueHandler(&stubIssueService{
		listFn: func(ctx context.Context, filters ports.IssueFilters) ([]domain.Issue, error) {
			if filters.DepartmentID != 0 {
				t.Fatalf("anonymous listing must not be department-scoped, got %d", filters.DepartmentID)
			}
			return []domain.Issue{
				{ID: "i1", Title: "Pothole", UserID: "u1", UserName: "Maria", Status: domain.StatusSubmitted},
			}, nil
		},
	}, &stubEventRepo{})

	req := httptest.NewRequest(http.MethodGet, "/v1/issues", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.ContextKey, session.Anonymous())

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(resp))
	}
	if resp[0]["reporter"] != "Citizen" {
		t.Fatalf("expected redacted reporter, got %v", resp[0]["reporter"])
	}
	if _, present := resp[0]["reporter_id"]; present {
		t.Fatalf("reporter_id must be omitted for anonymous viewers")
	}
}

func TestIssueHandler_List_AdminDefaultsToOwnDepartment(t *testing.T) {
	e := newTestEcho()
	admin := domain.User{ID: "a1", Role: domain.RoleAdmin, DepartmentID: 3}
	handler := NewIssueHandler(&stubIssueService{
		listFn: func(ctx context.Context, filters ports.IssueFilters) ([]domain.Issue, error) {
			if filters.DepartmentID != 3 {
				t.Fatalf("expected department scope 3, got %d", filters.DepartmentID)
			}
			return nil, nil
		},
	}, &stubEventRepo{})

	req := httptest.NewRequest(http.MethodGet, "/v1/issues", nil)
	rec := httptest.NewRecorder()
	if err := handler.List(authedCtx(e, req, rec, admin)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestIssueHandler_List_AdminOverridesScopeWithAll(t *testing.T) {
	e := newTestEcho()
	admin := domain.User{ID: "a1", Role: domain.RoleAdmin, DepartmentID: 3}
	handler := NewIssueHandler(&stubIssueService{
		listFn: func(ctx context.Context, filters ports.IssueFilters) ([]domain.Issue, error) {
			if filters.DepartmentID != 0 {
				t.Fatalf("expected unscoped listing, got %d", filters.DepartmentID)
			}
			return nil, nil
		},
	}, &stubEventRepo{})

	req := httptest.NewRequest(http.MethodGet, "/v1/issues?department_id=all", nil)
	rec := httptest.NewRecorder()
	if err := handler.List(authedCtx(e, req, rec, admin)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestIssueHandler_UpdateStatus_RejectsUnknownStatus(t *testing.T) {
	e := newTestEcho()
	admin := domain.User{ID: "a1", Role: domain.RoleAdmin}
	handler := NewIssueHandler(&stubIssueService{
		updateStatusFn: func(ctx context.Context, actor domain.User, id string, next domain.IssueStatus) (*domain.Issue, error) {
			t.Fatal("service must not be called for an unknown status")
			return nil, nil
		},
	}, &stubEventRepo{})

	body := strings.NewReader(`{"status":"vanished"}`)
	req := httptest.NewRequest(http.MethodPatch, "/v1/issues/i1/status", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedCtx(e, req, rec, admin)
	c.SetParamNames("id")
	c.SetParamValues("i1")

	err := handler.UpdateStatus(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestIssueHandler_UpdateStatus_Success(t *testing.T) {
	e := newTestEcho()
	admin := domain.User{ID: "a1", Role: domain.RoleAdmin}
	handler := NewIssueHandler(&stubIssueService{
		updateStatusFn: func(ctx context.Context, actor domain.User, id string, next domain.IssueStatus) (*domain.Issue, error) {
			if id != "i1" || next != domain.StatusAcknowledged {
				t.Fatalf("unexpected transition %s -> %s", id, next)
			}
			return &domain.Issue{ID: id, Status: next}, nil
		},
	}, &stubEventRepo{})

	body := strings.NewReader(`{"status":"acknowledged"}`)
	req := httptest.NewRequest(http.MethodPatch, "/v1/issues/i1/status", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedCtx(e, req, rec, admin)
	c.SetParamNames("id")
	c.SetParamValues("i1")

	if err := handler.UpdateStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestIssueHandler_Delete_NoContent(t *testing.T) {
	e := newTestEcho()
	owner := domain.User{ID: "u1", Role: domain.RoleCitizen}
	handler := NewIssueHandler(&stubIssueService{
		deleteFn: func(ctx context.Context, actor domain.User, id string) error {
			if actor.ID != "u1" || id != "i1" {
				t.Fatalf("unexpected delete args %s %s", actor.ID, id)
			}
			return nil
		},
	}, &stubEventRepo{})

	req := httptest.NewRequest(http.MethodDelete, "/v1/issues/i1", nil)
	rec := httptest.NewRecorder()
	c := authedCtx(e, req, rec, owner)
	c.SetParamNames("id")
	c.SetParamValues("i1")

	if err := handler.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestIssueHandler_Stats(t *testing.T) {
	e := newTestEcho()
	handler := NewIssueHandler(&stubIssueService{
		statsFn: func(ctx context.Context) (*ports.IssueStats, error) {
			return &ports.IssueStats{Total: 5, Pending: 2, InProgress: 2, Resolved: 1}, nil
		},
	}, &stubEventRepo{})

	req := httptest.NewRequest(http.MethodGet, "/v1/issues/stats", nil)
	rec := httptest.NewRecorder()
	if err := handler.Stats(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var stats ports.IssueStats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if stats.Total != 5 || stats.Pending != 2 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestIssueHandler_Events(t *testing.T) {
	e := newTestEcho()
	handler := NewIssueHandler(&stubIssueService{}, &stubEventRepo{
		listFn: func(ctx context.Context, issueID string) ([]domain.IssueEvent, error) {
			if issueID != "i1" {
				t.Fatalf("unexpected issue id %q", issueID)
			}
			return []domain.IssueEvent{{IssueID: issueID, Action: domain.EventStatusChanged}}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/issues/i1/events", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("i1")

	if err := handler.Events(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
