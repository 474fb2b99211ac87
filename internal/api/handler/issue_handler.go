package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/civicreport/civic-portal/internal/api/metrics"
	"github.com/civicreport/civic-portal/internal/core/domain"
	"github.com/civicreport/civic-portal/internal/core/policy"
	"github.com/civicreport/civic-portal/internal/core/ports"
)

// IssueHandler handles HTTP requests for issue operations.
type IssueHandler struct {
	issues ports.IssueService
	events ports.EventRepository
}

func NewIssueHandler(issues ports.IssueService, events ports.EventRepository) *IssueHandler {
	return &IssueHandler{issues: issues, events: events}
}

// Create files a new issue owned by the caller.
//
// @Summary      Report a new issue
// @Tags         issues
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createIssueRequest  true  "Issue details"
// @Success      201   {object}  issueResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/issues [post]
func (h *IssueHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createIssueRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	in := ports.CreateIssueInput{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Priority:    req.Priority,
		Location:    req.Location,
		PhotoURL:    req.PhotoURL,
	}
	if req.Coordinates != nil {
		in.Coordinates = &domain.Coordinates{Lat: req.Coordinates.Lat, Lng: req.Coordinates.Lng}
	}

	issue, err := h.issues.Create(c.Request().Context(), user, in)
	if err != nil {
		return err
	}

	metrics.IssuesCreatedTotal.WithLabelValues(strconv.Itoa(issue.CategoryID)).Inc()
	return c.JSON(http.StatusCreated, toIssueResponse(issue, &user))
}

// List returns issues visible to the caller, optionally filtered. For admins
// without an explicit department filter, the listing defaults to their own
// department's scope.
//
// @Summary      List issues
// @Tags         issues
// @Produce      json
// @Param        status         query  string  false  "Filter by status"
// @Param        category_id    query  int     false  "Filter by category"
// @Param        department_id  query  string  false  "Filter by department id, or 'all'"
// @Param        mine           query  bool    false  "Only the caller's issues"
// @Success      200  {array}  issueResponse
// @Router       /v1/issues [get]
func (h *IssueHandler) List(c echo.Context) error {
	sc := CurrentSession(c)
	viewer := sc.Identity()

	filters := ports.IssueFilters{
		Status: domain.IssueStatus(c.QueryParam("status")),
	}
	if v := c.QueryParam("category_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "category_id must be numeric")
		}
		filters.CategoryID = id
	}

	switch dept := c.QueryParam("department_id"); dept {
	case "":
		filters.DepartmentID = policy.DefaultDepartmentScope(viewer)
	case "all":
		filters.DepartmentID = policy.ScopeAll
	default:
		id, err := strconv.Atoi(dept)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "department_id must be numeric or 'all'")
		}
		filters.DepartmentID = id
	}

	if c.QueryParam("mine") == "true" {
		user, err := currentUser(c)
		if err != nil {
			return err
		}
		filters.UserID = user.ID
	}

	issues, err := h.issues.List(c.Request().Context(), filters)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toIssueResponses(issues, viewer))
}

// Get returns a single issue.
//
// @Summary      Get an issue
// @Tags         issues
// @Produce      json
// @Param        id  path  string  true  "Issue id"
// @Success      200  {object}  issueResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/issues/{id} [get]
func (h *IssueHandler) Get(c echo.Context) error {
	issue, err := h.issues.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toIssueResponse(issue, CurrentSession(c).Identity()))
}

// UpdateStatus moves an issue along its lifecycle. Admin only.
//
// @Summary      Update issue status
// @Tags         issues
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string               true  "Issue id"
// @Param        body  body  updateStatusRequest  true  "Target status"
// @Success      200   {object}  issueResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/issues/{id}/status [patch]
func (h *IssueHandler) UpdateStatus(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	issue, err := h.issues.UpdateStatus(c.Request().Context(), user, c.Param("id"), domain.IssueStatus(req.Status))
	if err != nil {
		return err
	}

	metrics.IssueTransitionsTotal.WithLabelValues(req.Status).Inc()
	return c.JSON(http.StatusOK, toIssueResponse(issue, &user))
}

// Assign routes an issue to a department. Admin only; requires an explicit
// department id.
//
// @Summary      Assign issue to a department
// @Tags         issues
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                   true  "Issue id"
// @Param        body  body  assignDepartmentRequest  true  "Department"
// @Success      200   {object}  issueResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/issues/{id}/assign [patch]
func (h *IssueHandler) Assign(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req assignDepartmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	issue, err := h.issues.AssignDepartment(c.Request().Context(), user, c.Param("id"), req.DepartmentID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toIssueResponse(issue, &user))
}

// Upvote adds one upvote to an issue.
//
// @Summary      Upvote an issue
// @Tags         issues
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Issue id"
// @Success      200  {object}  issueResponse
// @Router       /v1/issues/{id}/upvote [post]
func (h *IssueHandler) Upvote(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	issue, err := h.issues.Upvote(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toIssueResponse(issue, &user))
}

// AddComment appends a comment authored by the caller.
//
// @Summary      Comment on an issue
// @Tags         issues
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string             true  "Issue id"
// @Param        body  body  addCommentRequest  true  "Comment"
// @Success      200   {object}  issueResponse
// @Router       /v1/issues/{id}/comments [post]
func (h *IssueHandler) AddComment(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req addCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	issue, err := h.issues.AddComment(c.Request().Context(), user, c.Param("id"), req.Body)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toIssueResponse(issue, &user))
}

// Delete removes an issue (admin, or the reporter while still submitted).
//
// @Summary      Delete an issue
// @Tags         issues
// @Security     BearerAuth
// @Param        id  path  string  true  "Issue id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Router       /v1/issues/{id} [delete]
func (h *IssueHandler) Delete(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.issues.Delete(c.Request().Context(), user, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Stats returns the dashboard aggregates.
//
// @Summary      Issue statistics
// @Tags         issues
// @Produce      json
// @Success      200  {object}  ports.IssueStats
// @Router       /v1/issues/stats [get]
func (h *IssueHandler) Stats(c echo.Context) error {
	stats, err := h.issues.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// Events returns the audit trail of an issue. Admin only.
//
// @Summary      Issue audit trail
// @Tags         issues
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Issue id"
// @Success      200  {array}  domain.IssueEvent
// @Router       /v1/issues/{id}/events [get]
func (h *IssueHandler) Events(c echo.Context) error {
	events, err := h.events.ListByIssue(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}
