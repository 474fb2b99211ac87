package handler

import (
	"time"

	"github.com/civicreport/civic-portal/internal/core/domain"
	"github.com/civicreport/civic-portal/internal/core/policy"
)

type coordinatesRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type createIssueRequest struct {
	Title       string              `json:"title"       validate:"required"`
	Description string              `json:"description" validate:"required"`
	CategoryID  int                 `json:"category_id" validate:"required,gt=0"`
	Priority    string              `json:"priority"    validate:"omitempty,oneof=low medium high critical"`
	Location    string              `json:"location"    validate:"required"`
	Coordinates *coordinatesRequest `json:"coordinates,omitempty"`
	PhotoURL    string              `json:"photo_url,omitempty"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=submitted acknowledged in_progress resolved closed"`
}

type assignDepartmentRequest struct {
	DepartmentID int `json:"department_id" validate:"required,gt=0"`
}

type addCommentRequest struct {
	Body string `json:"body" validate:"required"`
}

// issueResponse is an issue as seen by a particular viewer. Reporter details
// are redacted unless the viewer is the owner or an admin.
type issueResponse struct {
	ID           string              `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	CategoryID   int                 `json:"category_id"`
	Priority     string              `json:"priority"`
	Location     string              `json:"location"`
	Coordinates  *domain.Coordinates `json:"coordinates,omitempty"`
	PhotoURL     string              `json:"photo_url,omitempty"`
	Reporter     string              `json:"reporter"`
	ReporterID   string              `json:"reporter_id,omitempty"`
	DepartmentID int                 `json:"department_id,omitempty"`
	Status       domain.IssueStatus  `json:"status"`
	Upvotes      int                 `json:"upvotes"`
	Comments     []domain.Comment    `json:"comments,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// toIssueResponse projects an issue for the given viewer, applying the
// owner-details policy.
func toIssueResponse(issue *domain.Issue, viewer *domain.User) issueResponse {
	resp := issueResponse{
		ID:           issue.ID,
		Title:        issue.Title,
		Description:  issue.Description,
		CategoryID:   issue.CategoryID,
		Priority:     issue.Priority,
		Location:     issue.Location,
		Coordinates:  issue.Coordinates,
		PhotoURL:     issue.PhotoURL,
		Reporter:     policy.ReporterRedacted,
		DepartmentID: issue.DepartmentID,
		Status:       issue.Status,
		Upvotes:      issue.Upvotes,
		Comments:     issue.Comments,
		CreatedAt:    issue.CreatedAt,
		UpdatedAt:    issue.UpdatedAt,
	}
	if policy.CanViewOwnerDetails(viewer, issue) {
		resp.Reporter = issue.UserName
		resp.ReporterID = issue.UserID
	}
	return resp
}

func toIssueResponses(issues []domain.Issue, viewer *domain.User) []issueResponse {
	out := make([]issueResponse, 0, len(issues))
	for i := range issues {
		out = append(out, toIssueResponse(&issues[i], viewer))
	}
	return out
}
