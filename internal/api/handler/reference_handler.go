package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/civicreport/civic-portal/internal/core/domain"
)

// ReferenceHandler serves the fixed category and department lists the report
// form and admin console are built from.
type ReferenceHandler struct{}

func NewReferenceHandler() *ReferenceHandler {
	return &ReferenceHandler{}
}

// Categories lists the issue categories.
//
// @Summary      List categories
// @Tags         reference
// @Produce      json
// @Success      200  {array}  domain.Category
// @Router       /v1/categories [get]
func (h *ReferenceHandler) Categories(c echo.Context) error {
	return c.JSON(http.StatusOK, domain.Categories)
}

// Departments lists the municipal departments.
//
// @Summary      List departments
// @Tags         reference
// @Produce      json
// @Success      200  {array}  domain.Department
// @Router       /v1/departments [get]
func (h *ReferenceHandler) Departments(c echo.Context) error {
	return c.JSON(http.StatusOK, domain.Departments)
}
