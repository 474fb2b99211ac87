package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/civicreport/civic-portal/docs"
	"github.com/civicreport/civic-portal/internal/api/handler"
	"github.com/civicreport/civic-portal/internal/api/middleware"
	"github.com/civicreport/civic-portal/internal/core/domain"
	"github.com/civicreport/civic-portal/internal/core/ports"
)

// Deps carries everything the router needs to register routes.
type Deps struct {
	Credentials ports.CredentialService
	Issues      ports.IssueService
	Events      ports.EventRepository
	Mongo       *mongo.Database
	Redis       *redis.Client
	Logger      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("civic_portal"))

	optionalSession := middleware.OptionalSession(deps.Credentials)
	requireSession := middleware.RequireSession(deps.Credentials)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.Credentials)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)
	e.GET("/auth/me", authHandler.Me, requireSession)
	e.PATCH("/auth/profile", authHandler.UpdateProfile, requireSession)

	// --- Issue routes ---
	issueHandler := handler.NewIssueHandler(deps.Issues, deps.Events)
	v1 := e.Group("/v1")
	v1.GET("/issues", issueHandler.List, optionalSession)
	v1.GET("/issues/stats", issueHandler.Stats)
	v1.GET("/issues/:id", issueHandler.Get, optionalSession)
	v1.POST("/issues", issueHandler.Create, requireSession)
	v1.POST("/issues/:id/upvote", issueHandler.Upvote, requireSession)
	v1.POST("/issues/:id/comments", issueHandler.AddComment, requireSession)
	v1.DELETE("/issues/:id", issueHandler.Delete, requireSession)
	v1.PATCH("/issues/:id/status", issueHandler.UpdateStatus, requireSession, adminOnly)
	v1.PATCH("/issues/:id/assign", issueHandler.Assign, requireSession, adminOnly)
	v1.GET("/issues/:id/events", issueHandler.Events, requireSession, adminOnly)

	// --- Reference data ---
	referenceHandler := handler.NewReferenceHandler()
	v1.GET("/categories", referenceHandler.Categories)
	v1.GET("/departments", referenceHandler.Departments)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
