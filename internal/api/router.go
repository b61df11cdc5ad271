package api

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/campusvote/election-system/internal/api/handler"
	"github.com/campusvote/election-system/internal/api/middleware"
	"github.com/campusvote/election-system/internal/core/domain"
	"github.com/campusvote/election-system/internal/core/ports"
)

// Services bundles what the HTTP layer calls into.
type Services struct {
	Auth       ports.AuthService
	Ballots    ports.BallotService
	Enrollment ports.EnrollmentService
	Results    ports.ResultsService
	Roster     ports.RosterService
	Reconciler handler.Reconciler
	// Checks are the readiness probes, keyed by dependency name.
	Checks map[string]handler.Check
}

type Options struct {
	JWTSecret string
	Log       zerolog.Logger
	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Log)

	if opts.Registerer == nil {
		opts.Registerer = prometheus.DefaultRegisterer
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(opts.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "election",
		Registerer: opts.Registerer,
		Skipper:    skipOpsPaths,
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(svc.Auth)
	ballotHandler := handler.NewBallotHandler(svc.Ballots)
	enrollmentHandler := handler.NewEnrollmentHandler(svc.Enrollment)
	resultsHandler := handler.NewResultsHandler(svc.Results, svc.Reconciler)
	rosterHandler := handler.NewRosterHandler(svc.Roster)
	healthHandler := handler.NewHealthHandler(svc.Checks)
	authMiddleware := middleware.Auth(opts.JWTSecret)

	// --- Student routes ---
	students := e.Group("/api/students")
	students.POST("/login", authHandler.StudentLogin)

	st := students.Group("", authMiddleware, middleware.RBAC(domain.RoleStudent))
	st.GET("/profile", authHandler.Profile)
	st.GET("/candidates", rosterHandler.StudentCandidates)
	st.GET("/clubs", rosterHandler.ListClubs)
	st.POST("/clubs", enrollmentHandler.Join)
	st.POST("/vote", ballotHandler.Vote)
	st.GET("/results", resultsHandler.Results)

	// --- Admin routes ---
	admin := e.Group("/api/admin")
	admin.POST("/login", authHandler.AdminLogin)

	ad := admin.Group("", authMiddleware, middleware.RBAC(domain.RoleAdmin))
	ad.POST("/students", rosterHandler.CreateVoter)
	ad.GET("/students", rosterHandler.ListVoters)
	ad.PUT("/students/:id", rosterHandler.UpdateVoter)
	ad.DELETE("/students/:id", rosterHandler.DeleteVoter)

	ad.POST("/candidates", rosterHandler.CreateCandidate)
	ad.GET("/candidates", rosterHandler.ListCandidates)
	ad.PUT("/candidates/:id", rosterHandler.RenameCandidate)
	ad.DELETE("/candidates/:id", rosterHandler.DeleteCandidate)

	ad.POST("/clubs", rosterHandler.CreateClub)
	ad.GET("/clubs", rosterHandler.ListClubs)
	ad.PUT("/clubs/:id", rosterHandler.RenameClub)
	ad.DELETE("/clubs/:id", rosterHandler.DeleteClub)

	ad.GET("/results", resultsHandler.Results)
	ad.POST("/reconcile", resultsHandler.Reconcile)

	// --- Ops (no auth required) ---
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: opts.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func skipOpsPaths(c echo.Context) bool {
	p := c.Request().URL.Path
	return p == "/metrics" || strings.HasPrefix(p, "/health") || strings.HasPrefix(p, "/swagger")
}

// requestLogger emits one structured line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		Skipper:      skipOpsPaths,
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil || v.Status >= 500 {
				evt = log.Error().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency.Round(time.Microsecond)).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
