package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/notekeep/notes-system/internal/api/handler"
	"github.com/notekeep/notes-system/internal/api/middleware"
	"github.com/notekeep/notes-system/internal/core/domain"
	"github.com/notekeep/notes-system/internal/core/ports"
	"github.com/notekeep/notes-system/internal/infrastructure/http/handlers"
)

// Deps is everything the HTTP layer needs. Registerer and Gatherer default
// to the global Prometheus registry when nil.
type Deps struct {
	AuthService   ports.AuthService
	NoteService   ports.NoteService
	UserService   ports.UserService
	Authenticator middleware.Authenticator
	Readiness     map[string]handlers.Pinger
	Log           zerolog.Logger
	Registerer    prometheus.Registerer
	Gatherer      prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}
	auth := d.Authenticator
	if auth == nil {
		auth = d.AuthService
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "notes",
		Registerer: d.Registerer,
	}))

	authHandler := handler.NewAuthHandler(d.AuthService)
	noteHandler := handler.NewNoteHandler(d.NoteService)
	adminHandler := handler.NewAdminHandler(d.UserService)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/verify", authHandler.Verify)

	// route-level middleware, so unknown /auth paths still answer 404
	session := middleware.Authorize(auth, "")
	e.POST("/auth/change-password", authHandler.ChangePassword, session)
	e.POST("/auth/logout", authHandler.Logout, session)

	// --- Notes (USER only) ---
	user := e.Group("/user", middleware.Authorize(auth, domain.RoleUser))
	user.POST("/add-note", noteHandler.Add)
	user.GET("/fetch-notes", noteHandler.List)
	user.GET("/fetch-note/:id", noteHandler.Get)
	user.POST("/update-note/:id", noteHandler.Update)
	user.POST("/delete-note/:id", noteHandler.Delete)
	user.POST("/restore-note/:id", noteHandler.Restore)

	// --- User management (ADMIN only) ---
	admin := e.Group("/admin", middleware.Authorize(auth, domain.RoleAdmin))
	admin.POST("/create-user", adminHandler.CreateUser)
	admin.GET("/fetch-users", adminHandler.ListUsers)
	admin.GET("/fetch-user/:userId", adminHandler.GetUser)
	admin.POST("/update-user/:userId", adminHandler.UpdateUser)
	admin.POST("/delete-user/:userId", adminHandler.DeleteUser)

	// --- Health checks (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Readiness)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one structured line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
