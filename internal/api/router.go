package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/bookhaven/library-system/internal/api/docs"
	"github.com/bookhaven/library-system/internal/api/handler"
	"github.com/bookhaven/library-system/internal/api/middleware"
	"github.com/bookhaven/library-system/internal/core/domain"
	"github.com/bookhaven/library-system/internal/core/ports"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Auth    ports.AuthService
	Catalog ports.CatalogService
	Loans   ports.LoanService
	Records ports.RecordService
	Users   ports.UserService
	Sweeper ports.Sweeper
	Clock   ports.Clock

	// Ready lists the dependencies checked by /health/ready.
	Ready map[string]handler.Pinger

	JWTSecret  string
	LoginRate  rate.Limit
	LoginBurst int

	// Registry receives the HTTP metrics. Nil means the default registry.
	Registry *prometheus.Registry

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(prometheusMiddleware(d.Registry))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth)
	bookHandler := handler.NewBookHandler(d.Catalog)
	loanHandler := handler.NewLoanHandler(d.Loans)
	recordHandler := handler.NewRecordHandler(d.Records, d.Sweeper, d.Clock)
	userHandler := handler.NewUserHandler(d.Users)

	authed := middleware.Auth(d.JWTSecret)
	staff := middleware.RBAC(domain.RoleLibrarian, domain.RoleAdmin)
	admin := middleware.RBAC(domain.RoleAdmin)
	loginLimiter := middleware.NewIPRateLimiter(d.LoginRate, d.LoginBurst)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login, middleware.RateLimit(loginLimiter))

	v1 := e.Group("/v1")

	// --- Catalog ---
	v1.GET("/books", bookHandler.List)
	v1.GET("/books/:id", bookHandler.Get)
	v1.POST("/books", bookHandler.Create, authed, admin)
	v1.PUT("/books/:id", bookHandler.Update, authed, admin)
	v1.DELETE("/books/:id", bookHandler.Delete, authed, admin)

	// --- Loans ---
	v1.POST("/books/:id/borrow", loanHandler.Borrow, authed)
	v1.POST("/books/:id/return", loanHandler.Return, authed)

	// --- Borrow records ---
	v1.GET("/records", recordHandler.List, authed, staff)
	v1.GET("/records/:id", recordHandler.Get, authed, staff)
	v1.POST("/records/sweep", recordHandler.Sweep, authed, staff)
	v1.GET("/users/:id/history", recordHandler.History, authed,
		middleware.SelfOrRoles("id", domain.RoleLibrarian, domain.RoleAdmin))

	// --- Users ---
	v1.GET("/users", userHandler.List, authed, admin)
	v1.GET("/users/:id", userHandler.Get, authed, admin)
	v1.PUT("/users/:id", userHandler.Update, authed, admin)
	v1.DELETE("/users/:id", userHandler.Delete, authed, admin)

	// --- Ops (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(d.Ready).Readiness)
	e.GET("/metrics", metricsHandler(d.Registry))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func prometheusMiddleware(reg *prometheus.Registry) echo.MiddlewareFunc {
	cfg := echoprometheus.MiddlewareConfig{
		Namespace: "library",
		Subsystem: "http",
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}
	if reg != nil {
		cfg.Registerer = reg
	}
	return echoprometheus.NewMiddlewareWithConfig(cfg)
}

func metricsHandler(reg *prometheus.Registry) echo.HandlerFunc {
	if reg == nil {
		return echoprometheus.NewHandler()
	}
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
}

// requestLogger writes one zerolog entry per request.
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
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
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
