package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/tekblok/fieldtask/internal/api/handler"
	"github.com/tekblok/fieldtask/internal/api/middleware"
	"github.com/tekblok/fieldtask/internal/core/domain"
	"github.com/tekblok/fieldtask/internal/core/ports"
	"github.com/tekblok/fieldtask/internal/core/service"
	"github.com/tekblok/fieldtask/internal/infrastructure/http/handlers"
)

const bodyLimit = "25M"

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Logger   zerolog.Logger
	Tokens   middleware.TokenVerifier
	Users    ports.UserRepository
	Auth     ports.AuthService
	Tasks    ports.TaskService
	Catalogs ports.CatalogService
	// Checks are run by the readiness probe, keyed by dependency name.
	Checks map[string]handlers.Check
	// Registerer receives the HTTP metrics; defaults to the global registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	e.Use(echomiddleware.BodyLimit(bodyLimit))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "fieldtask",
		Registerer: d.Registerer,
	}))

	access := middleware.Authenticate(d.Tokens, d.Users, domain.TokenAccess)
	refresh := middleware.Authenticate(d.Tokens, d.Users, domain.TokenRefresh)
	policy := service.NewAccessPolicy()
	admin := middleware.RBAC(policy, service.RolesManageUsers)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Auth)
	e.POST("/auth/signup", authHandler.Signup)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/refresh_token", authHandler.RefreshToken, refresh)
	e.GET("/auth/me", authHandler.Me, access)
	e.POST("/auth/logout", authHandler.Logout, access)
	e.POST("/auth/change-password", authHandler.ChangePassword, access)

	// --- Account administration ---
	e.GET("/auth/users", authHandler.ListUsers, access, admin)
	e.GET("/auth/users/:id", authHandler.GetUser, access, admin)
	e.PATCH("/auth/update/:id", authHandler.UpdateUser, access, admin)
	e.PATCH("/auth/update-password/:id", authHandler.SetPassword, access, admin)
	e.DELETE("/auth/:id", authHandler.DeleteUser, access, admin)

	// --- Task routes (roles checked by the service) ---
	taskHandler := handler.NewTaskHandler(d.Tasks)
	tasks := e.Group("/task", access)
	tasks.GET("", taskHandler.ListOpen)
	tasks.POST("", taskHandler.Create)
	tasks.GET("/completed", taskHandler.ListCompleted)
	tasks.POST("/download", taskHandler.Download)
	tasks.POST("/upload", taskHandler.Upload)
	tasks.POST("/photos", taskHandler.UploadPhoto)
	tasks.DELETE("/clear", taskHandler.DeleteAll)
	tasks.GET("/:id", taskHandler.Get)
	tasks.PATCH("/:id", taskHandler.Update)
	tasks.DELETE("/:id", taskHandler.Delete)
	tasks.POST("/:id/complete", taskHandler.Complete)

	// --- Catalogs ---
	catalogHandler := handler.NewCatalogHandler(d.Catalogs)
	read := middleware.RBAC(policy, service.RolesReadCatalogs)
	write := middleware.RBAC(policy, service.RolesWriteCatalogs)

	workTypes := e.Group("/workType", access)
	workTypes.GET("", catalogHandler.ListWorkTypes, read)
	workTypes.GET("/:id", catalogHandler.GetWorkType, read)
	workTypes.POST("", catalogHandler.CreateWorkType, write)
	workTypes.DELETE("/:id", catalogHandler.DeleteWorkType, write)

	voltages := e.Group("/voltage", access)
	voltages.GET("", catalogHandler.ListVoltages, read)
	voltages.GET("/:id", catalogHandler.GetVoltage, read)
	voltages.POST("", catalogHandler.CreateVoltage, write)
	voltages.DELETE("/:id", catalogHandler.DeleteVoltage, write)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger feeds echo's request log into zerolog.
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
			event := log.Info()
			switch {
			case v.Status >= 500:
				event = log.Error().Err(v.Error)
			case v.Error != nil:
				event = log.Warn().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
