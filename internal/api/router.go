package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskstack/task-tracker/internal/api/handler"
	"github.com/taskstack/task-tracker/internal/api/middleware"
	"github.com/taskstack/task-tracker/internal/core/ports"
	"github.com/taskstack/task-tracker/internal/core/service"
	mongodb "github.com/taskstack/task-tracker/internal/infrastructure/db/mongo"
	redisdb "github.com/taskstack/task-tracker/internal/infrastructure/db/redis"
	"github.com/taskstack/task-tracker/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The dispatcher is owned by the caller (it carries worker goroutines); the
// activity service is shared with it so the trail endpoint reads what the
// workers write.
func NewRouter(db *mongo.Database, rdb *redis.Client, dispatcher service.ActivityDispatcher, activityService ports.ActivityService, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("tasktracker"))

	// --- Dependencies ---
	authRepo := mongodb.NewAuthRepository(db)
	throttle := redisdb.NewLoginThrottle(rdb)
	authService := service.NewAuthService(authRepo, throttle, cfg.JWTSecret, cfg.JWTTTL, cfg.BcryptCost, log)
	authHandler := handler.NewAuthHandler(authService, cfg.JWTTTL, cfg.Env == "production")

	taskRepo := mongodb.NewTaskRepository(db)
	taskService := service.NewTaskService(taskRepo, dispatcher, log)
	taskHandler := handler.NewTaskHandler(taskService, activityService)

	authMiddleware := middleware.Auth(cfg.JWTSecret)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)

	// --- Task routes ---
	tasks := e.Group("/v1/tasks", authMiddleware)
	tasks.POST("", taskHandler.Create)
	tasks.GET("", taskHandler.List)
	tasks.GET("/:id", taskHandler.Get)
	tasks.PATCH("/:id", taskHandler.Update)
	tasks.DELETE("/:id", taskHandler.Delete)
	tasks.GET("/:id/activity", taskHandler.Activity)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
