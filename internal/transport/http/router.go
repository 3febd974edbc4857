package httptransport

import (
	"log/slog"

	"github.com/ErlanBelekov/todo-api/internal/repository"
	"github.com/ErlanBelekov/todo-api/internal/transport/http/handler"
	"github.com/ErlanBelekov/todo-api/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

// apiPrefixes lists every mount point of the API. "/api" is kept as an alias
// for clients built against the unversioned paths.
var apiPrefixes = []string{"/api/v1", "/api"}

func NewRouter(logger *slog.Logger, authHandler *handler.AuthHandler, taskHandler *handler.TaskHandler, healthHandler *handler.HealthHandler, guard *middleware.Guard, userRepo repository.UserRepository) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	r.GET("/health", healthHandler.Live)
	r.GET("/health/ready", healthHandler.Ready)

	authMW := middleware.Auth(guard)
	ensureUser := middleware.EnsureUser(userRepo, logger)

	for _, prefix := range apiPrefixes {
		api := r.Group(prefix)

		// Public auth routes
		auth := api.Group("/auth")
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)

		// Protected task routes
		tasks := api.Group("/tasks", authMW, ensureUser)
		tasks.GET("", taskHandler.List)
		tasks.POST("", taskHandler.Create)
		tasks.PUT("/:id", taskHandler.Update)
		tasks.DELETE("/:id", taskHandler.Delete)
	}

	return r
}
