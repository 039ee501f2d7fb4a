package app

import (
	"github.com/gin-gonic/gin"

	"github.com/coursepath/coursepath-backend/internal/server"
)

func wireRouter(cfg Config, handlers Handlers, middleware Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AllowedOrigins:    cfg.AllowedOrigins,
		AuthHandler:       handlers.Auth,
		AuthMiddleware:    middleware.Auth,
		UserHandler:       handlers.User,
		CatalogHandler:    handlers.Catalog,
		CourseHandler:     handlers.Course,
		EnrollmentHandler: handlers.Enrollment,
		ProgressHandler:   handlers.Progress,
		DashboardHandler:  handlers.Dashboard,
		ContactHandler:    handlers.Contact,
	})
}
