package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/coursepath/coursepath-backend/internal/handlers"
	"github.com/coursepath/coursepath-backend/internal/middleware"
)

type RouterConfig struct {
	AllowedOrigins    []string
	AuthHandler       *handlers.AuthHandler
	AuthMiddleware    *middleware.AuthMiddleware
	UserHandler       *handlers.UserHandler
	CatalogHandler    *handlers.CatalogHandler
	CourseHandler     *handlers.CourseHandler
	EnrollmentHandler *handlers.EnrollmentHandler
	ProgressHandler   *handlers.ProgressHandler
	DashboardHandler  *handlers.DashboardHandler
	ContactHandler    *handlers.ContactHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)
		api.POST("/contact", cfg.ContactHandler.Submit)
	}

	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	{
		protected.POST("/refresh", cfg.AuthHandler.Refresh)
		protected.POST("/logout", cfg.AuthHandler.Logout)

		protected.GET("/user", cfg.UserHandler.GetMe)
		protected.PUT("/user", cfg.UserHandler.UpdateMe)
		protected.PUT("/user/profile", cfg.UserHandler.UpdateProfile)

		protected.GET("/catalog", cfg.CatalogHandler.Browse)
		protected.GET("/courses", cfg.CatalogHandler.EnrolledCourses)
		protected.GET("/courses/:courseID/topics", cfg.CourseHandler.Topics)
		protected.POST("/courses/:courseID/refresh", cfg.CourseHandler.Refresh)

		protected.POST("/enrollments", cfg.EnrollmentHandler.Enroll)
		protected.PUT("/enrollments", cfg.EnrollmentHandler.Reconcile)
		protected.DELETE("/enrollments/:courseID", cfg.EnrollmentHandler.Unenroll)

		protected.POST("/progress", cfg.ProgressHandler.Record)
		protected.GET("/dashboard", cfg.DashboardHandler.Get)
	}

	return router
}

// SplitOrigins parses the comma separated CORS_ALLOWED_ORIGINS value.
func SplitOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
