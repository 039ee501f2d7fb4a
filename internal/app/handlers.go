package app

import (
	"github.com/coursepath/coursepath-backend/internal/handlers"
	"github.com/coursepath/coursepath-backend/internal/logger"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	User       *handlers.UserHandler
	Catalog    *handlers.CatalogHandler
	Course     *handlers.CourseHandler
	Enrollment *handlers.EnrollmentHandler
	Progress   *handlers.ProgressHandler
	Dashboard  *handlers.DashboardHandler
	Contact    *handlers.ContactHandler
}

func wireHandlers(log *logger.Logger, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:       handlers.NewAuthHandler(s.Auth),
		User:       handlers.NewUserHandler(s.User),
		Catalog:    handlers.NewCatalogHandler(s.Catalog, s.Stats),
		Course:     handlers.NewCourseHandler(s.Progress, s.Population, s.Enrollment, s.Stats),
		Enrollment: handlers.NewEnrollmentHandler(s.Enrollment),
		Progress:   handlers.NewProgressHandler(s.Progress),
		Dashboard:  handlers.NewDashboardHandler(s.Stats),
		Contact:    handlers.NewContactHandler(s.Contact),
	}
}
