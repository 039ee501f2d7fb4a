package app

import (
	"gorm.io/gorm"

	"github.com/coursepath/coursepath-backend/internal/logger"
	"github.com/coursepath/coursepath-backend/internal/services"
)

type Services struct {
	Auth       services.AuthService
	User       services.UserService
	Catalog    services.CatalogService
	Population services.PopulationService
	Enrollment services.EnrollmentService
	Progress   services.ProgressService
	Stats      services.StatsService
	Contact    services.ContactService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, clients Clients) Services {
	log.Info("Wiring services...")
	authService := services.NewAuthService(db, log, r.User, r.UserProfile, r.UserToken, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	statsService := services.NewStatsService(db, log, r.User, r.UserProfile, r.Course, r.Topic, r.Enrollment, r.WatchProgress, clients.Cache)
	populationService := services.NewPopulationService(db, log, clients.YouTube, r.Course, r.Topic, r.WatchProgress, cfg.SearchMaxResults)
	return Services{
		Auth:       authService,
		User:       services.NewUserService(db, log, r.User, r.UserProfile, r.Enrollment, statsService),
		Catalog:    services.NewCatalogService(db, log, r.Field, r.Topic, r.Enrollment),
		Population: populationService,
		Enrollment: services.NewEnrollmentService(db, log, r.Enrollment, r.Course, populationService),
		Progress:   services.NewProgressService(db, log, r.Topic, r.Course, r.WatchProgress, clients.Cache),
		Stats:      statsService,
		Contact:    services.NewContactService(db, log, r.ContactMessage),
	}
}
