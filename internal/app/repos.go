package app

import (
	"gorm.io/gorm"

	"github.com/coursepath/coursepath-backend/internal/logger"
	"github.com/coursepath/coursepath-backend/internal/repos"
)

type Repos struct {
	User           repos.UserRepo
	UserProfile    repos.UserProfileRepo
	UserToken      repos.UserTokenRepo
	Field          repos.FieldRepo
	Course         repos.CourseRepo
	Topic          repos.TopicRepo
	Enrollment     repos.EnrollmentRepo
	WatchProgress  repos.WatchProgressRepo
	ContactMessage repos.ContactMessageRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:           repos.NewUserRepo(db, log),
		UserProfile:    repos.NewUserProfileRepo(db, log),
		UserToken:      repos.NewUserTokenRepo(db, log),
		Field:          repos.NewFieldRepo(db, log),
		Course:         repos.NewCourseRepo(db, log),
		Topic:          repos.NewTopicRepo(db, log),
		Enrollment:     repos.NewEnrollmentRepo(db, log),
		WatchProgress:  repos.NewWatchProgressRepo(db, log),
		ContactMessage: repos.NewContactMessageRepo(db, log),
	}
}
