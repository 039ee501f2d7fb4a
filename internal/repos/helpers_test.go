package repos_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursepath/coursepath-backend/internal/repos"
	"github.com/coursepath/coursepath-backend/internal/repos/testutil"
	"github.com/coursepath/coursepath-backend/internal/types"
)

func seedUser(tb testing.TB, tx *gorm.DB) *types.User {
	tb.Helper()
	u := &types.User{
		ID:       uuid.New(),
		Username: "u-" + uuid.NewString()[:8],
		Email:    uuid.NewString()[:8] + "@example.com",
		Password: "hashed",
	}
	if err := tx.Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func seedField(tb testing.TB, tx *gorm.DB, name string) *types.Field {
	tb.Helper()
	f := &types.Field{ID: uuid.New(), Name: name}
	if err := tx.Create(f).Error; err != nil {
		tb.Fatalf("seed field: %v", err)
	}
	return f
}

func seedCourse(tb testing.TB, tx *gorm.DB, fieldID uuid.UUID, title string) *types.Course {
	tb.Helper()
	c := &types.Course{ID: uuid.New(), FieldID: fieldID, Title: title}
	if err := tx.Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func seedTopic(tb testing.TB, tx *gorm.DB, courseID uuid.UUID, name string) *types.Topic {
	tb.Helper()
	topic := &types.Topic{
		ID:            uuid.New(),
		CourseID:      courseID,
		Name:          name,
		URL:           "https://www.youtube.com/embed/" + uuid.NewString()[:8],
		IsRecommended: true,
	}
	if err := tx.Create(topic).Error; err != nil {
		tb.Fatalf("seed topic: %v", err)
	}
	return topic
}

func enroll(tb testing.TB, tx *gorm.DB, repo repos.EnrollmentRepo, userID, courseID uuid.UUID) *types.Enrollment {
	tb.Helper()
	e, err := repo.Create(context.Background(), tx, &types.Enrollment{
		ID:       uuid.New(),
		UserID:   userID,
		CourseID: courseID,
	})
	if err != nil {
		tb.Fatalf("seed enrollment: %v", err)
	}
	return e
}

func repoFixture(tb testing.TB) *gorm.DB {
	tb.Helper()
	return testutil.Tx(tb, testutil.DB(tb))
}
