package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursepath/coursepath-backend/internal/apperr"
	"github.com/coursepath/coursepath-backend/internal/clients/redis"
	"github.com/coursepath/coursepath-backend/internal/logger"
	"github.com/coursepath/coursepath-backend/internal/repos"
	"github.com/coursepath/coursepath-backend/internal/types"
)

const dashboardCacheTTL = 60 * time.Second

func dashboardCacheKey(userID uuid.UUID) string {
	return "dashboard:" + userID.String()
}

// EnrolledCourse is a catalog course annotated with the user's standing in it.
type EnrolledCourse struct {
	Course      *types.Course `json:"course"`
	TopicCount  int64         `json:"topic_count"`
	ProgressPct int           `json:"progress_pct"`
}

// ProgressSummary aggregates the user's standing across every enrolled
// course.
type ProgressSummary struct {
	TotalTopics     int64 `json:"total_topics"`
	CompletedTopics int64 `json:"completed_topics"`
	Percentage      int   `json:"percentage"`
}

type DashboardStats struct {
	CourseCount     int64                  `json:"course_count"`
	VideosWatched   int64                  `json:"videos_watched"`
	VideosCompleted int64                  `json:"videos_completed"`
	CompletionPct   float64                `json:"completion_pct"`
	RecentTopics    []*types.WatchProgress `json:"recent_topics"`
	Recommended     []*types.Topic         `json:"recommended"`
}

type StatsService interface {
	// ProfileCompleteness scores the account against a fixed five item
	// checklist and returns a rounded percentage.
	ProfileCompleteness(ctx context.Context, userID uuid.UUID) (int, error)
	// CourseProgress returns the rounded share of the course's topics the
	// user has completed. A course with no topics reports zero.
	CourseProgress(ctx context.Context, userID, courseID uuid.UUID) (int, error)
	// ProgressOverview totals topics and completions across all enrolled
	// courses. No enrollments (or no topics) reports zero percent.
	ProgressOverview(ctx context.Context, userID uuid.UUID) (*ProgressSummary, error)
	Dashboard(ctx context.Context, userID uuid.UUID) (*DashboardStats, error)
	EnrolledCourses(ctx context.Context, userID uuid.UUID) ([]EnrolledCourse, error)
}

type statsService struct {
	db             *gorm.DB
	log            *logger.Logger
	userRepo       repos.UserRepo
	profileRepo    repos.UserProfileRepo
	courseRepo     repos.CourseRepo
	topicRepo      repos.TopicRepo
	enrollmentRepo repos.EnrollmentRepo
	progressRepo   repos.WatchProgressRepo
	cache          redis.Cache
}

func NewStatsService(
	db *gorm.DB,
	baseLog *logger.Logger,
	userRepo repos.UserRepo,
	profileRepo repos.UserProfileRepo,
	courseRepo repos.CourseRepo,
	topicRepo repos.TopicRepo,
	enrollmentRepo repos.EnrollmentRepo,
	progressRepo repos.WatchProgressRepo,
	cache redis.Cache,
) StatsService {
	return &statsService{
		db:             db,
		log:            baseLog.With("service", "StatsService"),
		userRepo:       userRepo,
		profileRepo:    profileRepo,
		courseRepo:     courseRepo,
		topicRepo:      topicRepo,
		enrollmentRepo: enrollmentRepo,
		progressRepo:   progressRepo,
		cache:          cache,
	}
}

func (s *statsService) ProfileCompleteness(ctx context.Context, userID uuid.UUID) (int, error) {
	users, err := s.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return 0, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 {
		return 0, apperr.NewNotFound("user", userID)
	}
	user := users[0]

	profile, err := s.profileRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return 0, fmt.Errorf("load profile: %w", err)
	}

	checks := []bool{
		user.FirstName != "",
		user.LastName != "",
		user.Email != "",
		profile != nil && profile.AvatarURL != "",
		profile != nil && profile.Location != "",
	}
	filled := 0
	for _, ok := range checks {
		if ok {
			filled++
		}
	}
	return int(math.Round(float64(filled) / float64(len(checks)) * 100)), nil
}

func (s *statsService) CourseProgress(ctx context.Context, userID, courseID uuid.UUID) (int, error) {
	total, err := s.topicRepo.CountByCourseID(ctx, nil, courseID)
	if err != nil {
		return 0, fmt.Errorf("count topics: %w", err)
	}
	if total == 0 {
		return 0, nil
	}
	completed, err := s.progressRepo.CountCompletedInCourses(ctx, nil, userID, []uuid.UUID{courseID})
	if err != nil {
		return 0, fmt.Errorf("count completed: %w", err)
	}
	return int(math.Round(float64(completed) / float64(total) * 100)), nil
}

func (s *statsService) ProgressOverview(ctx context.Context, userID uuid.UUID) (*ProgressSummary, error) {
	summary := &ProgressSummary{}

	courseIDs, err := s.enrollmentRepo.ListCourseIDsByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	if len(courseIDs) == 0 {
		return summary, nil
	}

	counts, err := s.topicRepo.CountByCourseIDs(ctx, nil, courseIDs)
	if err != nil {
		return nil, fmt.Errorf("count topics: %w", err)
	}
	for _, n := range counts {
		summary.TotalTopics += n
	}
	summary.CompletedTopics, err = s.progressRepo.CountCompletedInCourses(ctx, nil, userID, courseIDs)
	if err != nil {
		return nil, fmt.Errorf("count completed: %w", err)
	}
	if summary.TotalTopics > 0 {
		summary.Percentage = int(math.Round(float64(summary.CompletedTopics) / float64(summary.TotalTopics) * 100))
	}
	return summary, nil
}

func (s *statsService) Dashboard(ctx context.Context, userID uuid.UUID) (*DashboardStats, error) {
	if cached := s.dashboardFromCache(ctx, userID); cached != nil {
		return cached, nil
	}

	stats := &DashboardStats{
		RecentTopics: []*types.WatchProgress{},
		Recommended:  []*types.Topic{},
	}

	courseIDs, err := s.enrollmentRepo.ListCourseIDsByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	stats.CourseCount = int64(len(courseIDs))

	stats.VideosWatched, err = s.progressRepo.CountByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("count watched: %w", err)
	}
	stats.VideosCompleted, err = s.progressRepo.CountCompletedByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("count completed: %w", err)
	}
	// Share of started videos that were finished, not share of the catalog.
	if stats.VideosWatched > 0 {
		stats.CompletionPct = float64(stats.VideosCompleted) / float64(stats.VideosWatched) * 100
	}

	if len(courseIDs) > 0 {
		watched, err := s.progressRepo.ListTopicIDsByUser(ctx, nil, userID)
		if err != nil {
			return nil, fmt.Errorf("list watched topic ids: %w", err)
		}
		stats.Recommended, err = s.topicRepo.ListRecommended(ctx, nil, courseIDs, watched, 5)
		if err != nil {
			return nil, fmt.Errorf("list recommended: %w", err)
		}
	}

	stats.RecentTopics, err = s.progressRepo.ListRecentByUser(ctx, nil, userID, 5)
	if err != nil {
		return nil, fmt.Errorf("list recent: %w", err)
	}

	s.dashboardToCache(ctx, userID, stats)
	return stats, nil
}

func (s *statsService) EnrolledCourses(ctx context.Context, userID uuid.UUID) ([]EnrolledCourse, error) {
	enrollments, err := s.enrollmentRepo.ListByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}

	courseIDs := make([]uuid.UUID, 0, len(enrollments))
	for _, e := range enrollments {
		courseIDs = append(courseIDs, e.CourseID)
	}
	counts := map[uuid.UUID]int64{}
	if len(courseIDs) > 0 {
		counts, err = s.topicRepo.CountByCourseIDs(ctx, nil, courseIDs)
		if err != nil {
			return nil, fmt.Errorf("count topics: %w", err)
		}
	}

	out := make([]EnrolledCourse, 0, len(enrollments))
	for _, e := range enrollments {
		pct, err := s.CourseProgress(ctx, userID, e.CourseID)
		if err != nil {
			return nil, err
		}
		out = append(out, EnrolledCourse{
			Course:      e.Course,
			TopicCount:  counts[e.CourseID],
			ProgressPct: pct,
		})
	}
	return out, nil
}

func (s *statsService) dashboardFromCache(ctx context.Context, userID uuid.UUID) *DashboardStats {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, dashboardCacheKey(userID))
	if err != nil {
		s.log.Warn("Dashboard cache read failed", "user_id", userID, "error", err)
		return nil
	}
	if raw == nil {
		return nil
	}
	var stats DashboardStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		s.log.Warn("Dashboard cache payload unreadable", "user_id", userID, "error", err)
		return nil
	}
	return &stats
}

func (s *statsService) dashboardToCache(ctx context.Context, userID uuid.UUID, stats *DashboardStats) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, dashboardCacheKey(userID), raw, dashboardCacheTTL); err != nil {
		s.log.Warn("Dashboard cache write failed", "user_id", userID, "error", err)
	}
}
