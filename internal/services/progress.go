package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursepath/coursepath-backend/internal/apperr"
	"github.com/coursepath/coursepath-backend/internal/clients/redis"
	"github.com/coursepath/coursepath-backend/internal/logger"
	"github.com/coursepath/coursepath-backend/internal/repos"
	"github.com/coursepath/coursepath-backend/internal/types"
)

// TopicWithProgress pairs a topic with the requesting user's watch state.
// Progress is nil when the user has not opened the topic yet.
type TopicWithProgress struct {
	Topic    *types.Topic         `json:"topic"`
	Progress *types.WatchProgress `json:"progress,omitempty"`
}

type CourseTopicsResult struct {
	Course     *types.Course       `json:"course"`
	Topics     []TopicWithProgress `json:"topics"`
	Completed  int                 `json:"completed"`
	TotalCount int                 `json:"total_count"`
}

type ProgressService interface {
	// Record upserts the user's watch state for a topic. The last write
	// wins; there is no monotonicity requirement on elapsed seconds.
	Record(ctx context.Context, userID, topicID uuid.UUID, elapsedSeconds int, completed bool) (*types.WatchProgress, error)
	CourseTopics(ctx context.Context, userID, courseID uuid.UUID) (*CourseTopicsResult, error)
}

type progressService struct {
	db           *gorm.DB
	log          *logger.Logger
	topicRepo    repos.TopicRepo
	courseRepo   repos.CourseRepo
	progressRepo repos.WatchProgressRepo
	cache        redis.Cache
}

func NewProgressService(
	db *gorm.DB,
	baseLog *logger.Logger,
	topicRepo repos.TopicRepo,
	courseRepo repos.CourseRepo,
	progressRepo repos.WatchProgressRepo,
	cache redis.Cache,
) ProgressService {
	return &progressService{
		db:           db,
		log:          baseLog.With("service", "ProgressService"),
		topicRepo:    topicRepo,
		courseRepo:   courseRepo,
		progressRepo: progressRepo,
		cache:        cache,
	}
}

func (s *progressService) Record(ctx context.Context, userID, topicID uuid.UUID, elapsedSeconds int, completed bool) (*types.WatchProgress, error) {
	topic, err := s.topicRepo.GetByID(ctx, nil, topicID)
	if err != nil {
		return nil, fmt.Errorf("load topic: %w", err)
	}
	if topic == nil {
		return nil, apperr.NewNotFound("topic", topicID)
	}

	row, err := s.progressRepo.GetByUserAndTopic(ctx, nil, userID, topicID)
	if err != nil {
		return nil, fmt.Errorf("load watch progress: %w", err)
	}
	if row == nil {
		row = &types.WatchProgress{
			ID:             uuid.New(),
			UserID:         userID,
			TopicID:        topicID,
			ElapsedSeconds: elapsedSeconds,
			Completed:      completed,
			UpdatedAt:      time.Now().UTC(),
		}
		if _, err := s.progressRepo.Create(ctx, nil, []*types.WatchProgress{row}); err != nil {
			return nil, fmt.Errorf("create watch progress: %w", err)
		}
	} else {
		row.ElapsedSeconds = elapsedSeconds
		row.Completed = completed
		row.UpdatedAt = time.Now().UTC()
		if err := s.progressRepo.Update(ctx, nil, row); err != nil {
			return nil, fmt.Errorf("update watch progress: %w", err)
		}
	}

	s.invalidateDashboard(ctx, userID)
	return row, nil
}

func (s *progressService) CourseTopics(ctx context.Context, userID, courseID uuid.UUID) (*CourseTopicsResult, error) {
	course, err := s.courseRepo.GetByID(ctx, nil, courseID)
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	if course == nil {
		return nil, apperr.NewNotFound("course", courseID)
	}

	topics, err := s.topicRepo.ListByCourseID(ctx, nil, courseID)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}

	topicIDs := make([]uuid.UUID, 0, len(topics))
	for _, t := range topics {
		topicIDs = append(topicIDs, t.ID)
	}
	rows, err := s.progressRepo.ListByUserAndTopicIDs(ctx, nil, userID, topicIDs)
	if err != nil {
		return nil, fmt.Errorf("list watch progress: %w", err)
	}
	byTopic := make(map[uuid.UUID]*types.WatchProgress, len(rows))
	for _, r := range rows {
		byTopic[r.TopicID] = r
	}

	result := &CourseTopicsResult{
		Course:     course,
		Topics:     make([]TopicWithProgress, 0, len(topics)),
		TotalCount: len(topics),
	}
	for _, t := range topics {
		p := byTopic[t.ID]
		if p != nil && p.Completed {
			result.Completed++
		}
		result.Topics = append(result.Topics, TopicWithProgress{Topic: t, Progress: p})
	}
	return result, nil
}

func (s *progressService) invalidateDashboard(ctx context.Context, userID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, dashboardCacheKey(userID)); err != nil {
		s.log.Warn("Dashboard cache invalidation failed", "user_id", userID, "error", err)
	}
}
