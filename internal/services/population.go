package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursepath/coursepath-backend/internal/apperr"
	"github.com/coursepath/coursepath-backend/internal/clients/youtube"
	"github.com/coursepath/coursepath-backend/internal/logger"
	"github.com/coursepath/coursepath-backend/internal/repos"
	"github.com/coursepath/coursepath-backend/internal/types"
)

// VideoProvider is the slice of the youtube client the population pipeline
// needs; faked in tests.
type VideoProvider interface {
	Search(ctx context.Context, query string, maxResults int) []youtube.Video
}

type PopulationService interface {
	// Populate fetches videos for the course and persists them as topics.
	// It returns 0 without searching when the course already has topics.
	Populate(ctx context.Context, courseID uuid.UUID) (int, error)
	// Refresh drops the course's topics (and their watch progress) and
	// repopulates from scratch.
	Refresh(ctx context.Context, courseID uuid.UUID) (int, error)
}

type populationService struct {
	db           *gorm.DB
	log          *logger.Logger
	provider     VideoProvider
	courseRepo   repos.CourseRepo
	topicRepo    repos.TopicRepo
	progressRepo repos.WatchProgressRepo
	maxResults   int
}

func NewPopulationService(
	db *gorm.DB,
	baseLog *logger.Logger,
	provider VideoProvider,
	courseRepo repos.CourseRepo,
	topicRepo repos.TopicRepo,
	progressRepo repos.WatchProgressRepo,
	maxResults int,
) PopulationService {
	if maxResults <= 0 {
		maxResults = 15
	}
	return &populationService{
		db:           db,
		log:          baseLog.With("service", "PopulationService"),
		provider:     provider,
		courseRepo:   courseRepo,
		topicRepo:    topicRepo,
		progressRepo: progressRepo,
		maxResults:   maxResults,
	}
}

func (s *populationService) Populate(ctx context.Context, courseID uuid.UUID) (int, error) {
	var created int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		course, err := s.courseRepo.GetByID(ctx, tx, courseID)
		if err != nil {
			return fmt.Errorf("load course: %w", err)
		}
		if course == nil {
			return apperr.NewNotFound("course", courseID)
		}

		// Existence gate: a populated course is never repopulated here.
		exists, err := s.topicRepo.ExistsForCourse(ctx, tx, courseID)
		if err != nil {
			return fmt.Errorf("check existing topics: %w", err)
		}
		if exists {
			return nil
		}

		created = s.populateCourse(ctx, tx, course)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

func (s *populationService) Refresh(ctx context.Context, courseID uuid.UUID) (int, error) {
	var created int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		course, err := s.courseRepo.GetByID(ctx, tx, courseID)
		if err != nil {
			return fmt.Errorf("load course: %w", err)
		}
		if course == nil {
			return apperr.NewNotFound("course", courseID)
		}

		topicIDs, err := s.topicRepo.ListIDsByCourseID(ctx, tx, courseID)
		if err != nil {
			return fmt.Errorf("list topics for refresh: %w", err)
		}
		if err := s.progressRepo.DeleteByTopicIDs(ctx, tx, topicIDs); err != nil {
			return fmt.Errorf("delete watch progress for refresh: %w", err)
		}
		if err := s.topicRepo.DeleteByCourseID(ctx, tx, courseID); err != nil {
			return fmt.Errorf("delete topics for refresh: %w", err)
		}

		created = s.populateCourse(ctx, tx, course)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

// populateCourse persists each search candidate as a topic. A failing
// candidate is logged and skipped; the rest of the batch continues.
func (s *populationService) populateCourse(ctx context.Context, tx *gorm.DB, course *types.Course) int {
	candidates := s.provider.Search(ctx, course.Title, s.maxResults)
	if len(candidates) == 0 {
		s.log.Info("No video candidates for course", "course_id", course.ID, "title", course.Title)
		return 0
	}

	created := 0
	for _, candidate := range candidates {
		topic := topicFromCandidate(course.ID, candidate)
		err := tx.Transaction(func(inner *gorm.DB) error {
			_, createErr := s.topicRepo.Create(ctx, inner, []*types.Topic{topic})
			return createErr
		})
		if err != nil {
			s.log.Warn("Failed to create topic, skipping candidate", "course_id", course.ID, "name", candidate.Title, "error", err)
			continue
		}
		created++
	}
	s.log.Info("Populated course topics", "course_id", course.ID, "created", created)
	return created
}

func topicFromCandidate(courseID uuid.UUID, candidate youtube.Video) *types.Topic {
	topic := &types.Topic{
		ID:            uuid.New(),
		CourseID:      courseID,
		Name:          candidate.Title,
		URL:           candidate.URL,
		VideoID:       videoIDFromURL(candidate.URL),
		ThumbnailURL:  candidate.ThumbnailURL,
		Channel:       candidate.Channel,
		Duration:      candidate.Duration,
		ViewCount:     candidate.ViewCount,
		IsRecommended: true,
		Description:   candidate.Description,
	}
	if topic.VideoID == "" {
		topic.VideoID = candidate.VideoID
	}
	if meta, err := json.Marshal(map[string]interface{}{
		"published_at": candidate.PublishedAt,
		"channel":      candidate.Channel,
	}); err == nil {
		topic.Metadata = meta
	}
	return topic
}

// videoIDFromURL pulls the id out of an embed URL; empty when the URL does
// not match the embed pattern.
func videoIDFromURL(url string) string {
	const marker = "youtube.com/embed/"
	idx := strings.Index(url, marker)
	if idx < 0 {
		return ""
	}
	return url[idx+len(marker):]
}
