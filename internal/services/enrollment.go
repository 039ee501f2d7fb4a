package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursepath/coursepath-backend/internal/apperr"
	"github.com/coursepath/coursepath-backend/internal/logger"
	"github.com/coursepath/coursepath-backend/internal/repos"
	"github.com/coursepath/coursepath-backend/internal/types"
)

type EnrollResult struct {
	Created       bool `json:"created"`
	TopicsCreated int  `json:"topics_created"`
}

// BatchOutcome is the per-course result of a bulk enrollment. Status is one
// of "enrolled", "already_enrolled" or "not_found".
type BatchOutcome struct {
	CourseID      uuid.UUID `json:"course_id"`
	Status        string    `json:"status"`
	TopicsCreated int       `json:"topics_created"`
}

type ReconcileResult struct {
	Added   []uuid.UUID `json:"added"`
	Removed []uuid.UUID `json:"removed"`
}

type EnrollmentService interface {
	Enroll(ctx context.Context, userID, courseID uuid.UUID) (EnrollResult, error)
	EnrollBatch(ctx context.Context, userID uuid.UUID, courseIDs []uuid.UUID) []BatchOutcome
	// Reconcile makes the user's enrolled set equal the target set. Unknown
	// target ids are dropped silently. Watch progress rows are left alone on
	// removal; they become visible again if the user re-enrolls.
	Reconcile(ctx context.Context, userID uuid.UUID, targetCourseIDs []uuid.UUID) (ReconcileResult, error)
	Unenroll(ctx context.Context, userID, courseID uuid.UUID) error
	IsEnrolled(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
	EnrolledCourseIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type enrollmentService struct {
	db             *gorm.DB
	log            *logger.Logger
	enrollmentRepo repos.EnrollmentRepo
	courseRepo     repos.CourseRepo
	population     PopulationService
}

func NewEnrollmentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	enrollmentRepo repos.EnrollmentRepo,
	courseRepo repos.CourseRepo,
	population PopulationService,
) EnrollmentService {
	return &enrollmentService{
		db:             db,
		log:            baseLog.With("service", "EnrollmentService"),
		enrollmentRepo: enrollmentRepo,
		courseRepo:     courseRepo,
		population:     population,
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, userID, courseID uuid.UUID) (EnrollResult, error) {
	course, err := s.courseRepo.GetByID(ctx, nil, courseID)
	if err != nil {
		return EnrollResult{}, fmt.Errorf("load course: %w", err)
	}
	if course == nil {
		return EnrollResult{}, apperr.NewNotFound("course", courseID)
	}

	enrollment := &types.Enrollment{
		ID:       uuid.New(),
		UserID:   userID,
		CourseID: courseID,
	}
	if _, err := s.enrollmentRepo.Create(ctx, nil, enrollment); err != nil {
		// The unique (user, course) index turns a concurrent or repeated
		// enroll into a duplicate-key error; that means already enrolled.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return EnrollResult{Created: false}, nil
		}
		return EnrollResult{}, fmt.Errorf("create enrollment: %w", err)
	}

	topicsCreated, err := s.population.Populate(ctx, courseID)
	if err != nil {
		// The enrollment itself stands; population can be retried via
		// the refresh surface.
		s.log.Warn("Population after enroll failed", "course_id", courseID, "error", err)
		topicsCreated = 0
	}
	return EnrollResult{Created: true, TopicsCreated: topicsCreated}, nil
}

func (s *enrollmentService) EnrollBatch(ctx context.Context, userID uuid.UUID, courseIDs []uuid.UUID) []BatchOutcome {
	outcomes := make([]BatchOutcome, 0, len(courseIDs))
	for _, courseID := range courseIDs {
		res, err := s.Enroll(ctx, userID, courseID)
		switch {
		case apperr.IsNotFound(err):
			outcomes = append(outcomes, BatchOutcome{CourseID: courseID, Status: "not_found"})
		case err != nil:
			s.log.Error("Batch enroll failed for course", "course_id", courseID, "error", err)
			outcomes = append(outcomes, BatchOutcome{CourseID: courseID, Status: "error"})
		case res.Created:
			outcomes = append(outcomes, BatchOutcome{CourseID: courseID, Status: "enrolled", TopicsCreated: res.TopicsCreated})
		default:
			outcomes = append(outcomes, BatchOutcome{CourseID: courseID, Status: "already_enrolled"})
		}
	}
	return outcomes
}

func (s *enrollmentService) Reconcile(ctx context.Context, userID uuid.UUID, targetCourseIDs []uuid.UUID) (ReconcileResult, error) {
	current, err := s.enrollmentRepo.ListCourseIDsByUserID(ctx, nil, userID)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("list current enrollments: %w", err)
	}

	currentSet := make(map[uuid.UUID]bool, len(current))
	for _, id := range current {
		currentSet[id] = true
	}
	targetSet := make(map[uuid.UUID]bool, len(targetCourseIDs))
	for _, id := range targetCourseIDs {
		targetSet[id] = true
	}

	result := ReconcileResult{Added: []uuid.UUID{}, Removed: []uuid.UUID{}}

	for id := range targetSet {
		if currentSet[id] {
			continue
		}
		res, err := s.Enroll(ctx, userID, id)
		if apperr.IsNotFound(err) {
			// Unknown ids in the target set are dropped, not errors.
			continue
		}
		if err != nil {
			return ReconcileResult{}, fmt.Errorf("enroll course %s: %w", id, err)
		}
		if res.Created {
			result.Added = append(result.Added, id)
		}
	}

	var toRemove []uuid.UUID
	for _, id := range current {
		if !targetSet[id] {
			toRemove = append(toRemove, id)
		}
	}
	if len(toRemove) > 0 {
		if err := s.enrollmentRepo.DeleteByUserAndCourseIDs(ctx, nil, userID, toRemove); err != nil {
			return ReconcileResult{}, fmt.Errorf("delete enrollments: %w", err)
		}
		result.Removed = toRemove
	}

	return result, nil
}

func (s *enrollmentService) Unenroll(ctx context.Context, userID, courseID uuid.UUID) error {
	return s.enrollmentRepo.DeleteByUserAndCourseIDs(ctx, nil, userID, []uuid.UUID{courseID})
}

func (s *enrollmentService) IsEnrolled(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	return s.enrollmentRepo.Exists(ctx, nil, userID, courseID)
}

func (s *enrollmentService) EnrolledCourseIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return s.enrollmentRepo.ListCourseIDsByUserID(ctx, nil, userID)
}
