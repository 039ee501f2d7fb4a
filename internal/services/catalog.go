package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursepath/coursepath-backend/internal/logger"
	"github.com/coursepath/coursepath-backend/internal/repos"
	"github.com/coursepath/coursepath-backend/internal/types"
)

// CatalogCourse is a course as shown on the browse page, annotated with the
// viewer's enrollment and how many topics the course currently holds.
type CatalogCourse struct {
	Course     *types.Course `json:"course"`
	Enrolled   bool          `json:"enrolled"`
	TopicCount int64         `json:"topic_count"`
}

type CatalogField struct {
	Field   *types.Field    `json:"field"`
	Courses []CatalogCourse `json:"courses"`
}

type CatalogService interface {
	// Browse returns every field with its courses, ordered by field name.
	Browse(ctx context.Context, userID uuid.UUID) ([]CatalogField, error)
}

type catalogService struct {
	db             *gorm.DB
	log            *logger.Logger
	fieldRepo      repos.FieldRepo
	topicRepo      repos.TopicRepo
	enrollmentRepo repos.EnrollmentRepo
}

func NewCatalogService(
	db *gorm.DB,
	baseLog *logger.Logger,
	fieldRepo repos.FieldRepo,
	topicRepo repos.TopicRepo,
	enrollmentRepo repos.EnrollmentRepo,
) CatalogService {
	return &catalogService{
		db:             db,
		log:            baseLog.With("service", "CatalogService"),
		fieldRepo:      fieldRepo,
		topicRepo:      topicRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

func (s *catalogService) Browse(ctx context.Context, userID uuid.UUID) ([]CatalogField, error) {
	fields, err := s.fieldRepo.ListWithCourses(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list fields: %w", err)
	}

	var courseIDs []uuid.UUID
	for _, f := range fields {
		for i := range f.Courses {
			courseIDs = append(courseIDs, f.Courses[i].ID)
		}
	}

	counts := map[uuid.UUID]int64{}
	if len(courseIDs) > 0 {
		counts, err = s.topicRepo.CountByCourseIDs(ctx, nil, courseIDs)
		if err != nil {
			return nil, fmt.Errorf("count topics: %w", err)
		}
	}

	enrolled := map[uuid.UUID]bool{}
	if userID != uuid.Nil {
		ids, err := s.enrollmentRepo.ListCourseIDsByUserID(ctx, nil, userID)
		if err != nil {
			return nil, fmt.Errorf("list enrollments: %w", err)
		}
		for _, id := range ids {
			enrolled[id] = true
		}
	}

	out := make([]CatalogField, 0, len(fields))
	for _, f := range fields {
		cf := CatalogField{Field: f, Courses: make([]CatalogCourse, 0, len(f.Courses))}
		for i := range f.Courses {
			course := &f.Courses[i]
			cf.Courses = append(cf.Courses, CatalogCourse{
				Course:     course,
				Enrolled:   enrolled[course.ID],
				TopicCount: counts[course.ID],
			})
		}
		out = append(out, cf)
	}
	return out, nil
}
