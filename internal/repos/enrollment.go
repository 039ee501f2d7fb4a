package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursepath/coursepath-backend/internal/logger"
	"github.com/coursepath/coursepath-backend/internal/types"
)

type EnrollmentRepo interface {
	// Create inserts a single enrollment row. A duplicate (user, course)
	// pair surfaces as gorm.ErrDuplicatedKey for the caller to map.
	Create(ctx context.Context, tx *gorm.DB, enrollment *types.Enrollment) (*types.Enrollment, error)
	Exists(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (bool, error)
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Enrollment, error)
	ListCourseIDsByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error)
	CountByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	DeleteByUserAndCourseIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID, courseIDs []uuid.UUID) error
}

type enrollmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	return &enrollmentRepo{db: db, log: baseLog.With("repo", "EnrollmentRepo")}
}

func (r *enrollmentRepo) Create(ctx context.Context, tx *gorm.DB, enrollment *types.Enrollment) (*types.Enrollment, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if enrollment == nil {
		return nil, nil
	}
	if err := t.WithContext(ctx).Create(enrollment).Error; err != nil {
		return nil, err
	}
	return enrollment, nil
}

func (r *enrollmentRepo) Exists(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (bool, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var count int64
	if err := t.WithContext(ctx).
		Model(&types.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *enrollmentRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Enrollment, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Enrollment
	if userID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Preload("Course").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *enrollmentRepo) ListCourseIDsByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []uuid.UUID
	if userID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Model(&types.Enrollment{}).
		Where("user_id = ?", userID).
		Pluck("course_id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *enrollmentRepo) CountByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil {
		return 0, nil
	}
	var count int64
	if err := t.WithContext(ctx).
		Model(&types.Enrollment{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *enrollmentRepo) DeleteByUserAndCourseIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID, courseIDs []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil || len(courseIDs) == 0 {
		return nil
	}
	return t.WithContext(ctx).
		Where("user_id = ? AND course_id IN ?", userID, courseIDs).
		Delete(&types.Enrollment{}).Error
}
