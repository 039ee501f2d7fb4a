package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursepath/coursepath-backend/internal/logger"
	"github.com/coursepath/coursepath-backend/internal/types"
)

type FieldRepo interface {
	Create(ctx context.Context, tx *gorm.DB, fields []*types.Field) ([]*types.Field, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Field, error)
	// ListWithCourses returns all fields ordered by name with their courses
	// preloaded.
	ListWithCourses(ctx context.Context, tx *gorm.DB) ([]*types.Field, error)
}

type fieldRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFieldRepo(db *gorm.DB, baseLog *logger.Logger) FieldRepo {
	return &fieldRepo{db: db, log: baseLog.With("repo", "FieldRepo")}
}

func (r *fieldRepo) Create(ctx context.Context, tx *gorm.DB, fields []*types.Field) ([]*types.Field, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(fields) == 0 {
		return []*types.Field{}, nil
	}
	if err := t.WithContext(ctx).Create(&fields).Error; err != nil {
		return nil, err
	}
	return fields, nil
}

func (r *fieldRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Field, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Field
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *fieldRepo) ListWithCourses(ctx context.Context, tx *gorm.DB) ([]*types.Field, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Field
	if err := t.WithContext(ctx).
		Preload("Courses").
		Order("name ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
