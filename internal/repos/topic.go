package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursepath/coursepath-backend/internal/logger"
	"github.com/coursepath/coursepath-backend/internal/types"
)

type TopicRepo interface {
	Create(ctx context.Context, tx *gorm.DB, topics []*types.Topic) ([]*types.Topic, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Topic, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Topic, error)
	ListByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.Topic, error)
	ListIDsByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]uuid.UUID, error)
	// ListRecommended returns recommended topics in the given courses,
	// excluding the given topic ids, oldest first.
	ListRecommended(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID, excludeTopicIDs []uuid.UUID, limit int) ([]*types.Topic, error)
	CountByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (int64, error)
	CountByCourseIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	ExistsForCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (bool, error)
	DeleteByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) error
}

type topicRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTopicRepo(db *gorm.DB, baseLog *logger.Logger) TopicRepo {
	return &topicRepo{db: db, log: baseLog.With("repo", "TopicRepo")}
}

func (r *topicRepo) Create(ctx context.Context, tx *gorm.DB, topics []*types.Topic) ([]*types.Topic, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(topics) == 0 {
		return []*types.Topic{}, nil
	}
	if err := t.WithContext(ctx).Create(&topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}

func (r *topicRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Topic, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Topic
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

func (r *topicRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Topic, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	rows, err := r.GetByIDs(ctx, tx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *topicRepo) ListByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.Topic, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Topic
	if courseID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *topicRepo) ListIDsByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]uuid.UUID, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []uuid.UUID
	if courseID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Model(&types.Topic{}).
		Where("course_id = ?", courseID).
		Pluck("id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *topicRepo) ListRecommended(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID, excludeTopicIDs []uuid.UUID, limit int) ([]*types.Topic, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Topic
	if len(courseIDs) == 0 {
		return out, nil
	}
	q := t.WithContext(ctx).
		Where("course_id IN ? AND is_recommended = ?", courseIDs, true)
	if len(excludeTopicIDs) > 0 {
		q = q.Where("id NOT IN ?", excludeTopicIDs)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *topicRepo) CountByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if courseID == uuid.Nil {
		return 0, nil
	}
	var count int64
	if err := t.WithContext(ctx).
		Model(&types.Topic{}).
		Where("course_id = ?", courseID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *topicRepo) CountByCourseIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	counts := make(map[uuid.UUID]int64, len(courseIDs))
	if len(courseIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		CourseID uuid.UUID
		N        int64
	}
	if err := t.WithContext(ctx).
		Model(&types.Topic{}).
		Select("course_id, COUNT(*) AS n").
		Where("course_id IN ?", courseIDs).
		Group("course_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.CourseID] = row.N
	}
	return counts, nil
}

func (r *topicRepo) ExistsForCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (bool, error) {
	n, err := r.CountByCourseID(ctx, tx, courseID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *topicRepo) DeleteByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if courseID == uuid.Nil {
		return nil
	}
	return t.WithContext(ctx).Where("course_id = ?", courseID).Delete(&types.Topic{}).Error
}
