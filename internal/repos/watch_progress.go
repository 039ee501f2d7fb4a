package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursepath/coursepath-backend/internal/logger"
	"github.com/coursepath/coursepath-backend/internal/types"
)

type WatchProgressRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.WatchProgress) ([]*types.WatchProgress, error)
	GetByUserAndTopic(ctx context.Context, tx *gorm.DB, userID, topicID uuid.UUID) (*types.WatchProgress, error)
	ListByUserAndTopicIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID, topicIDs []uuid.UUID) ([]*types.WatchProgress, error)
	// ListRecentByUser returns the user's rows most recently written first.
	ListRecentByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.WatchProgress, error)
	ListTopicIDsByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.WatchProgress) error
	CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	CountCompletedByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	// CountCompletedInCourses counts the user's completed rows whose topic
	// belongs to one of the given courses.
	CountCompletedInCourses(ctx context.Context, tx *gorm.DB, userID uuid.UUID, courseIDs []uuid.UUID) (int64, error)
	DeleteByTopicIDs(ctx context.Context, tx *gorm.DB, topicIDs []uuid.UUID) error
}

type watchProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWatchProgressRepo(db *gorm.DB, baseLog *logger.Logger) WatchProgressRepo {
	return &watchProgressRepo{db: db, log: baseLog.With("repo", "WatchProgressRepo")}
}

func (r *watchProgressRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.WatchProgress) ([]*types.WatchProgress, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.WatchProgress{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *watchProgressRepo) GetByUserAndTopic(ctx context.Context, tx *gorm.DB, userID, topicID uuid.UUID) (*types.WatchProgress, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil || topicID == uuid.Nil {
		return nil, nil
	}
	var out []*types.WatchProgress
	if err := t.WithContext(ctx).
		Where("user_id = ? AND topic_id = ?", userID, topicID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *watchProgressRepo) ListByUserAndTopicIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID, topicIDs []uuid.UUID) ([]*types.WatchProgress, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.WatchProgress
	if userID == uuid.Nil || len(topicIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("user_id = ? AND topic_id IN ?", userID, topicIDs).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *watchProgressRepo) ListRecentByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.WatchProgress, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.WatchProgress
	if userID == uuid.Nil {
		return out, nil
	}
	q := t.WithContext(ctx).
		Preload("Topic").
		Where("user_id = ?", userID).
		Order("updated_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *watchProgressRepo) ListTopicIDsByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []uuid.UUID
	if userID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Model(&types.WatchProgress{}).
		Where("user_id = ?", userID).
		Pluck("topic_id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *watchProgressRepo) Update(ctx context.Context, tx *gorm.DB, row *types.WatchProgress) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return nil
	}
	return t.WithContext(ctx).Save(row).Error
}

func (r *watchProgressRepo) CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil {
		return 0, nil
	}
	var count int64
	if err := t.WithContext(ctx).
		Model(&types.WatchProgress{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *watchProgressRepo) CountCompletedByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil {
		return 0, nil
	}
	var count int64
	if err := t.WithContext(ctx).
		Model(&types.WatchProgress{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *watchProgressRepo) CountCompletedInCourses(ctx context.Context, tx *gorm.DB, userID uuid.UUID, courseIDs []uuid.UUID) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil || len(courseIDs) == 0 {
		return 0, nil
	}
	var count int64
	if err := t.WithContext(ctx).
		Model(&types.WatchProgress{}).
		Joins("JOIN topic ON topic.id = watch_progress.topic_id").
		Where("watch_progress.user_id = ? AND watch_progress.completed = ? AND topic.course_id IN ?", userID, true, courseIDs).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *watchProgressRepo) DeleteByTopicIDs(ctx context.Context, tx *gorm.DB, topicIDs []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(topicIDs) == 0 {
		return nil
	}
	return t.WithContext(ctx).Where("topic_id IN ?", topicIDs).Delete(&types.WatchProgress{}).Error
}
