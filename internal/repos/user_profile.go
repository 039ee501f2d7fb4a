package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursepath/coursepath-backend/internal/logger"
	"github.com/coursepath/coursepath-backend/internal/types"
)

type UserProfileRepo interface {
	Create(ctx context.Context, tx *gorm.DB, profiles []*types.UserProfile) ([]*types.UserProfile, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserProfile, error)
	Update(ctx context.Context, tx *gorm.DB, profile *types.UserProfile) error
	TouchLastActive(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
}

type userProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserProfileRepo(db *gorm.DB, baseLog *logger.Logger) UserProfileRepo {
	return &userProfileRepo{db: db, log: baseLog.With("repo", "UserProfileRepo")}
}

func (r *userProfileRepo) Create(ctx context.Context, tx *gorm.DB, profiles []*types.UserProfile) ([]*types.UserProfile, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(profiles) == 0 {
		return []*types.UserProfile{}, nil
	}
	if err := t.WithContext(ctx).Create(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *userProfileRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserProfile, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil {
		return nil, nil
	}
	var out []*types.UserProfile
	if err := t.WithContext(ctx).
		Where("user_id = ?", userID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *userProfileRepo) Update(ctx context.Context, tx *gorm.DB, profile *types.UserProfile) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if profile == nil {
		return nil
	}
	return t.WithContext(ctx).Save(profile).Error
}

func (r *userProfileRepo) TouchLastActive(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil {
		return nil
	}
	return t.WithContext(ctx).
		Model(&types.UserProfile{}).
		Where("user_id = ?", userID).
		Update("last_active", time.Now().UTC()).Error
}
