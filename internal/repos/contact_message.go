package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/coursepath/coursepath-backend/internal/logger"
	"github.com/coursepath/coursepath-backend/internal/types"
)

type ContactMessageRepo interface {
	Create(ctx context.Context, tx *gorm.DB, messages []*types.ContactMessage) ([]*types.ContactMessage, error)
}

type contactMessageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContactMessageRepo(db *gorm.DB, baseLog *logger.Logger) ContactMessageRepo {
	return &contactMessageRepo{db: db, log: baseLog.With("repo", "ContactMessageRepo")}
}

func (r *contactMessageRepo) Create(ctx context.Context, tx *gorm.DB, messages []*types.ContactMessage) ([]*types.ContactMessage, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(messages) == 0 {
		return []*types.ContactMessage{}, nil
	}
	if err := t.WithContext(ctx).Create(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}
