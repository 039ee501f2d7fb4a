package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursepath/coursepath-backend/internal/apperr"
	"github.com/coursepath/coursepath-backend/internal/logger"
	"github.com/coursepath/coursepath-backend/internal/normalization"
	"github.com/coursepath/coursepath-backend/internal/repos"
	"github.com/coursepath/coursepath-backend/internal/types"
)

type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type ContactService interface {
	Submit(ctx context.Context, in ContactInput) (*types.ContactMessage, error)
}

type contactService struct {
	db   *gorm.DB
	log  *logger.Logger
	repo repos.ContactMessageRepo
}

func NewContactService(db *gorm.DB, baseLog *logger.Logger, repo repos.ContactMessageRepo) ContactService {
	return &contactService{
		db:   db,
		log:  baseLog.With("service", "ContactService"),
		repo: repo,
	}
}

func (s *contactService) Submit(ctx context.Context, in ContactInput) (*types.ContactMessage, error) {
	in.Name = normalization.Trim(in.Name)
	in.Email = normalization.Email(in.Email)
	in.Message = normalization.Trim(in.Message)
	if in.Name == "" || in.Email == "" || in.Message == "" {
		return nil, fmt.Errorf("name, email and message are required: %w", apperr.ErrInvalidArgument)
	}

	msg := &types.ContactMessage{
		ID:      uuid.New(),
		Name:    in.Name,
		Email:   in.Email,
		Message: in.Message,
	}
	if _, err := s.repo.Create(ctx, nil, []*types.ContactMessage{msg}); err != nil {
		return nil, fmt.Errorf("create contact message: %w", err)
	}
	s.log.Info("Contact message received", "email", in.Email)
	return msg, nil
}
