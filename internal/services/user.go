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

type UserUpdateInput struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

type ProfileUpdateInput struct {
	Location  *string `json:"location"`
	AvatarURL *string `json:"avatar_url"`
}

// UserWithProfile is the account view the API returns. Completeness is the
// rounded checklist score from the stats service.
type UserWithProfile struct {
	User         *types.User        `json:"user"`
	Profile      *types.UserProfile `json:"profile"`
	Completeness int                `json:"completeness"`
	CourseCount  int64              `json:"course_count"`
}

type UserService interface {
	GetUser(ctx context.Context, userID uuid.UUID) (*UserWithProfile, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, in UserUpdateInput) (*types.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, in ProfileUpdateInput) (*types.UserProfile, error)
}

type userService struct {
	db             *gorm.DB
	log            *logger.Logger
	userRepo       repos.UserRepo
	profileRepo    repos.UserProfileRepo
	enrollmentRepo repos.EnrollmentRepo
	stats          StatsService
}

func NewUserService(
	db *gorm.DB,
	baseLog *logger.Logger,
	userRepo repos.UserRepo,
	profileRepo repos.UserProfileRepo,
	enrollmentRepo repos.EnrollmentRepo,
	stats StatsService,
) UserService {
	return &userService{
		db:             db,
		log:            baseLog.With("service", "UserService"),
		userRepo:       userRepo,
		profileRepo:    profileRepo,
		enrollmentRepo: enrollmentRepo,
		stats:          stats,
	}
}

func (s *userService) GetUser(ctx context.Context, userID uuid.UUID) (*UserWithProfile, error) {
	users, err := s.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 {
		return nil, apperr.NewNotFound("user", userID)
	}
	profile, err := s.profileRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	completeness, err := s.stats.ProfileCompleteness(ctx, userID)
	if err != nil {
		return nil, err
	}
	courseCount, err := s.enrollmentRepo.CountByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("count enrollments: %w", err)
	}
	return &UserWithProfile{
		User:         users[0],
		Profile:      profile,
		Completeness: completeness,
		CourseCount:  courseCount,
	}, nil
}

func (s *userService) UpdateUser(ctx context.Context, userID uuid.UUID, in UserUpdateInput) (*types.User, error) {
	users, err := s.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 {
		return nil, apperr.NewNotFound("user", userID)
	}
	user := users[0]

	if in.Username != nil {
		username := normalization.Trim(*in.Username)
		if username == "" {
			return nil, fmt.Errorf("username cannot be empty: %w", apperr.ErrInvalidArgument)
		}
		if taken, err := s.userRepo.UsernameExists(ctx, nil, username, userID); err != nil {
			return nil, fmt.Errorf("check username: %w", err)
		} else if taken {
			return nil, apperr.NewConflict("username", userID)
		}
		user.Username = username
	}
	if in.Email != nil {
		email := normalization.Email(*in.Email)
		if email == "" {
			return nil, fmt.Errorf("email cannot be empty: %w", apperr.ErrInvalidArgument)
		}
		if taken, err := s.userRepo.EmailExists(ctx, nil, email, userID); err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		} else if taken {
			return nil, apperr.NewConflict("email", userID)
		}
		user.Email = email
	}
	if in.FirstName != nil {
		user.FirstName = normalization.Trim(*in.FirstName)
	}
	if in.LastName != nil {
		user.LastName = normalization.Trim(*in.LastName)
	}

	if err := s.userRepo.Update(ctx, nil, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, in ProfileUpdateInput) (*types.UserProfile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if profile == nil {
		return nil, apperr.NewNotFound("profile", userID)
	}
	if in.Location != nil {
		profile.Location = normalization.Trim(*in.Location)
	}
	if in.AvatarURL != nil {
		profile.AvatarURL = normalization.Trim(*in.AvatarURL)
	}
	if err := s.profileRepo.Update(ctx, nil, profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return profile, nil
}
