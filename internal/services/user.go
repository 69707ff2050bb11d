package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campuslink/campuslink-backend/internal/logger"
	"github.com/campuslink/campuslink-backend/internal/repos"
	"github.com/campuslink/campuslink-backend/internal/requestdata"
	"github.com/campuslink/campuslink-backend/internal/types"
)

type UpdateProfileInput struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Department *string `json:"department"`
	Bio        *string `json:"bio"`
}

type UserService interface {
	GetMe(ctx context.Context) (*types.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*types.User, error)
	UpdateProfile(ctx context.Context, input UpdateProfileInput) (*types.User, error)
	UpdateAvatarImage(ctx context.Context, raw []byte) (*types.User, error)
	SetStatus(ctx context.Context, userID uuid.UUID, status string) error
	DeleteMe(ctx context.Context) error
}

type userService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	avatarService AvatarService
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, avatarService AvatarService) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		avatarService: avatarService,
	}
}

func (us *userService) currentUser(ctx context.Context) (*types.User, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("no authenticated user in context")
	}
	return us.GetByID(ctx, rd.UserID)
}

func (us *userService) GetMe(ctx context.Context) (*types.User, error) {
	return us.currentUser(ctx)
}

func (us *userService) GetByID(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	found, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("error fetching user: %w", err)
	}
	if len(found) == 0 || found[0] == nil {
		return nil, fmt.Errorf("user does not exist")
	}
	return found[0], nil
}

func (us *userService) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*types.User, error) {
	user, err := us.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Department != nil {
		user.Department = strings.TrimSpace(*input.Department)
	}
	if input.Bio != nil {
		user.Bio = strings.TrimSpace(*input.Bio)
	}
	if user.FirstName == "" || user.LastName == "" {
		return nil, fmt.Errorf("a name is required")
	}
	if err := us.userRepo.Save(ctx, nil, user); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return user, nil
}

func (us *userService) UpdateAvatarImage(ctx context.Context, raw []byte) (*types.User, error) {
	if us.avatarService == nil {
		return nil, fmt.Errorf("avatar service is not configured")
	}
	user, err := us.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := us.avatarService.CreateUserAvatarFromImage(ctx, user, raw); err != nil {
		return nil, err
	}
	if err := us.userRepo.Save(ctx, nil, user); err != nil {
		return nil, fmt.Errorf("failed to save avatar fields: %w", err)
	}
	return user, nil
}

func (us *userService) SetStatus(ctx context.Context, userID uuid.UUID, status string) error {
	switch status {
	case types.UserStatusPending, types.UserStatusApproved, types.UserStatusRejected:
	default:
		return fmt.Errorf("invalid user status %q", status)
	}
	if err := us.userRepo.UpdateStatus(ctx, nil, userID, status); err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}
	us.log.Info("User status updated", "user_id", userID, "status", status)
	return nil
}

func (us *userService) DeleteMe(ctx context.Context) error {
	user, err := us.currentUser(ctx)
	if err != nil {
		return err
	}
	// Recommendation rows referencing the user go with it via FK cascade.
	if err := us.userRepo.Delete(ctx, nil, user.ID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	us.log.Info("User deleted", "user_id", user.ID)
	return nil
}
