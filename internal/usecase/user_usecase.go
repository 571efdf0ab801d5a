package usecase

import (
	"context"

	"playverse/internal/domain/entity"
	"playverse/internal/domain/repository"
	"playverse/internal/infrastructure/cache"
	"playverse/pkg/errors"
)

type UserUseCase struct {
	userRepo repository.UserRepository
	presence *cache.PresenceCache
}

func NewUserUseCase(userRepo repository.UserRepository, presence *cache.PresenceCache) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
		presence: presence,
	}
}

type UpdateProfileInput struct {
	Username  string
	Bio       string
	AvatarURL string
}

func (uc *UserUseCase) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if uc.presence.IsUserOnline(ctx, userID) {
		user.OnlineStatus = "online"
	} else {
		user.OnlineStatus = "offline"
	}

	return user, nil
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Username != "" {
		user.Username = input.Username
	}
	if input.Bio != "" {
		user.Bio = input.Bio
	}
	if input.AvatarURL != "" {
		user.AvatarURL = input.AvatarURL
	}

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// ListUsers is the admin back-office listing; filter by role or status
func (uc *UserUseCase) ListUsers(ctx context.Context, role, userStatus string, limit, offset int) ([]*entity.User, int64, error) {
	filter := make(map[string]interface{})
	if role != "" {
		filter["role"] = role
	}
	if userStatus != "" {
		filter["status"] = userStatus
	}

	return uc.userRepo.List(ctx, filter, limit, offset)
}

// SetUserStatus bans or reactivates an account
func (uc *UserUseCase) SetUserStatus(ctx context.Context, userID, newStatus string) (*entity.User, error) {
	if newStatus != "active" && newStatus != "banned" {
		return nil, errors.BadRequest("Status must be either active or banned", nil)
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Status = newStatus
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
