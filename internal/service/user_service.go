package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lallen30/skype-clone/internal/domain"
	"github.com/lallen30/skype-clone/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

type UpdateProfileInput struct {
	DisplayName *string `json:"display_name"`
	Status      *string `json:"status"`
}

// List returns every user except the caller, sorted by username.
func (s *UserService) List(ctx context.Context, callerID uuid.UUID) ([]domain.User, error) {
	users, err := s.userRepo.List(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, callerID, targetID uuid.UUID, input UpdateProfileInput) (*domain.User, error) {
	if callerID != targetID {
		return nil, ErrNotOwnProfile
	}

	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if input.DisplayName != nil && *input.DisplayName != "" {
		user.DisplayName = *input.DisplayName
	}
	if input.Status != nil && *input.Status != "" {
		if !domain.ValidStatus(*input.Status) {
			return nil, ErrInvalidStatus
		}
		user.Status = *input.Status
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}
	return user, nil
}

func (s *UserService) UpdateStatus(ctx context.Context, userID uuid.UUID, status string) (*domain.User, error) {
	if !domain.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	now := time.Now()
	user.Status = status
	if status == domain.StatusOffline {
		user.LastSeen = &now
	}
	user.UpdatedAt = now

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("updating status: %w", err)
	}
	return user, nil
}

func (s *UserService) UpdateAvatar(ctx context.Context, userID uuid.UUID, avatarURL string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	user.AvatarURL = &avatarURL
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("updating avatar: %w", err)
	}
	return user, nil
}
