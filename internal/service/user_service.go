package service

import (
	"context"
	"errors"
	"fmt"

	"mind-maze/internal/dto"
	"mind-maze/internal/repository"
)

var ErrUserProfileNotFound = errors.New("user profile not found")

// UserService defines the interface for user-related operations.
type UserService interface {
	GetUserProfile(ctx context.Context, userID string) (*dto.UserProfileResponse, error)
}

type userServiceImpl struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new instance of UserService.
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userServiceImpl{userRepo: userRepo}
}

// GetUserProfile retrieves a user's profile information.
func (s *userServiceImpl) GetUserProfile(ctx context.Context, userID string) (*dto.UserProfileResponse, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", userID, err)
	}
	if user == nil {
		return nil, ErrUserProfileNotFound
	}

	return &dto.UserProfileResponse{
		ID:                user.ID,
		Email:             user.Email,
		Name:              user.Name.String,
		ProfilePictureURL: user.ProfilePictureURL.String,
		CreatedAt:         user.CreatedAt,
	}, nil
}
