package service

import (
	"context"

	"alcove/internal/models"
	"alcove/internal/repository"
)

// UserService provides account lookups and admin role management.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// IsAdmin reports whether the user holds the admin role. Wired into services
// that accept moderator overrides.
func (s *UserService) IsAdmin(ctx context.Context, userID uint) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.IsAdmin(), nil
}

// SetRole grants or revokes the admin role.
func (s *UserService) SetRole(ctx context.Context, targetID uint, role string) (*models.User, error) {
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, models.NewValidationError("Unknown role")
	}

	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	user.Role = role
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
