package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/talent-platform/models"
	"github.com/Dosada05/talent-platform/repositories"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	// Login checks credentials and rejects accounts that have not completed
	// email verification.
	Login(ctx context.Context, input models.Credentials) (*models.User, error)
}

type authService struct {
	userRepo repositories.UserRepository
}

func NewAuthService(userRepo repositories.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) Login(ctx context.Context, input models.Credentials) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}

	if !user.IsActive {
		return nil, ErrEmailNotVerified
	}

	user.PasswordHash = ""
	return user, nil
}
