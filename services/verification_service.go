package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/talent-platform/models"
	"github.com/Dosada05/talent-platform/repositories"
	"github.com/google/uuid"
)

// verificationTokenTTL is the validity window of an email-verification token.
const verificationTokenTTL = 7 * 24 * time.Hour

type VerificationService interface {
	// Issue supersedes any unused token for the user, persists a fresh one and
	// sends the verification email. Delivery failure is logged, not returned.
	Issue(ctx context.Context, user *models.User) (*models.EmailVerificationToken, error)
	// Redeem validates the token and, exactly once, marks it used and
	// activates its user. A second redemption fails with ErrTokenAlreadyUsed.
	Redeem(ctx context.Context, tokenID string) (*models.User, error)
	// ResendVerification re-issues a token for an unverified account. It
	// reports success for unknown or already-verified emails so the endpoint
	// does not leak registration status.
	ResendVerification(ctx context.Context, email string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type verificationService struct {
	tokenRepo repositories.TokenRepository
	userRepo  repositories.UserRepository
	txManager repositories.TxManager
	notifier  Notifier
	logger    *slog.Logger
}

func NewVerificationService(
	tokenRepo repositories.TokenRepository,
	userRepo repositories.UserRepository,
	txManager repositories.TxManager,
	notifier Notifier,
	logger *slog.Logger,
) VerificationService {
	return &verificationService{
		tokenRepo: tokenRepo,
		userRepo:  userRepo,
		txManager: txManager,
		notifier:  notifier,
		logger:    logger,
	}
}

func (s *verificationService) Issue(ctx context.Context, user *models.User) (*models.EmailVerificationToken, error) {
	token := &models.EmailVerificationToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(verificationTokenTTL),
	}

	err := s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.tokenRepo.DeleteUnusedByUserID(ctx, user.ID); err != nil {
			return fmt.Errorf("failed to supersede prior tokens: %w", err)
		}
		return s.tokenRepo.Create(ctx, token)
	})
	if err != nil {
		return nil, err
	}

	if err := s.notifier.SendVerificationEmail(user.Email, user.Username, token.ID); err != nil {
		s.logger.Error("failed to send verification email",
			slog.Int("user_id", user.ID), slog.Any("error", err))
	}
	return token, nil
}

func (s *verificationService) Redeem(ctx context.Context, tokenID string) (*models.User, error) {
	var user *models.User

	err := s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		token, err := s.tokenRepo.GetByID(ctx, tokenID)
		if err != nil {
			if errors.Is(err, repositories.ErrTokenNotFound) {
				return ErrTokenNotFound
			}
			return fmt.Errorf("failed to look up token: %w", err)
		}

		if token.IsUsed {
			return ErrTokenAlreadyUsed
		}
		if token.Expired(time.Now()) {
			return ErrTokenExpired
		}

		// Conditional update decides the winner if two redemptions race.
		won, err := s.tokenRepo.MarkUsed(ctx, token.ID)
		if err != nil {
			return fmt.Errorf("failed to mark token used: %w", err)
		}
		if !won {
			return ErrTokenAlreadyUsed
		}

		if err := s.userRepo.Activate(ctx, token.UserID); err != nil {
			return fmt.Errorf("failed to activate user %d: %w", token.UserID, err)
		}

		user, err = s.userRepo.GetByID(ctx, token.UserID)
		if err != nil {
			return fmt.Errorf("failed to load activated user %d: %w", token.UserID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *verificationService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("failed to look up user by email: %w", err)
	}
	if user.EmailVerified {
		return nil
	}

	_, err = s.Issue(ctx, user)
	return err
}

func (s *verificationService) DeleteExpired(ctx context.Context) (int64, error) {
	return s.tokenRepo.DeleteExpired(ctx)
}
