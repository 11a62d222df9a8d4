package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/talent-platform/models"
)

var ErrTokenNotFound = errors.New("verification token not found")

type TokenRepository interface {
	Create(ctx context.Context, token *models.EmailVerificationToken) error
	GetByID(ctx context.Context, id string) (*models.EmailVerificationToken, error)
	// DeleteUnusedByUserID removes every unused token belonging to the user,
	// keeping the at-most-one-unused-token invariant when a new one is issued.
	DeleteUnusedByUserID(ctx context.Context, userID int) (int64, error)
	// MarkUsed flips is_used only if it is still FALSE. The boolean reports
	// whether this call won the flip; a concurrent second redemption loses.
	MarkUsed(ctx context.Context, id string) (bool, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

type postgresTokenRepository struct {
	db *sql.DB
}

func NewPostgresTokenRepository(db *sql.DB) TokenRepository {
	return &postgresTokenRepository{db: db}
}

func (r *postgresTokenRepository) Create(ctx context.Context, token *models.EmailVerificationToken) error {
	query := `
		INSERT INTO email_verification_tokens (id, user_id, expires_at, is_used)
		VALUES ($1, $2, $3, FALSE)
		RETURNING created_at`

	err := executor(ctx, r.db).QueryRowContext(ctx, query,
		token.ID,
		token.UserID,
		token.ExpiresAt,
	).Scan(&token.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert verification token: %w", err)
	}
	return nil
}

func (r *postgresTokenRepository) GetByID(ctx context.Context, id string) (*models.EmailVerificationToken, error) {
	query := `
		SELECT id, user_id, created_at, expires_at, is_used
		FROM email_verification_tokens
		WHERE id = $1`

	var token models.EmailVerificationToken
	err := executor(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&token.ID,
		&token.UserID,
		&token.CreatedAt,
		&token.ExpiresAt,
		&token.IsUsed,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to scan verification token: %w", err)
	}
	return &token, nil
}

func (r *postgresTokenRepository) DeleteUnusedByUserID(ctx context.Context, userID int) (int64, error) {
	query := `DELETE FROM email_verification_tokens WHERE user_id = $1 AND is_used = FALSE`
	result, err := executor(ctx, r.db).ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete unused tokens for user %d: %w", userID, err)
	}
	return result.RowsAffected()
}

func (r *postgresTokenRepository) MarkUsed(ctx context.Context, id string) (bool, error) {
	query := `UPDATE email_verification_tokens SET is_used = TRUE WHERE id = $1 AND is_used = FALSE`
	result, err := executor(ctx, r.db).ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to mark token %s used: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check affected rows: %w", err)
	}
	return affected == 1, nil
}

func (r *postgresTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM email_verification_tokens WHERE is_used = FALSE AND expires_at < now()`
	result, err := executor(ctx, r.db).ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}
	return result.RowsAffected()
}
