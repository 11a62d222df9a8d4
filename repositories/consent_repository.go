package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/talent-platform/models"
	"github.com/lib/pq"
)

var (
	ErrConsentNotFound      = errors.New("consent request not found")
	ErrConsentTokenConflict = errors.New("consent request token conflict")
)

type ConsentRepository interface {
	Create(ctx context.Context, request *models.ParentalConsentRequest) error
	GetByToken(ctx context.Context, token string) (*models.ParentalConsentRequest, error)
	// Resolve performs the pending -> granted/rejected transition as a
	// conditional update. The boolean reports whether the transition happened;
	// false means the request was already resolved (responded_at and notes are
	// left untouched).
	Resolve(ctx context.Context, token string, status models.ConsentRequestStatus, respondedAt time.Time, responseIP, notes *string) (bool, error)
	List(ctx context.Context, filter models.ConsentRequestFilter) ([]*models.ParentalConsentRequest, error)
}

type postgresConsentRepository struct {
	db *sql.DB
}

func NewPostgresConsentRepository(db *sql.DB) ConsentRepository {
	return &postgresConsentRepository{db: db}
}

const consentColumns = `id, player_id, token, parent_name, parent_email, parent_phone, status, requested_at, responded_at, response_ip, notes`

func (r *postgresConsentRepository) Create(ctx context.Context, request *models.ParentalConsentRequest) error {
	query := `
		INSERT INTO parental_consent_requests (player_id, token, parent_name, parent_email, parent_phone, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, requested_at`

	err := executor(ctx, r.db).QueryRowContext(ctx, query,
		request.PlayerID,
		request.Token,
		request.ParentName,
		request.ParentEmail,
		request.ParentPhone,
		request.Status,
	).Scan(&request.ID, &request.RequestedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if pqErr.Constraint == "parental_consent_requests_token_key" {
				return ErrConsentTokenConflict
			}
		}
		return fmt.Errorf("failed to insert consent request: %w", err)
	}
	return nil
}

func (r *postgresConsentRepository) GetByToken(ctx context.Context, token string) (*models.ParentalConsentRequest, error) {
	query := `SELECT ` + consentColumns + ` FROM parental_consent_requests WHERE token = $1`

	var request models.ParentalConsentRequest
	err := executor(ctx, r.db).QueryRowContext(ctx, query, token).Scan(
		&request.ID,
		&request.PlayerID,
		&request.Token,
		&request.ParentName,
		&request.ParentEmail,
		&request.ParentPhone,
		&request.Status,
		&request.RequestedAt,
		&request.RespondedAt,
		&request.ResponseIP,
		&request.Notes,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrConsentNotFound
		}
		return nil, fmt.Errorf("failed to scan consent request: %w", err)
	}
	return &request, nil
}

func (r *postgresConsentRepository) Resolve(ctx context.Context, token string, status models.ConsentRequestStatus, respondedAt time.Time, responseIP, notes *string) (bool, error) {
	query := `
		UPDATE parental_consent_requests
		SET status = $2, responded_at = $3, response_ip = $4, notes = $5
		WHERE token = $1 AND status = 'pending'`

	result, err := executor(ctx, r.db).ExecContext(ctx, query, token, status, respondedAt, responseIP, notes)
	if err != nil {
		return false, fmt.Errorf("failed to resolve consent request: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check affected rows: %w", err)
	}
	return affected == 1, nil
}

func (r *postgresConsentRepository) List(ctx context.Context, filter models.ConsentRequestFilter) ([]*models.ParentalConsentRequest, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	where := ` WHERE 1=1`
	args := []interface{}{}
	argPos := 1
	if filter.Status != nil {
		where += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, *filter.Status)
		argPos++
	}

	query := `SELECT ` + consentColumns + ` FROM parental_consent_requests` + where +
		fmt.Sprintf(" ORDER BY requested_at DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := executor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list consent requests: %w", err)
	}
	defer rows.Close()

	requests := make([]*models.ParentalConsentRequest, 0, filter.Limit)
	for rows.Next() {
		var request models.ParentalConsentRequest
		if err := rows.Scan(
			&request.ID,
			&request.PlayerID,
			&request.Token,
			&request.ParentName,
			&request.ParentEmail,
			&request.ParentPhone,
			&request.Status,
			&request.RequestedAt,
			&request.RespondedAt,
			&request.ResponseIP,
			&request.Notes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan consent request row: %w", err)
		}
		requests = append(requests, &request)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate consent request rows: %w", err)
	}
	return requests, nil
}
