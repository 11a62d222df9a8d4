package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/talent-platform/models"
	"github.com/lib/pq"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists for this user")
)

type ProfileRepository interface {
	// Create inserts the profile variant matching profile.Role. Each profile
	// table carries a unique user_id constraint, so a user can never hold two
	// profiles for the same role.
	Create(ctx context.Context, profile *models.RoleProfile) error
	GetPlayerByUserID(ctx context.Context, userID int) (*models.PlayerProfile, error)
	UpdatePlayer(ctx context.Context, profile *models.PlayerProfile) error
	SetPlayerConsentStatus(ctx context.Context, userID int, status models.ConsentStatus) error
	SetPlayerPhotoURL(ctx context.Context, userID int, url string) error
}

type postgresProfileRepository struct {
	db *sql.DB
}

func NewPostgresProfileRepository(db *sql.DB) ProfileRepository {
	return &postgresProfileRepository{db: db}
}

func (r *postgresProfileRepository) Create(ctx context.Context, profile *models.RoleProfile) error {
	exec := executor(ctx, r.db)

	var err error
	switch profile.Role {
	case models.RolePlayer:
		p := profile.Player
		err = exec.QueryRowContext(ctx, `
			INSERT INTO player_profiles (user_id, parent_guardian_id, parental_consent_status, positions, height_cm, weight_kg, preferred_foot)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			p.UserID, p.ParentGuardianID, p.ParentalConsentStatus,
			models.EncodePositions(p.Positions), p.HeightCM, p.WeightKG, p.PreferredFoot,
		).Scan(&p.ID)
	case models.RoleCoach:
		p := profile.Coach
		err = exec.QueryRowContext(ctx, `
			INSERT INTO coach_profiles (user_id, specialization, experience_years, certifications)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			p.UserID, p.Specialization, p.ExperienceYears, p.Certifications,
		).Scan(&p.ID)
	case models.RoleScout:
		p := profile.Scout
		err = exec.QueryRowContext(ctx, `
			INSERT INTO scout_profiles (user_id, organization, regions_covered, years_of_experience)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			p.UserID, p.Organization, p.RegionsCovered, p.YearsOfExperience,
		).Scan(&p.ID)
	case models.RoleManager:
		p := profile.Manager
		err = exec.QueryRowContext(ctx, `
			INSERT INTO manager_profiles (user_id, department, responsibilities)
			VALUES ($1, $2, $3)
			RETURNING id`,
			p.UserID, p.Department, p.Responsibilities,
		).Scan(&p.ID)
	case models.RoleTrainer:
		p := profile.Trainer
		err = exec.QueryRowContext(ctx, `
			INSERT INTO trainer_profiles (user_id, specialization, certifications, experience_years)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			p.UserID, p.Specialization, p.Certifications, p.ExperienceYears,
		).Scan(&p.ID)
	case models.RoleClub:
		p := profile.Club
		err = exec.QueryRowContext(ctx, `
			INSERT INTO club_profiles (user_id, club_name, founded_year, location, league)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			p.UserID, p.ClubName, p.FoundedYear, p.Location, p.League,
		).Scan(&p.ID)
	case models.RoleFan:
		p := profile.Fan
		err = exec.QueryRowContext(ctx, `
			INSERT INTO fan_profiles (user_id, favorite_club, membership_type)
			VALUES ($1, $2, $3)
			RETURNING id`,
			p.UserID, p.FavoriteClub, p.MembershipType,
		).Scan(&p.ID)
	default:
		return fmt.Errorf("unknown profile role %q", profile.Role)
	}

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrProfileExists
		}
		return fmt.Errorf("failed to insert %s profile: %w", profile.Role, err)
	}
	return nil
}

func (r *postgresProfileRepository) GetPlayerByUserID(ctx context.Context, userID int) (*models.PlayerProfile, error) {
	query := `
		SELECT id, user_id, parent_guardian_id, parental_consent_status, positions, height_cm, weight_kg, preferred_foot, photo_url
		FROM player_profiles
		WHERE user_id = $1`

	var profile models.PlayerProfile
	var positions string
	err := executor(ctx, r.db).QueryRowContext(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.ParentGuardianID,
		&profile.ParentalConsentStatus,
		&positions,
		&profile.HeightCM,
		&profile.WeightKG,
		&profile.PreferredFoot,
		&profile.PhotoURL,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to scan player profile: %w", err)
	}
	profile.Positions = models.ParsePositions(positions)
	return &profile, nil
}

func (r *postgresProfileRepository) UpdatePlayer(ctx context.Context, profile *models.PlayerProfile) error {
	query := `
		UPDATE player_profiles SET
			positions = $1,
			height_cm = $2,
			weight_kg = $3,
			preferred_foot = $4
		WHERE user_id = $5`

	result, err := executor(ctx, r.db).ExecContext(ctx, query,
		models.EncodePositions(profile.Positions),
		profile.HeightCM,
		profile.WeightKG,
		profile.PreferredFoot,
		profile.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update player profile for user %d: %w", profile.UserID, err)
	}
	return checkAffectedRows(result, ErrProfileNotFound)
}

func (r *postgresProfileRepository) SetPlayerConsentStatus(ctx context.Context, userID int, status models.ConsentStatus) error {
	query := `UPDATE player_profiles SET parental_consent_status = $1 WHERE user_id = $2`
	result, err := executor(ctx, r.db).ExecContext(ctx, query, status, userID)
	if err != nil {
		return fmt.Errorf("failed to set consent status for user %d: %w", userID, err)
	}
	return checkAffectedRows(result, ErrProfileNotFound)
}

func (r *postgresProfileRepository) SetPlayerPhotoURL(ctx context.Context, userID int, url string) error {
	query := `UPDATE player_profiles SET photo_url = $1 WHERE user_id = $2`
	result, err := executor(ctx, r.db).ExecContext(ctx, query, url, userID)
	if err != nil {
		return fmt.Errorf("failed to set photo url for user %d: %w", userID, err)
	}
	return checkAffectedRows(result, ErrProfileNotFound)
}
