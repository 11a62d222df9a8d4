package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/Dosada05/talent-platform/models"
	"github.com/Dosada05/talent-platform/repositories"
	"github.com/Dosada05/talent-platform/storage"
)

type PlayerProfileUpdateInput struct {
	Positions     []string `json:"positions"`
	HeightCM      *float64 `json:"height_cm" validate:"omitempty,gt=0"`
	WeightKG      *float64 `json:"weight_kg" validate:"omitempty,gt=0"`
	PreferredFoot string   `json:"preferred_foot" validate:"omitempty,oneof=LEFT RIGHT BOTH"`
	GuardianName  string   `json:"guardian_name"`
	GuardianEmail string   `json:"guardian_email" validate:"omitempty,email"`
	GuardianPhone string   `json:"guardian_phone"`
}

type ProfileService interface {
	GetPlayerProfile(ctx context.Context, userID int) (*models.PlayerProfile, error)
	// UpdatePlayerProfile applies the submitted fields. For an underage
	// player a qualifying update (guardian contact present) creates a fresh
	// consent request, exactly like registration does.
	UpdatePlayerProfile(ctx context.Context, userID int, input PlayerProfileUpdateInput) (*models.PlayerProfile, error)
	UploadPlayerPhoto(ctx context.Context, userID int, upload storage.FileUpload) (string, error)
}

type profileService struct {
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
	consent     ConsentService
	uploader    storage.FileUploader
}

func NewProfileService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	consent ConsentService,
	uploader storage.FileUploader,
) ProfileService {
	return &profileService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		consent:     consent,
		uploader:    uploader,
	}
}

func (s *profileService) GetPlayerProfile(ctx context.Context, userID int) (*models.PlayerProfile, error) {
	profile, err := s.profileRepo.GetPlayerByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (s *profileService) UpdatePlayerProfile(ctx context.Context, userID int, input PlayerProfileUpdateInput) (*models.PlayerProfile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.Role != models.RolePlayer {
		return nil, ErrNotAPlayer
	}

	verr := newValidationError()
	collectFieldErrors(validate.Struct(input), verr)

	underage := user.DateOfBirth != nil && IsUnderage(*user.DateOfBirth, time.Now())
	if underage {
		if input.GuardianName == "" {
			verr.add("guardian_name", "guardian name is required for players under 18")
		}
		if input.GuardianEmail == "" {
			verr.add("guardian_email", "guardian email is required for players under 18")
		}
	}
	if verr.hasErrors() {
		return nil, verr
	}

	profile, err := s.profileRepo.GetPlayerByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	profile.Positions = input.Positions
	profile.HeightCM = input.HeightCM
	profile.WeightKG = input.WeightKG
	profile.PreferredFoot = models.PreferredFoot(input.PreferredFoot)
	if err := s.profileRepo.UpdatePlayer(ctx, profile); err != nil {
		return nil, err
	}

	if underage {
		contact := GuardianContact{Name: input.GuardianName, Email: input.GuardianEmail, Phone: input.GuardianPhone}
		if _, err := s.consent.CreateRequest(ctx, user, contact); err != nil {
			return nil, fmt.Errorf("failed to create consent request: %w", err)
		}
		profile.ParentalConsentStatus = models.ConsentPending
	}

	return profile, nil
}

func (s *profileService) UploadPlayerPhoto(ctx context.Context, userID int, upload storage.FileUpload) (string, error) {
	// The uploader is optional wiring; without it the endpoint degrades to a
	// clean error instead of a nil call.
	if s.uploader == nil {
		return "", ErrPhotoStorageUnavailable
	}

	profile, err := s.profileRepo.GetPlayerByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return "", ErrProfileNotFound
		}
		return "", err
	}

	ext := strings.ToLower(path.Ext(upload.Filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" && ext != ".webp" {
		verr := newValidationError()
		verr.add("photo", "must be a jpg, png or webp image")
		return "", verr
	}

	key := fmt.Sprintf("profiles/%d/photo%s", userID, ext)
	result, err := s.uploader.Upload(ctx, key, upload.ContentType, upload.Reader)
	if err != nil {
		return "", fmt.Errorf("failed to upload profile photo: %w", err)
	}

	if err := s.profileRepo.SetPlayerPhotoURL(ctx, userID, result.Location); err != nil {
		return "", err
	}
	profile.PhotoURL = &result.Location
	return result.Location, nil
}
