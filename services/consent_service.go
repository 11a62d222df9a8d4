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

// adultAge is the age, in completed years, at which parental consent stops
// being required.
const adultAge = 18

const (
	ConsentActionGrant  = "grant"
	ConsentActionReject = "reject"
)

// IsUnderage reports whether someone born on dob has not yet completed
// adultAge years as of asOf. The age is asOf.year - dob.year, minus one when
// the (month, day) pair of asOf is strictly before the (month, day) pair of
// dob, so a player whose 18th birthday falls on asOf is not underage.
func IsUnderage(dob, asOf time.Time) bool {
	age := asOf.Year() - dob.Year()
	if asOf.Month() < dob.Month() || (asOf.Month() == dob.Month() && asOf.Day() < dob.Day()) {
		age--
	}
	return age < adultAge
}

// GuardianContact is the parent/guardian contact block submitted with an
// underage player's registration or profile update.
type GuardianContact struct {
	Name  string `json:"guardian_name"`
	Email string `json:"guardian_email"`
	Phone string `json:"guardian_phone"`
}

// ConsentEventPublisher pushes consent-request lifecycle events to connected
// staff dashboards.
type ConsentEventPublisher interface {
	PublishConsentEvent(eventType string, request *models.ParentalConsentRequest)
}

type ConsentService interface {
	// CreateRequest records a pending consent request for the player, flips
	// the player profile's parental_consent_status to pending and sends the
	// consent email. Every qualifying submission creates a fresh request; no
	// dedup across calls.
	CreateRequest(ctx context.Context, player *models.User, contact GuardianContact) (*models.ParentalConsentRequest, error)
	// Resolve transitions a pending request to granted or rejected exactly
	// once. On an already-resolved request it returns the current record
	// together with ErrConsentAlreadyResolved and changes nothing.
	Resolve(ctx context.Context, token, action string, notes, responseIP *string) (*models.ParentalConsentRequest, error)
	GetByToken(ctx context.Context, token string) (*models.ParentalConsentRequest, error)
	List(ctx context.Context, filter models.ConsentRequestFilter) ([]*models.ParentalConsentRequest, error)
}

type consentService struct {
	consentRepo repositories.ConsentRepository
	profileRepo repositories.ProfileRepository
	notifier    Notifier
	events      ConsentEventPublisher
	logger      *slog.Logger
}

func NewConsentService(
	consentRepo repositories.ConsentRepository,
	profileRepo repositories.ProfileRepository,
	notifier Notifier,
	events ConsentEventPublisher,
	logger *slog.Logger,
) ConsentService {
	return &consentService{
		consentRepo: consentRepo,
		profileRepo: profileRepo,
		notifier:    notifier,
		events:      events,
		logger:      logger,
	}
}

func (s *consentService) CreateRequest(ctx context.Context, player *models.User, contact GuardianContact) (*models.ParentalConsentRequest, error) {
	if contact.Email == "" {
		verr := newValidationError()
		verr.add("guardian_email", "guardian email is required")
		return nil, verr
	}

	request := &models.ParentalConsentRequest{
		PlayerID:    player.ID,
		Token:       uuid.NewString(),
		ParentName:  contact.Name,
		ParentEmail: contact.Email,
		ParentPhone: contact.Phone,
		Status:      models.ConsentRequestPending,
	}
	if err := s.consentRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	if err := s.profileRepo.SetPlayerConsentStatus(ctx, player.ID, models.ConsentPending); err != nil {
		return nil, fmt.Errorf("failed to flag profile consent pending: %w", err)
	}

	if err := s.notifier.SendConsentRequestEmail(contact.Email, contact.Name, player.Username, request.Token); err != nil {
		s.logger.Error("failed to send consent request email",
			slog.Int("player_id", player.ID), slog.Any("error", err))
	}
	if s.events != nil {
		s.events.PublishConsentEvent("consent_request_created", request)
	}
	return request, nil
}

func (s *consentService) Resolve(ctx context.Context, token, action string, notes, responseIP *string) (*models.ParentalConsentRequest, error) {
	var status models.ConsentRequestStatus
	switch action {
	case ConsentActionGrant:
		status = models.ConsentRequestGranted
	case ConsentActionReject:
		status = models.ConsentRequestRejected
	default:
		return nil, ErrConsentInvalidAction
	}

	resolved, err := s.consentRepo.Resolve(ctx, token, status, time.Now(), responseIP, notes)
	if err != nil {
		return nil, err
	}

	request, err := s.consentRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repositories.ErrConsentNotFound) {
			return nil, ErrConsentNotFound
		}
		return nil, err
	}

	if !resolved {
		// Already granted or rejected; responded_at and notes stay untouched.
		return request, ErrConsentAlreadyResolved
	}

	// Sync the player profile with the outcome. The conditional update above
	// guarantees this runs at most once per request.
	profileStatus := models.ConsentGranted
	if status == models.ConsentRequestRejected {
		profileStatus = models.ConsentRejected
	}
	if err := s.profileRepo.SetPlayerConsentStatus(ctx, request.PlayerID, profileStatus); err != nil {
		s.logger.Error("failed to sync profile consent status",
			slog.Int("player_id", request.PlayerID), slog.Any("error", err))
	}

	if s.events != nil {
		s.events.PublishConsentEvent("consent_request_resolved", request)
	}
	return request, nil
}

func (s *consentService) GetByToken(ctx context.Context, token string) (*models.ParentalConsentRequest, error) {
	request, err := s.consentRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repositories.ErrConsentNotFound) {
			return nil, ErrConsentNotFound
		}
		return nil, err
	}
	return request, nil
}

func (s *consentService) List(ctx context.Context, filter models.ConsentRequestFilter) ([]*models.ParentalConsentRequest, error) {
	return s.consentRepo.List(ctx, filter)
}
