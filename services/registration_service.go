package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/Dosada05/talent-platform/models"
	"github.com/Dosada05/talent-platform/repositories"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
)

const dateOfBirthLayout = "2006-01-02"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type RegistrationInput struct {
	Username    string `json:"username" validate:"required,min=3,max=50"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DateOfBirth string `json:"date_of_birth" validate:"required"`
}

type PlayerRegistrationInput struct {
	RegistrationInput
	Positions     []string `json:"positions"`
	HeightCM      *float64 `json:"height_cm" validate:"omitempty,gt=0"`
	WeightKG      *float64 `json:"weight_kg" validate:"omitempty,gt=0"`
	PreferredFoot string   `json:"preferred_foot" validate:"omitempty,oneof=LEFT RIGHT BOTH"`
	GuardianName  string   `json:"guardian_name"`
	GuardianEmail string   `json:"guardian_email" validate:"omitempty,email"`
	GuardianPhone string   `json:"guardian_phone"`
}

// OtherRegistrationInput carries the base fields plus the optional
// role-specific profile fields for the six non-player roles. Fields not
// belonging to the submitted role are ignored.
type OtherRegistrationInput struct {
	RegistrationInput
	Specialization    string `json:"specialization"`
	ExperienceYears   int    `json:"experience_years" validate:"omitempty,gte=0"`
	Certifications    string `json:"certifications"`
	Organization      string `json:"organization"`
	RegionsCovered    string `json:"regions_covered"`
	YearsOfExperience int    `json:"years_of_experience" validate:"omitempty,gte=0"`
	Department        string `json:"department"`
	Responsibilities  string `json:"responsibilities"`
	ClubName          string `json:"club_name"`
	FoundedYear       *int   `json:"founded_year" validate:"omitempty,gte=1800"`
	Location          string `json:"location"`
	League            string `json:"league"`
	FavoriteClub      string `json:"favorite_club"`
	MembershipType    string `json:"membership_type" validate:"omitempty,oneof=REGULAR PREMIUM VIP"`
}

type RegistrationService interface {
	RegisterPlayer(ctx context.Context, input PlayerRegistrationInput) (*models.User, error)
	RegisterOther(ctx context.Context, role models.Role, input OtherRegistrationInput) (*models.User, error)
}

type registrationService struct {
	userRepo     repositories.UserRepository
	profileRepo  repositories.ProfileRepository
	txManager    repositories.TxManager
	verification VerificationService
	consent      ConsentService
	notifier     Notifier
	logger       *slog.Logger
}

func NewRegistrationService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	txManager repositories.TxManager,
	verification VerificationService,
	consent ConsentService,
	notifier Notifier,
	logger *slog.Logger,
) RegistrationService {
	return &registrationService{
		userRepo:     userRepo,
		profileRepo:  profileRepo,
		txManager:    txManager,
		verification: verification,
		consent:      consent,
		notifier:     notifier,
		logger:       logger,
	}
}

func (s *registrationService) RegisterPlayer(ctx context.Context, input PlayerRegistrationInput) (*models.User, error) {
	verr := newValidationError()
	collectFieldErrors(validate.Struct(input), verr)

	dob, dobErr := time.Parse(dateOfBirthLayout, input.DateOfBirth)
	if input.DateOfBirth != "" && dobErr != nil {
		verr.add("date_of_birth", "must be a date in YYYY-MM-DD format")
	}

	underage := dobErr == nil && IsUnderage(dob, time.Now())
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

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(passwordHash),
		Role:         models.RolePlayer,
		DateOfBirth:  &dob,
	}

	var guardian *models.User
	var guardianCreated bool

	err = s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.userRepo.Create(ctx, user); err != nil {
			return mapUserConflict(err)
		}

		profile, err := models.NewProfileForRole(models.RolePlayer, user.ID)
		if err != nil {
			return err
		}
		profile.Player.Positions = input.Positions
		profile.Player.HeightCM = input.HeightCM
		profile.Player.WeightKG = input.WeightKG
		profile.Player.PreferredFoot = models.PreferredFoot(input.PreferredFoot)

		if underage {
			guardian, guardianCreated, err = s.getOrCreateGuardian(ctx, input.GuardianEmail)
			if err != nil {
				return err
			}
			profile.Player.ParentGuardianID = &guardian.ID
		}

		return s.profileRepo.Create(ctx, profile)
	})
	if err != nil {
		return nil, err
	}

	// Verification and consent are independent side effects; a failure here is
	// recoverable (resend endpoint, profile update) so it never unwinds the
	// committed registration.
	var g errgroup.Group
	g.Go(func() error {
		_, err := s.verification.Issue(ctx, user)
		return err
	})
	if underage {
		contact := GuardianContact{Name: input.GuardianName, Email: input.GuardianEmail, Phone: input.GuardianPhone}
		g.Go(func() error {
			_, err := s.consent.CreateRequest(ctx, user, contact)
			return err
		})
	}
	if guardianCreated {
		guardianEmail := guardian.Email
		guardianName := input.GuardianName
		g.Go(func() error {
			return s.notifier.SendGuardianWelcomeEmail(guardianEmail, guardianName)
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error("post-registration side effect failed",
			slog.Int("user_id", user.ID), slog.Any("error", err))
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *registrationService) RegisterOther(ctx context.Context, role models.Role, input OtherRegistrationInput) (*models.User, error) {
	if role == models.RolePlayer || !role.Valid() {
		return nil, fmt.Errorf("role %q cannot register through this flow", role)
	}

	verr := newValidationError()
	collectFieldErrors(validate.Struct(input), verr)

	dob, dobErr := time.Parse(dateOfBirthLayout, input.DateOfBirth)
	if input.DateOfBirth != "" && dobErr != nil {
		verr.add("date_of_birth", "must be a date in YYYY-MM-DD format")
	}
	if role == models.RoleClub && input.ClubName == "" {
		verr.add("club_name", "club name is required")
	}

	if verr.hasErrors() {
		return nil, verr
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(passwordHash),
		Role:         role,
		DateOfBirth:  &dob,
	}

	err = s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.userRepo.Create(ctx, user); err != nil {
			return mapUserConflict(err)
		}

		profile, err := models.NewProfileForRole(role, user.ID)
		if err != nil {
			return err
		}
		applyRoleFields(profile, input)
		return s.profileRepo.Create(ctx, profile)
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.verification.Issue(ctx, user); err != nil {
		s.logger.Error("failed to issue verification token",
			slog.Int("user_id", user.ID), slog.Any("error", err))
	}

	user.PasswordHash = ""
	return user, nil
}

// getOrCreateGuardian reuses an existing account for the guardian email or
// provisions a Fan account with a random password. Provisioned guardian
// accounts are active without email verification: they exist to anchor the
// consent relationship and cannot be logged into until the guardian completes
// a password reset, which itself proves control of the mailbox.
func (s *registrationService) getOrCreateGuardian(ctx context.Context, email string) (*models.User, bool, error) {
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, false, fmt.Errorf("failed to look up guardian: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(randomPassword(32)), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, fmt.Errorf("failed to hash guardian password: %w", err)
	}

	guardian := &models.User{
		Username:     guardianUsername(email),
		Email:        email,
		PasswordHash: string(passwordHash),
		Role:         models.RoleFan,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, guardian); err != nil {
		if errors.Is(err, repositories.ErrUserUsernameConflict) {
			guardian.Username = guardianUsername(email) + "-" + randomPassword(6)
			err = s.userRepo.Create(ctx, guardian)
		}
		if err != nil {
			return nil, false, fmt.Errorf("failed to create guardian account: %w", err)
		}
	}

	profile, err := models.NewProfileForRole(models.RoleFan, guardian.ID)
	if err != nil {
		return nil, false, err
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, false, fmt.Errorf("failed to create guardian profile: %w", err)
	}
	return guardian, true, nil
}

// applyRoleFields copies the role-specific registration fields onto the
// matching profile variant. Fields belonging to other roles are ignored.
func applyRoleFields(profile *models.RoleProfile, input OtherRegistrationInput) {
	switch profile.Role {
	case models.RoleCoach:
		profile.Coach.Specialization = input.Specialization
		profile.Coach.ExperienceYears = input.ExperienceYears
		profile.Coach.Certifications = input.Certifications
	case models.RoleScout:
		profile.Scout.Organization = input.Organization
		profile.Scout.RegionsCovered = input.RegionsCovered
		profile.Scout.YearsOfExperience = input.YearsOfExperience
	case models.RoleManager:
		profile.Manager.Department = input.Department
		profile.Manager.Responsibilities = input.Responsibilities
	case models.RoleTrainer:
		profile.Trainer.Specialization = input.Specialization
		profile.Trainer.Certifications = input.Certifications
		profile.Trainer.ExperienceYears = input.ExperienceYears
	case models.RoleClub:
		profile.Club.ClubName = input.ClubName
		profile.Club.FoundedYear = input.FoundedYear
		profile.Club.Location = input.Location
		profile.Club.League = input.League
	case models.RoleFan:
		profile.Fan.FavoriteClub = input.FavoriteClub
		if input.MembershipType != "" {
			profile.Fan.MembershipType = models.MembershipType(input.MembershipType)
		}
	}
}

func guardianUsername(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return strings.ToLower(email[:at])
	}
	return strings.ToLower(email)
}

const passwordCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomPassword(length int) string {
	randomBytes := make([]byte, length)
	if _, err := rand.Read(randomBytes); err != nil {
		panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
	}
	b := make([]byte, length)
	for i, rb := range randomBytes {
		b[i] = passwordCharset[int(rb)%len(passwordCharset)]
	}
	return string(b)
}

func mapUserConflict(err error) error {
	switch {
	case errors.Is(err, repositories.ErrUserEmailConflict):
		return ErrEmailTaken
	case errors.Is(err, repositories.ErrUserUsernameConflict):
		return ErrUsernameTaken
	default:
		return err
	}
}

// collectFieldErrors translates validator failures into the field-attributed
// error map. A field keeps only its first failure.
func collectFieldErrors(err error, verr *ValidationError) {
	if err == nil {
		return
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		verr.add("_", err.Error())
		return
	}
	for _, fe := range fieldErrors {
		verr.add(fe.Field(), fieldErrorMessage(fe))
	}
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters long", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters long", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be %s or more", fe.Param())
	default:
		return "is invalid"
	}
}
