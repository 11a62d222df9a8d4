package models

import (
	"fmt"
	"strings"
)

// ConsentStatus is the parental-consent state carried on a player profile.
type ConsentStatus string

const (
	ConsentNotRequired ConsentStatus = "not_required"
	ConsentPending     ConsentStatus = "pending"
	ConsentGranted     ConsentStatus = "granted"
	ConsentRejected    ConsentStatus = "rejected"
)

type PreferredFoot string

const (
	FootLeft  PreferredFoot = "LEFT"
	FootRight PreferredFoot = "RIGHT"
	FootBoth  PreferredFoot = "BOTH"
)

type PlayerProfile struct {
	ID                    int           `json:"id"`
	UserID                int           `json:"user_id"`
	ParentGuardianID      *int          `json:"parent_guardian_id,omitempty"`
	ParentalConsentStatus ConsentStatus `json:"parental_consent_status"`
	Positions             []string      `json:"positions"`
	HeightCM              *float64      `json:"height_cm,omitempty"`
	WeightKG              *float64      `json:"weight_kg,omitempty"`
	PreferredFoot         PreferredFoot `json:"preferred_foot,omitempty"`
	PhotoURL              *string       `json:"photo_url,omitempty"`
}

type CoachProfile struct {
	ID              int    `json:"id"`
	UserID          int    `json:"user_id"`
	Specialization  string `json:"specialization"`
	ExperienceYears int    `json:"experience_years"`
	Certifications  string `json:"certifications"`
}

type ScoutProfile struct {
	ID                int    `json:"id"`
	UserID            int    `json:"user_id"`
	Organization      string `json:"organization"`
	RegionsCovered    string `json:"regions_covered"`
	YearsOfExperience int    `json:"years_of_experience"`
}

type ManagerProfile struct {
	ID               int    `json:"id"`
	UserID           int    `json:"user_id"`
	Department       string `json:"department"`
	Responsibilities string `json:"responsibilities"`
}

type TrainerProfile struct {
	ID              int    `json:"id"`
	UserID          int    `json:"user_id"`
	Specialization  string `json:"specialization"`
	Certifications  string `json:"certifications"`
	ExperienceYears int    `json:"experience_years"`
}

type ClubProfile struct {
	ID          int    `json:"id"`
	UserID      int    `json:"user_id"`
	ClubName    string `json:"club_name"`
	FoundedYear *int   `json:"founded_year,omitempty"`
	Location    string `json:"location"`
	League      string `json:"league"`
}

type MembershipType string

const (
	MembershipRegular MembershipType = "REGULAR"
	MembershipPremium MembershipType = "PREMIUM"
	MembershipVIP     MembershipType = "VIP"
)

type FanProfile struct {
	ID             int            `json:"id"`
	UserID         int            `json:"user_id"`
	FavoriteClub   string         `json:"favorite_club"`
	MembershipType MembershipType `json:"membership_type"`
}

// RoleProfile is the tagged union over the per-role profile variants. Exactly
// one variant pointer is non-nil, and it always matches Role.
type RoleProfile struct {
	Role    Role            `json:"role"`
	Player  *PlayerProfile  `json:"player,omitempty"`
	Coach   *CoachProfile   `json:"coach,omitempty"`
	Scout   *ScoutProfile   `json:"scout,omitempty"`
	Manager *ManagerProfile `json:"manager,omitempty"`
	Trainer *TrainerProfile `json:"trainer,omitempty"`
	Club    *ClubProfile    `json:"club,omitempty"`
	Fan     *FanProfile     `json:"fan,omitempty"`
}

// NewProfileForRole builds the empty profile variant matching role. Invoked
// in the same transaction that creates the user, so a user never exists
// without its profile.
func NewProfileForRole(role Role, userID int) (*RoleProfile, error) {
	p := &RoleProfile{Role: role}
	switch role {
	case RolePlayer:
		p.Player = &PlayerProfile{UserID: userID, ParentalConsentStatus: ConsentNotRequired}
	case RoleCoach:
		p.Coach = &CoachProfile{UserID: userID}
	case RoleScout:
		p.Scout = &ScoutProfile{UserID: userID}
	case RoleManager:
		p.Manager = &ManagerProfile{UserID: userID}
	case RoleTrainer:
		p.Trainer = &TrainerProfile{UserID: userID}
	case RoleClub:
		p.Club = &ClubProfile{UserID: userID}
	case RoleFan:
		p.Fan = &FanProfile{UserID: userID, MembershipType: MembershipRegular}
	default:
		return nil, fmt.Errorf("unknown role %q", role)
	}
	return p, nil
}

// EncodePositions serializes an ordered position-code list for storage.
func EncodePositions(positions []string) string {
	cleaned := make([]string, 0, len(positions))
	for _, pos := range positions {
		pos = strings.TrimSpace(pos)
		if pos != "" {
			cleaned = append(cleaned, strings.ToUpper(pos))
		}
	}
	return strings.Join(cleaned, ",")
}

// ParsePositions is the inverse of EncodePositions; order is preserved.
func ParsePositions(encoded string) []string {
	if encoded == "" {
		return nil
	}
	parts := strings.Split(encoded, ",")
	positions := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			positions = append(positions, part)
		}
	}
	return positions
}
