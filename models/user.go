package models

import "time"

type Role string

const (
	RolePlayer  Role = "PLAYER"
	RoleCoach   Role = "COACH"
	RoleScout   Role = "SCOUT"
	RoleManager Role = "MANAGER"
	RoleTrainer Role = "TRAINER"
	RoleClub    Role = "CLUB"
	RoleFan     Role = "FAN"
)

// AllRoles lists every registrable role. Role is fixed at registration time
// and never changes afterwards.
var AllRoles = []Role{
	RolePlayer,
	RoleCoach,
	RoleScout,
	RoleManager,
	RoleTrainer,
	RoleClub,
	RoleFan,
}

func (r Role) Valid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

type User struct {
	ID            int        `json:"id"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"`
	Role          Role       `json:"role"`
	DateOfBirth   *time.Time `json:"date_of_birth,omitempty"`
	IsActive      bool       `json:"is_active"`
	EmailVerified bool       `json:"email_verified"`
	IsStaff       bool       `json:"-"`
	CreatedAt     time.Time  `json:"created_at"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserFilter struct {
	Role   *Role
	Search string
	Page   int
	Limit  int
}

type UserList struct {
	Users      []User `json:"users"`
	TotalCount int    `json:"total_count"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
}
