package models

import "time"

// EmailVerificationToken is a single-use, time-limited credential proving
// control of the user's email address. At most one unused token exists per
// user: issuing a new one supersedes prior unused tokens.
type EmailVerificationToken struct {
	ID        string    `json:"id"`
	UserID    int       `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	IsUsed    bool      `json:"is_used"`
}

// Expired reports whether the token's validity window has elapsed. Expiry is
// computed against ExpiresAt, never stored as a flag.
func (t *EmailVerificationToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
