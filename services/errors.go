package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Shared sentinel errors, mapped to HTTP responses in the handlers package.
var (
	// Verification token lifecycle
	ErrTokenNotFound    = errors.New("verification token not found")
	ErrTokenExpired     = errors.New("verification link has expired")
	ErrTokenAlreadyUsed = errors.New("verification link has already been used")

	// Parental consent lifecycle
	ErrConsentNotFound        = errors.New("consent request not found")
	ErrConsentAlreadyResolved = errors.New("consent request has already been resolved")
	ErrConsentInvalidAction   = errors.New("consent action must be grant or reject")

	// Identity
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email address is already in use")
	ErrUsernameTaken      = errors.New("username is already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotVerified   = errors.New("email address has not been verified")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrNotAPlayer         = errors.New("user does not have a player profile")

	// Infrastructure
	ErrPhotoStorageUnavailable = errors.New("photo storage is not configured")
)

// ValidationError carries field-attributed messages for a rejected
// submission. No state is mutated when one is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func newValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

func (e *ValidationError) add(field, message string) {
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

func (e *ValidationError) hasErrors() bool {
	return len(e.Fields) > 0
}
