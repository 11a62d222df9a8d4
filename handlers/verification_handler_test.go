package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Dosada05/talent-platform/models"
	"github.com/Dosada05/talent-platform/services"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerificationService struct {
	redeemUser *models.User
	redeemErr  error
	resent     []string
}

func (s *fakeVerificationService) Issue(_ context.Context, _ *models.User) (*models.EmailVerificationToken, error) {
	return nil, nil
}

func (s *fakeVerificationService) Redeem(_ context.Context, _ string) (*models.User, error) {
	return s.redeemUser, s.redeemErr
}

func (s *fakeVerificationService) ResendVerification(_ context.Context, email string) error {
	s.resent = append(s.resent, email)
	return nil
}

func (s *fakeVerificationService) DeleteExpired(_ context.Context) (int64, error) {
	return 0, nil
}

func verificationRouter(svc services.VerificationService) *chi.Mux {
	handler := NewVerificationHandler(svc)
	router := chi.NewRouter()
	router.Get("/verify-email/{token}", handler.VerifyEmail)
	return router
}

func TestVerifyEmail(t *testing.T) {
	svc := &fakeVerificationService{
		redeemUser: &models.User{ID: 1, Username: "player", Email: "p@example.com", IsActive: true, EmailVerified: true},
	}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/verify-email/some-token", nil)
	verificationRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Message string      `json:"message"`
		User    models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Message, "active")
	assert.True(t, body.User.IsActive)
}

func TestVerifyEmailErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"unknown token", services.ErrTokenNotFound, http.StatusNotFound},
		{"expired token", services.ErrTokenExpired, http.StatusGone},
		{"used token", services.ErrTokenAlreadyUsed, http.StatusGone},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeVerificationService{redeemErr: tc.err}
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/verify-email/some-token", nil)
			verificationRouter(svc).ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}
