package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Dosada05/talent-platform/models"
	"github.com/Dosada05/talent-platform/services"
	"github.com/golang-jwt/jwt/v4"
)

type AuthHandler struct {
	authService         services.AuthService
	verificationService services.VerificationService
	jwtSecret           []byte
}

func NewAuthHandler(authService services.AuthService, verificationService services.VerificationService, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		authService:         authService,
		verificationService: verificationService,
		jwtSecret:           []byte(jwtSecret),
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input models.Credentials
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Email == "" || input.Password == "" {
		badRequestResponse(w, r, errors.New("email and password are required"))
		return
	}

	user, err := h.authService.Login(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"staff":   user.IsStaff,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(h.jwtSecret)
	if err != nil {
		serverErrorResponse(w, r, fmt.Errorf("failed to sign token: %w", err))
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"token": tokenString, "user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ResendVerification always answers 202 so the endpoint cannot be used to
// probe which emails are registered.
func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email string `json:"email"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Email == "" {
		badRequestResponse(w, r, errors.New("email is required"))
		return
	}

	if err := h.verificationService.ResendVerification(r.Context(), input.Email); err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	message := "if the email is registered and unverified, a new verification link has been sent"
	if err := writeJSON(w, http.StatusAccepted, jsonResponse{"message": message}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
