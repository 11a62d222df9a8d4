package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/talent-platform/services"
	"github.com/go-chi/chi/v5"
)

type VerificationHandler struct {
	verificationService services.VerificationService
}

func NewVerificationHandler(verificationService services.VerificationService) *VerificationHandler {
	return &VerificationHandler{verificationService: verificationService}
}

func (h *VerificationHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	tokenID := chi.URLParam(r, "token")
	if tokenID == "" {
		badRequestResponse(w, r, errors.New("verification token is required"))
		return
	}

	user, err := h.verificationService.Redeem(r.Context(), tokenID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"message": "email verified, your account is now active",
		"user":    user,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
