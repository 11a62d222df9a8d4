package handlers

import (
	"net/http"
	"strings"

	"github.com/Dosada05/talent-platform/models"
	"github.com/Dosada05/talent-platform/services"
	"github.com/go-chi/chi/v5"
)

type RegistrationHandler struct {
	registrationService services.RegistrationService
}

func NewRegistrationHandler(registrationService services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registrationService}
}

func (h *RegistrationHandler) RegisterPlayer(w http.ResponseWriter, r *http.Request) {
	var input services.PlayerRegistrationInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, err := h.registrationService.RegisterPlayer(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RegistrationHandler) RegisterOther(w http.ResponseWriter, r *http.Request) {
	role := models.Role(strings.ToUpper(chi.URLParam(r, "role")))
	if !role.Valid() || role == models.RolePlayer {
		notFoundResponse(w, r)
		return
	}

	var input services.OtherRegistrationInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, err := h.registrationService.RegisterOther(r.Context(), role, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
