package handlers

import (
	"errors"
	"net"
	"net/http"

	"github.com/Dosada05/talent-platform/services"
	"github.com/go-chi/chi/v5"
)

type ConsentHandler struct {
	consentService services.ConsentService
}

func NewConsentHandler(consentService services.ConsentService) *ConsentHandler {
	return &ConsentHandler{consentService: consentService}
}

// Show renders the current state of a consent request to the guardian who
// followed the emailed link.
func (h *ConsentHandler) Show(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	request, err := h.consentService.GetByToken(r.Context(), token)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"consent_request": request}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ConsentHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var input struct {
		Action string  `json:"action"`
		Notes  *string `json:"notes"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	responseIP := clientIP(r)
	request, err := h.consentService.Resolve(r.Context(), token, input.Action, input.Notes, &responseIP)
	if err != nil {
		// A repeated response is not an error for the guardian: show the
		// recorded outcome without overwriting anything.
		if errors.Is(err, services.ErrConsentAlreadyResolved) {
			response := jsonResponse{
				"message":         "this consent request has already been resolved",
				"consent_request": request,
			}
			if werr := writeJSON(w, http.StatusOK, response, nil); werr != nil {
				serverErrorResponse(w, r, werr)
			}
			return
		}
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	message := "Consent has been granted"
	if input.Action == services.ConsentActionReject {
		message = "Consent has been rejected"
	}
	response := jsonResponse{
		"message":         message,
		"consent_request": request,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
