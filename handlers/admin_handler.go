package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Dosada05/talent-platform/models"
	"github.com/Dosada05/talent-platform/services"
)

type AdminHandler struct {
	adminService services.AdminService
}

func NewAdminHandler(adminService services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func (h *AdminHandler) ListConsentRequests(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.ConsentRequestFilter{
		Page:  toInt(q.Get("page"), 1),
		Limit: toInt(q.Get("limit"), 20),
	}
	if status := q.Get("status"); status != "" {
		s := models.ConsentRequestStatus(status)
		filter.Status = &s
	}

	requests, err := h.adminService.ListConsentRequests(r.Context(), filter)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"consent_requests": requests}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.UserFilter{
		Search: q.Get("search"),
		Page:   toInt(q.Get("page"), 1),
		Limit:  toInt(q.Get("limit"), 20),
	}
	if role := q.Get("role"); role != "" {
		parsed := models.Role(strings.ToUpper(role))
		filter.Role = &parsed
	}

	result, err := h.adminService.ListUsers(r.Context(), filter)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func toInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
