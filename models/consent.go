package models

import "time"

type ConsentRequestStatus string

const (
	ConsentRequestPending  ConsentRequestStatus = "pending"
	ConsentRequestGranted  ConsentRequestStatus = "granted"
	ConsentRequestRejected ConsentRequestStatus = "rejected"
)

// ParentalConsentRequest tracks a guardian's authorization for an underage
// player. Status moves pending -> granted or pending -> rejected exactly once;
// granted and rejected are terminal.
type ParentalConsentRequest struct {
	ID          int                  `json:"id"`
	PlayerID    int                  `json:"player_id"`
	Token       string               `json:"token"`
	ParentName  string               `json:"parent_name"`
	ParentEmail string               `json:"parent_email"`
	ParentPhone string               `json:"parent_phone"`
	Status      ConsentRequestStatus `json:"status"`
	RequestedAt time.Time            `json:"requested_at"`
	RespondedAt *time.Time           `json:"responded_at,omitempty"`
	ResponseIP  *string              `json:"response_ip,omitempty"`
	Notes       *string              `json:"notes,omitempty"`
}

func (r *ParentalConsentRequest) Resolved() bool {
	return r.Status != ConsentRequestPending
}

type ConsentRequestFilter struct {
	Status *ConsentRequestStatus
	Page   int
	Limit  int
}
