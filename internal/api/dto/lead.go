package dto

import (
	"time"

	"github.com/google/uuid"
)

// SubmitLeadRequest is the cost-calculator submission. Extra fields beyond
// these are preserved verbatim in the stored payload.
type SubmitLeadRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Phone      string `json:"phone" binding:"required"`
	LeadType   string `json:"lead_type"`
	LeadSource string `json:"lead_source"`
	MoveDate   string `json:"move_date"`
	MoveSize   string `json:"move_size"`
	FromState  string `json:"from_state"`
	FromCity   string `json:"from_city"`
	FromZip    string `json:"from_zip"`
	ToState    string `json:"to_state"`
	ToCity     string `json:"to_city"`
	ToZip      string `json:"to_zip"`
}

type SubmitLeadResponse struct {
	ID        uuid.UUID `json:"id"`
	Forwarded bool      `json:"forwarded"`
}

type LeadResponseEntry struct {
	StatusCode  int       `json:"status_code"`
	Body        string    `json:"body"`
	ForwardedAt time.Time `json:"forwarded_at"`
}

type LeadEntry struct {
	ID         uuid.UUID           `json:"id"`
	Name       string              `json:"name"`
	Email      string              `json:"email"`
	Phone      string              `json:"phone"`
	LeadType   string              `json:"lead_type"`
	LeadSource string              `json:"lead_source,omitempty"`
	MoveDate   *time.Time          `json:"move_date,omitempty"`
	MoveSize   string              `json:"move_size,omitempty"`
	FromState  string              `json:"from_state,omitempty"`
	FromCity   string              `json:"from_city,omitempty"`
	FromZip    string              `json:"from_zip,omitempty"`
	ToState    string              `json:"to_state,omitempty"`
	ToCity     string              `json:"to_city,omitempty"`
	ToZip      string              `json:"to_zip,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	Responses  []LeadResponseEntry `json:"responses"`
}

type LeadListResponse struct {
	Leads      []LeadEntry `json:"leads"`
	TotalCount int64       `json:"total_count"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
}
