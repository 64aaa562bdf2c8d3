package dto

import (
	"time"

	"github.com/spec-kit/dispatch-service/internal/domain"
)

// CreateRequestRequest payload.
type CreateRequestRequest struct {
	ClientName  string `json:"client_name"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	ProblemText string `json:"problem_text"`
}

// TransitionRequest payload for PATCH /requests/:id.
type TransitionRequest struct {
	Action   domain.Action `json:"action"`
	MasterID *int64        `json:"master_id"`
}

// RequestResponse is the wire form of a request.
type RequestResponse struct {
	ID           int64                `json:"id"`
	ClientName   string               `json:"client_name"`
	Phone        string               `json:"phone"`
	Address      string               `json:"address"`
	ProblemText  string               `json:"problem_text"`
	Status       domain.RequestStatus `json:"status"`
	AssignedToID *int64               `json:"assigned_to_id"`
	AssignedTo   *UserSummary         `json:"assigned_to,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}
