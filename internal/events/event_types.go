package events

import (
	"time"

	"github.com/spec-kit/dispatch-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRequestCreated       EventType = "request_created"
	EventRequestAssigned      EventType = "request_assigned"
	EventRequestStatusChanged EventType = "request_status_changed"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	ID   int64       `json:"id"`
	Role domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	RequestID int64       `json:"request_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// RequestCreatedPayload payload.
type RequestCreatedPayload struct {
	ClientName string `json:"client_name"`
	Address    string `json:"address"`
}

// RequestAssignedPayload payload.
type RequestAssignedPayload struct {
	MasterID int64 `json:"master_id"`
}

// RequestStatusChangedPayload payload.
type RequestStatusChangedPayload struct {
	Action    domain.Action        `json:"action"`
	OldStatus domain.RequestStatus `json:"old_status"`
	NewStatus domain.RequestStatus `json:"new_status"`
}
