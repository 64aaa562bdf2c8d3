package domain

import "time"

// RequestStatus enumerates lifecycle states for service requests.
type RequestStatus string

const (
	RequestStatusNew        RequestStatus = "new"
	RequestStatusAssigned   RequestStatus = "assigned"
	RequestStatusInProgress RequestStatus = "in_progress"
	RequestStatusDone       RequestStatus = "done"
	RequestStatusCanceled   RequestStatus = "canceled"
)

// Valid reports whether the status is a member of the closed enum.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusNew, RequestStatusAssigned, RequestStatusInProgress, RequestStatusDone, RequestStatusCanceled:
		return true
	}
	return false
}

// Terminal reports whether the status has no outgoing transitions.
func (s RequestStatus) Terminal() bool {
	return s == RequestStatusDone || s == RequestStatusCanceled
}

// Action enumerates the transitions a caller may request.
type Action string

const (
	ActionAssign   Action = "assign"
	ActionCancel   Action = "cancel"
	ActionTake     Action = "take"
	ActionComplete Action = "complete"
)

// Valid reports whether the action is known.
func (a Action) Valid() bool {
	switch a {
	case ActionAssign, ActionCancel, ActionTake, ActionComplete:
		return true
	}
	return false
}

// Request is the aggregate for client problem reports.
type Request struct {
	ID           int64
	ClientName   string
	Phone        string
	Address      string
	ProblemText  string
	Status       RequestStatus
	AssignedToID *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
