package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/dispatch-service/internal/domain"
	"github.com/spec-kit/dispatch-service/internal/events"
	"github.com/spec-kit/dispatch-service/internal/repository"
	apperrors "github.com/spec-kit/dispatch-service/pkg/util"
)

// validFrom maps each action to the statuses it may be applied from.
var validFrom = map[domain.Action][]domain.RequestStatus{
	domain.ActionAssign:   {domain.RequestStatusNew},
	domain.ActionCancel:   {domain.RequestStatusNew, domain.RequestStatusAssigned, domain.RequestStatusInProgress},
	domain.ActionTake:     {domain.RequestStatusAssigned},
	domain.ActionComplete: {domain.RequestStatusInProgress},
}

// target maps each action to the status it produces.
var target = map[domain.Action]domain.RequestStatus{
	domain.ActionAssign:   domain.RequestStatusAssigned,
	domain.ActionCancel:   domain.RequestStatusCanceled,
	domain.ActionTake:     domain.RequestStatusInProgress,
	domain.ActionComplete: domain.RequestStatusDone,
}

// DispatchService is the transition engine for request lifecycles. It holds
// no mutable state of its own; all contention is resolved by the store's
// conditional update, so any number of engine instances can share one store.
type DispatchService struct {
	requests   repository.RequestRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// DispatchDependencies bundles repositories for the engine.
type DispatchDependencies struct {
	RequestRepo repository.RequestRepository
	UserRepo    repository.UserRepository
	Dispatcher  events.Dispatcher
}

// RequestCreateInput describes request creation payload.
type RequestCreateInput struct {
	ClientName  string
	Phone       string
	Address     string
	ProblemText string
}

// RequestListFilter describes listing filters.
type RequestListFilter struct {
	Status       *domain.RequestStatus
	AssignedToID *int64
}

// NewDispatchService constructs the engine.
func NewDispatchService(deps DispatchDependencies) *DispatchService {
	return &DispatchService{
		requests:   deps.RequestRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
	}
}

// CreateRequest registers a new client problem report in status "new".
func (s *DispatchService) CreateRequest(ctx context.Context, actor domain.Actor, input RequestCreateInput) (*domain.Request, error) {
	input.ClientName = strings.TrimSpace(input.ClientName)
	input.Phone = strings.TrimSpace(input.Phone)
	input.Address = strings.TrimSpace(input.Address)
	input.ProblemText = strings.TrimSpace(input.ProblemText)
	if input.ClientName == "" || input.Phone == "" || input.Address == "" || input.ProblemText == "" {
		return nil, apperrors.NewValidationError("client_name, phone, address, problem_text required", nil)
	}

	request := &domain.Request{
		ClientName:  input.ClientName,
		Phone:       input.Phone,
		Address:     input.Address,
		ProblemText: input.ProblemText,
		Status:      domain.RequestStatusNew,
	}
	if err := s.requests.Create(ctx, request); err != nil {
		return nil, apperrors.NewUnavailable(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:      events.EventRequestCreated,
		RequestID: request.ID,
		Actor:     events.Actor{ID: actor.ID, Role: actor.Role},
		Payload: events.RequestCreatedPayload{
			ClientName: request.ClientName,
			Address:    request.Address,
		},
	})
	return request, nil
}

// GetRequest fetches a single request.
func (s *DispatchService) GetRequest(ctx context.Context, id int64) (*domain.Request, error) {
	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("request", map[string]any{"request_id": id})
		}
		return nil, apperrors.NewUnavailable(err)
	}
	return request, nil
}

// ListRequests returns requests matching the filter, newest created first.
func (s *DispatchService) ListRequests(ctx context.Context, filter RequestListFilter) ([]domain.Request, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, apperrors.NewValidationError("unknown status filter", map[string]any{"status": *filter.Status})
	}
	result, err := s.requests.ListWithFilter(ctx, repository.RequestFilter{
		Status:       filter.Status,
		AssignedToID: filter.AssignedToID,
	})
	if err != nil {
		return nil, apperrors.NewUnavailable(err)
	}
	return result, nil
}

// ListMasters returns the master roster for assignment pickers.
func (s *DispatchService) ListMasters(ctx context.Context) ([]domain.User, error) {
	result, err := s.users.ListByRole(ctx, domain.RoleMaster)
	if err != nil {
		return nil, apperrors.NewUnavailable(err)
	}
	return result, nil
}

// PerformTransition validates and applies a state transition on behalf of
// actor. Validation order: request exists, action legal from current status,
// actor permitted. The write itself is a conditional update keyed on the
// observed status, so a caller racing a concurrent transition on the same
// request loses with Conflict instead of overwriting the winner.
func (s *DispatchService) PerformTransition(ctx context.Context, requestID int64, action domain.Action, actor domain.Actor, masterID *int64) (*domain.Request, error) {
	if !action.Valid() {
		return nil, apperrors.NewValidationError("unknown action", map[string]any{"action": action})
	}

	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("request", map[string]any{"request_id": requestID})
		}
		return nil, apperrors.NewUnavailable(err)
	}

	if !actionAllowedFrom(action, request.Status) {
		return nil, apperrors.NewInvalidTransition("action not allowed from current status", map[string]any{
			"action": action,
			"status": request.Status,
		})
	}

	update := repository.RequestUpdate{Status: target[action]}
	switch action {
	case domain.ActionAssign:
		if actor.Role != domain.RoleDispatcher {
			return nil, apperrors.NewForbidden("only a dispatcher can assign requests")
		}
		if masterID == nil {
			return nil, apperrors.NewValidationError("master_id required", nil)
		}
		master, err := s.users.GetByID(ctx, *masterID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("master", map[string]any{"master_id": *masterID})
			}
			return nil, apperrors.NewUnavailable(err)
		}
		if master.Role != domain.RoleMaster {
			return nil, apperrors.NewValidationError("assignee is not a master", map[string]any{"master_id": *masterID})
		}
		update.AssignedToID = &master.ID
	case domain.ActionCancel:
		if actor.Role != domain.RoleDispatcher {
			return nil, apperrors.NewForbidden("only a dispatcher can cancel requests")
		}
	case domain.ActionTake, domain.ActionComplete:
		if actor.Role != domain.RoleMaster {
			return nil, apperrors.NewForbidden("only a master can work requests")
		}
		if request.AssignedToID == nil || *request.AssignedToID != actor.ID {
			return nil, apperrors.NewForbidden("request is assigned to another master")
		}
	}

	affected, err := s.requests.UpdateStatusIf(ctx, request.ID, request.Status, update)
	if err != nil {
		return nil, apperrors.NewUnavailable(err)
	}
	if affected == 0 {
		// The status moved between our read and the conditional write:
		// a concurrent transition won first.
		return nil, apperrors.NewConflict("request was modified concurrently", map[string]any{
			"request_id": request.ID,
			"action":     action,
		})
	}

	updated, err := s.requests.GetByID(ctx, request.ID)
	if err != nil {
		return nil, apperrors.NewUnavailable(err)
	}
	s.publishTransitionEvent(ctx, actor, action, request.Status, updated)
	return updated, nil
}

func actionAllowedFrom(action domain.Action, status domain.RequestStatus) bool {
	for _, candidate := range validFrom[action] {
		if candidate == status {
			return true
		}
	}
	return false
}

func (s *DispatchService) publishTransitionEvent(ctx context.Context, actor domain.Actor, action domain.Action, oldStatus domain.RequestStatus, request *domain.Request) {
	event := events.Event{
		Type:      events.EventRequestStatusChanged,
		RequestID: request.ID,
		Actor:     events.Actor{ID: actor.ID, Role: actor.Role},
		Payload: events.RequestStatusChangedPayload{
			Action:    action,
			OldStatus: oldStatus,
			NewStatus: request.Status,
		},
	}
	if action == domain.ActionAssign && request.AssignedToID != nil {
		event.Type = events.EventRequestAssigned
		event.Payload = events.RequestAssignedPayload{MasterID: *request.AssignedToID}
	}
	s.publishEvent(ctx, event)
}

func (s *DispatchService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
