package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/dispatch-service/internal/api/dto"
	"github.com/spec-kit/dispatch-service/internal/auth"
	"github.com/spec-kit/dispatch-service/internal/domain"
	"github.com/spec-kit/dispatch-service/internal/observability"
	"github.com/spec-kit/dispatch-service/internal/service"
	apperrors "github.com/spec-kit/dispatch-service/pkg/util"
)

// RequestsHandler manages request endpoints.
type RequestsHandler struct {
	service *service.DispatchService
	metrics *observability.Metrics
}

// NewRequestsHandler constructs handler.
func NewRequestsHandler(dispatchService *service.DispatchService, metrics *observability.Metrics) *RequestsHandler {
	return &RequestsHandler{service: dispatchService, metrics: metrics}
}

// CreateRequest POST /requests.
func (h *RequestsHandler) CreateRequest(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	request, err := h.service.CreateRequest(c.UserContext(), principal.Actor, service.RequestCreateInput{
		ClientName:  req.ClientName,
		Phone:       req.Phone,
		Address:     req.Address,
		ProblemText: req.ProblemText,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": requestResponse(request, nil)})
}

// ListRequests GET /requests.
func (h *RequestsHandler) ListRequests(c *fiber.Ctx) error {
	if _, ok := auth.PrincipalFromContext(c); !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	filter := service.RequestListFilter{}
	if statusStr := strings.TrimSpace(c.Query("status")); statusStr != "" {
		status := domain.RequestStatus(statusStr)
		filter.Status = &status
	}
	if masterStr := strings.TrimSpace(c.Query("master_id")); masterStr != "" {
		masterID, err := strconv.ParseInt(masterStr, 10, 64)
		if err != nil {
			return apperrors.NewValidationError("invalid master_id", nil)
		}
		filter.AssignedToID = &masterID
	}

	requests, err := h.service.ListRequests(c.UserContext(), filter)
	if err != nil {
		return err
	}
	masters := h.masterIndex(c)
	items := make([]dto.RequestResponse, 0, len(requests))
	for i := range requests {
		items = append(items, requestResponse(&requests[i], masters))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetRequest GET /requests/:id.
func (h *RequestsHandler) GetRequest(c *fiber.Ctx) error {
	if _, ok := auth.PrincipalFromContext(c); !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseRequestID(c)
	if err != nil {
		return err
	}
	request, err := h.service.GetRequest(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": requestResponse(request, h.masterIndex(c))})
}

// Transition PATCH /requests/:id.
func (h *RequestsHandler) Transition(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseRequestID(c)
	if err != nil {
		return err
	}
	var req dto.TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	request, err := h.service.PerformTransition(c.UserContext(), id, req.Action, principal.Actor, req.MasterID)
	if err != nil {
		h.metrics.RecordTransition(req.Action, apperrors.ToDomainError(err).Code)
		return err
	}
	h.metrics.RecordTransition(req.Action, "ok")
	return c.JSON(fiber.Map{"data": requestResponse(request, h.masterIndex(c))})
}

func parseRequestID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid request id", nil)
	}
	return id, nil
}

// masterIndex resolves assignee summaries for responses. Lookup failures
// degrade to id-only responses.
func (h *RequestsHandler) masterIndex(c *fiber.Ctx) map[int64]dto.UserSummary {
	masters, err := h.service.ListMasters(c.UserContext())
	if err != nil {
		return nil
	}
	index := make(map[int64]dto.UserSummary, len(masters))
	for i := range masters {
		index[masters[i].ID] = userSummary(&masters[i])
	}
	return index
}

func requestResponse(request *domain.Request, masters map[int64]dto.UserSummary) dto.RequestResponse {
	resp := dto.RequestResponse{
		ID:           request.ID,
		ClientName:   request.ClientName,
		Phone:        request.Phone,
		Address:      request.Address,
		ProblemText:  request.ProblemText,
		Status:       request.Status,
		AssignedToID: request.AssignedToID,
		CreatedAt:    request.CreatedAt,
		UpdatedAt:    request.UpdatedAt,
	}
	if request.AssignedToID != nil && masters != nil {
		if summary, ok := masters[*request.AssignedToID]; ok {
			resp.AssignedTo = &summary
		}
	}
	return resp
}

func userSummary(user *domain.User) dto.UserSummary {
	return dto.UserSummary{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}
}
