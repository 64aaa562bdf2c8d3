package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/dispatch-service/internal/api/dto"
	"github.com/spec-kit/dispatch-service/internal/auth"
	"github.com/spec-kit/dispatch-service/internal/service"
	apperrors "github.com/spec-kit/dispatch-service/pkg/util"
)

// UsersHandler exposes account endpoints.
type UsersHandler struct {
	service *service.DispatchService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(dispatchService *service.DispatchService) *UsersHandler {
	return &UsersHandler{service: dispatchService}
}

// ListMasters GET /users/masters. The dispatcher UI uses it to populate the
// assignment picker.
func (h *UsersHandler) ListMasters(c *fiber.Ctx) error {
	if _, ok := auth.PrincipalFromContext(c); !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	masters, err := h.service.ListMasters(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.UserSummary, 0, len(masters))
	for i := range masters {
		items = append(items, userSummary(&masters[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
