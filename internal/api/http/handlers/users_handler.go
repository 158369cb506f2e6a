package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/maintenance-report-service/internal/api/dto"
	"github.com/spec-kit/maintenance-report-service/internal/auth"
	"github.com/spec-kit/maintenance-report-service/internal/service"
	apperrors "github.com/spec-kit/maintenance-report-service/pkg/util"
)

// UsersHandler manages the user directory and role management endpoints.
type UsersHandler struct {
	directory *service.DirectoryService
}

// NewUsersHandler constructs the handler.
func NewUsersHandler(directory *service.DirectoryService) *UsersHandler {
	return &UsersHandler{directory: directory}
}

// List GET /admin/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	users, err := h.directory.ListUsers(c.UserContext(), session)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponses(users)})
}

// ListTechnicians GET /admin/users/technicians.
func (h *UsersHandler) ListTechnicians(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	technicians, err := h.directory.ListTechnicians(c.UserContext(), session)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponses(technicians)})
}

// ChangeRole PATCH /admin/users/:id/role.
func (h *UsersHandler) ChangeRole(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ChangeRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validate.Struct(req); err != nil {
		return apperrors.NewValidationError("missing required fields", validationFields(err))
	}
	user, err := h.directory.ChangeRole(c.UserContext(), session, c.Params("id"), req.Role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}
