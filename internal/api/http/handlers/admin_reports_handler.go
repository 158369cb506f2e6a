package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/maintenance-report-service/internal/api/dto"
	"github.com/spec-kit/maintenance-report-service/internal/auth"
	"github.com/spec-kit/maintenance-report-service/internal/service"
	apperrors "github.com/spec-kit/maintenance-report-service/pkg/util"
)

// AdminReportsHandler manages triage endpoints for technicians and admins.
type AdminReportsHandler struct {
	reports *service.ReportService
}

// NewAdminReportsHandler constructs the handler.
func NewAdminReportsHandler(reports *service.ReportService) *AdminReportsHandler {
	return &AdminReportsHandler{reports: reports}
}

// ListVisible GET /admin/reports.
func (h *AdminReportsHandler) ListVisible(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	reports, err := h.reports.ListVisible(c.UserContext(), session)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewReportResponses(reports)})
}

// ListAssigned GET /admin/reports/assigned.
func (h *AdminReportsHandler) ListAssigned(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	reports, err := h.reports.ListAssigned(c.UserContext(), session)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewReportResponses(reports)})
}

// Stats GET /admin/reports/stats.
func (h *AdminReportsHandler) Stats(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	stats, err := h.reports.Stats(c.UserContext(), session)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ReportStatsResponse{
		Total:      stats.Total,
		Pending:    stats.Pending,
		InProgress: stats.InProgress,
		Completed:  stats.Completed,
	}})
}

// SetStatus PATCH /admin/reports/:id/status.
func (h *AdminReportsHandler) SetStatus(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.SetStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validate.Struct(req); err != nil {
		return apperrors.NewValidationError("missing required fields", validationFields(err))
	}
	report, err := h.reports.SetStatus(c.UserContext(), session, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewReportResponse(report)})
}

// Assign POST /admin/reports/:id/assign.
func (h *AdminReportsHandler) Assign(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AssignReportRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validate.Struct(req); err != nil {
		return apperrors.NewValidationError("missing required fields", validationFields(err))
	}
	report, err := h.reports.Assign(c.UserContext(), session, c.Params("id"), req.TechnicianID, req.TechnicianName)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewReportResponse(report)})
}

// Hide DELETE /admin/reports/:id.
func (h *AdminReportsHandler) Hide(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	report, err := h.reports.Hide(c.UserContext(), session, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewReportResponse(report)})
}
