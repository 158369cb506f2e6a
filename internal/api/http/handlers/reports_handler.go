package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/maintenance-report-service/internal/api/dto"
	"github.com/spec-kit/maintenance-report-service/internal/auth"
	"github.com/spec-kit/maintenance-report-service/internal/service"
	apperrors "github.com/spec-kit/maintenance-report-service/pkg/util"
)

var validate = validator.New()

// ReportsHandler manages reporter-facing report endpoints.
type ReportsHandler struct {
	reports *service.ReportService
}

// NewReportsHandler constructs the handler.
func NewReportsHandler(reports *service.ReportService) *ReportsHandler {
	return &ReportsHandler{reports: reports}
}

// Create POST /reports.
func (h *ReportsHandler) Create(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validate.Struct(req); err != nil {
		return apperrors.NewValidationError("missing required fields", validationFields(err))
	}

	report, err := h.reports.Create(c.UserContext(), session, service.ReportCreateInput{
		Location:       req.Location,
		ProblemType:    req.ProblemType,
		ProblemDetails: req.ProblemDetails,
		Images:         req.Images,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewReportResponse(report)})
}

// ListOwn GET /reports.
func (h *ReportsHandler) ListOwn(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	reports, err := h.reports.ListOwn(c.UserContext(), session)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewReportResponses(reports)})
}

// Get GET /reports/:id.
func (h *ReportsHandler) Get(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	report, err := h.reports.Get(c.UserContext(), session, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewReportResponse(report)})
}

func validationFields(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fields
}
