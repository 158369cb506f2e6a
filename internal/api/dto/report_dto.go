package dto

import (
	"time"

	"github.com/spec-kit/maintenance-report-service/internal/domain"
)

// CreateReportRequest payload. Images are self-contained encoded payloads;
// the service treats each as opaque.
type CreateReportRequest struct {
	Location       string   `json:"location" validate:"required"`
	ProblemType    string   `json:"problem_type" validate:"required"`
	ProblemDetails string   `json:"problem_details" validate:"required"`
	Images         []string `json:"images" validate:"required,min=1"`
}

// SetStatusRequest payload.
type SetStatusRequest struct {
	Status domain.ReportStatus `json:"status" validate:"required"`
}

// AssignReportRequest payload.
type AssignReportRequest struct {
	TechnicianID   string `json:"technician_id" validate:"required"`
	TechnicianName string `json:"technician_name"`
}

// ReportResponse is the full report view.
type ReportResponse struct {
	ID              string              `json:"id"`
	ReporterID      string              `json:"reporter_id"`
	ReporterEmail   string              `json:"reporter_email"`
	ReporterName    string              `json:"reporter_name"`
	Location        string              `json:"location"`
	ProblemType     string              `json:"problem_type"`
	ProblemDetails  string              `json:"problem_details"`
	Images          []string            `json:"images"`
	Status          domain.ReportStatus `json:"status"`
	AssignedTo      *string             `json:"assigned_to"`
	AssignedToName  *string             `json:"assigned_to_name"`
	AssignedBy      *string             `json:"assigned_by"`
	AssignedAt      *time.Time          `json:"assigned_at"`
	HiddenFromAdmin bool                `json:"hidden_from_admin"`
	HiddenAt        *time.Time          `json:"hidden_at"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// ReportStatsResponse aggregates visible report counts.
type ReportStatsResponse struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
}

// NewReportResponse maps the domain model.
func NewReportResponse(report *domain.Report) ReportResponse {
	return ReportResponse{
		ID:              report.ID,
		ReporterID:      report.ReporterID,
		ReporterEmail:   report.ReporterEmail,
		ReporterName:    report.ReporterName,
		Location:        report.Location,
		ProblemType:     report.ProblemType,
		ProblemDetails:  report.ProblemDetails,
		Images:          report.Images,
		Status:          report.Status,
		AssignedTo:      report.AssignedTo,
		AssignedToName:  report.AssignedToName,
		AssignedBy:      report.AssignedBy,
		AssignedAt:      report.AssignedAt,
		HiddenFromAdmin: report.HiddenFromAdmin,
		HiddenAt:        report.HiddenAt,
		CreatedAt:       report.CreatedAt,
		UpdatedAt:       report.UpdatedAt,
	}
}

// NewReportResponses maps a slice.
func NewReportResponses(reports []domain.Report) []ReportResponse {
	items := make([]ReportResponse, 0, len(reports))
	for i := range reports {
		items = append(items, NewReportResponse(&reports[i]))
	}
	return items
}
