package events

import (
	"time"

	"github.com/spec-kit/maintenance-report-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventReportCreated       EventType = "report_created"
	EventReportStatusChanged EventType = "report_status_changed"
	EventReportAssigned      EventType = "report_assigned"
	EventReportHidden        EventType = "report_hidden"
	EventUserRoleChanged     EventType = "user_role_changed"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ReportID  string      `json:"report_id,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ReportCreatedPayload payload.
type ReportCreatedPayload struct {
	Location    string `json:"location"`
	ProblemType string `json:"problem_type"`
	ImageCount  int    `json:"image_count"`
}

// ReportStatusChangedPayload payload.
type ReportStatusChangedPayload struct {
	OldStatus domain.ReportStatus `json:"old_status"`
	NewStatus domain.ReportStatus `json:"new_status"`
}

// ReportAssignedPayload payload.
type ReportAssignedPayload struct {
	TechnicianID   string `json:"technician_id"`
	TechnicianName string `json:"technician_name"`
}

// ReportHiddenPayload payload.
type ReportHiddenPayload struct {
	HiddenAt time.Time `json:"hidden_at"`
}

// UserRoleChangedPayload payload.
type UserRoleChangedPayload struct {
	TargetUserID string      `json:"target_user_id"`
	OldRole      domain.Role `json:"old_role"`
	NewRole      domain.Role `json:"new_role"`
}
