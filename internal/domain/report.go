package domain

import "time"

// ReportStatus enumerates lifecycle states for maintenance reports.
type ReportStatus string

const (
	ReportStatusPending    ReportStatus = "pending"
	ReportStatusInProgress ReportStatus = "in_progress"
	ReportStatusCompleted  ReportStatus = "completed"
)

// ValidStatus reports whether the value is a known report status.
func ValidStatus(status ReportStatus) bool {
	switch status {
	case ReportStatusPending, ReportStatusInProgress, ReportStatusCompleted:
		return true
	}
	return false
}

// Report is the aggregate for maintenance tickets. Reporter fields are fixed
// at creation. Assignment fields stay nil until the first assignment. A report
// is never physically deleted; HiddenFromAdmin removes it from the shared
// listings while the reporter's own history keeps showing it.
type Report struct {
	ID              string
	ReporterID      string
	ReporterEmail   string
	ReporterName    string
	Location        string
	ProblemType     string
	ProblemDetails  string
	Images          []string
	Status          ReportStatus
	AssignedTo      *string
	AssignedToName  *string
	AssignedBy      *string
	AssignedAt      *time.Time
	HiddenFromAdmin bool
	HiddenAt        *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ReportStats aggregates visible report counts per status.
type ReportStats struct {
	Total      int
	Pending    int
	InProgress int
	Completed  int
}
