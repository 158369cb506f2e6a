package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/maintenance-report-service/internal/auth"
	"github.com/spec-kit/maintenance-report-service/internal/authz"
	"github.com/spec-kit/maintenance-report-service/internal/domain"
	"github.com/spec-kit/maintenance-report-service/internal/events"
	"github.com/spec-kit/maintenance-report-service/internal/observability"
	"github.com/spec-kit/maintenance-report-service/internal/repository"
	apperrors "github.com/spec-kit/maintenance-report-service/pkg/util"
)

// ReportService coordinates the report lifecycle: creation, status changes,
// technician assignment and soft deletion. Every mutating path checks the
// capability matrix before touching the repository.
type ReportService struct {
	reports    repository.ReportRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// ReportDependencies bundles repositories for the report service.
type ReportDependencies struct {
	ReportRepo repository.ReportRepository
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
}

// ReportCreateInput describes report creation payload.
type ReportCreateInput struct {
	Location       string
	ProblemType    string
	ProblemDetails string
	Images         []string
}

// NewReportService constructs the service.
func NewReportService(deps ReportDependencies) *ReportService {
	return &ReportService{
		reports:    deps.ReportRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
	}
}

// Create files a new report on behalf of the session holder. Reporter fields
// are taken from the session and never change afterwards.
func (s *ReportService) Create(ctx context.Context, session auth.Session, input ReportCreateInput) (*domain.Report, error) {
	if !authz.Can(session.Role, authz.OpCreateReport) {
		return nil, apperrors.NewForbidden()
	}

	var missing []string
	if strings.TrimSpace(input.Location) == "" {
		missing = append(missing, "location")
	}
	if strings.TrimSpace(input.ProblemType) == "" {
		missing = append(missing, "problem_type")
	}
	if strings.TrimSpace(input.ProblemDetails) == "" {
		missing = append(missing, "problem_details")
	}
	if len(input.Images) == 0 {
		missing = append(missing, "images")
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("missing required fields", missing)
	}

	report := &domain.Report{
		ReporterID:     session.UserID,
		ReporterEmail:  session.Email,
		ReporterName:   session.DisplayName,
		Location:       strings.TrimSpace(input.Location),
		ProblemType:    strings.TrimSpace(input.ProblemType),
		ProblemDetails: strings.TrimSpace(input.ProblemDetails),
		Images:         input.Images,
		Status:         domain.ReportStatusPending,
	}

	if err := s.reports.Create(ctx, report); err != nil {
		return nil, apperrors.MapError(err)
	}
	observability.RecordReportCreated(report.ProblemType)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventReportCreated,
		ReportID: report.ID,
		Actor:    sessionActor(session),
		Payload: events.ReportCreatedPayload{
			Location:    report.Location,
			ProblemType: report.ProblemType,
			ImageCount:  len(report.Images),
		},
	})
	return report, nil
}

// SetStatus applies a status change. Statuses move freely between the three
// known values; there is no forward-only ordering.
func (s *ReportService) SetStatus(ctx context.Context, session auth.Session, reportID string, newStatus domain.ReportStatus) (*domain.Report, error) {
	if !authz.Can(session.Role, authz.OpChangeStatus) {
		return nil, apperrors.NewForbidden()
	}
	if !domain.ValidStatus(newStatus) {
		return nil, apperrors.NewValidationError("unknown status value", []string{"status"})
	}

	report, err := s.getReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	oldStatus := report.Status

	if err := s.reports.UpdateStatus(ctx, reportID, newStatus); err != nil {
		return nil, apperrors.MapError(err)
	}
	report.Status = newStatus
	report.UpdatedAt = time.Now()

	observability.RecordStatusChange(string(oldStatus), string(newStatus))
	s.publishEvent(ctx, events.Event{
		Type:     events.EventReportStatusChanged,
		ReportID: report.ID,
		Actor:    sessionActor(session),
		Payload: events.ReportStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
		},
	})
	return report, nil
}

// Assign hands a report to a technician. Re-assigning the same technician is
// rejected without touching the record. Two concurrent assigns on the same
// report race last-write-wins; the guard only sees the state it read.
func (s *ReportService) Assign(ctx context.Context, session auth.Session, reportID, technicianID, technicianName string) (*domain.Report, error) {
	if !authz.Can(session.Role, authz.OpAssign) {
		return nil, apperrors.NewForbidden()
	}

	report, err := s.getReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.AssignedTo != nil && *report.AssignedTo == technicianID {
		return nil, apperrors.NewAlreadyAssigned(reportID, technicianID)
	}

	technician, err := s.users.GetByID(ctx, technicianID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("technician", map[string]any{"technician_id": technicianID})
		}
		return nil, apperrors.MapError(err)
	}
	if technicianName == "" {
		technicianName = technician.DisplayName
	}

	update := repository.AssignmentUpdate{
		TechnicianID:   technicianID,
		TechnicianName: technicianName,
		AssignedBy:     session.UserID,
		AssignedAt:     time.Now(),
	}
	if err := s.reports.Assign(ctx, reportID, update); err != nil {
		return nil, apperrors.MapError(err)
	}
	report.AssignedTo = &update.TechnicianID
	report.AssignedToName = &update.TechnicianName
	report.AssignedBy = &update.AssignedBy
	report.AssignedAt = &update.AssignedAt
	report.UpdatedAt = update.AssignedAt

	observability.RecordReportAssigned()
	s.publishEvent(ctx, events.Event{
		Type:     events.EventReportAssigned,
		ReportID: report.ID,
		Actor:    sessionActor(session),
		Payload: events.ReportAssignedPayload{
			TechnicianID:   technicianID,
			TechnicianName: technicianName,
		},
	})
	return report, nil
}

// Hide soft-deletes a report from the shared listings. The reporter's own
// history keeps the record. Hiding an already hidden report is a no-op.
func (s *ReportService) Hide(ctx context.Context, session auth.Session, reportID string) (*domain.Report, error) {
	if !authz.Can(session.Role, authz.OpHideReport) {
		return nil, apperrors.NewForbidden()
	}

	report, err := s.getReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.HiddenFromAdmin {
		return report, nil
	}

	hiddenAt := time.Now()
	if err := s.reports.Hide(ctx, reportID, hiddenAt); err != nil {
		return nil, apperrors.MapError(err)
	}
	report.HiddenFromAdmin = true
	report.HiddenAt = &hiddenAt
	report.UpdatedAt = hiddenAt

	observability.RecordReportHidden()
	s.publishEvent(ctx, events.Event{
		Type:     events.EventReportHidden,
		ReportID: report.ID,
		Actor:    sessionActor(session),
		Payload:  events.ReportHiddenPayload{HiddenAt: hiddenAt},
	})
	return report, nil
}

// ListVisible returns all non-hidden reports, newest first.
func (s *ReportService) ListVisible(ctx context.Context, session auth.Session) ([]domain.Report, error) {
	if !authz.Can(session.Role, authz.OpReadAllReports) {
		return nil, apperrors.NewForbidden()
	}
	reports, err := s.reports.ListVisible(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return reports, nil
}

// ListOwn returns the session holder's full report history, hidden or not.
func (s *ReportService) ListOwn(ctx context.Context, session auth.Session) ([]domain.Report, error) {
	if !authz.Can(session.Role, authz.OpReadOwnReports) {
		return nil, apperrors.NewForbidden()
	}
	reports, err := s.reports.ListByReporter(ctx, session.UserID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return reports, nil
}

// ListAssigned returns reports assigned to the session holder.
func (s *ReportService) ListAssigned(ctx context.Context, session auth.Session) ([]domain.Report, error) {
	if !authz.Can(session.Role, authz.OpReadAllReports) {
		return nil, apperrors.NewForbidden()
	}
	reports, err := s.reports.ListByAssignee(ctx, session.UserID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return reports, nil
}

// Get fetches one report with role-scoped visibility: the reporter always
// sees their own report, other roles with the read-all grant see it only
// while it is not hidden.
func (s *ReportService) Get(ctx context.Context, session auth.Session, reportID string) (*domain.Report, error) {
	report, err := s.getReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.ReporterID == session.UserID {
		return report, nil
	}
	if !authz.Can(session.Role, authz.OpReadAllReports) {
		return nil, apperrors.NewForbidden()
	}
	if report.HiddenFromAdmin {
		return nil, apperrors.NewNotFound("report", map[string]any{"report_id": reportID})
	}
	return report, nil
}

// Stats aggregates visible report counts per status.
func (s *ReportService) Stats(ctx context.Context, session auth.Session) (domain.ReportStats, error) {
	if !authz.Can(session.Role, authz.OpReadAllReports) {
		return domain.ReportStats{}, apperrors.NewForbidden()
	}
	stats, err := s.reports.CountVisibleByStatus(ctx)
	if err != nil {
		return domain.ReportStats{}, apperrors.MapError(err)
	}
	return stats, nil
}

func (s *ReportService) getReport(ctx context.Context, reportID string) (*domain.Report, error) {
	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("report", map[string]any{"report_id": reportID})
		}
		return nil, apperrors.MapError(err)
	}
	return report, nil
}

func (s *ReportService) publishEvent(ctx context.Context, event events.Event) {
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

func sessionActor(session auth.Session) events.Actor {
	return events.Actor{UserID: session.UserID, Role: session.Role}
}
