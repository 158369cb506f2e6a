package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/maintenance-report-service/internal/domain"
	"github.com/spec-kit/maintenance-report-service/internal/repository"
)

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	users     map[string]*domain.User
	failGet   error
	failNext  error
	createdAt time.Time
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:     make(map[string]*domain.User),
		createdAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return err
	}
	user.CreatedAt = f.createdAt
	user.UpdatedAt = f.createdAt
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if f.failGet != nil {
		return nil, f.failGet
	}
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) List(ctx context.Context) ([]domain.User, error) {
	result := make([]domain.User, 0, len(f.users))
	for _, user := range f.users {
		result = append(result, *user)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeUserRepo) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	all, _ := f.List(ctx)
	result := make([]domain.User, 0)
	for _, user := range all {
		if user.Role == role {
			result = append(result, user)
		}
	}
	return result, nil
}

func (f *fakeUserRepo) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	user, ok := f.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.Role = role
	user.UpdatedAt = user.UpdatedAt.Add(time.Second)
	return nil
}

// fakeReportRepo is an in-memory ReportRepository.
type fakeReportRepo struct {
	reports map[string]*domain.Report
	seq     int
	base    time.Time
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{
		reports: make(map[string]*domain.Report),
		base:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeReportRepo) Create(ctx context.Context, report *domain.Report) error {
	f.seq++
	report.ID = fmt.Sprintf("report-%d", f.seq)
	report.CreatedAt = f.base.Add(time.Duration(f.seq) * time.Minute)
	report.UpdatedAt = report.CreatedAt
	copied := *report
	f.reports[report.ID] = &copied
	return nil
}

func (f *fakeReportRepo) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	report, ok := f.reports[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *report
	return &copied, nil
}

func (f *fakeReportRepo) ListVisible(ctx context.Context) ([]domain.Report, error) {
	result := make([]domain.Report, 0)
	for _, report := range f.reports {
		if !report.HiddenFromAdmin {
			result = append(result, *report)
		}
	}
	sortNewestFirst(result)
	return result, nil
}

func (f *fakeReportRepo) ListByReporter(ctx context.Context, reporterID string) ([]domain.Report, error) {
	result := make([]domain.Report, 0)
	for _, report := range f.reports {
		if report.ReporterID == reporterID {
			result = append(result, *report)
		}
	}
	sortNewestFirst(result)
	return result, nil
}

func (f *fakeReportRepo) ListByAssignee(ctx context.Context, technicianID string) ([]domain.Report, error) {
	result := make([]domain.Report, 0)
	for _, report := range f.reports {
		if report.AssignedTo != nil && *report.AssignedTo == technicianID {
			result = append(result, *report)
		}
	}
	sortNewestFirst(result)
	return result, nil
}

func (f *fakeReportRepo) UpdateStatus(ctx context.Context, id string, status domain.ReportStatus) error {
	report, ok := f.reports[id]
	if !ok {
		return pgx.ErrNoRows
	}
	report.Status = status
	report.UpdatedAt = report.UpdatedAt.Add(time.Second)
	return nil
}

func (f *fakeReportRepo) Assign(ctx context.Context, id string, update repository.AssignmentUpdate) error {
	report, ok := f.reports[id]
	if !ok {
		return pgx.ErrNoRows
	}
	report.AssignedTo = &update.TechnicianID
	report.AssignedToName = &update.TechnicianName
	report.AssignedBy = &update.AssignedBy
	report.AssignedAt = &update.AssignedAt
	report.UpdatedAt = update.AssignedAt
	return nil
}

func (f *fakeReportRepo) Hide(ctx context.Context, id string, hiddenAt time.Time) error {
	report, ok := f.reports[id]
	if !ok {
		return pgx.ErrNoRows
	}
	report.HiddenFromAdmin = true
	report.HiddenAt = &hiddenAt
	report.UpdatedAt = hiddenAt
	return nil
}

func (f *fakeReportRepo) CountVisibleByStatus(ctx context.Context) (domain.ReportStats, error) {
	var stats domain.ReportStats
	for _, report := range f.reports {
		if report.HiddenFromAdmin {
			continue
		}
		stats.Total++
		switch report.Status {
		case domain.ReportStatusPending:
			stats.Pending++
		case domain.ReportStatusInProgress:
			stats.InProgress++
		case domain.ReportStatusCompleted:
			stats.Completed++
		}
	}
	return stats, nil
}

func sortNewestFirst(reports []domain.Report) {
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
}
