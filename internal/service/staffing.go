package service

import (
	"log/slog"
	"time"

	"github.com/saltriver-hospitality/staff-roster/backend/internal/domain"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/roster"
)

type StaffingStore interface {
	UpsertStaffingRequirement(req *domain.StaffingRequirement) error
	GetStaffingRequirementsForWeek(weekStart time.Time) ([]*domain.StaffingRequirement, error)
	GetStaffingRequirementsForScopeWeek(scope domain.Role, weekStart time.Time) ([]*domain.StaffingRequirement, error)
	GetEntriesForWeek(weekStart time.Time) ([]*domain.ScheduleEntry, error)
}

type StaffingService struct {
	store  StaffingStore
	logger *slog.Logger
}

func NewStaffingService(store StaffingStore, logger *slog.Logger) *StaffingService {
	return &StaffingService{
		store:  store,
		logger: logger,
	}
}

func validScope(scope domain.Role) bool {
	return scope == domain.StaffingScopeAll || domain.IsKnownRole(scope)
}

// Upsert sets the requirement for one (scope, date), replacing any previous
// value.
func (s *StaffingService) Upsert(scope domain.Role, workDate time.Time, minStaff int32, maxStaff *int32) (*domain.StaffingRequirement, error) {
	if !validScope(scope) {
		return nil, roster.NewValidation(roster.CodeInvalidInput, "unknown requirement scope")
	}
	if err := roster.ValidateRequirement(minStaff, maxStaff); err != nil {
		return nil, err
	}

	req := &domain.StaffingRequirement{
		Scope:    scope,
		WorkDate: roster.DateOnly(workDate),
		MinStaff: minStaff,
		MaxStaff: maxStaff,
	}
	if err := s.store.UpsertStaffingRequirement(req); err != nil {
		return nil, err
	}

	return req, nil
}

// Requirements lists every scope's requirements for a week, for the editor
// grid.
func (s *StaffingService) Requirements(weekStart time.Time) ([]*domain.StaffingRequirement, error) {
	weekStart, err := weekStartArg(weekStart)
	if err != nil {
		return nil, err
	}

	return s.store.GetStaffingRequirementsForWeek(weekStart)
}

// RequirementsForScope narrows the week listing to a single scope.
func (s *StaffingService) RequirementsForScope(scope domain.Role, weekStart time.Time) ([]*domain.StaffingRequirement, error) {
	if !validScope(scope) {
		return nil, roster.NewValidation(roster.CodeInvalidInput, "unknown requirement scope")
	}
	weekStart, err := weekStartArg(weekStart)
	if err != nil {
		return nil, err
	}

	return s.store.GetStaffingRequirementsForScopeWeek(scope, weekStart)
}

type DateStaffing struct {
	Date        string                      `json:"date"`
	Assigned    int                         `json:"assigned"`
	Requirement *domain.StaffingRequirement `json:"requirement"`
	Status      domain.StaffingStatus       `json:"status"`
}

func countForScope(entries []*domain.ScheduleEntry, scope domain.Role) map[string]int {
	counts := make(map[string]int)
	for _, e := range entries {
		if e.OnLeave {
			continue
		}
		if scope != domain.StaffingScopeAll && e.ScheduleRole != scope {
			continue
		}
		counts[roster.FormatDate(e.WorkDate)]++
	}
	return counts
}

// WeekStatus classifies each date of a week for one scope against the
// published entries.
func (s *StaffingService) WeekStatus(scope domain.Role, weekStart time.Time) ([]DateStaffing, error) {
	if !validScope(scope) {
		return nil, roster.NewValidation(roster.CodeInvalidInput, "unknown requirement scope")
	}
	weekStart, err := weekStartArg(weekStart)
	if err != nil {
		return nil, err
	}

	reqs, err := s.store.GetStaffingRequirementsForScopeWeek(scope, weekStart)
	if err != nil {
		return nil, err
	}
	reqByDate := make(map[string]*domain.StaffingRequirement, len(reqs))
	for _, req := range reqs {
		reqByDate[roster.FormatDate(req.WorkDate)] = req
	}

	entries, err := s.store.GetEntriesForWeek(weekStart)
	if err != nil {
		return nil, err
	}
	counts := countForScope(entries, scope)

	out := make([]DateStaffing, 0, 7)
	for _, date := range roster.WeekDates(weekStart) {
		key := roster.FormatDate(date)
		out = append(out, DateStaffing{
			Date:        key,
			Assigned:    counts[key],
			Requirement: reqByDate[key],
			Status:      roster.Classify(reqByDate[key], counts[key]),
		})
	}

	return out, nil
}
