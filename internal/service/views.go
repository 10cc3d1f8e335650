package service

import (
	"log/slog"
	"time"

	"github.com/saltriver-hospitality/staff-roster/backend/internal/domain"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/roster"
)

type ViewStore interface {
	GetActiveUsers() ([]*domain.User, error)
	GetEntriesForWeek(weekStart time.Time) ([]*domain.ScheduleEntry, error)
	GetEntriesForUserWeek(userID int64, weekStart time.Time) ([]*domain.ScheduleEntry, error)
	GetCatalog() ([]domain.ShiftTypeDefinition, error)
}

type ViewService struct {
	store    ViewStore
	staffing *StaffingService
	logger   *slog.Logger
}

func NewViewService(store ViewStore, staffing *StaffingService, logger *slog.Logger) *ViewService {
	return &ViewService{
		store:    store,
		staffing: staffing,
		logger:   logger,
	}
}

// ConsolidatedWeek is one audience's weekly grid plus the venue-level
// coverage line. Slices can span several roles, so the classification is
// always computed for the all-staff scope; per-role detail lives on the
// staffing status endpoint.
type ConsolidatedWeek struct {
	Groups   []roster.ViewGroup `json:"groups"`
	Staffing []DateStaffing     `json:"staffing"`
}

// WeekView builds the consolidated weekly grid for one audience. Staff with
// no entries still appear with a row of OFF cells.
func (s *ViewService) WeekView(viewType roster.ViewType, weekStart time.Time) (*ConsolidatedWeek, error) {
	weekStart, err := weekStartArg(weekStart)
	if err != nil {
		return nil, err
	}

	users, err := s.store.GetActiveUsers()
	if err != nil {
		return nil, err
	}
	entries, err := s.store.GetEntriesForWeek(weekStart)
	if err != nil {
		return nil, err
	}
	defs, err := s.store.GetCatalog()
	if err != nil {
		return nil, err
	}

	groups, err := roster.BuildView(viewType, weekStart, users, entries, roster.NewCatalog(defs))
	if err != nil {
		return nil, err
	}

	staffing, err := s.staffing.WeekStatus(domain.StaffingScopeAll, weekStart)
	if err != nil {
		return nil, err
	}

	return &ConsolidatedWeek{Groups: groups, Staffing: staffing}, nil
}

// MyWeek is the single-user slice of the published roster, one cell per day.
func (s *ViewService) MyWeek(user *domain.User, weekStart time.Time) ([]roster.ViewCell, error) {
	weekStart, err := weekStartArg(weekStart)
	if err != nil {
		return nil, err
	}

	entries, err := s.store.GetEntriesForUserWeek(user.ID, weekStart)
	if err != nil {
		return nil, err
	}
	defs, err := s.store.GetCatalog()
	if err != nil {
		return nil, err
	}

	return roster.UserWeekCells(weekStart, entries, roster.NewCatalog(defs)), nil
}
