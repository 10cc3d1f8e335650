package service

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/saltriver-hospitality/staff-roster/backend/internal/domain"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/roster"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/utils"
)

type AvailabilityStore interface {
	GetActiveUsers() ([]*domain.User, error)
	ReplaceAvailabilityForDates(userID int64, dates []time.Time, atomsByDate map[string][]domain.ShiftType) error
	GetAvailabilityForUserWeek(userID int64, weekStart time.Time) ([]domain.AvailabilityEntry, error)
	GetAvailabilityForWeek(weekStart time.Time) ([]domain.AvailabilityEntry, error)
}

type AvailabilityService struct {
	store  AvailabilityStore
	logger *slog.Logger
}

func NewAvailabilityService(store AvailabilityStore, logger *slog.Logger) *AvailabilityService {
	return &AvailabilityService{
		store:  store,
		logger: logger,
	}
}

// WindowInfo is the submission window for one target week plus whether it is
// open at the asking moment.
type WindowInfo struct {
	Week     string    `json:"week"`
	OpensAt  time.Time `json:"opensAt"`
	ClosesAt time.Time `json:"closesAt"`
	Open     bool      `json:"open"`
}

// Window reports the submission window for the week starting at weekStart.
func (s *AvailabilityService) Window(weekStart time.Time, now time.Time) (*WindowInfo, error) {
	weekStart, err := weekStartArg(weekStart)
	if err != nil {
		return nil, err
	}

	window := roster.WindowFor(weekStart)
	return &WindowInfo{
		Week:     roster.FormatDate(weekStart),
		OpensAt:  window.OpensAt,
		ClosesAt: window.ClosesAt,
		Open:     window.IsOpen(now),
	}, nil
}

// Submit replaces the caller's availability for the dates named in
// selections. Dates left out keep whatever was stored before; an explicit
// empty selection clears the date.
func (s *AvailabilityService) Submit(user *domain.User, weekStart time.Time, selections map[string][]domain.ShiftType, now time.Time) error {
	weekStart, err := weekStartArg(weekStart)
	if err != nil {
		return err
	}

	window := roster.WindowFor(weekStart)
	if !window.IsOpen(now) {
		return roster.NewPolicy(roster.CodeWindowClosed, fmt.Sprintf(
			"availability for the week of %s is only accepted from %s to %s",
			roster.FormatDate(weekStart), roster.FormatDate(window.OpensAt), roster.FormatDate(window.ClosesAt),
		))
	}

	if len(selections) == 0 {
		return roster.NewValidation(roster.CodeInvalidInput, "no dates submitted")
	}

	dates := make([]time.Time, 0, len(selections))
	atomsByDate := make(map[string][]domain.ShiftType, len(selections))

	for dateKey, selection := range selections {
		date, err := roster.ParseDate(dateKey)
		if err != nil {
			return roster.NewValidation(roster.CodeInvalidInput, fmt.Sprintf("%q is not a date", dateKey))
		}
		if !roster.InWeek(date, weekStart) {
			return roster.NewValidation(roster.CodeInvalidInput, fmt.Sprintf("%s is outside the week of %s", dateKey, roster.FormatDate(weekStart)))
		}
		if err := utils.ValidateShiftSelection(selection); err != nil {
			return roster.NewValidation(roster.CodeInvalidInput, err.Error())
		}

		dates = append(dates, date)
		atomsByDate[roster.FormatDate(date)] = roster.ExpandSelection(selection)
	}

	return s.store.ReplaceAvailabilityForDates(user.ID, dates, atomsByDate)
}

// ForUserWeek returns one user's stored availability grouped by date, with
// Double synthesized on dates holding both atoms.
func (s *AvailabilityService) ForUserWeek(userID int64, weekStart time.Time) (map[string][]domain.ShiftType, error) {
	weekStart, err := weekStartArg(weekStart)
	if err != nil {
		return nil, err
	}

	entries, err := s.store.GetAvailabilityForUserWeek(userID, weekStart)
	if err != nil {
		return nil, err
	}

	return roster.Consolidate(entries), nil
}

type UserAvailability struct {
	UserID   int64                         `json:"userID"`
	FullName string                        `json:"fullName"`
	Roles    []domain.Role                 `json:"roles"`
	Dates    map[string][]domain.ShiftType `json:"dates"`
}

// ForWeek lists every active staff member with whatever they submitted for
// the week. Staff who submitted nothing appear with an empty map so the
// scheduler can see who is still outstanding.
func (s *AvailabilityService) ForWeek(weekStart time.Time) ([]UserAvailability, error) {
	weekStart, err := weekStartArg(weekStart)
	if err != nil {
		return nil, err
	}

	users, err := s.store.GetActiveUsers()
	if err != nil {
		return nil, err
	}

	entries, err := s.store.GetAvailabilityForWeek(weekStart)
	if err != nil {
		return nil, err
	}

	byUser := make(map[int64][]domain.AvailabilityEntry)
	for _, e := range entries {
		byUser[e.UserID] = append(byUser[e.UserID], e)
	}

	out := make([]UserAvailability, 0, len(users))
	for _, u := range users {
		out = append(out, UserAvailability{
			UserID:   u.ID,
			FullName: u.FullName,
			Roles:    u.Roles,
			Dates:    roster.Consolidate(byUser[u.ID]),
		})
	}

	return out, nil
}
