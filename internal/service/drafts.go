package service

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/saltriver-hospitality/staff-roster/backend/internal/domain"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/notify"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/roster"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/scheduler"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/utils"
)

type DraftStore interface {
	GetDraft(role domain.Role, weekStart time.Time) (*domain.RosterDraft, error)
	CreateDraft(draft *domain.RosterDraft) error
	UpsertDraftCell(draftID int64, version int32, cell *domain.RosterDraftCell) (int32, error)
	DeleteDraftCell(draftID int64, version int32, userID int64, workDate time.Time) (int32, error)
	MarkDraftSaved(draftID int64, version int32) (int32, error)
	PublishDraft(draft *domain.RosterDraft) (int32, error)
	GetUserByID(id int64) (*domain.User, error)
	GetActiveUsers() ([]*domain.User, error)
	GetCatalog() ([]domain.ShiftTypeDefinition, error)
	GetAvailabilityForWeek(weekStart time.Time) ([]domain.AvailabilityEntry, error)
	GetStaffingRequirementsForScopeWeek(scope domain.Role, weekStart time.Time) ([]*domain.StaffingRequirement, error)
	GetEntriesForRoleWeek(role domain.Role, weekStart time.Time) ([]*domain.ScheduleEntry, error)
}

type DraftService struct {
	store    DraftStore
	notifier Notifier
	logger   *slog.Logger
}

func NewDraftService(store DraftStore, notifier Notifier, logger *slog.Logger) *DraftService {
	return &DraftService{
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

func draftArgs(role domain.Role, weekStart time.Time) (time.Time, error) {
	if !domain.IsKnownRole(role) {
		return time.Time{}, roster.NewValidation(roster.CodeInvalidInput, "unknown schedule role")
	}
	return weekStartArg(weekStart)
}

// Get returns the draft for (role, week), creating an empty one on first
// access so every caller works against a concrete version token.
func (s *DraftService) Get(role domain.Role, weekStart time.Time) (*domain.RosterDraft, error) {
	weekStart, err := draftArgs(role, weekStart)
	if err != nil {
		return nil, err
	}

	draft, err := s.store.GetDraft(role, weekStart)
	if err == nil {
		return draft, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	draft = &domain.RosterDraft{
		ScheduleRole: role,
		WeekStart:    weekStart,
		Status:       domain.DraftStatusDrafting,
		Cells:        make([]domain.RosterDraftCell, 0),
	}
	if err := s.store.CreateDraft(draft); err != nil {
		// Lost a create race; the winner's draft is the one to use.
		if existing, getErr := s.store.GetDraft(role, weekStart); getErr == nil {
			return existing, nil
		}
		return nil, err
	}

	return draft, nil
}

// PutCell sets one (user, date) assignment on the draft. The version token
// must match the draft's current version or the edit is refused.
func (s *DraftService) PutCell(role domain.Role, weekStart time.Time, version int32, cell *domain.RosterDraftCell) (*domain.RosterDraft, error) {
	weekStart, err := draftArgs(role, weekStart)
	if err != nil {
		return nil, err
	}
	cell.WorkDate = roster.DateOnly(cell.WorkDate)
	if !roster.InWeek(cell.WorkDate, weekStart) {
		return nil, roster.NewValidation(roster.CodeInvalidInput, fmt.Sprintf("%s is outside the week of %s", roster.FormatDate(cell.WorkDate), roster.FormatDate(weekStart)))
	}

	user, err := s.store.GetUserByID(cell.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, roster.NewNotFound("user not found")
		}
		return nil, err
	}
	if !user.IsActive || !user.HasRole(role) {
		return nil, roster.NewValidation(roster.CodeInvalidInput, fmt.Sprintf("%s cannot be scheduled on the %s roster", user.FullName, role))
	}

	defs, err := s.store.GetCatalog()
	if err != nil {
		return nil, err
	}
	catalog := roster.NewCatalog(defs)
	day := roster.DayName(cell.WorkDate)

	if !slices.Contains(catalog.AssignableShiftTypes(role, day), cell.ShiftType) {
		return nil, roster.NewValidation(roster.CodeInvalidInput, fmt.Sprintf("%s is not assignable for %s on %s", cell.ShiftType, role, day))
	}
	if err := utils.ValidateCustomTimePair(cell.CustomStartTime, cell.CustomEndTime); err != nil {
		return nil, roster.NewValidation(roster.CodeInvalidInput, err.Error())
	}
	if cell.CustomStartTime == nil && catalog.RequiresCustomTime(role, day, cell.ShiftType) {
		return nil, roster.NewValidation(roster.CodeMissingCustomTime, fmt.Sprintf("%s on %s needs explicit start and end times", cell.ShiftType, day))
	}

	draft, err := s.store.GetDraft(role, weekStart)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, roster.NewNotFound("no draft exists for this week yet")
		}
		return nil, err
	}

	if _, err := s.store.UpsertDraftCell(draft.ID, version, cell); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, roster.NewStateConflict(roster.CodeStaleDraft, "the draft changed since you loaded it")
		}
		return nil, err
	}

	return s.store.GetDraft(role, weekStart)
}

// RemoveCell clears one (user, date) assignment from the draft.
func (s *DraftService) RemoveCell(role domain.Role, weekStart time.Time, version int32, userID int64, workDate time.Time) (*domain.RosterDraft, error) {
	weekStart, err := draftArgs(role, weekStart)
	if err != nil {
		return nil, err
	}

	draft, err := s.store.GetDraft(role, weekStart)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, roster.NewNotFound("no draft exists for this week yet")
		}
		return nil, err
	}

	if _, err := s.store.DeleteDraftCell(draft.ID, version, userID, roster.DateOnly(workDate)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, roster.NewStateConflict(roster.CodeStaleDraft, "the draft changed since you loaded it")
		}
		return nil, err
	}

	return s.store.GetDraft(role, weekStart)
}

// Save marks the draft as a kept snapshot without publishing it.
func (s *DraftService) Save(role domain.Role, weekStart time.Time, version int32) (*domain.RosterDraft, error) {
	weekStart, err := draftArgs(role, weekStart)
	if err != nil {
		return nil, err
	}

	draft, err := s.store.GetDraft(role, weekStart)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, roster.NewNotFound("no draft exists for this week yet")
		}
		return nil, err
	}

	if _, err := s.store.MarkDraftSaved(draft.ID, version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, roster.NewStateConflict(roster.CodeStaleDraft, "the draft changed since you loaded it")
		}
		return nil, err
	}

	return s.store.GetDraft(role, weekStart)
}

// Propose runs the genetic search over the week's availability and returns
// suggested cells. Nothing is persisted; the scheduler applies what they keep
// through PutCell.
func (s *DraftService) Propose(role domain.Role, weekStart time.Time, parameters *scheduler.Parameters) ([]domain.RosterDraftCell, error) {
	weekStart, err := draftArgs(role, weekStart)
	if err != nil {
		return nil, err
	}

	users, err := s.store.GetActiveUsers()
	if err != nil {
		return nil, err
	}
	roleUsers := make([]*domain.User, 0, len(users))
	roleUserIDs := make(map[int64]bool, len(users))
	for _, u := range users {
		if u.HasRole(role) {
			roleUsers = append(roleUsers, u)
			roleUserIDs[u.ID] = true
		}
	}

	atoms, err := s.store.GetAvailabilityForWeek(weekStart)
	if err != nil {
		return nil, err
	}
	roleAtoms := make([]*domain.AvailabilityEntry, 0, len(atoms))
	for i := range atoms {
		if roleUserIDs[atoms[i].UserID] {
			roleAtoms = append(roleAtoms, &atoms[i])
		}
	}

	requirements, err := s.store.GetStaffingRequirementsForScopeWeek(role, weekStart)
	if err != nil {
		return nil, err
	}

	search, err := scheduler.New(parameters, roleUsers, weekStart, roleAtoms, requirements)
	if err != nil {
		return nil, err
	}

	return search.Propose()
}

// Publish turns the draft into the week's published entries. Unchanged cells
// keep their entries untouched, so republishing an identical draft is a
// no-op; changed or removed cells force-resolve any exchange requests still
// hanging off their old entries.
func (s *DraftService) Publish(role domain.Role, weekStart time.Time, version int32) (*domain.RosterDraft, error) {
	weekStart, err := draftArgs(role, weekStart)
	if err != nil {
		return nil, err
	}

	draft, err := s.store.GetDraft(role, weekStart)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, roster.NewNotFound("no draft exists for this week yet")
		}
		return nil, err
	}

	draft.Version = version
	if _, err := s.store.PublishDraft(draft); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, roster.NewStateConflict(roster.CodeStaleDraft, "the draft changed since you loaded it")
		}
		return nil, err
	}

	s.notifyPublished(role, weekStart)

	return s.store.GetDraft(role, weekStart)
}

func (s *DraftService) notifyPublished(role domain.Role, weekStart time.Time) {
	entries, err := s.store.GetEntriesForRoleWeek(role, weekStart)
	if err != nil {
		s.logger.Error("unable to load entries for publish notifications", slog.String("error", err.Error()))
		return
	}

	datesByUser := make(map[int64][]time.Time)
	for _, e := range entries {
		if e.OnLeave {
			continue
		}
		datesByUser[e.UserID] = append(datesByUser[e.UserID], e.WorkDate)
	}

	users, err := s.store.GetActiveUsers()
	if err != nil {
		s.logger.Error("unable to load users for publish notifications", slog.String("error", err.Error()))
		return
	}

	messages := make([]domain.NotificationMessage, 0, len(datesByUser))
	for _, u := range users {
		dates, scheduled := datesByUser[u.ID]
		if !scheduled {
			continue
		}
		messages = append(messages, notify.RosterPublished(notify.RecipientFor(u), role, weekStart, dates))
	}

	sendNotifications(s.logger, s.notifier, messages...)
}

// Staffing classifies each date of the draft against the role's
// requirements, for the editing screen.
func (s *DraftService) Staffing(role domain.Role, weekStart time.Time) ([]DateStaffing, error) {
	weekStart, err := draftArgs(role, weekStart)
	if err != nil {
		return nil, err
	}

	draft, err := s.store.GetDraft(role, weekStart)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	counts := make(map[string]int)
	if draft != nil {
		for _, cell := range draft.Cells {
			counts[roster.FormatDate(cell.WorkDate)]++
		}
	}

	reqs, err := s.store.GetStaffingRequirementsForScopeWeek(role, weekStart)
	if err != nil {
		return nil, err
	}
	reqByDate := make(map[string]*domain.StaffingRequirement, len(reqs))
	for _, req := range reqs {
		reqByDate[roster.FormatDate(req.WorkDate)] = req
	}

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
