package service

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/saltriver-hospitality/staff-roster/backend/internal/domain"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/notify"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/repository"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/roster"
)

type ExchangeStore interface {
	GetUserByID(id int64) (*domain.User, error)
	GetActiveUsers() ([]*domain.User, error)
	GetScheduleEntryByID(id int64) (*domain.ScheduleEntry, error)
	GetEntriesForDate(date time.Time) ([]*domain.ScheduleEntry, error)
	CreateSwapRequest(req *domain.SwapRequest, requesterName string) error
	ApproveSwapRequest(requestID int64, entryID int64, covererID int64) error
	DenySwapRequest(requestID int64) error
	GetSwapRequestByID(id int64) (*domain.SwapRequest, error)
	GetSwapRequestsForWeek(weekStart time.Time) ([]*domain.SwapRequest, error)
	CreateVolunteerRequest(req *domain.VolunteerRequest, requesterName string) error
	AddVolunteer(requestID int64, userID int64) error
	ApproveVolunteerRequest(requestID int64, entryID int64, volunteerID int64) error
	CancelVolunteerRequest(requestID int64) error
	GetVolunteerRequestByID(id int64) (*domain.VolunteerRequest, error)
	GetVolunteerRequestsForWeek(weekStart time.Time) ([]*domain.VolunteerRequest, error)
}

type ExchangeService struct {
	store    ExchangeStore
	notifier Notifier
	logger   *slog.Logger
}

func NewExchangeService(store ExchangeStore, notifier Notifier, logger *slog.Logger) *ExchangeService {
	return &ExchangeService{
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

// exchangeableEntry runs the checks shared by both request kinds: the entry
// exists, belongs to the requester, is a real assignment, has not passed and
// is not already mid-exchange.
func (s *ExchangeService) exchangeableEntry(requester *domain.User, entryID int64, now time.Time) (*domain.ScheduleEntry, error) {
	entry, err := s.store.GetScheduleEntryByID(entryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, roster.NewNotFound("schedule entry not found")
		}
		return nil, err
	}

	if entry.UserID != requester.ID {
		return nil, roster.NewPolicy(roster.CodeNotOwner, "only the assigned staff member can put a shift up for exchange")
	}
	if entry.OnLeave {
		return nil, roster.NewValidation(roster.CodeInvalidInput, "a leave marker is not an assignment and cannot be exchanged")
	}
	if shiftInPast(entry.WorkDate, now) {
		return nil, roster.NewPolicy(roster.CodeShiftInPast, "this shift has already passed")
	}
	if entry.Exchange != nil {
		return nil, roster.NewStateConflict(roster.CodeAlreadyInExchange, "this shift is already part of an exchange")
	}

	return entry, nil
}

// isEligibleCoverer is the authoritative eligibility tier, re-run on every
// state change. The hint tier shown in pickers is EligibleCoverers.
func (s *ExchangeService) isEligibleCoverer(owner *domain.User, workDate time.Time, candidateID int64) (bool, error) {
	staff, err := s.store.GetActiveUsers()
	if err != nil {
		return false, err
	}
	dayEntries, err := s.store.GetEntriesForDate(roster.DateOnly(workDate))
	if err != nil {
		return false, err
	}
	return roster.IsEligible(owner, staff, dayEntries, candidateID), nil
}

// EligibleCoverers returns the hint-tier candidate list for an entry. It may
// include people who turn out to be ineligible by action time; the
// authoritative check happens inside the state-changing calls.
func (s *ExchangeService) EligibleCoverers(requester *domain.User, entryID int64) ([]*domain.User, error) {
	entry, err := s.store.GetScheduleEntryByID(entryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, roster.NewNotFound("schedule entry not found")
		}
		return nil, err
	}

	owner := requester
	if entry.UserID != requester.ID {
		if owner, err = s.store.GetUserByID(entry.UserID); err != nil {
			return nil, err
		}
	}

	staff, err := s.store.GetActiveUsers()
	if err != nil {
		return nil, err
	}

	return roster.EligibleHint(owner, staff), nil
}

func (s *ExchangeService) adjudicators(staff []*domain.User) []*domain.User {
	out := make([]*domain.User, 0, len(staff))
	for _, u := range staff {
		if u.IsAdjudicator() {
			out = append(out, u)
		}
	}
	return out
}

// RequestSwap opens a swap. The requester may suggest a coverer up front,
// but the binding choice is made by the adjudicator at approval time.
func (s *ExchangeService) RequestSwap(requester *domain.User, entryID int64, suggestedCovererID *int64, now time.Time) (*domain.SwapRequest, error) {
	entry, err := s.exchangeableEntry(requester, entryID, now)
	if err != nil {
		return nil, err
	}

	var coverer *domain.User
	if suggestedCovererID != nil {
		coverer, err = s.store.GetUserByID(*suggestedCovererID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, roster.NewNotFound("suggested coverer not found")
			}
			return nil, err
		}

		eligible, err := s.isEligibleCoverer(requester, entry.WorkDate, coverer.ID)
		if err != nil {
			return nil, err
		}
		if !eligible {
			return nil, roster.NewStateConflict(roster.CodeIneligibleCoverer, fmt.Sprintf("%s cannot cover this shift", coverer.FullName))
		}
	}

	req := &domain.SwapRequest{
		ScheduleEntryID: entry.ID,
		RequesterID:     requester.ID,
		WorkDate:        roster.DateOnly(entry.WorkDate),
	}
	if coverer != nil {
		req.SuggestedCovererID = &coverer.ID
	}
	if err := s.store.CreateSwapRequest(req, requester.FullName); err != nil {
		if errors.Is(err, repository.ErrAlreadyInExchange) {
			return nil, roster.NewStateConflict(roster.CodeAlreadyInExchange, "this shift is already part of an exchange")
		}
		return nil, err
	}

	staff, err := s.store.GetActiveUsers()
	if err != nil {
		s.logger.Error("unable to load staff for swap notifications", slog.String("error", err.Error()))
		return req, nil
	}
	messages := make([]domain.NotificationMessage, 0)
	if coverer != nil {
		messages = append(messages, notify.ExchangeEvent(domain.NotificationSwapRequested, notify.RecipientFor(coverer), notify.RecipientFor(requester), entry.WorkDate, entry.ShiftType, ""))
	}
	for _, adjudicator := range s.adjudicators(staff) {
		if adjudicator.ID == requester.ID || (coverer != nil && adjudicator.ID == coverer.ID) {
			continue
		}
		messages = append(messages, notify.ExchangeEvent(domain.NotificationSwapRequested, notify.RecipientFor(adjudicator), notify.RecipientFor(requester), entry.WorkDate, entry.ShiftType, ""))
	}
	sendNotifications(s.logger, s.notifier, messages...)

	return req, nil
}

// ApproveSwap reassigns the entry to the chosen coverer, defaulting to the
// requester's suggestion when the adjudicator names nobody. Eligibility is
// re-checked here: a coverer who picked up another shift on the same date
// since the request was made is refused.
func (s *ExchangeService) ApproveSwap(requestID int64, covererID int64, now time.Time) (*domain.SwapRequest, error) {
	req, err := s.store.GetSwapRequestByID(requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, roster.NewNotFound("swap request not found")
		}
		return nil, err
	}
	if req.Status != domain.SwapStatusPending {
		return nil, roster.NewStateConflict(roster.CodeAlreadyResolved, "this request was already resolved")
	}
	if covererID == 0 {
		if req.SuggestedCovererID == nil {
			return nil, roster.NewValidation(roster.CodeInvalidInput, "this request has no suggested coverer; name one to approve it")
		}
		covererID = *req.SuggestedCovererID
	}

	entry, err := s.store.GetScheduleEntryByID(req.ScheduleEntryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, roster.NewNotFound("the shift behind this request no longer exists")
		}
		return nil, err
	}
	if shiftInPast(entry.WorkDate, now) {
		return nil, roster.NewPolicy(roster.CodeShiftInPast, "this shift has already passed")
	}

	owner, err := s.store.GetUserByID(req.RequesterID)
	if err != nil {
		return nil, err
	}
	coverer, err := s.store.GetUserByID(covererID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, roster.NewNotFound("chosen coverer not found")
		}
		return nil, err
	}

	eligible, err := s.isEligibleCoverer(owner, entry.WorkDate, coverer.ID)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, roster.NewStateConflict(roster.CodeIneligibleCoverer, fmt.Sprintf("%s is no longer able to cover this shift", coverer.FullName))
	}

	if err := s.store.ApproveSwapRequest(req.ID, entry.ID, coverer.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, roster.NewStateConflict(roster.CodeAlreadyResolved, "this request was already resolved")
		}
		return nil, err
	}

	sendNotifications(s.logger, s.notifier,
		notify.ExchangeEvent(domain.NotificationSwapApproved, notify.RecipientFor(owner), notify.RecipientFor(coverer), entry.WorkDate, entry.ShiftType, ""),
		notify.ExchangeEvent(domain.NotificationSwapApproved, notify.RecipientFor(coverer), notify.RecipientFor(owner), entry.WorkDate, entry.ShiftType, ""),
	)

	return s.store.GetSwapRequestByID(req.ID)
}

// DenySwap closes the request and leaves the entry with its owner.
func (s *ExchangeService) DenySwap(requestID int64) (*domain.SwapRequest, error) {
	req, err := s.store.GetSwapRequestByID(requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, roster.NewNotFound("swap request not found")
		}
		return nil, err
	}
	if req.Status != domain.SwapStatusPending {
		return nil, roster.NewStateConflict(roster.CodeAlreadyResolved, "this request was already resolved")
	}

	if err := s.store.DenySwapRequest(req.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, roster.NewStateConflict(roster.CodeAlreadyResolved, "this request was already resolved")
		}
		return nil, err
	}

	owner, err := s.store.GetUserByID(req.RequesterID)
	if err != nil {
		s.logger.Error("unable to load requester for deny notifications", slog.String("error", err.Error()))
		return s.store.GetSwapRequestByID(req.ID)
	}

	messages := []domain.NotificationMessage{
		notify.ExchangeEvent(domain.NotificationSwapDenied, notify.RecipientFor(owner), domain.Recipient{}, req.WorkDate, "", ""),
	}
	if req.SuggestedCovererID != nil {
		if coverer, err := s.store.GetUserByID(*req.SuggestedCovererID); err == nil {
			messages = append(messages, notify.ExchangeEvent(domain.NotificationSwapDenied, notify.RecipientFor(coverer), notify.RecipientFor(owner), req.WorkDate, "", ""))
		}
	}
	sendNotifications(s.logger, s.notifier, messages...)

	return s.store.GetSwapRequestByID(req.ID)
}

// OpenVolunteerRequest relinquishes a shift: the entry stays with its owner
// while eligible colleagues are invited to step up.
func (s *ExchangeService) OpenVolunteerRequest(requester *domain.User, entryID int64, reason string, now time.Time) (*domain.VolunteerRequest, error) {
	entry, err := s.exchangeableEntry(requester, entryID, now)
	if err != nil {
		return nil, err
	}

	var reasonPtr *string
	if reason != "" {
		reasonPtr = &reason
	}

	req := &domain.VolunteerRequest{
		ScheduleEntryID: entry.ID,
		RequesterID:     requester.ID,
		Reason:          reasonPtr,
		WorkDate:        roster.DateOnly(entry.WorkDate),
	}
	if err := s.store.CreateVolunteerRequest(req, requester.FullName); err != nil {
		if errors.Is(err, repository.ErrAlreadyInExchange) {
			return nil, roster.NewStateConflict(roster.CodeAlreadyInExchange, "this shift is already part of an exchange")
		}
		return nil, err
	}

	staff, err := s.store.GetActiveUsers()
	if err != nil {
		s.logger.Error("unable to load staff for volunteer notifications", slog.String("error", err.Error()))
		return req, nil
	}
	messages := make([]domain.NotificationMessage, 0)
	for _, candidate := range roster.EligibleHint(requester, staff) {
		messages = append(messages, notify.ExchangeEvent(domain.NotificationVolunteerOpened, notify.RecipientFor(candidate), notify.RecipientFor(requester), entry.WorkDate, entry.ShiftType, reason))
	}
	sendNotifications(s.logger, s.notifier, messages...)

	return req, nil
}

// Volunteer lists the caller as willing to take the shift. The first
// volunteer moves the request to pending approval and blocks the requester
// from cancelling.
func (s *ExchangeService) Volunteer(actor *domain.User, requestID int64, now time.Time) (*domain.VolunteerRequest, error) {
	req, err := s.store.GetVolunteerRequestByID(requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, roster.NewNotFound("volunteer request not found")
		}
		return nil, err
	}
	if req.Status != domain.VolunteerStatusOpen && req.Status != domain.VolunteerStatusPendingApproval {
		return nil, roster.NewStateConflict(roster.CodeAlreadyResolved, "this request was already resolved")
	}

	entry, err := s.store.GetScheduleEntryByID(req.ScheduleEntryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, roster.NewNotFound("the shift behind this request no longer exists")
		}
		return nil, err
	}
	if shiftInPast(entry.WorkDate, now) {
		return nil, roster.NewPolicy(roster.CodeShiftInPast, "this shift has already passed")
	}

	owner, err := s.store.GetUserByID(req.RequesterID)
	if err != nil {
		return nil, err
	}

	eligible, err := s.isEligibleCoverer(owner, entry.WorkDate, actor.ID)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, roster.NewStateConflict(roster.CodeIneligibleCoverer, "you cannot cover this shift")
	}

	if err := s.store.AddVolunteer(req.ID, actor.ID); err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyVolunteered):
			return nil, roster.NewStateConflict(roster.CodeAlreadyVolunteered, "you already volunteered for this shift")
		case errors.Is(err, sql.ErrNoRows):
			return nil, roster.NewStateConflict(roster.CodeAlreadyResolved, "this request was already resolved")
		default:
			return nil, err
		}
	}

	staff, err := s.store.GetActiveUsers()
	if err == nil {
		messages := []domain.NotificationMessage{
			notify.ExchangeEvent(domain.NotificationShiftVolunteered, notify.RecipientFor(owner), notify.RecipientFor(actor), entry.WorkDate, entry.ShiftType, ""),
		}
		for _, adjudicator := range s.adjudicators(staff) {
			if adjudicator.ID == owner.ID || adjudicator.ID == actor.ID {
				continue
			}
			messages = append(messages, notify.ExchangeEvent(domain.NotificationShiftVolunteered, notify.RecipientFor(adjudicator), notify.RecipientFor(actor), entry.WorkDate, entry.ShiftType, ""))
		}
		sendNotifications(s.logger, s.notifier, messages...)
	} else {
		s.logger.Error("unable to load staff for volunteer notifications", slog.String("error", err.Error()))
	}

	return s.store.GetVolunteerRequestByID(req.ID)
}

// ApproveVolunteer reassigns the entry to one of the listed volunteers.
func (s *ExchangeService) ApproveVolunteer(requestID int64, volunteerID int64, now time.Time) (*domain.VolunteerRequest, error) {
	req, err := s.store.GetVolunteerRequestByID(requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, roster.NewNotFound("volunteer request not found")
		}
		return nil, err
	}
	if req.Status == domain.VolunteerStatusApproved || req.Status == domain.VolunteerStatusCancelled {
		return nil, roster.NewStateConflict(roster.CodeAlreadyResolved, "this request was already resolved")
	}

	volunteered := false
	for _, v := range req.Volunteers {
		if v.UserID == volunteerID {
			volunteered = true
			break
		}
	}
	if !volunteered {
		return nil, roster.NewStateConflict(roster.CodeNotAVolunteer, "the chosen user has not volunteered for this shift")
	}

	entry, err := s.store.GetScheduleEntryByID(req.ScheduleEntryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, roster.NewNotFound("the shift behind this request no longer exists")
		}
		return nil, err
	}
	if shiftInPast(entry.WorkDate, now) {
		return nil, roster.NewPolicy(roster.CodeShiftInPast, "this shift has already passed")
	}

	owner, err := s.store.GetUserByID(req.RequesterID)
	if err != nil {
		return nil, err
	}
	volunteer, err := s.store.GetUserByID(volunteerID)
	if err != nil {
		return nil, err
	}

	eligible, err := s.isEligibleCoverer(owner, entry.WorkDate, volunteer.ID)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, roster.NewStateConflict(roster.CodeIneligibleCoverer, fmt.Sprintf("%s is no longer able to cover this shift", volunteer.FullName))
	}

	if err := s.store.ApproveVolunteerRequest(req.ID, entry.ID, volunteer.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, roster.NewStateConflict(roster.CodeAlreadyResolved, "this request was already resolved")
		}
		return nil, err
	}

	sendNotifications(s.logger, s.notifier,
		notify.ExchangeEvent(domain.NotificationVolunteerApproved, notify.RecipientFor(owner), notify.RecipientFor(volunteer), entry.WorkDate, entry.ShiftType, ""),
		notify.ExchangeEvent(domain.NotificationVolunteerApproved, notify.RecipientFor(volunteer), notify.RecipientFor(owner), entry.WorkDate, entry.ShiftType, ""),
	)

	return s.store.GetVolunteerRequestByID(req.ID)
}

// CancelVolunteerRequest withdraws an open request. Once someone has
// volunteered the requester cannot pull it back; an adjudicator has to
// resolve it.
func (s *ExchangeService) CancelVolunteerRequest(actor *domain.User, requestID int64) (*domain.VolunteerRequest, error) {
	req, err := s.store.GetVolunteerRequestByID(requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, roster.NewNotFound("volunteer request not found")
		}
		return nil, err
	}
	if req.RequesterID != actor.ID {
		return nil, roster.NewPolicy(roster.CodeNotOwner, "only the requester can cancel this request")
	}

	switch req.Status {
	case domain.VolunteerStatusOpen:
	case domain.VolunteerStatusPendingApproval:
		return nil, roster.NewStateConflict(roster.CodeNotCancellable, "someone already volunteered; ask a manager to resolve the request")
	default:
		return nil, roster.NewStateConflict(roster.CodeAlreadyResolved, "this request was already resolved")
	}

	if err := s.store.CancelVolunteerRequest(req.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Lost a race. Report what the request became.
			if current, getErr := s.store.GetVolunteerRequestByID(req.ID); getErr == nil && current.Status == domain.VolunteerStatusPendingApproval {
				return nil, roster.NewStateConflict(roster.CodeNotCancellable, "someone already volunteered; ask a manager to resolve the request")
			}
			return nil, roster.NewStateConflict(roster.CodeAlreadyResolved, "this request was already resolved")
		}
		return nil, err
	}

	if staff, err := s.store.GetActiveUsers(); err == nil {
		var shiftType domain.ShiftType
		if entry, entryErr := s.store.GetScheduleEntryByID(req.ScheduleEntryID); entryErr == nil {
			shiftType = entry.ShiftType
		}
		messages := make([]domain.NotificationMessage, 0)
		for _, candidate := range roster.EligibleHint(actor, staff) {
			messages = append(messages, notify.ExchangeEvent(domain.NotificationVolunteerCancelled, notify.RecipientFor(candidate), notify.RecipientFor(actor), req.WorkDate, shiftType, ""))
		}
		sendNotifications(s.logger, s.notifier, messages...)
	}

	return s.store.GetVolunteerRequestByID(req.ID)
}

type WeekExchanges struct {
	Swaps      []*domain.SwapRequest      `json:"swaps"`
	Volunteers []*domain.VolunteerRequest `json:"volunteers"`
}

// ListWeek returns every exchange request touching a week, resolved or not.
func (s *ExchangeService) ListWeek(weekStart time.Time) (*WeekExchanges, error) {
	weekStart, err := weekStartArg(weekStart)
	if err != nil {
		return nil, err
	}

	swaps, err := s.store.GetSwapRequestsForWeek(weekStart)
	if err != nil {
		return nil, err
	}
	volunteers, err := s.store.GetVolunteerRequestsForWeek(weekStart)
	if err != nil {
		return nil, err
	}

	return &WeekExchanges{
		Swaps:      swaps,
		Volunteers: volunteers,
	}, nil
}
