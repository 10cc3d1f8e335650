package service

import (
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/saltriver-hospitality/staff-roster/backend/internal/domain"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/notify"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/roster"
)

type MaintenanceStore interface {
	GetExpiredSwapRequests(today time.Time) ([]*domain.SwapRequest, error)
	ExpireSwapRequest(requestID int64) error
	GetExpiredVolunteerRequests(today time.Time) ([]*domain.VolunteerRequest, error)
	ExpireVolunteerRequest(requestID int64) error
	GetUserByID(id int64) (*domain.User, error)
	GetActiveUsers() ([]*domain.User, error)
	GetUserIDsWithAvailability(weekStart time.Time) (map[int64]bool, error)
}

// MaintenanceService hosts the scheduled jobs: expiring exchange requests
// whose shift date has passed and reminding staff to submit availability.
type MaintenanceService struct {
	store    MaintenanceStore
	notifier Notifier
	logger   *slog.Logger
}

func NewMaintenanceService(store MaintenanceStore, notifier Notifier, logger *slog.Logger) *MaintenanceService {
	return &MaintenanceService{
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

const expiredDetail = "the shift date passed before the request was resolved"

// ExpireOverdueExchanges force-denies pending swaps and cancels open
// volunteer requests for shifts that are already in the past. One stuck
// request never blocks the rest of the sweep.
func (s *MaintenanceService) ExpireOverdueExchanges(now time.Time) (int, error) {
	today := roster.DateOnly(now)
	expired := 0

	swaps, err := s.store.GetExpiredSwapRequests(today)
	if err != nil {
		return 0, err
	}
	for _, req := range swaps {
		if err := s.store.ExpireSwapRequest(req.ID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				// Resolved between the query and the sweep.
				continue
			}
			s.logger.Error("unable to expire swap request",
				slog.Int64("requestID", req.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		expired++

		recipientIDs := []int64{req.RequesterID}
		if req.SuggestedCovererID != nil {
			recipientIDs = append(recipientIDs, *req.SuggestedCovererID)
		}
		s.notifyExpired(recipientIDs, req.WorkDate)
	}

	volunteers, err := s.store.GetExpiredVolunteerRequests(today)
	if err != nil {
		return expired, err
	}
	for _, req := range volunteers {
		if err := s.store.ExpireVolunteerRequest(req.ID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			s.logger.Error("unable to expire volunteer request",
				slog.Int64("requestID", req.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		expired++

		recipientIDs := []int64{req.RequesterID}
		for _, v := range req.Volunteers {
			recipientIDs = append(recipientIDs, v.UserID)
		}
		s.notifyExpired(recipientIDs, req.WorkDate)
	}

	return expired, nil
}

func (s *MaintenanceService) notifyExpired(recipientIDs []int64, workDate time.Time) {
	messages := make([]domain.NotificationMessage, 0, len(recipientIDs))
	for _, id := range recipientIDs {
		user, err := s.store.GetUserByID(id)
		if err != nil {
			s.logger.Error("unable to load recipient for expiry notification",
				slog.Int64("userID", id),
				slog.String("error", err.Error()),
			)
			continue
		}
		messages = append(messages, notify.ExchangeEvent(domain.NotificationExchangeExpired, notify.RecipientFor(user), domain.Recipient{}, workDate, "", expiredDetail))
	}
	sendNotifications(s.logger, s.notifier, messages...)
}

// SendAvailabilityReminders nudges every active staff member who has not yet
// submitted availability for next week. Outside the submission window it does
// nothing, so the job can run daily.
func (s *MaintenanceService) SendAvailabilityReminders(now time.Time) (int, error) {
	target := roster.WeekStartForOffset(now, 1)
	window := roster.WindowFor(target)
	if !window.IsOpen(now) {
		return 0, nil
	}

	submitted, err := s.store.GetUserIDsWithAvailability(target)
	if err != nil {
		return 0, err
	}
	staff, err := s.store.GetActiveUsers()
	if err != nil {
		return 0, err
	}

	messages := make([]domain.NotificationMessage, 0)
	for _, user := range staff {
		if submitted[user.ID] {
			continue
		}
		messages = append(messages, notify.AvailabilityReminder(notify.RecipientFor(user), target, window.ClosesAt))
	}
	sendNotifications(s.logger, s.notifier, messages...)

	return len(messages), nil
}
