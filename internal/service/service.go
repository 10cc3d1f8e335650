// Package service orchestrates the scheduling workflows between the HTTP
// handlers, the repository and the notification queue. Every method returns
// roster errors for rule violations so handlers can map them uniformly.
package service

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/saltriver-hospitality/staff-roster/backend/internal/domain"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/roster"
)

// Notifier pushes messages onto the notification queue. Satisfied by
// notify.Publisher.
type Notifier interface {
	Publish(messages ...domain.NotificationMessage) error
}

// weekStartArg normalizes a week parameter to a bare local date and rejects
// anything that is not a Monday.
func weekStartArg(weekStart time.Time) (time.Time, error) {
	d := roster.DateOnly(weekStart)
	if !d.Equal(roster.WeekStart(d)) {
		return time.Time{}, roster.NewValidation(roster.CodeInvalidInput, fmt.Sprintf("%s is not the start of a week", roster.FormatDate(d)))
	}
	return d, nil
}

// shiftInPast reports whether a work date lies strictly before now's date. A
// shift on the current date stays actionable until midnight. Wall dates are
// compared rather than instants: the database driver hands date columns back
// at midnight UTC while now carries the venue's zone, and the boundary has to
// stay at local midnight either way.
func shiftInPast(workDate time.Time, now time.Time) bool {
	return roster.FormatDate(workDate) < roster.FormatDate(now)
}

// sendNotifications publishes best-effort. The database commit already
// happened by the time messages go out, so a queue failure is logged rather
// than surfaced to the caller.
func sendNotifications(logger *slog.Logger, notifier Notifier, messages ...domain.NotificationMessage) {
	if len(messages) == 0 {
		return
	}
	if err := notifier.Publish(messages...); err != nil {
		logger.Error("unable to publish notifications", slog.String("error", err.Error()))
	}
}
