package notify

import (
	"time"

	"github.com/google/uuid"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/domain"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/roster"
)

func newMessage(kind domain.NotificationKind, to domain.Recipient, data any) domain.NotificationMessage {
	return domain.NotificationMessage{
		ID:         uuid.NewString(),
		Kind:       kind,
		To:         to,
		Data:       data,
		OccurredAt: time.Now().Format(time.RFC3339),
	}
}

func RecipientFor(user *domain.User) domain.Recipient {
	return domain.Recipient{
		UserID:   user.ID,
		FullName: user.FullName,
		Email:    user.Email,
	}
}

func AccountCreated(to domain.Recipient, username string, password string) domain.NotificationMessage {
	return newMessage(domain.NotificationAccountCreated, to, domain.AccountCreatedData{
		FullName: to.FullName,
		Username: username,
		Password: password,
	})
}

func ResetPassword(to domain.Recipient, otp string, expirationMinutes int) domain.NotificationMessage {
	return newMessage(domain.NotificationResetPassword, to, domain.ResetPasswordData{
		FullName:   to.FullName,
		OTP:        otp,
		Expiration: expirationMinutes,
	})
}

// ChangeEmail goes to the NEW address so its owner proves control of it.
func ChangeEmail(to domain.Recipient, newEmail string, otp string, expirationMinutes int) domain.NotificationMessage {
	return newMessage(domain.NotificationChangeEmail, to, domain.ChangeEmailData{
		FullName:   to.FullName,
		NewEmail:   newEmail,
		OTP:        otp,
		Expiration: expirationMinutes,
	})
}

func RosterPublished(to domain.Recipient, role domain.Role, weekStart time.Time, workDates []time.Time) domain.NotificationMessage {
	dates := make([]string, 0, len(workDates))
	for _, d := range workDates {
		dates = append(dates, roster.FormatDate(d))
	}

	return newMessage(domain.NotificationRosterPublished, to, domain.RosterPublishedData{
		FullName:  to.FullName,
		WeekStart: roster.FormatDate(weekStart),
		Role:      string(role),
		WorkDates: dates,
	})
}

func AvailabilityReminder(to domain.Recipient, weekStart time.Time, closesAt time.Time) domain.NotificationMessage {
	return newMessage(domain.NotificationAvailabilityReminder, to, domain.AvailabilityReminderData{
		FullName:  to.FullName,
		WeekStart: roster.FormatDate(weekStart),
		ClosesAt:  closesAt.Format(time.RFC3339),
	})
}

// ExchangeEvent covers every swap and volunteer notification. The counterpart
// is the other party from the recipient's point of view, detail carries the
// relinquish reason or similar free text.
func ExchangeEvent(kind domain.NotificationKind, to domain.Recipient, counterpart domain.Recipient, workDate time.Time, shiftType domain.ShiftType, detail string) domain.NotificationMessage {
	return newMessage(kind, to, domain.ExchangeEventData{
		FullName:      to.FullName,
		CounterpartID: counterpart.UserID,
		Counterpart:   counterpart.FullName,
		WorkDate:      roster.FormatDate(workDate),
		ShiftType:     string(shiftType),
		Detail:        detail,
	})
}
