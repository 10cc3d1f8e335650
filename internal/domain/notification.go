package domain

type NotificationKind string

const (
	NotificationAccountCreated       NotificationKind = "account_created"
	NotificationResetPassword        NotificationKind = "reset_password"
	NotificationChangeEmail          NotificationKind = "change_email"
	NotificationRosterPublished      NotificationKind = "roster_published"
	NotificationSwapRequested        NotificationKind = "swap_requested"
	NotificationSwapApproved         NotificationKind = "swap_approved"
	NotificationSwapDenied           NotificationKind = "swap_denied"
	NotificationVolunteerOpened      NotificationKind = "volunteer_opened"
	NotificationShiftVolunteered     NotificationKind = "shift_volunteered"
	NotificationVolunteerApproved    NotificationKind = "volunteer_approved"
	NotificationVolunteerCancelled   NotificationKind = "volunteer_cancelled"
	NotificationExchangeExpired      NotificationKind = "exchange_expired"
	NotificationAvailabilityReminder NotificationKind = "availability_reminder"
)

type Recipient struct {
	UserID   int64  `json:"userID"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// NotificationMessage is the queue payload consumed by cmd/notifier. One
// message addresses one recipient; multi-user events fan out at publish time.
type NotificationMessage struct {
	ID         string           `json:"id"`
	Kind       NotificationKind `json:"kind"`
	To         Recipient        `json:"to"`
	Data       any              `json:"data"`
	OccurredAt string           `json:"occurredAt"`
}

type AccountCreatedData struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type ResetPasswordData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

type ChangeEmailData struct {
	FullName   string `json:"fullName"`
	NewEmail   string `json:"newEmail"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

type RosterPublishedData struct {
	FullName  string   `json:"fullName"`
	WeekStart string   `json:"weekStart"`
	Role      string   `json:"role"`
	WorkDates []string `json:"workDates"`
}

type ExchangeEventData struct {
	FullName      string `json:"fullName"`
	CounterpartID int64  `json:"counterpartID"`
	Counterpart   string `json:"counterpart"`
	WorkDate      string `json:"workDate"`
	ShiftType     string `json:"shiftType"`
	Detail        string `json:"detail"`
}

type AvailabilityReminderData struct {
	FullName  string `json:"fullName"`
	WeekStart string `json:"weekStart"`
	ClosesAt  string `json:"closesAt"`
}
