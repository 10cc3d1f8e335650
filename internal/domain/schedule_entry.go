package domain

import "time"

type ExchangeKind string

const (
	ExchangeKindSwap      ExchangeKind = "swap"
	ExchangeKindVolunteer ExchangeKind = "volunteer"
)

type SwapStatus string

const (
	SwapStatusPending  SwapStatus = "Pending"
	SwapStatusApproved SwapStatus = "Approved"
	SwapStatusDenied   SwapStatus = "Denied"
)

type VolunteerStatus string

const (
	VolunteerStatusOpen            VolunteerStatus = "Open"
	VolunteerStatusPendingApproval VolunteerStatus = "PendingApproval"
	VolunteerStatusApproved        VolunteerStatus = "Approved"
	VolunteerStatusCancelled       VolunteerStatus = "Cancelled"
)

// ExchangeState marks an entry as mid-exchange. Exactly one of SwapStatus and
// VolunteerStatus is set, matching Kind. Terminal transitions clear the whole
// state from the entry; the request rows keep the history.
type ExchangeState struct {
	Kind            ExchangeKind     `json:"kind"`
	RequestID       int64            `json:"requestID"`
	SwapStatus      *SwapStatus      `json:"swapStatus,omitempty"`
	VolunteerStatus *VolunteerStatus `json:"volunteerStatus,omitempty"`
	RequesterName   string           `json:"requesterName"`
	Reason          *string          `json:"reason,omitempty"`
}

type ScheduleEntry struct {
	ID              int64          `json:"id"`
	ScheduleRole    Role           `json:"scheduleRole"`
	UserID          int64          `json:"userID"`
	WorkDate        time.Time      `json:"workDate"`
	ShiftType       ShiftType      `json:"shiftType"`
	CustomStartTime *string        `json:"customStartTime"`
	CustomEndTime   *string        `json:"customEndTime"`
	Exchange        *ExchangeState `json:"exchange"`
	OnLeave         bool           `json:"onLeave"`
	CreatedAt       time.Time      `json:"createdAt"`
	Version         int32          `json:"-"`
}
