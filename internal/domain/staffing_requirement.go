package domain

import "time"

// StaffingScopeAll is the synthetic requirement scope covering every active
// staff member. It is never assigned to a user.
const StaffingScopeAll Role = "all_staff"

type StaffingRequirement struct {
	ID        int64     `json:"id"`
	Scope     Role      `json:"scope"`
	WorkDate  time.Time `json:"workDate"`
	MinStaff  int32     `json:"minStaff"`
	MaxStaff  *int32    `json:"maxStaff"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}

type StaffingClass string

const (
	StaffingGood          StaffingClass = "Good"
	StaffingOverstaffed   StaffingClass = "Overstaffed"
	StaffingUnderstaffed  StaffingClass = "Understaffed"
	StaffingNoRequirement StaffingClass = "NoRequirement"
)

type StaffingStatus struct {
	Class StaffingClass `json:"class"`
	Label string        `json:"label"`
}
