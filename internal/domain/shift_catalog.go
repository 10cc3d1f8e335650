package domain

import "time"

type ShiftType string

const (
	ShiftDay    ShiftType = "Day"
	ShiftNight  ShiftType = "Night"
	ShiftDouble ShiftType = "Double"
)

// GenericShiftTypes is the assignable list used when the catalog holds no
// definition for a (role, day) at all.
var GenericShiftTypes = []ShiftType{ShiftDay, ShiftNight, ShiftDouble}

const (
	// CatalogDefaultDay is the day-of-week wildcard row in the catalog.
	CatalogDefaultDay = "default"
	// SpecifiedByScheduler marks a time bound the scheduler must fill in per assignment.
	SpecifiedByScheduler = "scheduler_specified"
)

type ShiftTypeDefinition struct {
	ID        int64     `json:"id"`
	Role      Role      `json:"role"`
	DayOfWeek string    `json:"dayOfWeek"`
	ShiftType ShiftType `json:"shiftType"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	CreatedAt time.Time `json:"createdAt"`
}
