package domain

import "time"

// AvailabilityEntry is one stored atom. Only Day and Night are ever stored;
// Double is synthesized on read when both atoms exist for a date.
type AvailabilityEntry struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userID"`
	WorkDate  time.Time `json:"workDate"`
	ShiftType ShiftType `json:"shiftType"`
	CreatedAt time.Time `json:"createdAt"`
}
