package domain

import "time"

type SwapRequest struct {
	ID                 int64      `json:"id"`
	ScheduleEntryID    int64      `json:"scheduleEntryID"`
	RequesterID        int64      `json:"requesterID"`
	SuggestedCovererID *int64     `json:"suggestedCovererID"`
	Status             SwapStatus `json:"status"`
	WorkDate           time.Time  `json:"workDate"`
	CreatedAt          time.Time  `json:"createdAt"`
	ResolvedAt         *time.Time `json:"resolvedAt"`
	Version            int32      `json:"-"`
}

type RequestVolunteer struct {
	UserID        int64     `json:"userID"`
	FullName      string    `json:"fullName"`
	VolunteeredAt time.Time `json:"volunteeredAt"`
}

type VolunteerRequest struct {
	ID              int64              `json:"id"`
	ScheduleEntryID int64              `json:"scheduleEntryID"`
	RequesterID     int64              `json:"requesterID"`
	Reason          *string            `json:"reason"`
	Status          VolunteerStatus    `json:"status"`
	WorkDate        time.Time          `json:"workDate"`
	Volunteers      []RequestVolunteer `json:"volunteers"`
	CreatedAt       time.Time          `json:"createdAt"`
	ResolvedAt      *time.Time         `json:"resolvedAt"`
	Version         int32              `json:"-"`
}
