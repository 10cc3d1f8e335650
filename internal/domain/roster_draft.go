package domain

import "time"

type DraftStatus string

const (
	DraftStatusDrafting  DraftStatus = "drafting"
	DraftStatusSaved     DraftStatus = "saved"
	DraftStatusPublished DraftStatus = "published"
)

type RosterDraftCell struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"userID"`
	WorkDate        time.Time `json:"workDate"`
	ShiftType       ShiftType `json:"shiftType"`
	CustomStartTime *string   `json:"customStartTime"`
	CustomEndTime   *string   `json:"customEndTime"`
}

type RosterDraft struct {
	ID           int64             `json:"id"`
	ScheduleRole Role              `json:"scheduleRole"`
	WeekStart    time.Time         `json:"weekStart"`
	Status       DraftStatus       `json:"status"`
	Cells        []RosterDraftCell `json:"cells"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
	Version      int32             `json:"version"`
}
