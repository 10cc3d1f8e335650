package roster

import "time"

// Window is the submission window for one target week. Submissions run from
// the Monday of the week before the target week through its Wednesday;
// ClosesAt is the exclusive Thursday 00:00 bound.
type Window struct {
	OpensAt  time.Time `json:"opensAt"`
	ClosesAt time.Time `json:"closesAt"`
}

// WindowFor computes the submission window for the week starting at
// targetWeekStart. Defined for every week, past or future.
func WindowFor(targetWeekStart time.Time) Window {
	start := WeekStart(targetWeekStart)
	return Window{
		OpensAt:  start.AddDate(0, 0, -7),
		ClosesAt: start.AddDate(0, 0, -4),
	}
}

func (w Window) IsOpen(now time.Time) bool {
	return !now.Before(w.OpensAt) && now.Before(w.ClosesAt)
}
