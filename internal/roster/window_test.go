package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"monday maps to itself", date(2026, time.August, 17), date(2026, time.August, 17)},
		{"wednesday maps back to monday", date(2026, time.August, 19), date(2026, time.August, 17)},
		{"sunday maps back six days", date(2026, time.August, 23), date(2026, time.August, 17)},
		{"time of day is dropped", time.Date(2026, time.August, 21, 18, 30, 0, 0, time.Local), date(2026, time.August, 17)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WeekStart(tt.in))
		})
	}
}

func TestWeekStartForOffset(t *testing.T) {
	now := time.Date(2026, time.August, 21, 14, 0, 0, 0, time.Local) // Friday

	assert.Equal(t, date(2026, time.August, 17), WeekStartForOffset(now, 0))
	assert.Equal(t, date(2026, time.August, 24), WeekStartForOffset(now, 1))
	assert.Equal(t, date(2026, time.August, 31), WeekStartForOffset(now, 2))
}

func TestWeekDates(t *testing.T) {
	dates := WeekDates(date(2026, time.August, 17))

	require.Len(t, dates, 7)
	assert.Equal(t, date(2026, time.August, 17), dates[0])
	assert.Equal(t, date(2026, time.August, 23), dates[6])
	for _, d := range dates {
		assert.True(t, InWeek(d, date(2026, time.August, 17)))
	}
	assert.False(t, InWeek(date(2026, time.August, 24), date(2026, time.August, 17)))
	assert.False(t, InWeek(date(2026, time.August, 16), date(2026, time.August, 17)))
}

func TestWindowFor(t *testing.T) {
	target := date(2026, time.August, 24) // Monday

	w := WindowFor(target)

	// Opens the Monday before, closes end of that Wednesday.
	assert.Equal(t, date(2026, time.August, 17), w.OpensAt)
	assert.Equal(t, date(2026, time.August, 20), w.ClosesAt)
}

func TestWindowIsOpenBounds(t *testing.T) {
	w := WindowFor(date(2026, time.August, 24))

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"before opening", date(2026, time.August, 16), false},
		{"exactly at opening", w.OpensAt, true},
		{"wednesday evening", time.Date(2026, time.August, 19, 23, 59, 0, 0, time.Local), true},
		{"exactly at close", w.ClosesAt, false},
		{"after close", date(2026, time.August, 21), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.IsOpen(tt.now))
		})
	}
}

func TestWindowForNonMondayInput(t *testing.T) {
	// Passing any day of the target week yields the same window.
	w1 := WindowFor(date(2026, time.August, 24))
	w2 := WindowFor(date(2026, time.August, 27))

	assert.Equal(t, w1, w2)
}
