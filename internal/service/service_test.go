package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saltriver-hospitality/staff-roster/backend/internal/domain"
)

func TestShiftInPast_ComparesWallDatesAcrossZones(t *testing.T) {
	west := time.FixedZone("UTC-7", -7*3600)
	east := time.FixedZone("UTC+5", 5*3600)

	// Date columns come back from the database at midnight UTC regardless of
	// the venue's zone.
	today := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	yesterday := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		workDate time.Time
		now      time.Time
		want     bool
	}{
		{"today stays actionable all day west of UTC", today, time.Date(2026, 3, 4, 9, 0, 0, 0, west), false},
		{"today stays actionable until local midnight east of UTC", today, time.Date(2026, 3, 4, 23, 59, 0, 0, east), false},
		{"yesterday is past just after local midnight east of UTC", yesterday, time.Date(2026, 3, 4, 0, 30, 0, 0, east), true},
		{"yesterday is past in the same zone", yesterday, time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC), true},
		{"tomorrow is never past", today.AddDate(0, 0, 1), time.Date(2026, 3, 4, 9, 0, 0, 0, west), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shiftInPast(tt.workDate, tt.now))
		})
	}
}

func TestRequestSwap_TodayActionableWhenStoredDateIsUTC(t *testing.T) {
	owner := testUser(1, "Nadia Fourie", domain.RoleWaiter)
	coverer := testUser(2, "Sipho Dlamini", domain.RoleWaiter)

	wednesday := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	entry := waiterEntry(10, owner.ID, wednesday)

	_, _, svc := exchangeFixture(
		[]*domain.User{owner, coverer},
		[]*domain.ScheduleEntry{entry},
	)

	west := time.FixedZone("UTC-7", -7*3600)
	now := time.Date(2026, 3, 4, 9, 0, 0, 0, west)

	_, err := svc.RequestSwap(owner, 10, &coverer.ID, now)
	require.NoError(t, err)
}
