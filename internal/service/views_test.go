package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saltriver-hospitality/staff-roster/backend/internal/domain"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/roster"
)

func viewFixture(users ...*domain.User) (*fakeStore, *ViewService) {
	store := &fakeStore{users: users, catalog: testCatalog(), nextID: 1000}
	return store, NewViewService(store, NewStaffingService(store, testLogger()), testLogger())
}

func TestWeekView_GroupsStaffAndRendersOffCells(t *testing.T) {
	hostess := testUser(1, "Zanele Mthembu", domain.RoleHostess)
	waiter := testUser(2, "Nadia Fourie", domain.RoleWaiter)
	store, svc := viewFixture(hostess, waiter)

	wednesday := testWeek.AddDate(0, 0, 2)
	store.entries = []*domain.ScheduleEntry{
		{ID: 10, ScheduleRole: domain.RoleWaiter, UserID: waiter.ID, WorkDate: wednesday, ShiftType: domain.ShiftDay},
	}

	view, err := svc.WeekView(roster.ViewAllStaff, testWeek)
	require.NoError(t, err)
	groups := view.Groups
	require.Len(t, groups, 2)
	assert.Equal(t, "Hostesses", groups[0].Label)
	assert.Equal(t, "Waiters", groups[1].Label)

	waiterRow := groups[1].Users[0]
	require.Len(t, waiterRow.Cells, 7)
	assert.Equal(t, "Day (10:00 - 18:00)", waiterRow.Cells[2].Display)
	assert.Equal(t, "OFF", waiterRow.Cells[0].Display)

	hostessRow := groups[0].Users[0]
	for _, cell := range hostessRow.Cells {
		assert.Equal(t, "OFF", cell.Display)
	}
}

func TestWeekView_AttachesVenueStaffingLine(t *testing.T) {
	waiter := testUser(1, "Nadia Fourie", domain.RoleWaiter)
	store, svc := viewFixture(waiter)

	two := int32(2)
	store.requirements = []*domain.StaffingRequirement{
		{ID: 1, Scope: domain.StaffingScopeAll, WorkDate: testWeek, MinStaff: 1, MaxStaff: &two},
	}
	store.entries = []*domain.ScheduleEntry{
		{ID: 10, ScheduleRole: domain.RoleWaiter, UserID: waiter.ID, WorkDate: testWeek, ShiftType: domain.ShiftDay},
	}

	view, err := svc.WeekView(roster.ViewFrontOfHouse, testWeek)
	require.NoError(t, err)
	require.Len(t, view.Staffing, 7)
	assert.Equal(t, domain.StaffingGood, view.Staffing[0].Status.Class)
	assert.Equal(t, domain.StaffingNoRequirement, view.Staffing[1].Status.Class)
}

func TestWeekView_RejectsUnknownViewType(t *testing.T) {
	_, svc := viewFixture(testUser(1, "Nadia Fourie", domain.RoleWaiter))

	_, err := svc.WeekView(roster.ViewType("kitchen"), testWeek)
	require.Error(t, err)
	assert.True(t, roster.IsCode(err, roster.CodeUnknownViewType))
}

func TestMyWeek_RendersSevenCells(t *testing.T) {
	waiter := testUser(1, "Nadia Fourie", domain.RoleWaiter)
	store, svc := viewFixture(waiter)

	wednesday := testWeek.AddDate(0, 0, 2)
	store.entries = []*domain.ScheduleEntry{
		{ID: 10, ScheduleRole: domain.RoleWaiter, UserID: waiter.ID, WorkDate: wednesday, ShiftType: domain.ShiftNight},
		{ID: 11, ScheduleRole: domain.RoleWaiter, UserID: 2, WorkDate: wednesday, ShiftType: domain.ShiftDay},
	}

	cells, err := svc.MyWeek(waiter, testWeek)
	require.NoError(t, err)
	require.Len(t, cells, 7)

	// Only the caller's own entries show up.
	require.Len(t, cells[2].Entries, 1)
	assert.Equal(t, int64(10), cells[2].Entries[0].EntryID)
	assert.Equal(t, "Night (18:00 - Close)", cells[2].Display)
	assert.Equal(t, "OFF", cells[3].Display)
}
