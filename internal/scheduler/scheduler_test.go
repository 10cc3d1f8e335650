package scheduler

import (
	"testing"
	"time"

	"github.com/saltriver-hospitality/staff-roster/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func atom(userID int64, date time.Time, shiftType domain.ShiftType) *domain.AvailabilityEntry {
	return &domain.AvailabilityEntry{UserID: userID, WorkDate: date, ShiftType: shiftType}
}

func testParameters() *Parameters {
	return &Parameters{
		PopulationSize: 10,
		MaxGenerations: 20,
		CrossoverRate:  0.8,
		MutationRate:   0.1,
		EliteCount:     2,
		FairnessWeight: 0.5,
	}
}

func TestProposeStaysWithinAvailability(t *testing.T) {
	weekStart := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local) // a Monday
	monday := weekStart
	tuesday := weekStart.AddDate(0, 0, 1)

	users := []*domain.User{
		{ID: 1, FullName: "Nadia Fourie", Roles: []domain.Role{domain.RoleWaiter}, IsActive: true},
		{ID: 2, FullName: "Sipho Dlamini", Roles: []domain.Role{domain.RoleWaiter}, IsActive: true},
		{ID: 3, FullName: "Anele Khumalo", Roles: []domain.Role{domain.RoleWaiter}, IsActive: true},
	}

	availability := []*domain.AvailabilityEntry{
		atom(1, monday, domain.ShiftDay),
		atom(2, monday, domain.ShiftNight),
		atom(3, monday, domain.ShiftDay),
		atom(3, monday, domain.ShiftNight),
		atom(1, tuesday, domain.ShiftDay),
	}

	maxStaff := int32(3)
	requirements := []*domain.StaffingRequirement{
		{Scope: domain.RoleWaiter, WorkDate: monday, MinStaff: 2, MaxStaff: &maxStaff},
	}

	s, err := New(testParameters(), users, weekStart, availability, requirements)
	require.NoError(t, err)

	cells, err := s.Propose()
	require.NoError(t, err)
	require.Len(t, cells, 3)

	perDate := make(map[string]int)
	for _, cell := range cells {
		perDate[cell.WorkDate.Format("2006-01-02")]++

		switch cell.UserID {
		case 1:
			assert.Equal(t, domain.ShiftDay, cell.ShiftType)
		case 2:
			assert.Equal(t, domain.ShiftNight, cell.ShiftType)
		case 3:
			assert.Equal(t, domain.ShiftDouble, cell.ShiftType)
		}
	}

	assert.Equal(t, 2, perDate["2026-03-02"], "fills Monday to its staffing target")
	assert.Equal(t, 1, perDate["2026-03-03"], "dates without a requirement default to one head")
}

func TestNewRejectsSubmitterOutsideCandidatePool(t *testing.T) {
	weekStart := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)

	availability := []*domain.AvailabilityEntry{
		atom(9, weekStart, domain.ShiftDay),
	}

	_, err := New(testParameters(), nil, weekStart, availability, nil)
	require.Error(t, err)
}
