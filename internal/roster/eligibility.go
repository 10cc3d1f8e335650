package roster

import (
	"github.com/saltriver-hospitality/staff-roster/backend/internal/domain"
)

func rolesIntersect(a, b []domain.Role) bool {
	for _, ra := range a {
		for _, rb := range b {
			if ra == rb {
				return true
			}
		}
	}
	return false
}

// EligibleHint is the cheap pre-filter tier: active staff sharing a role with
// the entry owner, owner excluded. It carries no conflict information and is
// only a hint for pickers; state-changing calls re-check with Eligible.
func EligibleHint(owner *domain.User, staff []*domain.User) []*domain.User {
	out := make([]*domain.User, 0, len(staff))
	for _, u := range staff {
		if u.ID == owner.ID || !u.IsActive {
			continue
		}
		if rolesIntersect(u.Roles, owner.Roles) {
			out = append(out, u)
		}
	}
	return out
}

// Eligible is the authoritative tier: the hint filter plus a same-day
// conflict check. Anyone already holding an assignment on the shift's date,
// including an on-leave row, is out. dayEntries must contain every published
// entry on that date across all roles.
func Eligible(owner *domain.User, staff []*domain.User, dayEntries []*domain.ScheduleEntry) []*domain.User {
	busy := make(map[int64]bool, len(dayEntries))
	for _, e := range dayEntries {
		busy[e.UserID] = true
	}

	out := make([]*domain.User, 0, len(staff))
	for _, u := range EligibleHint(owner, staff) {
		if busy[u.ID] {
			continue
		}
		out = append(out, u)
	}
	return out
}

// IsEligible reports whether userID survives the authoritative check.
func IsEligible(owner *domain.User, staff []*domain.User, dayEntries []*domain.ScheduleEntry, userID int64) bool {
	for _, u := range Eligible(owner, staff, dayEntries) {
		if u.ID == userID {
			return true
		}
	}
	return false
}
