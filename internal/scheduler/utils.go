package scheduler

import "github.com/saltriver-hospitality/staff-roster/backend/internal/domain"

// mergeAtoms folds a user's availability atoms on one date into the single
// cell value a draft holds. Both atoms mean the whole day.
func mergeAtoms(hasDay bool, hasNight bool) domain.ShiftType {
	switch {
	case hasDay && hasNight:
		return domain.ShiftDouble
	case hasNight:
		return domain.ShiftNight
	default:
		return domain.ShiftDay
	}
}

// workUnits weighs an assignment for the fairness penalty. A double shift
// counts as two singles.
func workUnits(shiftType domain.ShiftType) float64 {
	if shiftType == domain.ShiftDouble {
		return 2
	}
	return 1
}
