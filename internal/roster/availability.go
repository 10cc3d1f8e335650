package roster

import (
	"github.com/saltriver-hospitality/staff-roster/backend/internal/domain"
)

// ExpandSelection normalizes one date's submitted shift types to the stored
// atoms. Double expands to Day and Night; duplicates collapse. Unknown types
// are rejected by validation before this point.
func ExpandSelection(selection []domain.ShiftType) []domain.ShiftType {
	var day, night bool
	for _, st := range selection {
		switch st {
		case domain.ShiftDay:
			day = true
		case domain.ShiftNight:
			night = true
		case domain.ShiftDouble:
			day = true
			night = true
		}
	}

	atoms := make([]domain.ShiftType, 0, 2)
	if day {
		atoms = append(atoms, domain.ShiftDay)
	}
	if night {
		atoms = append(atoms, domain.ShiftNight)
	}
	return atoms
}

// Consolidate groups stored atoms by date and synthesizes Double on dates
// holding both atoms. Double is reported, never stored.
func Consolidate(entries []domain.AvailabilityEntry) map[string][]domain.ShiftType {
	byDate := make(map[string]map[domain.ShiftType]bool)
	for _, e := range entries {
		key := FormatDate(e.WorkDate)
		if byDate[key] == nil {
			byDate[key] = make(map[domain.ShiftType]bool)
		}
		byDate[key][e.ShiftType] = true
	}

	out := make(map[string][]domain.ShiftType, len(byDate))
	for key, atoms := range byDate {
		types := make([]domain.ShiftType, 0, 3)
		if atoms[domain.ShiftDay] {
			types = append(types, domain.ShiftDay)
		}
		if atoms[domain.ShiftNight] {
			types = append(types, domain.ShiftNight)
		}
		if atoms[domain.ShiftDay] && atoms[domain.ShiftNight] {
			types = append(types, domain.ShiftDouble)
		}
		out[key] = types
	}
	return out
}
