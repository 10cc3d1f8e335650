package utils

import (
	"fmt"
	"time"

	"github.com/saltriver-hospitality/staff-roster/backend/internal/domain"
)

var validDays = map[string]bool{
	"Monday": true, "Tuesday": true, "Wednesday": true, "Thursday": true,
	"Friday": true, "Saturday": true, "Sunday": true,
	domain.CatalogDefaultDay: true,
}

func validTimeBound(bound string, allowClose bool) bool {
	if bound == domain.SpecifiedByScheduler {
		return true
	}
	if bound == "Close" {
		return allowClose
	}
	_, err := time.Parse("15:04", bound)
	return err == nil
}

// ValidateCatalogDefinitions checks a catalog replacement payload: known day
// keys, non-empty shift type names, and time bounds that are either a clock
// time, the scheduler-specified sentinel, or (end only) the literal "Close".
func ValidateCatalogDefinitions(defs []domain.ShiftTypeDefinition) error {
	seen := make(map[string]bool, len(defs))
	for i, def := range defs {
		if !validDays[def.DayOfWeek] {
			return fmt.Errorf("definition %d: unknown day of week %q", i+1, def.DayOfWeek)
		}
		if def.ShiftType == "" {
			return fmt.Errorf("definition %d: shift type must not be empty", i+1)
		}
		if !validTimeBound(def.StartTime, false) {
			return fmt.Errorf("definition %d: start time %q is not a clock time", i+1, def.StartTime)
		}
		if !validTimeBound(def.EndTime, true) {
			return fmt.Errorf("definition %d: end time %q is not a clock time or Close", i+1, def.EndTime)
		}

		key := fmt.Sprintf("%s/%s/%s", def.Role, def.DayOfWeek, def.ShiftType)
		if seen[key] {
			return fmt.Errorf("definition %d: duplicate definition for %s", i+1, key)
		}
		seen[key] = true
	}
	return nil
}

// ValidateShiftSelection checks an availability selection: Day, Night and
// Double only, no duplicates.
func ValidateShiftSelection(selection []domain.ShiftType) error {
	seen := make(map[domain.ShiftType]bool, len(selection))
	for _, st := range selection {
		switch st {
		case domain.ShiftDay, domain.ShiftNight, domain.ShiftDouble:
		default:
			return fmt.Errorf("shift type %q cannot be submitted as availability", st)
		}
		if seen[st] {
			return fmt.Errorf("shift type %q appears twice", st)
		}
		seen[st] = true
	}
	return nil
}

// ValidateCustomTimePair checks optional custom bounds on an assignment: both
// or neither, start a clock time, end a clock time or "Close".
func ValidateCustomTimePair(customStart, customEnd *string) error {
	if customStart == nil && customEnd == nil {
		return nil
	}
	if customStart == nil || customEnd == nil {
		return fmt.Errorf("custom start and end times must be supplied together")
	}
	if !validTimeBound(*customStart, false) || *customStart == domain.SpecifiedByScheduler {
		return fmt.Errorf("custom start time %q is not a clock time", *customStart)
	}
	if !validTimeBound(*customEnd, true) || *customEnd == domain.SpecifiedByScheduler {
		return fmt.Errorf("custom end time %q is not a clock time or Close", *customEnd)
	}
	return nil
}
