package roster

import (
	"fmt"

	"github.com/saltriver-hospitality/staff-roster/backend/internal/domain"
)

// ValidateRequirement checks a min/max pair before it is stored.
func ValidateRequirement(minStaff int32, maxStaff *int32) error {
	if minStaff < 0 {
		return NewValidation(CodeInvalidRange, "minimum staff must not be negative")
	}
	if maxStaff != nil && *maxStaff < minStaff {
		return NewValidation(CodeInvalidRange, fmt.Sprintf("maximum staff (%d) must not be below minimum staff (%d)", *maxStaff, minStaff))
	}
	return nil
}

// Classify grades a date's assigned headcount against its requirement row.
// A nil requirement always grades NoRequirement.
func Classify(req *domain.StaffingRequirement, assignedCount int) domain.StaffingStatus {
	switch {
	case req == nil:
		return domain.StaffingStatus{Class: domain.StaffingNoRequirement, Label: "muted"}
	case assignedCount < int(req.MinStaff):
		return domain.StaffingStatus{Class: domain.StaffingUnderstaffed, Label: "danger"}
	case req.MaxStaff != nil && assignedCount > int(*req.MaxStaff):
		return domain.StaffingStatus{Class: domain.StaffingOverstaffed, Label: "warning"}
	default:
		return domain.StaffingStatus{Class: domain.StaffingGood, Label: "success"}
	}
}
