package roster

import (
	"fmt"

	"github.com/saltriver-hospitality/staff-roster/backend/internal/domain"
)

// DisplayCustomRequired is reported when a resolved definition carries the
// scheduler-specified sentinel and no custom times were supplied.
const DisplayCustomRequired = "custom input required"

type catalogKey struct {
	role      domain.Role
	day       string
	shiftType domain.ShiftType
}

type catalogSlot struct {
	role domain.Role
	day  string
}

// Catalog is the typed shift-time table. Lookups for (role, day, shiftType)
// fall back role first, then day: (role, day), (manager, day),
// (role, default), (manager, default).
type Catalog struct {
	defs  map[catalogKey]domain.ShiftTypeDefinition
	slots map[catalogSlot][]domain.ShiftType
}

func NewCatalog(defs []domain.ShiftTypeDefinition) *Catalog {
	c := &Catalog{
		defs:  make(map[catalogKey]domain.ShiftTypeDefinition, len(defs)),
		slots: make(map[catalogSlot][]domain.ShiftType),
	}
	for _, def := range defs {
		key := catalogKey{role: def.Role, day: def.DayOfWeek, shiftType: def.ShiftType}
		if _, exists := c.defs[key]; exists {
			continue
		}
		c.defs[key] = def
		slot := catalogSlot{role: def.Role, day: def.DayOfWeek}
		c.slots[slot] = append(c.slots[slot], def.ShiftType)
	}
	return c
}

func fallbackSlots(role domain.Role, day string) []catalogSlot {
	return []catalogSlot{
		{role: role, day: day},
		{role: domain.RoleManager, day: day},
		{role: role, day: domain.CatalogDefaultDay},
		{role: domain.RoleManager, day: domain.CatalogDefaultDay},
	}
}

// Resolve finds the definition for (role, day, shiftType) applying the
// fallback chain. The second result is false when no slot defines shiftType.
func (c *Catalog) Resolve(role domain.Role, day string, shiftType domain.ShiftType) (domain.ShiftTypeDefinition, bool) {
	for _, slot := range fallbackSlots(role, day) {
		if def, ok := c.defs[catalogKey{role: slot.role, day: slot.day, shiftType: shiftType}]; ok {
			return def, true
		}
	}
	return domain.ShiftTypeDefinition{}, false
}

// RequiresCustomTime reports whether assigning shiftType demands custom
// start/end input: either bound resolves to the scheduler-specified sentinel,
// or the catalog holds no definition at all.
func (c *Catalog) RequiresCustomTime(role domain.Role, day string, shiftType domain.ShiftType) bool {
	def, ok := c.Resolve(role, day, shiftType)
	if !ok {
		return true
	}
	return def.StartTime == domain.SpecifiedByScheduler || def.EndTime == domain.SpecifiedByScheduler
}

// ResolveDisplayTime renders the time range shown next to an assigned shift.
// A full custom pair wins outright; otherwise the resolved definition is
// rendered, or DisplayCustomRequired when its bounds are scheduler-specified.
// Unknown (role, day, shiftType) renders empty.
func (c *Catalog) ResolveDisplayTime(role domain.Role, day string, shiftType domain.ShiftType, customStart, customEnd string) string {
	if customStart != "" && customEnd != "" {
		return fmt.Sprintf("(%s - %s)", customStart, customEnd)
	}
	def, ok := c.Resolve(role, day, shiftType)
	if !ok {
		return ""
	}
	if def.StartTime == domain.SpecifiedByScheduler || def.EndTime == domain.SpecifiedByScheduler {
		return DisplayCustomRequired
	}
	return fmt.Sprintf("(%s - %s)", def.StartTime, def.EndTime)
}

// AssignableShiftTypes lists the shift type names offered for (role, day):
// the first fallback slot holding any definitions, in catalog order, or the
// generic list when the catalog is silent.
func (c *Catalog) AssignableShiftTypes(role domain.Role, day string) []domain.ShiftType {
	for _, slot := range fallbackSlots(role, day) {
		if types := c.slots[slot]; len(types) > 0 {
			out := make([]domain.ShiftType, len(types))
			copy(out, types)
			return out
		}
	}
	out := make([]domain.ShiftType, len(domain.GenericShiftTypes))
	copy(out, domain.GenericShiftTypes)
	return out
}
