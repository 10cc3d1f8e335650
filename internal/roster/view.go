package roster

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/saltriver-hospitality/staff-roster/backend/internal/domain"
)

type ViewType string

const (
	ViewFrontOfHouse ViewType = "front_of_house"
	ViewBackOfHouse  ViewType = "back_of_house"
	ViewManagers     ViewType = "managers"
	ViewAllStaff     ViewType = "all_staff"
)

// RolesForView maps a view type to the roles it covers. A nil slice means
// every role.
func RolesForView(vt ViewType) ([]domain.Role, error) {
	switch vt {
	case ViewFrontOfHouse:
		return []domain.Role{domain.RoleHostess, domain.RoleBartender, domain.RoleWaiter}, nil
	case ViewBackOfHouse:
		return []domain.Role{domain.RoleSkuller}, nil
	case ViewManagers:
		return []domain.Role{domain.RoleManager, domain.RoleGeneralManager, domain.RoleSystemAdmin}, nil
	case ViewAllStaff:
		return nil, nil
	default:
		return nil, NewValidation(CodeUnknownViewType, fmt.Sprintf("unknown view type %q", vt))
	}
}

type ViewCellEntry struct {
	EntryID     int64                 `json:"entryID"`
	ShiftType   domain.ShiftType      `json:"shiftType"`
	DisplayTime string                `json:"displayTime"`
	OnLeave     bool                  `json:"onLeave"`
	Exchange    *domain.ExchangeState `json:"exchange,omitempty"`
}

type ViewCell struct {
	Date    string          `json:"date"`
	Display string          `json:"display"`
	Entries []ViewCellEntry `json:"entries"`
}

type ViewUser struct {
	UserID   int64         `json:"userID"`
	FullName string        `json:"fullName"`
	Roles    []domain.Role `json:"roles"`
	Cells    []ViewCell    `json:"cells"`
}

type ViewGroup struct {
	Label string     `json:"label"`
	Users []ViewUser `json:"users"`
}

// groupRank orders users into the fixed display groups. Lower ranks render
// first; rank 5 groups (unclassified roles) order alphabetically by label.
func groupRank(u *domain.User) (int, string) {
	if u.HasRole(domain.RoleHostess) {
		return 0, "Hostesses"
	}
	if u.IsAdjudicator() {
		return 1, "Managers"
	}
	if u.HasRole(domain.RoleBartender) {
		return 2, "Bartenders"
	}
	if u.HasRole(domain.RoleWaiter) {
		return 3, "Waiters"
	}
	if u.HasRole(domain.RoleSkuller) {
		return 4, "Skullers"
	}
	if len(u.Roles) > 0 {
		roles := make([]string, len(u.Roles))
		for i, r := range u.Roles {
			roles[i] = string(r)
		}
		sort.Strings(roles)
		return 5, roles[0]
	}
	return 6, "Unassigned"
}

func userInView(u *domain.User, viewRoles []domain.Role) bool {
	if viewRoles == nil {
		return true
	}
	for _, r := range viewRoles {
		if u.HasRole(r) {
			return true
		}
	}
	return false
}

func renderEntry(catalog *Catalog, e *domain.ScheduleEntry) ViewCellEntry {
	cell := ViewCellEntry{
		EntryID:   e.ID,
		ShiftType: e.ShiftType,
		OnLeave:   e.OnLeave,
		Exchange:  e.Exchange,
	}
	customStart, customEnd := "", ""
	if e.CustomStartTime != nil {
		customStart = *e.CustomStartTime
	}
	if e.CustomEndTime != nil {
		customEnd = *e.CustomEndTime
	}
	cell.DisplayTime = catalog.ResolveDisplayTime(e.ScheduleRole, DayName(e.WorkDate), e.ShiftType, customStart, customEnd)
	return cell
}

func cellDisplay(entries []ViewCellEntry) string {
	if len(entries) == 0 {
		return "OFF"
	}
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		switch {
		case e.OnLeave:
			parts = append(parts, "On leave")
		case e.DisplayTime == "":
			parts = append(parts, string(e.ShiftType))
		default:
			parts = append(parts, fmt.Sprintf("%s %s", e.ShiftType, e.DisplayTime))
		}
	}
	return strings.Join(parts, ", ")
}

// UserWeekCells renders one user's published week as seven day cells,
// OFF where nothing is scheduled.
func UserWeekCells(weekStart time.Time, entries []*domain.ScheduleEntry, catalog *Catalog) []ViewCell {
	byDate := make(map[string][]ViewCellEntry)
	for _, e := range entries {
		key := FormatDate(e.WorkDate)
		byDate[key] = append(byDate[key], renderEntry(catalog, e))
	}

	dates := WeekDates(weekStart)
	cells := make([]ViewCell, 0, len(dates))
	for _, d := range dates {
		key := FormatDate(d)
		cells = append(cells, ViewCell{
			Date:    key,
			Display: cellDisplay(byDate[key]),
			Entries: byDate[key],
		})
	}
	return cells
}

// BuildView assembles the consolidated weekly grid for one view type. users
// must be the active staff directory; entries every published entry of the
// week. Fails only on an unrecognized view type.
func BuildView(vt ViewType, weekStart time.Time, users []*domain.User, entries []*domain.ScheduleEntry, catalog *Catalog) ([]ViewGroup, error) {
	viewRoles, err := RolesForView(vt)
	if err != nil {
		return nil, err
	}

	byUserDate := make(map[int64]map[string][]ViewCellEntry)
	for _, e := range entries {
		key := FormatDate(e.WorkDate)
		if byUserDate[e.UserID] == nil {
			byUserDate[e.UserID] = make(map[string][]ViewCellEntry)
		}
		byUserDate[e.UserID][key] = append(byUserDate[e.UserID][key], renderEntry(catalog, e))
	}

	type rankedUser struct {
		rank  int
		label string
		user  *domain.User
	}
	ranked := make([]rankedUser, 0, len(users))
	for _, u := range users {
		if !u.IsActive || !userInView(u, viewRoles) {
			continue
		}
		rank, label := groupRank(u)
		ranked = append(ranked, rankedUser{rank: rank, label: label, user: u})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].rank != ranked[j].rank {
			return ranked[i].rank < ranked[j].rank
		}
		if ranked[i].label != ranked[j].label {
			return ranked[i].label < ranked[j].label
		}
		return ranked[i].user.FullName < ranked[j].user.FullName
	})

	dates := WeekDates(weekStart)
	var groups []ViewGroup
	for _, ru := range ranked {
		cells := make([]ViewCell, 0, len(dates))
		for _, d := range dates {
			key := FormatDate(d)
			dayEntries := byUserDate[ru.user.ID][key]
			cells = append(cells, ViewCell{
				Date:    key,
				Display: cellDisplay(dayEntries),
				Entries: dayEntries,
			})
		}
		vu := ViewUser{
			UserID:   ru.user.ID,
			FullName: ru.user.FullName,
			Roles:    ru.user.Roles,
			Cells:    cells,
		}
		if len(groups) == 0 || groups[len(groups)-1].Label != ru.label {
			groups = append(groups, ViewGroup{Label: ru.label})
		}
		groups[len(groups)-1].Users = append(groups[len(groups)-1].Users, vu)
	}
	return groups, nil
}
