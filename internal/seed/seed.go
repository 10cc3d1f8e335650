// Package seed fills a development database with a believable venue: a
// standing shift catalog, staff, staffing requirements, availability for the
// upcoming week and a published roster for the current one.
package seed

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/saltriver-hospitality/staff-roster/backend/internal/domain"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/repository"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/roster"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/service"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/utils"
)

// SeedEmailDomain is where generated staff addresses point. Nothing is ever
// delivered there.
const SeedEmailDomain = "saltriver.example"

// noopNotifier satisfies the services' notifier without touching the queue,
// so seeding works before RabbitMQ is up.
type noopNotifier struct{}

func (noopNotifier) Publish(messages ...domain.NotificationMessage) error { return nil }

// DefaultCatalog is the venue's standing service pattern. Bartenders close
// the bar on Fridays at whatever hour the manager decides, so that row keeps
// its end open for the scheduler.
func DefaultCatalog() []domain.ShiftTypeDefinition {
	return []domain.ShiftTypeDefinition{
		{Role: domain.RoleWaiter, DayOfWeek: domain.CatalogDefaultDay, ShiftType: domain.ShiftDay, StartTime: "10:00", EndTime: "18:00"},
		{Role: domain.RoleWaiter, DayOfWeek: domain.CatalogDefaultDay, ShiftType: domain.ShiftNight, StartTime: "18:00", EndTime: "Close"},
		{Role: domain.RoleWaiter, DayOfWeek: domain.CatalogDefaultDay, ShiftType: domain.ShiftDouble, StartTime: "10:00", EndTime: "Close"},
		{Role: domain.RoleHostess, DayOfWeek: domain.CatalogDefaultDay, ShiftType: domain.ShiftDay, StartTime: "09:00", EndTime: "17:00"},
		{Role: domain.RoleHostess, DayOfWeek: domain.CatalogDefaultDay, ShiftType: domain.ShiftNight, StartTime: "17:00", EndTime: "Close"},
		{Role: domain.RoleBartender, DayOfWeek: domain.CatalogDefaultDay, ShiftType: domain.ShiftNight, StartTime: "16:00", EndTime: "Close"},
		{Role: domain.RoleBartender, DayOfWeek: "Friday", ShiftType: domain.ShiftNight, StartTime: "18:00", EndTime: domain.SpecifiedByScheduler},
		{Role: domain.RoleSkuller, DayOfWeek: domain.CatalogDefaultDay, ShiftType: domain.ShiftDay, StartTime: "08:00", EndTime: "16:00"},
		{Role: domain.RoleSkuller, DayOfWeek: domain.CatalogDefaultDay, ShiftType: domain.ShiftNight, StartTime: "16:00", EndTime: "Close"},
		{Role: domain.RoleManager, DayOfWeek: domain.CatalogDefaultDay, ShiftType: domain.ShiftDay, StartTime: "09:00", EndTime: "18:00"},
		{Role: domain.RoleManager, DayOfWeek: domain.CatalogDefaultDay, ShiftType: domain.ShiftNight, StartTime: "15:00", EndTime: "Close"},
	}
}

func SeedCatalog(repo *repository.Repository) error {
	return repo.ReplaceCatalog(DefaultCatalog())
}

// SeedStaff inserts n random active staff members and returns how many made
// it past the unique constraints.
func SeedStaff(repo *repository.Repository, password string, n int) int {
	inserted := 0
	for i := 0; i < n; i++ {
		user, err := utils.GenerateRandomUser(password, SeedEmailDomain)
		if err != nil {
			slog.Error("failed to generate a random user", slog.String("error", err.Error()))
			continue
		}

		if err := repo.CreateUser(user); err != nil {
			slog.Error("failed to insert user", slog.String("error", err.Error()))
			continue
		}

		inserted++
	}

	return inserted
}

// SeedRequirements writes a plausible set of minimums for one week: a floor
// per front-of-house role every day, a busier weekend for everyone.
func SeedRequirements(repo *repository.Repository, weekStart time.Time) error {
	type scopeLevel struct {
		scope    domain.Role
		minStaff int32
		maxStaff *int32
	}

	maxWaiters := int32(4)
	maxBartenders := int32(2)
	weekday := []scopeLevel{
		{scope: domain.RoleWaiter, minStaff: 2, maxStaff: &maxWaiters},
		{scope: domain.RoleBartender, minStaff: 1, maxStaff: &maxBartenders},
		{scope: domain.RoleHostess, minStaff: 1},
		{scope: domain.RoleSkuller, minStaff: 1},
	}

	for _, date := range roster.WeekDates(weekStart) {
		levels := weekday
		if date.Weekday() == time.Friday || date.Weekday() == time.Saturday {
			levels = append(levels, scopeLevel{scope: domain.StaffingScopeAll, minStaff: 6})
		}

		for _, level := range levels {
			req := &domain.StaffingRequirement{
				Scope:    level.scope,
				WorkDate: date,
				MinStaff: level.minStaff,
				MaxStaff: level.maxStaff,
			}
			if err := repo.UpsertStaffingRequirement(req); err != nil {
				return err
			}
		}
	}

	return nil
}

// SeedAvailability submits a random subset of dates for every active staff
// member, the way real staff trickle their availability in.
func SeedAvailability(repo *repository.Repository, weekStart time.Time) (int, error) {
	staff, err := repo.GetActiveUsers()
	if err != nil {
		return 0, err
	}

	submitted := 0
	for _, user := range staff {
		dates := utils.GenerateRandomDateSubset(roster.WeekDates(weekStart))

		atomsByDate := make(map[string][]domain.ShiftType, len(dates))
		for _, date := range dates {
			atomsByDate[roster.FormatDate(date)] = roster.ExpandSelection(utils.GenerateRandomShiftSelection())
		}

		if err := repo.ReplaceAvailabilityForDates(user.ID, dates, atomsByDate); err != nil {
			slog.Error("failed to insert availability", slog.Int64("userID", user.ID), slog.String("error", err.Error()))
			continue
		}

		submitted++
	}

	return submitted, nil
}

// SeedPublishedWeek drafts and publishes a roster for every role that has
// staff, exercising the same pipeline the editor uses.
func SeedPublishedWeek(repo *repository.Repository, logger *slog.Logger, weekStart time.Time) error {
	drafts := service.NewDraftService(repo, noopNotifier{}, logger)

	staff, err := repo.GetActiveUsers()
	if err != nil {
		return err
	}

	byRole := make(map[domain.Role][]*domain.User)
	for _, user := range staff {
		for _, role := range user.Roles {
			// Only floor roles get rosters; the catalog has no rows for
			// the administrative ones.
			switch role {
			case domain.RoleGeneralManager, domain.RoleSystemAdmin:
				continue
			}
			byRole[role] = append(byRole[role], user)
		}
	}

	fridayClose := "23:30"
	fridayOpen := "18:00"

	for role, members := range byRole {
		draft, err := drafts.Get(role, weekStart)
		if err != nil {
			logger.Error("failed to open draft", slog.String("role", string(role)), slog.String("error", err.Error()))
			continue
		}

		version := draft.Version
		placed := 0
		for _, member := range members {
			for _, date := range roster.WeekDates(weekStart) {
				// Roughly four shifts per person per week.
				if rand.Intn(7) >= 4 {
					continue
				}

				cell := &domain.RosterDraftCell{
					UserID:    member.ID,
					WorkDate:  date,
					ShiftType: shiftTypeFor(role),
				}
				if role == domain.RoleBartender && date.Weekday() == time.Friday {
					cell.CustomStartTime = &fridayOpen
					cell.CustomEndTime = &fridayClose
				}

				updated, err := drafts.PutCell(role, weekStart, version, cell)
				if err != nil {
					logger.Error("failed to place assignment", slog.String("role", string(role)), slog.String("error", err.Error()))
					continue
				}
				version = updated.Version
				placed++
			}
		}

		if placed == 0 {
			continue
		}

		if _, err := drafts.Publish(role, weekStart, version); err != nil {
			logger.Error("failed to publish roster", slog.String("role", string(role)), slog.String("error", err.Error()))
			continue
		}

		logger.Info("published roster", slog.String("role", string(role)), slog.Int("assignments", placed))
	}

	return nil
}

func shiftTypeFor(role domain.Role) domain.ShiftType {
	if role == domain.RoleBartender {
		return domain.ShiftNight
	}
	if rand.Intn(2) == 0 {
		return domain.ShiftDay
	}
	return domain.ShiftNight
}

// SeedLeave marks one staff member as on leave for the Wednesday of the given
// week, so the demo data has a row that blocks its owner in coverer checks.
// Picks someone with no assignment that day; returns nil when everyone is
// already scheduled.
func SeedLeave(repo *repository.Repository, weekStart time.Time) (*domain.ScheduleEntry, error) {
	day := weekStart.AddDate(0, 0, 2)

	staff, err := repo.GetActiveUsers()
	if err != nil {
		return nil, err
	}
	dayEntries, err := repo.GetEntriesForDate(day)
	if err != nil {
		return nil, err
	}

	busy := make(map[int64]bool, len(dayEntries))
	for _, e := range dayEntries {
		busy[e.UserID] = true
	}

	for _, user := range staff {
		if busy[user.ID] || len(user.Roles) == 0 {
			continue
		}
		switch user.Roles[0] {
		case domain.RoleGeneralManager, domain.RoleSystemAdmin:
			continue
		}

		entry := &domain.ScheduleEntry{
			ScheduleRole: user.Roles[0],
			UserID:       user.ID,
			WorkDate:     day,
			ShiftType:    domain.ShiftDay,
		}
		if err := repo.InsertLeaveEntry(entry); err != nil {
			return nil, err
		}
		return entry, nil
	}

	return nil, nil
}

// SeedDemoData runs the full demo setup: catalog, staff, requirements and
// availability for next week, and a published roster for the current one.
func SeedDemoData(repo *repository.Repository, logger *slog.Logger, password string) {
	if err := SeedCatalog(repo); err != nil {
		logger.Error("failed to seed the shift catalog", slog.String("error", err.Error()))
		return
	}
	logger.Info("seeded shift catalog")

	inserted := SeedStaff(repo, password, 20)
	logger.Info("seeded staff", slog.Int("count", inserted))

	now := time.Now()
	currentWeek := roster.WeekStartForOffset(now, 0)
	nextWeek := roster.WeekStartForOffset(now, 1)

	for _, week := range []time.Time{currentWeek, nextWeek} {
		if err := SeedRequirements(repo, week); err != nil {
			logger.Error("failed to seed staffing requirements", slog.String("error", err.Error()))
			return
		}
	}
	logger.Info("seeded staffing requirements")

	submitted, err := SeedAvailability(repo, nextWeek)
	if err != nil {
		logger.Error("failed to seed availability", slog.String("error", err.Error()))
		return
	}
	logger.Info("seeded availability", slog.Int("count", submitted))

	if err := SeedPublishedWeek(repo, logger, currentWeek); err != nil {
		logger.Error("failed to publish the sample week", slog.String("error", err.Error()))
		return
	}

	leave, err := SeedLeave(repo, currentWeek)
	if err != nil {
		logger.Error("failed to seed a leave entry", slog.String("error", err.Error()))
		return
	}
	if leave != nil {
		logger.Info("seeded a leave entry", slog.Int64("userID", leave.UserID), slog.String("date", roster.FormatDate(leave.WorkDate)))
	}
}
