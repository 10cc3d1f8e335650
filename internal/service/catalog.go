package service

import (
	"log/slog"
	"time"

	"github.com/saltriver-hospitality/staff-roster/backend/internal/domain"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/roster"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/utils"
)

type CatalogStore interface {
	GetCatalog() ([]domain.ShiftTypeDefinition, error)
	ReplaceCatalog(defs []domain.ShiftTypeDefinition) error
}

type CatalogService struct {
	store  CatalogStore
	logger *slog.Logger
}

func NewCatalogService(store CatalogStore, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		store:  store,
		logger: logger,
	}
}

func (s *CatalogService) Definitions() ([]domain.ShiftTypeDefinition, error) {
	return s.store.GetCatalog()
}

// Replace swaps the whole catalog for the given definitions.
func (s *CatalogService) Replace(defs []domain.ShiftTypeDefinition) error {
	for i := range defs {
		if !domain.IsKnownRole(defs[i].Role) {
			return roster.NewValidation(roster.CodeInvalidInput, "definitions must name a known role")
		}
	}
	if err := utils.ValidateCatalogDefinitions(defs); err != nil {
		return roster.NewValidation(roster.CodeInvalidInput, err.Error())
	}

	return s.store.ReplaceCatalog(defs)
}

type AssignableTypes struct {
	Role       domain.Role        `json:"role"`
	Date       string             `json:"date"`
	ShiftTypes []domain.ShiftType `json:"shiftTypes"`
}

// DisplayTime renders the operating-hours string for one prospective
// assignment, the same resolution the published views apply. A full custom
// pair wins outright; scheduler-specified catalog bounds without one report
// that custom input is required.
func (s *CatalogService) DisplayTime(role domain.Role, date time.Time, shiftType domain.ShiftType, customStart, customEnd *string) (string, error) {
	if !domain.IsKnownRole(role) {
		return "", roster.NewValidation(roster.CodeInvalidInput, "unknown role")
	}
	if err := utils.ValidateCustomTimePair(customStart, customEnd); err != nil {
		return "", roster.NewValidation(roster.CodeInvalidInput, err.Error())
	}

	defs, err := s.store.GetCatalog()
	if err != nil {
		return "", err
	}

	var start, end string
	if customStart != nil {
		start = *customStart
	}
	if customEnd != nil {
		end = *customEnd
	}

	return roster.NewCatalog(defs).ResolveDisplayTime(role, roster.DayName(date), shiftType, start, end), nil
}

// Assignable resolves which shift types a scheduler may place for a role on
// a date, falling back through the catalog's wildcard rows.
func (s *CatalogService) Assignable(role domain.Role, date time.Time) (*AssignableTypes, error) {
	if !domain.IsKnownRole(role) {
		return nil, roster.NewValidation(roster.CodeInvalidInput, "unknown role")
	}

	defs, err := s.store.GetCatalog()
	if err != nil {
		return nil, err
	}

	catalog := roster.NewCatalog(defs)
	return &AssignableTypes{
		Role:       role,
		Date:       roster.FormatDate(date),
		ShiftTypes: catalog.AssignableShiftTypes(role, roster.DayName(date)),
	}, nil
}
