package handler

import (
	"errors"
	"net/http"

	"github.com/saltriver-hospitality/staff-roster/backend/internal/domain"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/roster"
)

func (h *Handler) UpsertStaffingRequirement(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Scope    string `json:"scope" validate:"required"`
		Date     string `json:"date" validate:"required"`
		MinStaff int32  `json:"minStaff" validate:"gte=0"`
		MaxStaff *int32 `json:"maxStaff" validate:"omitempty,gte=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	date, err := roster.ParseDate(req.Date)
	if err != nil {
		h.badRequest(w, r, errors.New("date must be YYYY-MM-DD"))
		return
	}

	requirement, err := h.staffing.Upsert(domain.Role(req.Scope), date, req.MinStaff, req.MaxStaff)
	if err != nil {
		h.rosterError(w, r, err)
		return
	}

	h.successResponse(w, r, "staffing requirement saved", requirement)
}

func (h *Handler) GetWeekRequirements(w http.ResponseWriter, r *http.Request) {
	week, err := parseWeekParam(r)
	if err != nil {
		h.badRequest(w, r, errors.New("week must be YYYY-MM-DD"))
		return
	}

	var requirements []*domain.StaffingRequirement
	if scope := r.URL.Query().Get("scope"); scope != "" {
		requirements, err = h.staffing.RequirementsForScope(domain.Role(scope), week)
	} else {
		requirements, err = h.staffing.Requirements(week)
	}
	if err != nil {
		h.rosterError(w, r, err)
		return
	}

	h.successResponse(w, r, "staffing requirements fetched", requirements)
}

func (h *Handler) GetWeekStaffingStatus(w http.ResponseWriter, r *http.Request) {
	week, err := parseWeekParam(r)
	if err != nil {
		h.badRequest(w, r, errors.New("week must be YYYY-MM-DD"))
		return
	}

	scope := r.URL.Query().Get("scope")
	if scope == "" {
		h.badRequest(w, r, errors.New("scope query parameter is required"))
		return
	}

	statuses, err := h.staffing.WeekStatus(domain.Role(scope), week)
	if err != nil {
		h.rosterError(w, r, err)
		return
	}

	h.successResponse(w, r, "staffing status fetched", statuses)
}
