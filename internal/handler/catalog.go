package handler

import (
	"errors"
	"net/http"

	"github.com/saltriver-hospitality/staff-roster/backend/internal/domain"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/roster"
)

func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	defs, err := h.catalog.Definitions()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "shift catalog fetched", defs)
}

func (h *Handler) ReplaceCatalog(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Definitions []domain.ShiftTypeDefinition `json:"definitions" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.catalog.Replace(req.Definitions); err != nil {
		h.rosterError(w, r, err)
		return
	}

	defs, err := h.catalog.Definitions()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "shift catalog replaced", defs)
}

func (h *Handler) DisplayShiftTime(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	if role == "" {
		h.badRequest(w, r, errors.New("role query parameter is required"))
		return
	}

	date, err := roster.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		h.badRequest(w, r, errors.New("date query parameter must be YYYY-MM-DD"))
		return
	}

	shiftType := r.URL.Query().Get("shiftType")
	if shiftType == "" {
		h.badRequest(w, r, errors.New("shiftType query parameter is required"))
		return
	}

	var customStart, customEnd *string
	if v := r.URL.Query().Get("customStart"); v != "" {
		customStart = &v
	}
	if v := r.URL.Query().Get("customEnd"); v != "" {
		customEnd = &v
	}

	display, err := h.catalog.DisplayTime(domain.Role(role), date, domain.ShiftType(shiftType), customStart, customEnd)
	if err != nil {
		h.rosterError(w, r, err)
		return
	}

	h.successResponse(w, r, "display time resolved", map[string]string{"displayTime": display})
}

func (h *Handler) AssignableShiftTypes(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	if role == "" {
		h.badRequest(w, r, errors.New("role query parameter is required"))
		return
	}

	date, err := roster.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		h.badRequest(w, r, errors.New("date query parameter must be YYYY-MM-DD"))
		return
	}

	assignable, err := h.catalog.Assignable(domain.Role(role), date)
	if err != nil {
		h.rosterError(w, r, err)
		return
	}

	h.successResponse(w, r, "assignable shift types resolved", assignable)
}
