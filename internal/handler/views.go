package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/domain"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/roster"
)

func (h *Handler) GetWeekView(w http.ResponseWriter, r *http.Request) {
	week, err := parseWeekParam(r)
	if err != nil {
		h.badRequest(w, r, errors.New("week must be YYYY-MM-DD"))
		return
	}

	viewType := roster.ViewType(chi.URLParam(r, "viewType"))

	view, err := h.views.WeekView(viewType, week)
	if err != nil {
		h.rosterError(w, r, err)
		return
	}

	h.successResponse(w, r, "week view fetched", view)
}

func (h *Handler) GetScheduleEntry(w http.ResponseWriter, r *http.Request) {
	entryID, err := parseIDParam(r, "id")
	if err != nil {
		h.badRequest(w, r, errors.New("invalid entry ID"))
		return
	}

	entry, err := h.repository.GetScheduleEntryByID(entryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.rosterError(w, r, roster.NewNotFound("schedule entry not found"))
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "schedule entry fetched", entry)
}

func (h *Handler) GetMyWeek(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	week, err := parseWeekParam(r)
	if err != nil {
		h.badRequest(w, r, errors.New("week must be YYYY-MM-DD"))
		return
	}

	cells, err := h.views.MyWeek(myInfo, week)
	if err != nil {
		h.rosterError(w, r, err)
		return
	}

	h.successResponse(w, r, "my week fetched", cells)
}
