package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/saltriver-hospitality/staff-roster/backend/internal/domain"
)

func (h *Handler) SubmitMyAvailability(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	week, err := parseWeekParam(r)
	if err != nil {
		h.badRequest(w, r, errors.New("week must be YYYY-MM-DD"))
		return
	}

	var req struct {
		Dates map[string][]domain.ShiftType `json:"dates" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.availability.Submit(myInfo, week, req.Dates, time.Now()); err != nil {
		h.rosterError(w, r, err)
		return
	}

	dates, err := h.availability.ForUserWeek(myInfo.ID, week)
	if err != nil {
		h.rosterError(w, r, err)
		return
	}

	h.successResponse(w, r, "availability submitted", dates)
}

func (h *Handler) GetMyAvailability(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	week, err := parseWeekParam(r)
	if err != nil {
		h.badRequest(w, r, errors.New("week must be YYYY-MM-DD"))
		return
	}

	dates, err := h.availability.ForUserWeek(myInfo.ID, week)
	if err != nil {
		h.rosterError(w, r, err)
		return
	}

	h.successResponse(w, r, "availability fetched", dates)
}

func (h *Handler) GetAvailabilityWindow(w http.ResponseWriter, r *http.Request) {
	week, err := parseWeekParam(r)
	if err != nil {
		h.badRequest(w, r, errors.New("week must be YYYY-MM-DD"))
		return
	}

	window, err := h.availability.Window(week, time.Now())
	if err != nil {
		h.rosterError(w, r, err)
		return
	}

	h.successResponse(w, r, "submission window fetched", window)
}

func (h *Handler) GetWeekAvailability(w http.ResponseWriter, r *http.Request) {
	week, err := parseWeekParam(r)
	if err != nil {
		h.badRequest(w, r, errors.New("week must be YYYY-MM-DD"))
		return
	}

	submissions, err := h.availability.ForWeek(week)
	if err != nil {
		h.rosterError(w, r, err)
		return
	}

	h.successResponse(w, r, "week availability fetched", submissions)
}
