package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/saltriver-hospitality/staff-roster/backend/internal/domain"
)

func (h *Handler) RequestSwap(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		EntryID            int64  `json:"entryID" validate:"required"`
		SuggestedCovererID *int64 `json:"suggestedCovererID"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	request, err := h.exchanges.RequestSwap(myInfo, req.EntryID, req.SuggestedCovererID, time.Now())
	if err != nil {
		h.rosterError(w, r, err)
		return
	}

	h.successResponse(w, r, "swap requested", request)
}

func (h *Handler) GetEligibleCoverers(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	entryID, err := parseIDParam(r, "entryID")
	if err != nil {
		h.badRequest(w, r, errors.New("invalid entry ID"))
		return
	}

	coverers, err := h.exchanges.EligibleCoverers(myInfo, entryID)
	if err != nil {
		h.rosterError(w, r, err)
		return
	}

	h.successResponse(w, r, "eligible coverers fetched", coverers)
}

func (h *Handler) ApproveSwap(w http.ResponseWriter, r *http.Request) {
	requestID, err := parseIDParam(r, "id")
	if err != nil {
		h.badRequest(w, r, errors.New("invalid request ID"))
		return
	}

	// The body is optional; with no coverer named the requester's
	// suggestion is used.
	var req struct {
		CovererID int64 `json:"covererID"`
	}
	if err := h.readJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.badRequest(w, r, err)
		return
	}

	request, err := h.exchanges.ApproveSwap(requestID, req.CovererID, time.Now())
	if err != nil {
		h.rosterError(w, r, err)
		return
	}

	h.successResponse(w, r, "swap approved", request)
}

func (h *Handler) DenySwap(w http.ResponseWriter, r *http.Request) {
	requestID, err := parseIDParam(r, "id")
	if err != nil {
		h.badRequest(w, r, errors.New("invalid request ID"))
		return
	}

	request, err := h.exchanges.DenySwap(requestID)
	if err != nil {
		h.rosterError(w, r, err)
		return
	}

	h.successResponse(w, r, "swap denied", request)
}

func (h *Handler) OpenVolunteerRequest(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		EntryID int64  `json:"entryID" validate:"required"`
		Reason  string `json:"reason"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	request, err := h.exchanges.OpenVolunteerRequest(myInfo, req.EntryID, req.Reason, time.Now())
	if err != nil {
		h.rosterError(w, r, err)
		return
	}

	h.successResponse(w, r, "volunteer request opened", request)
}

func (h *Handler) Volunteer(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	requestID, err := parseIDParam(r, "id")
	if err != nil {
		h.badRequest(w, r, errors.New("invalid request ID"))
		return
	}

	request, err := h.exchanges.Volunteer(myInfo, requestID, time.Now())
	if err != nil {
		h.rosterError(w, r, err)
		return
	}

	h.successResponse(w, r, "volunteered for shift", request)
}

func (h *Handler) ApproveVolunteer(w http.ResponseWriter, r *http.Request) {
	requestID, err := parseIDParam(r, "id")
	if err != nil {
		h.badRequest(w, r, errors.New("invalid request ID"))
		return
	}

	var req struct {
		VolunteerID int64 `json:"volunteerID" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	request, err := h.exchanges.ApproveVolunteer(requestID, req.VolunteerID, time.Now())
	if err != nil {
		h.rosterError(w, r, err)
		return
	}

	h.successResponse(w, r, "volunteer approved", request)
}

func (h *Handler) CancelVolunteerRequest(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	requestID, err := parseIDParam(r, "id")
	if err != nil {
		h.badRequest(w, r, errors.New("invalid request ID"))
		return
	}

	request, err := h.exchanges.CancelVolunteerRequest(myInfo, requestID)
	if err != nil {
		h.rosterError(w, r, err)
		return
	}

	h.successResponse(w, r, "volunteer request cancelled", request)
}

func (h *Handler) GetWeekExchanges(w http.ResponseWriter, r *http.Request) {
	week, err := parseWeekParam(r)
	if err != nil {
		h.badRequest(w, r, errors.New("week must be YYYY-MM-DD"))
		return
	}

	exchanges, err := h.exchanges.ListWeek(week)
	if err != nil {
		h.rosterError(w, r, err)
		return
	}

	h.successResponse(w, r, "week exchanges fetched", exchanges)
}
