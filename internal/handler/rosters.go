package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/domain"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/roster"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/scheduler"
)

func draftParams(r *http.Request) (domain.Role, time.Time, error) {
	role := domain.Role(chi.URLParam(r, "role"))
	week, err := parseWeekParam(r)
	return role, week, err
}

// draftLastSave is the save stamp shown on the roster screen, so concurrent
// editors can see whose hands the draft was in last.
type draftLastSave struct {
	By string    `json:"by"`
	At time.Time `json:"at"`
}

func (h *Handler) readLastSave(role domain.Role, week time.Time) *draftLastSave {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	raw, err := h.redisClient.Get(ctx, draftLastSaveKey(role, week)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("failed to read draft save stamp", "role", role, "week", roster.FormatDate(week), "error", err)
		}
		return nil
	}

	stamp := &draftLastSave{}
	if err := json.Unmarshal([]byte(raw), stamp); err != nil {
		return nil
	}
	return stamp
}

func (h *Handler) GetRosterDraft(w http.ResponseWriter, r *http.Request) {
	role, week, err := draftParams(r)
	if err != nil {
		h.badRequest(w, r, errors.New("week must be YYYY-MM-DD"))
		return
	}

	draft, err := h.drafts.Get(role, week)
	if err != nil {
		h.rosterError(w, r, err)
		return
	}

	h.successResponse(w, r, "roster draft fetched", map[string]any{
		"draft":    draft,
		"lastSave": h.readLastSave(role, week),
	})
}

func (h *Handler) PutDraftCell(w http.ResponseWriter, r *http.Request) {
	role, week, err := draftParams(r)
	if err != nil {
		h.badRequest(w, r, errors.New("week must be YYYY-MM-DD"))
		return
	}

	var req struct {
		Version         int32   `json:"version" validate:"required"`
		UserID          int64   `json:"userID" validate:"required"`
		Date            string  `json:"date" validate:"required"`
		ShiftType       string  `json:"shiftType" validate:"required"`
		CustomStartTime *string `json:"customStartTime"`
		CustomEndTime   *string `json:"customEndTime"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	workDate, err := roster.ParseDate(req.Date)
	if err != nil {
		h.badRequest(w, r, errors.New("date must be YYYY-MM-DD"))
		return
	}

	cell := &domain.RosterDraftCell{
		UserID:          req.UserID,
		WorkDate:        workDate,
		ShiftType:       domain.ShiftType(req.ShiftType),
		CustomStartTime: req.CustomStartTime,
		CustomEndTime:   req.CustomEndTime,
	}

	draft, err := h.drafts.PutCell(role, week, req.Version, cell)
	if err != nil {
		h.rosterError(w, r, err)
		return
	}

	h.successResponse(w, r, "assignment placed", draft)
}

func (h *Handler) RemoveDraftCell(w http.ResponseWriter, r *http.Request) {
	role, week, err := draftParams(r)
	if err != nil {
		h.badRequest(w, r, errors.New("week must be YYYY-MM-DD"))
		return
	}

	query := r.URL.Query()

	version, err := strconv.ParseInt(query.Get("version"), 10, 32)
	if err != nil {
		h.badRequest(w, r, errors.New("version query parameter is required"))
		return
	}

	userID, err := strconv.ParseInt(query.Get("userID"), 10, 64)
	if err != nil {
		h.badRequest(w, r, errors.New("userID query parameter is required"))
		return
	}

	workDate, err := roster.ParseDate(query.Get("date"))
	if err != nil {
		h.badRequest(w, r, errors.New("date query parameter must be YYYY-MM-DD"))
		return
	}

	draft, err := h.drafts.RemoveCell(role, week, int32(version), userID, workDate)
	if err != nil {
		h.rosterError(w, r, err)
		return
	}

	h.successResponse(w, r, "assignment removed", draft)
}

func draftLastSaveKey(role domain.Role, week time.Time) string {
	return fmt.Sprintf("draft_lastsave_%s_%s", role, roster.FormatDate(week))
}

func (h *Handler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	role, week, err := draftParams(r)
	if err != nil {
		h.badRequest(w, r, errors.New("week must be YYYY-MM-DD"))
		return
	}

	var req struct {
		Version int32 `json:"version" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	draft, err := h.drafts.Save(role, week, req.Version)
	if err != nil {
		h.rosterError(w, r, err)
		return
	}

	// Editors poll this key to warn about drafts nobody has touched in a
	// while. Losing it costs a warning, not data.
	stamp, err := json.Marshal(draftLastSave{By: myInfo.FullName, At: time.Now()})
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
		defer cancel()
		err = h.redisClient.Set(ctx, draftLastSaveKey(role, week), stamp, 0).Err()
	}
	if err != nil {
		slog.Warn("failed to record draft save stamp", "role", role, "week", roster.FormatDate(week), "error", err)
	}

	h.successResponse(w, r, "draft saved", draft)
}

func (h *Handler) PublishDraft(w http.ResponseWriter, r *http.Request) {
	role, week, err := draftParams(r)
	if err != nil {
		h.badRequest(w, r, errors.New("week must be YYYY-MM-DD"))
		return
	}

	var req struct {
		Version int32 `json:"version" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	draft, err := h.drafts.Publish(role, week, req.Version)
	if err != nil {
		h.rosterError(w, r, err)
		return
	}

	h.successResponse(w, r, "roster published", draft)
}

// proposalTuning overrides the venue defaults field by field. Pointers keep
// an explicit zero (a no-mutation run, say) distinct from an omitted field.
type proposalTuning struct {
	PopulationSize *int32   `json:"populationSize" validate:"omitempty,gte=2"`
	MaxGenerations *int32   `json:"maxGenerations" validate:"omitempty,gte=1"`
	CrossoverRate  *float64 `json:"crossoverRate" validate:"omitempty,gte=0,lte=1"`
	MutationRate   *float64 `json:"mutationRate" validate:"omitempty,gte=0,lte=1"`
	EliteCount     *int32   `json:"eliteCount" validate:"omitempty,gte=0"`
	FairnessWeight *float64 `json:"fairnessWeight" validate:"omitempty,gte=0"`
}

func (t proposalTuning) parameters() *scheduler.Parameters {
	parameters := &scheduler.Parameters{
		PopulationSize: 30,
		MaxGenerations: 120,
		CrossoverRate:  0.85,
		MutationRate:   0.05,
		EliteCount:     2,
		FairnessWeight: 0.5,
	}
	if t.PopulationSize != nil {
		parameters.PopulationSize = *t.PopulationSize
	}
	if t.MaxGenerations != nil {
		parameters.MaxGenerations = *t.MaxGenerations
	}
	if t.CrossoverRate != nil {
		parameters.CrossoverRate = *t.CrossoverRate
	}
	if t.MutationRate != nil {
		parameters.MutationRate = *t.MutationRate
	}
	if t.EliteCount != nil {
		parameters.EliteCount = *t.EliteCount
	}
	if t.FairnessWeight != nil {
		parameters.FairnessWeight = *t.FairnessWeight
	}
	return parameters
}

func (h *Handler) ProposeDraft(w http.ResponseWriter, r *http.Request) {
	role, week, err := draftParams(r)
	if err != nil {
		h.badRequest(w, r, errors.New("week must be YYYY-MM-DD"))
		return
	}

	var req proposalTuning
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	cells, err := h.drafts.Propose(role, week, req.parameters())
	if err != nil {
		h.rosterError(w, r, err)
		return
	}

	h.successResponse(w, r, "proposal generated", cells)
}

func (h *Handler) GetDraftStaffing(w http.ResponseWriter, r *http.Request) {
	role, week, err := draftParams(r)
	if err != nil {
		h.badRequest(w, r, errors.New("week must be YYYY-MM-DD"))
		return
	}

	statuses, err := h.drafts.Staffing(role, week)
	if err != nil {
		h.rosterError(w, r, err)
		return
	}

	h.successResponse(w, r, "draft staffing fetched", statuses)
}
