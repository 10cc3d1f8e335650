package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/roster"
)

// parseWeekParam reads the {week} URL parameter as a calendar date. The
// services reject dates that are not Mondays, the handler only parses.
func parseWeekParam(r *http.Request) (time.Time, error) {
	return roster.ParseDate(chi.URLParam(r, "week"))
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
