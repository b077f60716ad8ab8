package http

import (
	"net/http"
	"strconv"

	"github.com/forgepath/forgepath-pbl/internal/audit"
)

// GET /events?limit=100 is the admin view over the append-only event log.
func ListEventsHandler(events *audit.EventRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		out, err := events.Recent(r.Context(), limit)
		if err != nil {
			http.Error(w, "list events: "+err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}
