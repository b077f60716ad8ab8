package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/forgepath/forgepath-pbl/internal/artifact"
	"github.com/forgepath/forgepath-pbl/internal/audit"
	"github.com/forgepath/forgepath-pbl/internal/metrics"
	"github.com/forgepath/forgepath-pbl/internal/precheck"
)

// POST /artifacts/{artifactID}/precheck
func RunPrecheckHandler(runner *precheck.Runner, events *audit.EventRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "artifactID"))
		if id == "" {
			http.Error(w, "artifactID required", http.StatusBadRequest)
			return
		}
		out, err := runner.Run(r.Context(), id)
		if err != nil {
			http.Error(w, "precheck: "+err.Error(), http.StatusInternalServerError)
			return
		}
		metrics.PrecheckRuns.WithLabelValues(out.Result.Overall).Inc()
		if events != nil {
			_ = events.Append(r.Context(), audit.TypePrecheckCompleted, id,
				map[string]any{"overall": out.Result.Overall, "composite": out.Composite})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// GET /artifacts/{artifactID}/prechecks?limit=5
func ListPrechecksHandler(store artifact.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "artifactID"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		out, err := store.LatestPrechecks(r.Context(), id, limit)
		if err != nil {
			http.Error(w, "list prechecks: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if out == nil {
			out = []artifact.PrecheckResult{}
		}
		writeJSON(w, http.StatusOK, out)
	}
}
