package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/forgepath/forgepath-pbl/internal/audit"
	"github.com/forgepath/forgepath-pbl/internal/metrics"
	"github.com/forgepath/forgepath-pbl/internal/risk"
)

// POST /projects/{projectID}/risk
//
// Runs the classifier for every team in the project and appends one
// assessment row per team. Append-only: re-runs add history, never mutate.
func RunRiskHandler(svc *risk.Service, events *audit.EventRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := strings.TrimSpace(chi.URLParam(r, "projectID"))
		if projectID == "" {
			http.Error(w, "projectID required", http.StatusBadRequest)
			return
		}
		rows, err := svc.Run(r.Context(), projectID)
		if err != nil {
			metrics.RiskRuns.WithLabelValues("error").Inc()
			http.Error(w, "failed to calculate risk: "+err.Error(), http.StatusInternalServerError)
			return
		}
		metrics.RiskRuns.WithLabelValues("ok").Inc()
		for _, row := range rows {
			metrics.Assessments.WithLabelValues(string(row.Level)).Inc()
		}
		if events != nil {
			_ = events.Append(r.Context(), audit.TypeRiskRunCompleted, projectID,
				map[string]int{"teams": len(rows)})
		}
		writeJSON(w, http.StatusOK, rows)
	}
}

// GET /projects/{projectID}/risk returns the current assessment per team.
func ProjectRiskHandler(svc *risk.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := strings.TrimSpace(chi.URLParam(r, "projectID"))
		rows, err := svc.Overview(r.Context(), projectID)
		if err != nil {
			http.Error(w, "risk overview: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if rows == nil {
			rows = []risk.TeamRiskAssessment{}
		}
		writeJSON(w, http.StatusOK, rows)
	}
}

// GET /teams/{teamID}/risk returns the team's max-assessed_at row.
func TeamRiskHandler(svc *risk.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID := strings.TrimSpace(chi.URLParam(r, "teamID"))
		row, err := svc.Current(r.Context(), teamID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, row)
	}
}
