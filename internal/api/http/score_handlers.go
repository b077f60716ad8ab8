package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/forgepath/forgepath-pbl/internal/artifact"
	"github.com/forgepath/forgepath-pbl/internal/precheck"
	"github.com/forgepath/forgepath-pbl/internal/project"
	"github.com/forgepath/forgepath-pbl/internal/scoring"
)

type artifactScoreResp struct {
	ArtifactID string                   `json:"artifact_id"`
	Composite  int                      `json:"composite_score"`
	Overall    string                   `json:"overall_score,omitempty"`
	Breakdown  []scoring.CriterionScore `json:"breakdown"`
	Graded     bool                     `json:"graded"` // false when no precheck exists yet
}

// GET /artifacts/{artifactID}/score
//
// The composite is not a stored column; it is recomputed from the latest
// precheck result on every read.
func GetArtifactScoreHandler(artifacts artifact.Store, projects project.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "artifactID"))
		a, err := artifacts.GetArtifact(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		criteria, err := precheck.RubricFor(r.Context(), projects, a.SessionID)
		if err != nil {
			http.Error(w, "load rubric: "+err.Error(), http.StatusInternalServerError)
			return
		}
		resp := artifactScoreResp{ArtifactID: id, Breakdown: scoring.Breakdown(nil, criteria)}

		latest, err := artifacts.LatestPrechecks(r.Context(), id, 1)
		if err != nil {
			http.Error(w, "load prechecks: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if len(latest) > 0 {
			p := latest[0]
			resp.Graded = true
			resp.Overall = p.Overall
			scores, ok := scoring.ParseScores(p.RubricScores)
			if ok {
				resp.Composite = scoring.Composite(scores, criteria, p.Overall)
				resp.Breakdown = scoring.Breakdown(scores, criteria)
			} else {
				resp.Composite = scoring.Fallback(p.Overall)
			}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
