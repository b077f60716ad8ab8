package precheck

import (
	"context"
	"hash/fnv"

	"github.com/forgepath/forgepath-pbl/internal/scoring"
)

// DummyReviewer is a deterministic offline stand-in for the AI reviewer:
// per-criterion scores are derived from a hash of artifact id + criterion
// name, so repeated runs over the same artifact agree. Useful for dev mode
// and tests; never for production.
type DummyReviewer struct{}

func NewDummyReviewer() *DummyReviewer { return &DummyReviewer{} }

func (d *DummyReviewer) Review(_ context.Context, req Request) (Result, error) {
	res := Result{RubricScores: map[string]float64{}}
	var sum float64
	for _, c := range req.Criteria {
		score := float64(50 + hash32(req.ArtifactID+"|"+c.Name)%51) // 50..100
		res.RubricScores[c.ID] = score
		sum += score
	}
	mean := 0.0
	if len(req.Criteria) > 0 {
		mean = sum / float64(len(req.Criteria))
	}
	switch {
	case len(req.Criteria) == 0:
		res.Overall = scoring.OverallNeedsWork
		res.RubricScores = nil
		res.Feedback = []string{"No rubric criteria defined for this session."}
	case mean >= 80:
		res.Overall = scoring.OverallReady
		res.Feedback = []string{"Looks ready to submit."}
	case mean >= 55:
		res.Overall = scoring.OverallNeedsWork
		res.Feedback = []string{"Solid draft; tighten the weaker criteria before submitting."}
	default:
		res.Overall = scoring.OverallCriticalIssues
		res.Feedback = []string{"Several criteria score low; revise before submitting."}
	}
	return res, nil
}

func hash32(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}
