package precheck

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/forgepath/forgepath-pbl/internal/artifact"
	"github.com/forgepath/forgepath-pbl/internal/project"
	"github.com/forgepath/forgepath-pbl/internal/scoring"
)

// Outcome is what one precheck run produced: the stored result plus the
// composite score derived from it. The composite is recomputed on read at
// display sites; it is returned here for immediate response bodies, not
// stored as a column.
type Outcome struct {
	Result    artifact.PrecheckResult  `json:"result"`
	Composite int                      `json:"composite_score"`
	Breakdown []scoring.CriterionScore `json:"breakdown"`
}

// Runner drives one precheck: advance the artifact into precheck_pending,
// call the reviewer, persist the result, advance to precheck_complete.
type Runner struct {
	reviewer  Reviewer
	artifacts artifact.Store
	projects  project.Store
}

func NewRunner(reviewer Reviewer, artifacts artifact.Store, projects project.Store) *Runner {
	return &Runner{reviewer: reviewer, artifacts: artifacts, projects: projects}
}

func (r *Runner) Run(ctx context.Context, artifactID string) (Outcome, error) {
	a, err := r.artifacts.GetArtifact(ctx, artifactID)
	if err != nil {
		return Outcome{}, err
	}
	criteria, err := RubricFor(ctx, r.projects, a.SessionID)
	if err != nil {
		return Outcome{}, fmt.Errorf("load rubric: %w", err)
	}

	if a, err = r.artifacts.SetStatus(ctx, artifactID, artifact.StatusPrecheckPending); err != nil {
		return Outcome{}, err
	}

	res, err := r.reviewer.Review(ctx, Request{
		ArtifactID:    a.ID,
		Title:         a.Title,
		AttachmentKey: a.AttachmentKey,
		Criteria:      criteria,
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("review: %w", err)
	}

	stored := artifact.PrecheckResult{
		ID:         uuid.NewString(),
		ArtifactID: a.ID,
		Overall:    res.Overall,
		Feedback:   res.Feedback,
		CreatedAt:  time.Now().Unix(),
	}
	if len(res.RubricScores) > 0 {
		raw, err := json.Marshal(res.RubricScores)
		if err == nil {
			stored.RubricScores = raw
		}
	}
	if err := r.artifacts.AddPrecheck(ctx, stored); err != nil {
		return Outcome{}, err
	}
	if _, err := r.artifacts.SetStatus(ctx, artifactID, artifact.StatusPrecheckComplete); err != nil {
		return Outcome{}, err
	}

	out := Outcome{Result: stored}
	scores, ok := scoring.ParseScores(stored.RubricScores)
	if !ok {
		out.Composite = scoring.Fallback(stored.Overall)
		out.Breakdown = scoring.Breakdown(nil, criteria)
		return out, nil
	}
	out.Composite = scoring.Composite(scores, criteria, stored.Overall)
	out.Breakdown = scoring.Breakdown(scores, criteria)
	return out, nil
}

// RubricFor loads a session's criteria in the shape the aggregator wants.
func RubricFor(ctx context.Context, projects project.Store, sessionID string) ([]scoring.Criterion, error) {
	rows, err := projects.ListCriteria(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	out := make([]scoring.Criterion, len(rows))
	for i, c := range rows {
		out[i] = scoring.Criterion{ID: c.ID, Name: c.Name, Weight: c.Weight}
	}
	return out, nil
}
