package risk

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PrecheckWindow is how many recent precheck results per artifact feed the
// failure-rate signal.
const PrecheckWindow = 5

// Service runs project-wide risk assessments. Per-team computation is pure;
// the only error paths are loading the project/sessions and the final batch
// insert, both all-or-nothing.
type Service struct {
	store  Store
	now    func() time.Time
	window int
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now, window: PrecheckWindow}
}

// WithClock fixes the wall clock, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithWindow overrides how many recent prechecks per artifact are considered.
func (s *Service) WithWindow(n int) *Service {
	if n > 0 {
		s.window = n
	}
	return s
}

// Run classifies every team in the project and appends one assessment row
// per team. Missing or sparse team data degrades to the no-signal defaults;
// it never fails a run.
func (s *Service) Run(ctx context.Context, projectID string) ([]TeamRiskAssessment, error) {
	proj, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	sessions, err := s.store.ListSessions(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}
	teams, err := s.store.ListTeams(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("load teams: %w", err)
	}

	now := s.now()
	sched := Schedule{SessionCount: len(sessions)}
	if proj.StartDate > 0 {
		sched.Start = time.Unix(proj.StartDate, 0)
	}
	if proj.EndDate > 0 {
		sched.End = time.Unix(proj.EndDate, 0)
	}
	sessionIDs := make([]string, len(sessions))
	for i, sess := range sessions {
		sessionIDs[i] = sess.ID
	}

	rows := make([]TeamRiskAssessment, 0, len(teams))
	for _, team := range teams {
		facts, err := s.teamFacts(ctx, team.ID, sessionIDs)
		if err != nil {
			return nil, fmt.Errorf("load team %s: %w", team.ID, err)
		}
		a := Classify(sched, facts, now)
		row := TeamRiskAssessment{
			ID:             uuid.NewString(),
			ProjectID:      projectID,
			TeamID:         team.ID,
			Level:          a.Level,
			Factors:        a.Factors,
			SessionsBehind: a.SessionsBehind,
			FailureRate:    a.FailureRate,
			AssessedAt:     now.Unix(),
		}
		if !a.LastActivity.IsZero() {
			ts := a.LastActivity.Unix()
			row.LastActivityAt = &ts
		}
		rows = append(rows, row)
	}

	if err := s.store.InsertAssessments(ctx, rows); err != nil {
		return nil, fmt.Errorf("insert assessments: %w", err)
	}
	return rows, nil
}

func (s *Service) teamFacts(ctx context.Context, teamID string, sessionIDs []string) ([]ArtifactFact, error) {
	arts, err := s.store.ListTeamArtifacts(ctx, teamID, sessionIDs)
	if err != nil {
		return nil, err
	}
	facts := make([]ArtifactFact, 0, len(arts))
	for _, a := range arts {
		prechecks, err := s.store.LatestPrechecks(ctx, a.ID, s.window)
		if err != nil {
			return nil, err
		}
		f := ArtifactFact{Status: a.Status, UpdatedAt: time.Unix(a.UpdatedAt, 0)}
		if a.UpdatedAt == 0 {
			f.UpdatedAt = time.Time{}
		}
		for _, p := range prechecks {
			f.Prechecks = append(f.Prechecks, PrecheckFact{Overall: p.Overall, CreatedAt: time.Unix(p.CreatedAt, 0)})
		}
		facts = append(facts, f)
	}
	return facts, nil
}

// Current resolves a team's current risk as the max-assessed_at row.
func (s *Service) Current(ctx context.Context, teamID string) (TeamRiskAssessment, error) {
	return s.store.LatestForTeam(ctx, teamID)
}

// Overview resolves the current risk of every team in a project.
func (s *Service) Overview(ctx context.Context, projectID string) ([]TeamRiskAssessment, error) {
	return s.store.LatestForProject(ctx, projectID)
}
