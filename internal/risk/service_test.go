package risk

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/forgepath/forgepath-pbl/internal/artifact"
	"github.com/forgepath/forgepath-pbl/internal/project"
)

// fakeStore keeps all run inputs in memory and records every batch passed to
// InsertAssessments.
type fakeStore struct {
	project   project.Project
	sessions  []project.Session
	teams     []project.Team
	artifacts map[string][]artifact.Artifact       // teamID -> artifacts
	prechecks map[string][]artifact.PrecheckResult // artifactID -> newest first

	projectErr error
	insertErr  error
	inserted   [][]TeamRiskAssessment
}

func (f *fakeStore) GetProject(_ context.Context, id string) (project.Project, error) {
	if f.projectErr != nil {
		return project.Project{}, f.projectErr
	}
	if id != f.project.ID {
		return project.Project{}, errors.New("project not found")
	}
	return f.project, nil
}

func (f *fakeStore) ListSessions(_ context.Context, _ string) ([]project.Session, error) {
	return f.sessions, nil
}

func (f *fakeStore) ListTeams(_ context.Context, _ string) ([]project.Team, error) {
	return f.teams, nil
}

func (f *fakeStore) ListTeamArtifacts(_ context.Context, teamID string, _ []string) ([]artifact.Artifact, error) {
	return f.artifacts[teamID], nil
}

func (f *fakeStore) LatestPrechecks(_ context.Context, artifactID string, n int) ([]artifact.PrecheckResult, error) {
	out := f.prechecks[artifactID]
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (f *fakeStore) InsertAssessments(_ context.Context, rows []TeamRiskAssessment) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, rows)
	return nil
}

func (f *fakeStore) LatestForTeam(_ context.Context, teamID string) (TeamRiskAssessment, error) {
	var best *TeamRiskAssessment
	for _, batch := range f.inserted {
		for i, row := range batch {
			if row.TeamID == teamID && (best == nil || row.AssessedAt >= best.AssessedAt) {
				best = &batch[i]
			}
		}
	}
	if best == nil {
		return TeamRiskAssessment{}, errors.New("no assessment")
	}
	return *best, nil
}

func (f *fakeStore) LatestForProject(_ context.Context, projectID string) ([]TeamRiskAssessment, error) {
	var out []TeamRiskAssessment
	for _, t := range f.teams {
		if row, err := f.LatestForTeam(context.Background(), t.ID); err == nil && row.ProjectID == projectID {
			out = append(out, row)
		}
	}
	return out, nil
}

func seededStore(clock time.Time) *fakeStore {
	start := clock.Add(-6 * 24 * time.Hour)
	return &fakeStore{
		project: project.Project{
			ID:        "p1",
			Title:     "Bridge Build",
			StartDate: start.Unix(),
			EndDate:   start.Add(10 * 24 * time.Hour).Unix(),
		},
		sessions: []project.Session{
			{ID: "s1", ProjectID: "p1", Order: 1},
			{ID: "s2", ProjectID: "p1", Order: 2},
			{ID: "s3", ProjectID: "p1", Order: 3},
			{ID: "s4", ProjectID: "p1", Order: 4},
			{ID: "s5", ProjectID: "p1", Order: 5},
		},
		teams: []project.Team{
			{ID: "t1", ProjectID: "p1", Name: "Alpha"},
			{ID: "t2", ProjectID: "p1", Name: "Bravo"},
		},
		artifacts: map[string][]artifact.Artifact{
			"t1": {
				{ID: "a1", TeamID: "t1", SessionID: "s1", Status: artifact.StatusApproved, UpdatedAt: clock.Add(-2 * time.Hour).Unix()},
				{ID: "a2", TeamID: "t1", SessionID: "s2", Status: artifact.StatusSubmitted, UpdatedAt: clock.Add(-1 * time.Hour).Unix()},
				{ID: "a3", TeamID: "t1", SessionID: "s3", Status: artifact.StatusApproved, UpdatedAt: clock.Add(-30 * time.Minute).Unix()},
			},
			// t2 has no artifacts at all
		},
		prechecks: map[string][]artifact.PrecheckResult{
			"a1": {
				{ID: "pr1", ArtifactID: "a1", Overall: "ready", CreatedAt: clock.Add(-3 * time.Hour).Unix()},
				{ID: "pr2", ArtifactID: "a1", Overall: "needs_work", CreatedAt: clock.Add(-4 * time.Hour).Unix()},
			},
		},
	}
}

func TestRunAssessesEveryTeam(t *testing.T) {
	clock := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store := seededStore(clock)
	svc := NewService(store).WithClock(func() time.Time { return clock })

	rows, err := svc.Run(context.Background(), "p1")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("want 2 rows, got %d", len(rows))
	}

	byTeam := map[string]TeamRiskAssessment{}
	for _, r := range rows {
		byTeam[r.TeamID] = r
	}

	t1 := byTeam["t1"]
	if t1.Level != LevelGreen {
		t.Errorf("t1 level = %s, want green (factors %v)", t1.Level, t1.Factors)
	}
	if t1.LastActivityAt == nil || *t1.LastActivityAt != clock.Add(-30*time.Minute).Unix() {
		t.Errorf("t1 last_activity_at = %v", t1.LastActivityAt)
	}
	if t1.FailureRate == nil || *t1.FailureRate != 0 {
		t.Errorf("t1 failure rate = %v, want 0", t1.FailureRate)
	}

	// A team with no artifacts still gets a row: behind schedule (no
	// completions), but no activity or precheck signal.
	t2 := byTeam["t2"]
	if t2.Level != LevelRed {
		t.Errorf("t2 level = %s, want red", t2.Level)
	}
	if t2.SessionsBehind != 3 {
		t.Errorf("t2 sessions_behind = %d, want 3", t2.SessionsBehind)
	}
	if t2.LastActivityAt != nil {
		t.Errorf("t2 last_activity_at = %v, want nil", *t2.LastActivityAt)
	}
	if t2.FailureRate != nil {
		t.Errorf("t2 failure rate = %v, want nil", *t2.FailureRate)
	}

	if len(store.inserted) != 1 {
		t.Fatalf("want 1 insert batch, got %d", len(store.inserted))
	}
}

func TestRunIsDeterministicAndAppendOnly(t *testing.T) {
	clock := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store := seededStore(clock)
	svc := NewService(store).WithClock(func() time.Time { return clock })

	first, err := svc.Run(context.Background(), "p1")
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := svc.Run(context.Background(), "p1")
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if len(store.inserted) != 2 {
		t.Fatalf("want 2 insert batches, got %d", len(store.inserted))
	}
	for i := range first {
		a, b := first[i], second[i]
		if a.ID == b.ID {
			t.Errorf("rows share id %s; every assessment must be a new row", a.ID)
		}
		if a.Level != b.Level {
			t.Errorf("team %s level changed between identical runs: %s vs %s", a.TeamID, a.Level, b.Level)
		}
		if len(a.Factors) != len(b.Factors) {
			t.Errorf("team %s factors changed between identical runs", a.TeamID)
		}
	}
}

func TestRunLoadFailureWritesNothing(t *testing.T) {
	clock := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store := seededStore(clock)
	store.projectErr = errors.New("db down")
	svc := NewService(store).WithClock(func() time.Time { return clock })

	if _, err := svc.Run(context.Background(), "p1"); err == nil {
		t.Fatal("want error when project load fails")
	}
	if len(store.inserted) != 0 {
		t.Fatalf("failed run must not write; got %d batches", len(store.inserted))
	}
}

func TestRunInsertFailureSurfaces(t *testing.T) {
	clock := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store := seededStore(clock)
	store.insertErr = errors.New("tx aborted")
	svc := NewService(store).WithClock(func() time.Time { return clock })

	if _, err := svc.Run(context.Background(), "p1"); err == nil {
		t.Fatal("want error when batch insert fails")
	}
}
