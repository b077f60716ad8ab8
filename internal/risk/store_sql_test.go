package risk

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/forgepath/forgepath-pbl/internal/artifact"
	"github.com/forgepath/forgepath-pbl/internal/db"
	"github.com/forgepath/forgepath-pbl/internal/project"
)

func openTestDB(t *testing.T) *SQLStore {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	dbh, err := db.Open(ctx, db.DriverSQLite, "file:"+filepath.Join(t.TempDir(), "risk.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { dbh.Close() })
	return NewSQLStore(dbh, "sqlite")
}

func seedSQL(t *testing.T, store *SQLStore, clock time.Time) {
	t.Helper()
	ctx := context.Background()
	projects := store.projects
	artifacts := store.artifacts

	start := clock.Add(-6 * 24 * time.Hour)
	if err := projects.PutProject(ctx, project.Project{
		ID:        "p1",
		Title:     "Solar Car",
		CreatorID: "creator-1",
		StartDate: start.Unix(),
		EndDate:   start.Add(10 * 24 * time.Hour).Unix(),
	}); err != nil {
		t.Fatalf("put project: %v", err)
	}
	for i := 1; i <= 5; i++ {
		if err := projects.PutSession(ctx, project.Session{
			ID: "s" + strconv.Itoa(i), ProjectID: "p1", Order: i, Title: "Session",
		}); err != nil {
			t.Fatalf("put session: %v", err)
		}
	}
	for _, team := range []project.Team{
		{ID: "t1", ProjectID: "p1", Name: "Alpha"},
		{ID: "t2", ProjectID: "p1", Name: "Bravo"},
	} {
		if err := projects.PutTeam(ctx, team); err != nil {
			t.Fatalf("put team: %v", err)
		}
	}

	arts := []artifact.Artifact{
		{ID: "a1", TeamID: "t1", SessionID: "s1", UserID: "u1", Title: "Plan", Status: artifact.StatusApproved, UpdatedAt: clock.Add(-2 * time.Hour).Unix()},
		{ID: "a2", TeamID: "t1", SessionID: "s2", UserID: "u1", Title: "Chassis", Status: artifact.StatusSubmitted, UpdatedAt: clock.Add(-1 * time.Hour).Unix()},
		{ID: "a3", TeamID: "t1", SessionID: "s3", UserID: "u2", Title: "Wiring", Status: artifact.StatusApproved, UpdatedAt: clock.Add(-30 * time.Minute).Unix()},
	}
	for _, a := range arts {
		a.CreatedAt = a.UpdatedAt
		if err := artifacts.PutArtifact(context.Background(), a); err != nil {
			t.Fatalf("put artifact: %v", err)
		}
	}
	for i, overall := range []string{"ready", "needs_work", "critical_issues"} {
		p := artifact.PrecheckResult{
			ID: "pr" + strconv.Itoa(i), ArtifactID: "a1", Overall: overall,
			CreatedAt: clock.Add(-time.Duration(i+1) * time.Hour).Unix(),
		}
		if err := artifacts.AddPrecheck(ctx, p); err != nil {
			t.Fatalf("add precheck: %v", err)
		}
	}
}

func TestSQLStoreEndToEnd(t *testing.T) {
	store := openTestDB(t)
	clock := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	seedSQL(t, store, clock)

	svc := NewService(store).WithClock(func() time.Time { return clock })
	rows, err := svc.Run(context.Background(), "p1")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("want 2 assessments, got %d", len(rows))
	}

	cur, err := svc.Current(context.Background(), "t1")
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	// 1 of 3 pooled prechecks critical -> 33%, elevated -> yellow
	if cur.Level != LevelYellow {
		t.Errorf("t1 level = %s, want yellow (factors %v)", cur.Level, cur.Factors)
	}
	if cur.FailureRate == nil || *cur.FailureRate != 33 {
		t.Errorf("t1 failure rate = %v, want 33", cur.FailureRate)
	}
	if len(cur.Factors) != 1 || cur.Factors[0] != "Elevated precheck failure rate (33%)" {
		t.Errorf("t1 factors = %v", cur.Factors)
	}
}

func TestSQLStoreCurrentTracksLatestRun(t *testing.T) {
	store := openTestDB(t)
	clock := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	seedSQL(t, store, clock)

	svc := NewService(store).WithClock(func() time.Time { return clock })
	if _, err := svc.Run(context.Background(), "p1"); err != nil {
		t.Fatalf("first run: %v", err)
	}

	later := clock.Add(time.Hour)
	svc.WithClock(func() time.Time { return later })
	second, err := svc.Run(context.Background(), "p1")
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	cur, err := svc.Current(context.Background(), "t1")
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if cur.AssessedAt != later.Unix() {
		t.Errorf("current assessed_at = %d, want %d (latest run)", cur.AssessedAt, later.Unix())
	}
	var wantID string
	for _, r := range second {
		if r.TeamID == "t1" {
			wantID = r.ID
		}
	}
	if cur.ID != wantID {
		t.Errorf("current id = %s, want %s", cur.ID, wantID)
	}
}

func TestSQLStoreOverviewOneRowPerTeam(t *testing.T) {
	store := openTestDB(t)
	clock := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	seedSQL(t, store, clock)

	svc := NewService(store).WithClock(func() time.Time { return clock })
	if _, err := svc.Run(context.Background(), "p1"); err != nil {
		t.Fatalf("first run: %v", err)
	}
	// same second: the overview must still dedup to one row per team
	if _, err := svc.Run(context.Background(), "p1"); err != nil {
		t.Fatalf("second run: %v", err)
	}

	rows, err := svc.Overview(context.Background(), "p1")
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("want 2 rows, got %d", len(rows))
	}
	seen := map[string]bool{}
	for _, r := range rows {
		if seen[r.TeamID] {
			t.Errorf("duplicate team %s in overview", r.TeamID)
		}
		seen[r.TeamID] = true
	}

	// null columns survive the round trip for the artifact-less team
	for _, r := range rows {
		if r.TeamID == "t2" {
			if r.LastActivityAt != nil {
				t.Errorf("t2 last_activity_at = %v, want nil", *r.LastActivityAt)
			}
			if r.FailureRate != nil {
				t.Errorf("t2 failure rate = %v, want nil", *r.FailureRate)
			}
			if len(r.Factors) == 0 {
				t.Error("t2 factors empty, want behind-schedule factor")
			}
		}
	}
}
