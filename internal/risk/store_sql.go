package risk

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/forgepath/forgepath-pbl/internal/artifact"
	"github.com/forgepath/forgepath-pbl/internal/project"
)

// SQLStore implements Store over the shared relational schema, delegating
// the read side to the project/artifact stores.
type SQLStore struct {
	db        *sql.DB
	driver    string
	projects  project.Store
	artifacts artifact.Store
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{
		db:        db,
		driver:    driver,
		projects:  project.NewSQLStore(db, driver),
		artifacts: artifact.NewSQLStore(db, driver),
	}
}

func (s *SQLStore) GetProject(ctx context.Context, id string) (project.Project, error) {
	return s.projects.GetProject(ctx, id)
}

func (s *SQLStore) ListSessions(ctx context.Context, projectID string) ([]project.Session, error) {
	return s.projects.ListSessions(ctx, projectID)
}

func (s *SQLStore) ListTeams(ctx context.Context, projectID string) ([]project.Team, error) {
	return s.projects.ListTeams(ctx, projectID)
}

func (s *SQLStore) ListTeamArtifacts(ctx context.Context, teamID string, sessionIDs []string) ([]artifact.Artifact, error) {
	return s.artifacts.ListByTeamSessions(ctx, teamID, sessionIDs)
}

func (s *SQLStore) LatestPrechecks(ctx context.Context, artifactID string, n int) ([]artifact.PrecheckResult, error) {
	return s.artifacts.LatestPrechecks(ctx, artifactID, n)
}

func (s *SQLStore) InsertAssessments(ctx context.Context, rows []TeamRiskAssessment) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, r := range rows {
		factors, err := json.Marshal(r.Factors)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO team_risk_assessments
			   (id,project_id,team_id,risk_level,risk_factors_json,last_activity_at,sessions_behind,precheck_failure_rate,assessed_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			r.ID, r.ProjectID, r.TeamID, string(r.Level), string(factors),
			nullableInt64(r.LastActivityAt), r.SessionsBehind, nullableInt(r.FailureRate), r.AssessedAt,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLStore) LatestForTeam(ctx context.Context, teamID string) (TeamRiskAssessment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,project_id,team_id,risk_level,risk_factors_json,last_activity_at,sessions_behind,precheck_failure_rate,assessed_at
		 FROM team_risk_assessments WHERE team_id=$1 ORDER BY assessed_at DESC, id DESC LIMIT 1`, teamID)
	a, err := scanAssessment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TeamRiskAssessment{}, errors.New("no assessment for team")
		}
		return TeamRiskAssessment{}, err
	}
	return a, nil
}

func (s *SQLStore) LatestForProject(ctx context.Context, projectID string) ([]TeamRiskAssessment, error) {
	// latest row per team
	rows, err := s.db.QueryContext(ctx,
		`SELECT a.id,a.project_id,a.team_id,a.risk_level,a.risk_factors_json,a.last_activity_at,a.sessions_behind,a.precheck_failure_rate,a.assessed_at
		 FROM team_risk_assessments a
		 JOIN (SELECT team_id, MAX(assessed_at) AS max_at FROM team_risk_assessments WHERE project_id=$1 GROUP BY team_id) m
		   ON a.team_id=m.team_id AND a.assessed_at=m.max_at
		 WHERE a.project_id=$1
		 ORDER BY a.team_id, a.id DESC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TeamRiskAssessment
	seen := map[string]bool{}
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		if seen[a.TeamID] { // two runs in the same second: keep one row per team
			continue
		}
		seen[a.TeamID] = true
		out = append(out, a)
	}
	return out, rows.Err()
}

type rowScanner interface{ Scan(dest ...any) error }

func scanAssessment(row rowScanner) (TeamRiskAssessment, error) {
	var a TeamRiskAssessment
	var level, factors string
	var lastAct sql.NullInt64
	var rate sql.NullInt64
	if err := row.Scan(&a.ID, &a.ProjectID, &a.TeamID, &level, &factors, &lastAct, &a.SessionsBehind, &rate, &a.AssessedAt); err != nil {
		return TeamRiskAssessment{}, err
	}
	a.Level = Level(level)
	a.Factors = []string{}
	_ = json.Unmarshal([]byte(factors), &a.Factors)
	if lastAct.Valid {
		v := lastAct.Int64
		a.LastActivityAt = &v
	}
	if rate.Valid {
		v := int(rate.Int64)
		a.FailureRate = &v
	}
	return a, nil
}

func nullableInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
