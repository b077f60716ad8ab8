package artifact

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) PutArtifact(ctx context.Context, a Artifact) error {
	now := time.Now().Unix()
	created := a.CreatedAt
	if created == 0 {
		created = now
	}
	updated := a.UpdatedAt
	if updated == 0 {
		updated = now
	}
	status := a.Status
	if status == "" {
		status = StatusDraft
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO artifacts (id,team_id,session_id,user_id,title,status,attachment_key,created_at,updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		 ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, updated_at=EXCLUDED.updated_at`,
		a.ID, a.TeamID, a.SessionID, a.UserID, a.Title, status, a.AttachmentKey, created, updated)
	return err
}

func (s *SQLStore) GetArtifact(ctx context.Context, id string) (Artifact, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,team_id,session_id,user_id,title,status,attachment_key,created_at,updated_at
		 FROM artifacts WHERE id=$1`, id)
	return scanArtifact(row)
}

func (s *SQLStore) ListByTeam(ctx context.Context, teamID string) ([]Artifact, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,team_id,session_id,user_id,title,status,attachment_key,created_at,updated_at
		 FROM artifacts WHERE team_id=$1 ORDER BY created_at`, teamID)
	if err != nil {
		return nil, err
	}
	return collectArtifacts(rows)
}

func (s *SQLStore) ListByTeamSessions(ctx context.Context, teamID string, sessionIDs []string) ([]Artifact, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	ph := make([]string, len(sessionIDs))
	args := []any{teamID}
	for i, id := range sessionIDs {
		ph[i] = "$" + strconv.Itoa(i+2)
		args = append(args, id)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,team_id,session_id,user_id,title,status,attachment_key,created_at,updated_at
		 FROM artifacts WHERE team_id=$1 AND session_id IN (`+strings.Join(ph, ",")+`) ORDER BY created_at`,
		args...)
	if err != nil {
		return nil, err
	}
	return collectArtifacts(rows)
}

func (s *SQLStore) SetStatus(ctx context.Context, id, status string) (Artifact, error) {
	a, err := s.GetArtifact(ctx, id)
	if err != nil {
		return Artifact{}, err
	}
	if !CanTransition(a.Status, status) {
		return Artifact{}, ErrBadTransition
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE artifacts SET status=$1, updated_at=$2 WHERE id=$3`,
		status, time.Now().Unix(), id)
	if err != nil {
		return Artifact{}, err
	}
	return s.GetArtifact(ctx, id)
}

func (s *SQLStore) SetAttachment(ctx context.Context, id, key string) (Artifact, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE artifacts SET attachment_key=$1, updated_at=$2 WHERE id=$3`,
		key, time.Now().Unix(), id)
	if err != nil {
		return Artifact{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Artifact{}, errors.New("artifact not found")
	}
	return s.GetArtifact(ctx, id)
}

func (s *SQLStore) AddPrecheck(ctx context.Context, p PrecheckResult) error {
	created := p.CreatedAt
	if created == 0 {
		created = time.Now().Unix()
	}
	var scores any
	if len(p.RubricScores) > 0 {
		scores = string(p.RubricScores)
	}
	fb, _ := json.Marshal(p.Feedback)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO precheck_results (id,artifact_id,overall_score,rubric_scores_json,feedback_json,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		p.ID, p.ArtifactID, p.Overall, scores, string(fb), created)
	return err
}

func (s *SQLStore) LatestPrechecks(ctx context.Context, artifactID string, n int) ([]PrecheckResult, error) {
	if n <= 0 {
		n = 5
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,artifact_id,overall_score,rubric_scores_json,feedback_json,created_at
		 FROM precheck_results WHERE artifact_id=$1 ORDER BY created_at DESC, id DESC LIMIT $2`,
		artifactID, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []PrecheckResult
	for rows.Next() {
		var p PrecheckResult
		var scores sql.NullString
		var fb string
		if err := rows.Scan(&p.ID, &p.ArtifactID, &p.Overall, &scores, &fb, &p.CreatedAt); err != nil {
			return nil, err
		}
		if scores.Valid && scores.String != "" {
			p.RubricScores = json.RawMessage(scores.String)
		}
		// feedback is display-only; a malformed row degrades to none
		_ = json.Unmarshal([]byte(fb), &p.Feedback)
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface{ Scan(dest ...any) error }

func scanArtifact(row rowScanner) (Artifact, error) {
	var a Artifact
	var key sql.NullString
	err := row.Scan(&a.ID, &a.TeamID, &a.SessionID, &a.UserID, &a.Title, &a.Status, &key, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Artifact{}, errors.New("artifact not found")
		}
		return Artifact{}, err
	}
	a.AttachmentKey = key.String
	return a, nil
}

func collectArtifacts(rows *sql.Rows) ([]Artifact, error) {
	defer rows.Close()
	var out []Artifact
	for rows.Next() {
		a, err := scanArtifact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
