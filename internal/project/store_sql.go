package project

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"
)

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) PutProject(ctx context.Context, p Project) error {
	created := p.CreatedAt
	if created == 0 {
		created = time.Now().Unix()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (id,title,creator_id,start_date,end_date,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, start_date=EXCLUDED.start_date, end_date=EXCLUDED.end_date`,
		p.ID, p.Title, p.CreatorID, p.StartDate, p.EndDate, created)
	return err
}

func (s *SQLStore) GetProject(ctx context.Context, id string) (Project, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,title,creator_id,start_date,end_date,created_at FROM projects WHERE id=$1`, id)
	var p Project
	if err := row.Scan(&p.ID, &p.Title, &p.CreatorID, &p.StartDate, &p.EndDate, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Project{}, errors.New("project not found")
		}
		return Project{}, err
	}
	return p, nil
}

func (s *SQLStore) ListProjects(ctx context.Context, opts ListOpts) ([]Project, error) {
	limit := opts.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := `SELECT id,title,creator_id,start_date,end_date,created_at FROM projects WHERE 1=1`
	args := []any{}
	i := 1
	if opts.CreatorID != "" {
		q += ` AND creator_id=$` + strconv.Itoa(i)
		args = append(args, opts.CreatorID)
		i++
	}
	if opts.Q != "" {
		q += ` AND title LIKE $` + strconv.Itoa(i)
		args = append(args, "%"+opts.Q+"%")
		i++
	}
	q += ` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(i) + ` OFFSET $` + strconv.Itoa(i+1)
	args = append(args, limit, opts.Offset)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Title, &p.CreatorID, &p.StartDate, &p.EndDate, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLStore) PutSession(ctx context.Context, sess Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id,project_id,ord,title,start_date,end_date)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 ON CONFLICT (id) DO UPDATE SET ord=EXCLUDED.ord, title=EXCLUDED.title, start_date=EXCLUDED.start_date, end_date=EXCLUDED.end_date`,
		sess.ID, sess.ProjectID, sess.Order, sess.Title, sess.StartDate, sess.EndDate)
	return err
}

func (s *SQLStore) ListSessions(ctx context.Context, projectID string) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,project_id,ord,title,start_date,end_date FROM sessions WHERE project_id=$1 ORDER BY ord`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Session
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.ProjectID, &sess.Order, &sess.Title, &sess.StartDate, &sess.EndDate); err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

func (s *SQLStore) PutCriterion(ctx context.Context, c RubricCriterion) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rubric_criteria (id,session_id,name,weight,max_score,position)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name, weight=EXCLUDED.weight, max_score=EXCLUDED.max_score, position=EXCLUDED.position`,
		c.ID, c.SessionID, c.Name, c.Weight, c.MaxScore, c.Position)
	return err
}

func (s *SQLStore) ListCriteria(ctx context.Context, sessionID string) ([]RubricCriterion, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,session_id,name,weight,max_score,position FROM rubric_criteria WHERE session_id=$1 ORDER BY position`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []RubricCriterion
	for rows.Next() {
		var c RubricCriterion
		if err := rows.Scan(&c.ID, &c.SessionID, &c.Name, &c.Weight, &c.MaxScore, &c.Position); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLStore) PutTeam(ctx context.Context, t Team) error {
	created := t.CreatedAt
	if created == 0 {
		created = time.Now().Unix()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO teams (id,project_id,name,created_at) VALUES ($1,$2,$3,$4)
		 ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name`,
		t.ID, t.ProjectID, t.Name, created)
	return err
}

func (s *SQLStore) GetTeam(ctx context.Context, id string) (Team, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,project_id,name,created_at FROM teams WHERE id=$1`, id)
	var t Team
	if err := row.Scan(&t.ID, &t.ProjectID, &t.Name, &t.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Team{}, errors.New("team not found")
		}
		return Team{}, err
	}
	return t, nil
}

func (s *SQLStore) ListTeams(ctx context.Context, projectID string) ([]Team, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,project_id,name,created_at FROM teams WHERE project_id=$1 ORDER BY created_at`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Team
	for rows.Next() {
		var t Team
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.Name, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLStore) AddMember(ctx context.Context, m TeamMember) error {
	role := m.MemberRole
	if role == "" {
		role = "member"
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO team_members (team_id,user_id,member_role) VALUES ($1,$2,$3)
		 ON CONFLICT (team_id,user_id) DO UPDATE SET member_role=EXCLUDED.member_role`,
		m.TeamID, m.UserID, role)
	return err
}

func (s *SQLStore) ListMembers(ctx context.Context, teamID string) ([]TeamMember, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT team_id,user_id,member_role FROM team_members WHERE team_id=$1 ORDER BY user_id`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TeamMember
	for rows.Next() {
		var m TeamMember
		if err := rows.Scan(&m.TeamID, &m.UserID, &m.MemberRole); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
