package project

// Project is a multi-session PBL project authored by a creator.
type Project struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CreatorID string `json:"creator_id"`
	StartDate int64  `json:"start_date,omitempty"` // unix seconds; 0 = not scheduled
	EndDate   int64  `json:"end_date,omitempty"`
	CreatedAt int64  `json:"created_at,omitempty"`

	Sessions []Session `json:"sessions,omitempty"`
}

// Session is one ordered stage of a project, with its own rubric.
type Session struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Order     int    `json:"order"`
	Title     string `json:"title"`
	StartDate int64  `json:"start_date,omitempty"`
	EndDate   int64  `json:"end_date,omitempty"`
}

// RubricCriterion is one weighted grading dimension of a session rubric.
// Weights across a session conventionally sum near 100, but that is not
// enforced; the aggregator normalizes by the weights actually scored.
type RubricCriterion struct {
	ID        string  `json:"id"`
	SessionID string  `json:"session_id"`
	Name      string  `json:"name"`
	Weight    float64 `json:"weight"`
	MaxScore  float64 `json:"max_score"`
	Position  int     `json:"position"`
}

// Team groups explorers working on one project.
type Team struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"created_at,omitempty"`
}

type TeamMember struct {
	TeamID     string `json:"team_id"`
	UserID     string `json:"user_id"`
	MemberRole string `json:"member_role"` // "lead" or "member"
}
