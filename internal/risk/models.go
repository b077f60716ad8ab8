package risk

// TeamRiskAssessment is one historical risk record for a team. Rows are
// append-only; the current risk for a team is its max-assessed_at row.
type TeamRiskAssessment struct {
	ID             string   `json:"id"`
	ProjectID      string   `json:"project_id"`
	TeamID         string   `json:"team_id"`
	Level          Level    `json:"risk_level"`
	Factors        []string `json:"risk_factors"`
	LastActivityAt *int64   `json:"last_activity_at"` // unix seconds, nil when the team has no artifacts
	SessionsBehind int      `json:"sessions_behind"`
	FailureRate    *int     `json:"precheck_failure_rate"` // 0-100, nil when no precheck history
	AssessedAt     int64    `json:"assessed_at"`
}
