package artifact

import "encoding/json"

// Artifact workflow statuses. Transitions are driven by handlers; the risk
// and scoring cores only read status and updated_at.
const (
	StatusDraft            = "draft"
	StatusPrecheckPending  = "precheck_pending"
	StatusPrecheckComplete = "precheck_complete"
	StatusSubmitted        = "submitted"
	StatusUnderReview      = "under_review"
	StatusNeedsRevision    = "needs_revision"
	StatusApproved         = "approved"
)

var transitions = map[string][]string{
	StatusDraft:            {StatusPrecheckPending, StatusSubmitted},
	StatusPrecheckPending:  {StatusPrecheckComplete},
	StatusPrecheckComplete: {StatusPrecheckPending, StatusSubmitted},
	StatusSubmitted:        {StatusUnderReview},
	StatusUnderReview:      {StatusNeedsRevision, StatusApproved},
	StatusNeedsRevision:    {StatusPrecheckPending, StatusSubmitted},
}

// CanTransition reports whether the workflow allows from -> to.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Artifact is a team's deliverable for one project session.
type Artifact struct {
	ID            string `json:"id"`
	TeamID        string `json:"team_id"`
	SessionID     string `json:"session_id"`
	UserID        string `json:"user_id"`
	Title         string `json:"title"`
	Status        string `json:"status"`
	AttachmentKey string `json:"attachment_key,omitempty"`
	CreatedAt     int64  `json:"created_at,omitempty"`
	UpdatedAt     int64  `json:"updated_at,omitempty"`
}

// PrecheckResult is one AI precheck run over an artifact. RubricScores is
// the producer's raw JSON object (criterion id or name -> number) and may be
// absent or malformed; consumers parse it defensively. One artifact
// accumulates many results; the latest by created_at is authoritative for
// current-score displays.
type PrecheckResult struct {
	ID           string          `json:"id"`
	ArtifactID   string          `json:"artifact_id"`
	Overall      string          `json:"overall_score"` // ready|needs_work|critical_issues
	RubricScores json.RawMessage `json:"rubric_scores,omitempty"`
	Feedback     []string        `json:"feedback,omitempty"`
	CreatedAt    int64           `json:"created_at"`
}
