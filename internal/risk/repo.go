package risk

import (
	"context"

	"github.com/forgepath/forgepath-pbl/internal/artifact"
	"github.com/forgepath/forgepath-pbl/internal/project"
)

// Store is everything a risk run reads and writes. The read side mirrors the
// project/artifact stores; the write side is append-only assessment history.
type Store interface {
	GetProject(ctx context.Context, id string) (project.Project, error)
	ListSessions(ctx context.Context, projectID string) ([]project.Session, error)
	ListTeams(ctx context.Context, projectID string) ([]project.Team, error)
	ListTeamArtifacts(ctx context.Context, teamID string, sessionIDs []string) ([]artifact.Artifact, error)
	LatestPrechecks(ctx context.Context, artifactID string, n int) ([]artifact.PrecheckResult, error)

	// InsertAssessments appends one batch atomically: all teams' rows land
	// together or the run fails with no writes.
	InsertAssessments(ctx context.Context, rows []TeamRiskAssessment) error
	LatestForTeam(ctx context.Context, teamID string) (TeamRiskAssessment, error)
	LatestForProject(ctx context.Context, projectID string) ([]TeamRiskAssessment, error)
}
