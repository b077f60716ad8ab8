package artifact

import (
	"context"
	"errors"
)

// ErrBadTransition is returned by SetStatus for a move the workflow table
// does not allow.
var ErrBadTransition = errors.New("status transition not allowed")

type Store interface {
	PutArtifact(ctx context.Context, a Artifact) error
	GetArtifact(ctx context.Context, id string) (Artifact, error)
	ListByTeam(ctx context.Context, teamID string) ([]Artifact, error)
	ListByTeamSessions(ctx context.Context, teamID string, sessionIDs []string) ([]Artifact, error)

	// SetStatus applies a workflow transition and touches updated_at.
	SetStatus(ctx context.Context, id, status string) (Artifact, error)
	SetAttachment(ctx context.Context, id, key string) (Artifact, error)

	AddPrecheck(ctx context.Context, p PrecheckResult) error
	// LatestPrechecks returns up to n results, newest first.
	LatestPrechecks(ctx context.Context, artifactID string, n int) ([]PrecheckResult, error)
}
