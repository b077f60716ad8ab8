// Package precheck wraps the external AI review step that grades an
// artifact against its session rubric. The transport is an external
// collaborator; this package owns the interface, an offline stub, and the
// runner that persists results.
package precheck

import (
	"context"

	"github.com/forgepath/forgepath-pbl/internal/scoring"
)

// Request carries what the reviewer needs about one artifact.
type Request struct {
	ArtifactID    string
	Title         string
	AttachmentKey string
	Criteria      []scoring.Criterion
}

// Result is the producer's raw output: a qualitative overall category,
// optional per-criterion scores keyed by criterion id or display name
// (upstream producers are inconsistent about which), and feedback items.
type Result struct {
	Overall      string
	RubricScores map[string]float64
	Feedback     []string
}

// Reviewer is the AI precheck call. Implementations may block on network
// I/O and must honor ctx.
type Reviewer interface {
	Review(ctx context.Context, req Request) (Result, error)
}
