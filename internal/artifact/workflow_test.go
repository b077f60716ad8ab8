package artifact

import (
	"context"
	"errors"
	"strconv"
	"testing"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to string }{
		{StatusDraft, StatusPrecheckPending},
		{StatusDraft, StatusSubmitted},
		{StatusPrecheckPending, StatusPrecheckComplete},
		{StatusPrecheckComplete, StatusPrecheckPending},
		{StatusPrecheckComplete, StatusSubmitted},
		{StatusSubmitted, StatusUnderReview},
		{StatusUnderReview, StatusNeedsRevision},
		{StatusUnderReview, StatusApproved},
		{StatusNeedsRevision, StatusPrecheckPending},
		{StatusNeedsRevision, StatusSubmitted},
	}
	for _, tc := range allowed {
		if !CanTransition(tc.from, tc.to) {
			t.Errorf("%s -> %s should be allowed", tc.from, tc.to)
		}
	}

	denied := []struct{ from, to string }{
		{StatusDraft, StatusApproved},
		{StatusDraft, StatusUnderReview},
		{StatusSubmitted, StatusDraft},
		{StatusSubmitted, StatusPrecheckPending},
		{StatusApproved, StatusSubmitted}, // terminal
		{StatusApproved, StatusDraft},
		{StatusPrecheckPending, StatusSubmitted},
	}
	for _, tc := range denied {
		if CanTransition(tc.from, tc.to) {
			t.Errorf("%s -> %s should be rejected", tc.from, tc.to)
		}
	}
}

func TestMemoryStoreSetStatus(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	if err := store.PutArtifact(ctx, Artifact{ID: "a1", TeamID: "t1", SessionID: "s1", Title: "Draft"}); err != nil {
		t.Fatal(err)
	}

	a, err := store.SetStatus(ctx, "a1", StatusSubmitted)
	if err != nil {
		t.Fatalf("draft -> submitted: %v", err)
	}
	if a.Status != StatusSubmitted {
		t.Errorf("status = %s", a.Status)
	}

	if _, err := store.SetStatus(ctx, "a1", StatusApproved); !errors.Is(err, ErrBadTransition) {
		t.Errorf("submitted -> approved directly: err = %v, want ErrBadTransition", err)
	}
	if _, err := store.SetStatus(ctx, "missing", StatusSubmitted); err == nil {
		t.Error("want error for unknown artifact")
	}
}

func TestMemoryStoreLatestPrechecks(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	if err := store.PutArtifact(ctx, Artifact{ID: "a1", TeamID: "t1", SessionID: "s1"}); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 7; i++ {
		p := PrecheckResult{
			ID:         "pr" + strconv.Itoa(i),
			ArtifactID: "a1",
			Overall:    "ready",
			CreatedAt:  int64(1000 + i),
		}
		if err := store.AddPrecheck(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	out, err := store.LatestPrechecks(ctx, "a1", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 5 {
		t.Fatalf("len = %d, want 5", len(out))
	}
	if out[0].ID != "pr6" {
		t.Errorf("newest first: out[0] = %s, want pr6", out[0].ID)
	}
	for i := 1; i < len(out); i++ {
		if out[i].CreatedAt > out[i-1].CreatedAt {
			t.Errorf("results not newest-first at %d", i)
		}
	}
}

func TestMemoryStorePrecheckTieBreak(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	if err := store.PutArtifact(ctx, Artifact{ID: "a1", TeamID: "t1", SessionID: "s1"}); err != nil {
		t.Fatal(err)
	}
	// two results in the same second: the larger id wins, same as the SQL
	// store's ORDER BY created_at DESC, id DESC
	for _, id := range []string{"pr-b", "pr-a"} {
		p := PrecheckResult{ID: id, ArtifactID: "a1", Overall: "ready", CreatedAt: 1000}
		if err := store.AddPrecheck(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	out, err := store.LatestPrechecks(ctx, "a1", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if out[0].ID != "pr-b" || out[1].ID != "pr-a" {
		t.Errorf("tie-break order = %s, %s; want pr-b, pr-a", out[0].ID, out[1].ID)
	}
}
