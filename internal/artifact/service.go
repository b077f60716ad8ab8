package artifact

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

type memoryStore struct {
	mu        sync.RWMutex
	artifacts map[string]Artifact
	prechecks map[string][]PrecheckResult // artifactID -> results, append order
}

func NewInMemoryStore() Store {
	return &memoryStore{
		artifacts: map[string]Artifact{},
		prechecks: map[string][]PrecheckResult{},
	}
}

func (m *memoryStore) PutArtifact(_ context.Context, a Artifact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().Unix()
	if a.CreatedAt == 0 {
		a.CreatedAt = now
	}
	if a.UpdatedAt == 0 {
		a.UpdatedAt = now
	}
	if a.Status == "" {
		a.Status = StatusDraft
	}
	m.artifacts[a.ID] = a
	return nil
}

func (m *memoryStore) GetArtifact(_ context.Context, id string) (Artifact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.artifacts[id]
	if !ok {
		return Artifact{}, errors.New("artifact not found")
	}
	return a, nil
}

func (m *memoryStore) ListByTeam(_ context.Context, teamID string) ([]Artifact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Artifact
	for _, a := range m.artifacts {
		if a.TeamID == teamID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt < out[j].CreatedAt })
	return out, nil
}

func (m *memoryStore) ListByTeamSessions(_ context.Context, teamID string, sessionIDs []string) ([]Artifact, error) {
	in := make(map[string]bool, len(sessionIDs))
	for _, id := range sessionIDs {
		in[id] = true
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Artifact
	for _, a := range m.artifacts {
		if a.TeamID == teamID && in[a.SessionID] {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt < out[j].CreatedAt })
	return out, nil
}

func (m *memoryStore) SetStatus(_ context.Context, id, status string) (Artifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.artifacts[id]
	if !ok {
		return Artifact{}, errors.New("artifact not found")
	}
	if !CanTransition(a.Status, status) {
		return Artifact{}, ErrBadTransition
	}
	a.Status = status
	a.UpdatedAt = time.Now().Unix()
	m.artifacts[id] = a
	return a, nil
}

func (m *memoryStore) SetAttachment(_ context.Context, id, key string) (Artifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.artifacts[id]
	if !ok {
		return Artifact{}, errors.New("artifact not found")
	}
	a.AttachmentKey = key
	a.UpdatedAt = time.Now().Unix()
	m.artifacts[id] = a
	return a, nil
}

func (m *memoryStore) AddPrecheck(_ context.Context, p PrecheckResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.CreatedAt == 0 {
		p.CreatedAt = time.Now().Unix()
	}
	m.prechecks[p.ArtifactID] = append(m.prechecks[p.ArtifactID], p)
	return nil
}

func (m *memoryStore) LatestPrechecks(_ context.Context, artifactID string, n int) ([]PrecheckResult, error) {
	if n <= 0 {
		n = 5
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := m.prechecks[artifactID]
	out := make([]PrecheckResult, len(all))
	copy(out, all)
	// newest first; id breaks created_at ties, matching the SQL store
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}
