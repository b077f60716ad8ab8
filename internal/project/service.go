package project

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

// memoryStore backs offline/dev runs and tests; same contract as SQLStore.
type memoryStore struct {
	mu       sync.RWMutex
	projects map[string]Project
	sessions map[string]Session
	criteria map[string]RubricCriterion
	teams    map[string]Team
	members  map[string][]TeamMember // teamID -> members
}

func NewInMemoryStore() Store {
	return &memoryStore{
		projects: map[string]Project{},
		sessions: map[string]Session{},
		criteria: map[string]RubricCriterion{},
		teams:    map[string]Team{},
		members:  map[string][]TeamMember{},
	}
}

func (m *memoryStore) PutProject(_ context.Context, p Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.CreatedAt == 0 {
		p.CreatedAt = time.Now().Unix()
	}
	p.Sessions = nil
	m.projects[p.ID] = p
	return nil
}

func (m *memoryStore) GetProject(_ context.Context, id string) (Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.projects[id]
	if !ok {
		return Project{}, errors.New("project not found")
	}
	return p, nil
}

func (m *memoryStore) ListProjects(_ context.Context, opts ListOpts) ([]Project, error) {
	limit := opts.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Project
	for _, p := range m.projects {
		if opts.CreatorID != "" && p.CreatorID != opts.CreatorID {
			continue
		}
		if opts.Q != "" && !strings.Contains(p.Title, opts.Q) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	if opts.Offset > 0 {
		if opts.Offset >= len(out) {
			return nil, nil
		}
		out = out[opts.Offset:]
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryStore) PutSession(_ context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memoryStore) ListSessions(_ context.Context, projectID string) ([]Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Session
	for _, s := range m.sessions {
		if s.ProjectID == projectID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (m *memoryStore) PutCriterion(_ context.Context, c RubricCriterion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.criteria[c.ID] = c
	return nil
}

func (m *memoryStore) ListCriteria(_ context.Context, sessionID string) ([]RubricCriterion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []RubricCriterion
	for _, c := range m.criteria {
		if c.SessionID == sessionID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (m *memoryStore) PutTeam(_ context.Context, t Team) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.CreatedAt == 0 {
		t.CreatedAt = time.Now().Unix()
	}
	m.teams[t.ID] = t
	return nil
}

func (m *memoryStore) GetTeam(_ context.Context, id string) (Team, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.teams[id]
	if !ok {
		return Team{}, errors.New("team not found")
	}
	return t, nil
}

func (m *memoryStore) ListTeams(_ context.Context, projectID string) ([]Team, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Team
	for _, t := range m.teams {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt < out[j].CreatedAt })
	return out, nil
}

func (m *memoryStore) AddMember(_ context.Context, mem TeamMember) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if mem.MemberRole == "" {
		mem.MemberRole = "member"
	}
	for i, existing := range m.members[mem.TeamID] {
		if existing.UserID == mem.UserID {
			m.members[mem.TeamID][i] = mem
			return nil
		}
	}
	m.members[mem.TeamID] = append(m.members[mem.TeamID], mem)
	return nil
}

func (m *memoryStore) ListMembers(_ context.Context, teamID string) ([]TeamMember, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]TeamMember, len(m.members[teamID]))
	copy(out, m.members[teamID])
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}
