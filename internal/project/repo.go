package project

import "context"

type ListOpts struct {
	Q         string
	CreatorID string
	Limit     int
	Offset    int
}

type Store interface {
	PutProject(ctx context.Context, p Project) error
	GetProject(ctx context.Context, id string) (Project, error)
	ListProjects(ctx context.Context, opts ListOpts) ([]Project, error)

	PutSession(ctx context.Context, s Session) error
	ListSessions(ctx context.Context, projectID string) ([]Session, error) // ordered by ord

	PutCriterion(ctx context.Context, c RubricCriterion) error
	ListCriteria(ctx context.Context, sessionID string) ([]RubricCriterion, error) // ordered by position

	PutTeam(ctx context.Context, t Team) error
	GetTeam(ctx context.Context, id string) (Team, error)
	ListTeams(ctx context.Context, projectID string) ([]Team, error)

	AddMember(ctx context.Context, m TeamMember) error
	ListMembers(ctx context.Context, teamID string) ([]TeamMember, error)
}
