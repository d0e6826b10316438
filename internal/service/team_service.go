package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mtlprog/teamtasks/internal/domain"
	"github.com/sourcegraph/conc/pool"
)

// TeamService manages teams and memberships.
type TeamService struct {
	teams    TeamStore
	users    UserStore
	tasks    TeamTaskCounter
	activity ActivityRecorder
}

// NewTeamService creates a new TeamService.
func NewTeamService(teams TeamStore, users UserStore, tasks TeamTaskCounter, activity ActivityRecorder) *TeamService {
	return &TeamService{
		teams:    teams,
		users:    users,
		tasks:    tasks,
		activity: activity,
	}
}

// ListTeams returns all teams.
func (s *TeamService) ListTeams(ctx context.Context) ([]*domain.Team, error) {
	return s.teams.List(ctx)
}

// ListTeamsForUser returns the teams the user belongs to.
func (s *TeamService) ListTeamsForUser(ctx context.Context, userID string) ([]*domain.Team, error) {
	if err := requireUser(ctx, s.users, userID, "member"); err != nil {
		return nil, err
	}
	return s.teams.ListForUser(ctx, userID)
}

// GetTeamDetail loads the team and its members concurrently.
func (s *TeamService) GetTeamDetail(ctx context.Context, teamID string) (*domain.TeamDetail, error) {
	var detail domain.TeamDetail

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		team, err := s.teams.GetByID(ctx, teamID)
		detail.Team = team
		return err
	})
	p.Go(func(ctx context.Context) error {
		members, err := s.teams.ListMembers(ctx, teamID)
		detail.Members = members
		return err
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	return &detail, nil
}

// CreateTeam creates the team with ownerID as its single owner.
func (s *TeamService) CreateTeam(ctx context.Context, name, description, ownerID string) (*domain.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrEmptyTeamName
	}
	if ownerID == "" {
		return nil, domain.ErrActorRequired
	}

	owner, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	team, err := s.teams.Create(ctx, &domain.Team{
		Name:        name,
		Description: strings.TrimSpace(description),
		OwnerID:     ownerID,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("team created", "team_id", team.ID, "owner_id", ownerID)

	effects := newSideEffects("team_id", team.ID)
	effects.run("activity", func() error {
		_, err := s.activity.Record(ctx, domain.NewActivity{
			Type:        domain.ActivityTeamCreated,
			Description: fmt.Sprintf("Team %q created by %s.", team.Name, owner.Summary().FullName()),
			ActorID:     &ownerID,
			TeamID:      &team.ID,
		})
		return err
	})

	return team, effects.Err()
}

// UpdateTeam changes the name and/or description.
func (s *TeamService) UpdateTeam(ctx context.Context, teamID string, name, description *string) (*domain.Team, error) {
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, domain.ErrEmptyTeamName
		}
		team.Name = trimmed
	}
	if description != nil {
		team.Description = strings.TrimSpace(*description)
	}

	if err := s.teams.Update(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

// DeleteTeam removes a team that has no pending or in-progress tasks.
func (s *TeamService) DeleteTeam(ctx context.Context, teamID string) error {
	if _, err := s.teams.GetByID(ctx, teamID); err != nil {
		return err
	}

	active, err := s.tasks.CountActiveByTeam(ctx, teamID)
	if err != nil {
		return err
	}
	if active > 0 {
		return fmt.Errorf("%w: %d pending or in-progress tasks", domain.ErrTeamHasActiveTasks, active)
	}

	if err := s.teams.Delete(ctx, teamID); err != nil {
		return err
	}

	slog.Info("team deleted", "team_id", teamID)
	return nil
}

// GetTeamStats summarizes the team's tasks.
func (s *TeamService) GetTeamStats(ctx context.Context, teamID string) (*domain.TeamStats, error) {
	if _, err := s.teams.GetByID(ctx, teamID); err != nil {
		return nil, err
	}
	return s.tasks.GetTeamStats(ctx, teamID)
}

// ListMembers returns the team's memberships, owner first.
func (s *TeamService) ListMembers(ctx context.Context, teamID string) ([]*domain.TeamMembership, error) {
	if _, err := s.teams.GetByID(ctx, teamID); err != nil {
		return nil, err
	}
	return s.teams.ListMembers(ctx, teamID)
}

// AddMember adds userID to the team. The role defaults to member; a second
// owner is rejected. actorID, when empty, defaults to the added user.
func (s *TeamService) AddMember(ctx context.Context, teamID, userID string, role domain.TeamRole, actorID string) (*domain.TeamMembership, error) {
	if role == "" {
		role = domain.TeamRoleMember
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRole, role)
	}
	if role == domain.TeamRoleOwner {
		return nil, fmt.Errorf("%w: a team has exactly one owner", domain.ErrInvalidRole)
	}

	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	membership, err := s.teams.AddMember(ctx, &domain.TeamMembership{
		TeamID: teamID,
		UserID: userID,
		Role:   role,
	})
	if err != nil {
		return nil, err
	}
	summary := user.Summary()
	membership.User = &summary

	slog.Info("member added", "team_id", teamID, "user_id", userID, "role", role)

	if actorID == "" {
		actorID = userID
	}
	effects := newSideEffects("team_id", teamID, "user_id", userID)
	effects.run("activity", func() error {
		_, err := s.activity.Record(ctx, domain.NewActivity{
			Type:        domain.ActivityMemberAdded,
			Description: fmt.Sprintf("%s joined team %q.", summary.FullName(), team.Name),
			ActorID:     &actorID,
			TeamID:      &team.ID,
		})
		return err
	})

	return membership, effects.Err()
}

// RemoveMember removes a non-owner member from the team.
func (s *TeamService) RemoveMember(ctx context.Context, teamID, userID string) error {
	membership, err := s.teams.GetMembership(ctx, teamID, userID)
	if err != nil {
		return err
	}
	if membership.Role == domain.TeamRoleOwner {
		return fmt.Errorf("%w: user %s owns team %s", domain.ErrCannotRemoveOwner, userID, teamID)
	}

	if err := s.teams.RemoveMember(ctx, teamID, userID); err != nil {
		return err
	}

	slog.Info("member removed", "team_id", teamID, "user_id", userID)
	return nil
}
