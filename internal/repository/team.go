package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/teamtasks/internal/domain"
)

var teamColumns = []string{
	"t.id", "t.name", "t.description", "t.owner_id", "t.created_at", "t.updated_at",
}

// TeamRepository handles database operations for teams and memberships.
type TeamRepository struct {
	pool *pgxpool.Pool
}

// NewTeamRepository creates a new TeamRepository.
func NewTeamRepository(pool *pgxpool.Pool) *TeamRepository {
	return &TeamRepository{pool: pool}
}

func scanTeam(row pgx.Row) (*domain.Team, error) {
	var team domain.Team
	err := row.Scan(
		&team.ID,
		&team.Name,
		&team.Description,
		&team.OwnerID,
		&team.CreatedAt,
		&team.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTeamNotFound
		}
		return nil, fmt.Errorf("scan team: %w", err)
	}
	return &team, nil
}

func (r *TeamRepository) queryTeams(ctx context.Context, qb sq.SelectBuilder) ([]*domain.Team, error) {
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build teams query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query teams: %w", err)
	}
	defer rows.Close()

	teams := []*domain.Team{}
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate team rows: %w", err)
	}
	return teams, nil
}

// GetByID retrieves a team by ID.
func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (*domain.Team, error) {
	query, args, err := psql.
		Select(teamColumns...).
		From("teams t").
		Where(sq.Eq{"t.id": teamID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for team: %w", err)
	}

	return scanTeam(r.pool.QueryRow(ctx, query, args...))
}

// List returns all teams ordered by name.
func (r *TeamRepository) List(ctx context.Context) ([]*domain.Team, error) {
	return r.queryTeams(ctx, psql.
		Select(teamColumns...).
		From("teams t").
		OrderBy("t.name ASC"))
}

// ListForUser returns the teams the user belongs to.
func (r *TeamRepository) ListForUser(ctx context.Context, userID string) ([]*domain.Team, error) {
	return r.queryTeams(ctx, psql.
		Select(teamColumns...).
		From("teams t").
		Join("team_memberships m ON m.team_id = t.id").
		Where(sq.Eq{"m.user_id": userID}).
		OrderBy("t.name ASC"))
}

// Create inserts the team and its owner membership in one transaction.
func (r *TeamRepository) Create(ctx context.Context, team *domain.Team) (*domain.Team, error) {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		query, args, err := psql.
			Insert("teams").
			Columns("name", "description", "owner_id").
			Values(team.Name, team.Description, team.OwnerID).
			Suffix("RETURNING id, created_at, updated_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("build Create query for team: %w", err)
		}
		if err := tx.QueryRow(ctx, query, args...).Scan(&team.ID, &team.CreatedAt, &team.UpdatedAt); err != nil {
			if isPgForeignKeyError(err) {
				return fmt.Errorf("%w: owner %s", domain.ErrUserNotFound, team.OwnerID)
			}
			return fmt.Errorf("create team: %w", err)
		}

		query, args, err = psql.
			Insert("team_memberships").
			Columns("team_id", "user_id", "role").
			Values(team.ID, team.OwnerID, domain.TeamRoleOwner).
			ToSql()
		if err != nil {
			return fmt.Errorf("build owner membership query: %w", err)
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("create owner membership: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return team, nil
}

// Update writes the team's name and description.
func (r *TeamRepository) Update(ctx context.Context, team *domain.Team) error {
	query, args, err := psql.
		Update("teams").
		Set("name", team.Name).
		Set("description", team.Description).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": team.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Update query for team %s: %w", team.ID, err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&team.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTeamNotFound
		}
		return fmt.Errorf("update team: %w", err)
	}
	return nil
}

// Delete removes a team; memberships and tasks cascade.
func (r *TeamRepository) Delete(ctx context.Context, teamID string) error {
	query, args, err := psql.
		Delete("teams").
		Where(sq.Eq{"id": teamID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Delete query for team %s: %w", teamID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete team: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTeamNotFound
	}
	return nil
}

// ListMembers returns the team's memberships with user summaries, owner first.
func (r *TeamRepository) ListMembers(ctx context.Context, teamID string) ([]*domain.TeamMembership, error) {
	query, args, err := psql.
		Select(
			"m.id", "m.team_id", "m.user_id", "m.role", "m.joined_at",
			"u.email", "u.first_name", "u.last_name",
		).
		From("team_memberships m").
		Join("users u ON u.id = m.user_id").
		Where(sq.Eq{"m.team_id": teamID}).
		OrderBy("CASE m.role WHEN 'owner' THEN 0 ELSE 1 END", "m.joined_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListMembers query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	defer rows.Close()

	members := []*domain.TeamMembership{}
	for rows.Next() {
		var m domain.TeamMembership
		var u domain.UserSummary
		if err := rows.Scan(
			&m.ID, &m.TeamID, &m.UserID, &m.Role, &m.JoinedAt,
			&u.Email, &u.FirstName, &u.LastName,
		); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		u.ID = m.UserID
		m.User = &u
		members = append(members, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate member rows: %w", err)
	}
	return members, nil
}

// GetMembership returns the user's membership in the team.
func (r *TeamRepository) GetMembership(ctx context.Context, teamID, userID string) (*domain.TeamMembership, error) {
	query, args, err := psql.
		Select("id", "team_id", "user_id", "role", "joined_at").
		From("team_memberships").
		Where(sq.Eq{"team_id": teamID, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetMembership query: %w", err)
	}

	var m domain.TeamMembership
	err = r.pool.QueryRow(ctx, query, args...).Scan(&m.ID, &m.TeamID, &m.UserID, &m.Role, &m.JoinedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMembershipNotFound
		}
		return nil, fmt.Errorf("get membership: %w", err)
	}
	return &m, nil
}

// IsMember reports whether the user belongs to the team.
func (r *TeamRepository) IsMember(ctx context.Context, teamID, userID string) (bool, error) {
	_, err := r.GetMembership(ctx, teamID, userID)
	if errors.Is(err, domain.ErrMembershipNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// AddMember inserts a membership. Returns ErrAlreadyMember on a duplicate.
func (r *TeamRepository) AddMember(ctx context.Context, m *domain.TeamMembership) (*domain.TeamMembership, error) {
	query, args, err := psql.
		Insert("team_memberships").
		Columns("team_id", "user_id", "role").
		Values(m.TeamID, m.UserID, m.Role).
		Suffix("RETURNING id, joined_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build AddMember query: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&m.ID, &m.JoinedAt); err != nil {
		if isPgDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: user %s in team %s", domain.ErrAlreadyMember, m.UserID, m.TeamID)
		}
		if isPgForeignKeyError(err) {
			return nil, fmt.Errorf("%w: team or user reference is missing", domain.ErrUserNotFound)
		}
		return nil, fmt.Errorf("add member: %w", err)
	}
	return m, nil
}

// RemoveMember deletes a non-owner membership.
func (r *TeamRepository) RemoveMember(ctx context.Context, teamID, userID string) error {
	query, args, err := psql.
		Delete("team_memberships").
		Where(sq.Eq{"team_id": teamID, "user_id": userID}).
		Where(sq.NotEq{"role": domain.TeamRoleOwner}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build RemoveMember query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMembershipNotFound
	}
	return nil
}
