package repository

import (
	"context"
	"fmt"

	"github.com/mtlprog/teamtasks/internal/domain"
)

// GetTeamStats retrieves task counts for a team.
func (r *TaskRepository) GetTeamStats(ctx context.Context, teamID string) (*domain.TeamStats, error) {
	stats := &domain.TeamStats{
		TeamID:        teamID,
		TasksByStatus: make(map[domain.TaskStatus]int),
	}

	// Current state, not historical
	rows, err := r.pool.Query(ctx, `
		SELECT status, COUNT(*)
		FROM tasks
		WHERE team_id = $1
		GROUP BY status
	`, teamID)
	if err != nil {
		return nil, fmt.Errorf("query tasks by status: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status domain.TaskStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		stats.TasksByStatus[status] = count
		stats.TotalTasks += count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status rows: %w", err)
	}

	// Same rule as Task.IsOverdue
	err = r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM tasks
		WHERE team_id = $1
		  AND status <> $2
		  AND due_date < CURRENT_DATE
	`, teamID, domain.TaskStatusCompleted).Scan(&stats.OverdueCount)
	if err != nil {
		return nil, fmt.Errorf("count overdue tasks: %w", err)
	}

	err = r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM team_memberships
		WHERE team_id = $1
	`, teamID).Scan(&stats.MemberCount)
	if err != nil {
		return nil, fmt.Errorf("count members: %w", err)
	}

	return stats, nil
}
