package domain

import "time"

// Team groups users and owns tasks.
type Team struct {
	ID          string
	Name        string
	Description string
	OwnerID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TeamRole is a member's role within a team.
type TeamRole string

const (
	TeamRoleOwner  TeamRole = "owner"
	TeamRoleMember TeamRole = "member"
)

// IsValid checks if the role is one of the allowed values.
func (r TeamRole) IsValid() bool {
	return r == TeamRoleOwner || r == TeamRoleMember
}

// TeamMembership grants a user a role within a team.
type TeamMembership struct {
	ID       string
	TeamID   string
	UserID   string
	Role     TeamRole
	JoinedAt time.Time

	User *UserSummary
}

// TeamDetail is a team together with its members.
type TeamDetail struct {
	Team    *Team
	Members []*TeamMembership
}

// TeamStats summarizes the task load of a team.
type TeamStats struct {
	TeamID        string
	TotalTasks    int
	TasksByStatus map[TaskStatus]int
	OverdueCount  int
	MemberCount   int
}
