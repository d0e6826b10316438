package domain

import "time"

// Comment is a note left by a user on a task.
type Comment struct {
	ID        string
	TaskID    string
	AuthorID  string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time

	Author *UserSummary
}

// Excerpt returns at most n runes of the comment content.
func (c *Comment) Excerpt(n int) string {
	runes := []rune(c.Content)
	if len(runes) <= n {
		return c.Content
	}
	return string(runes[:n]) + "…"
}

// Tag labels tasks across teams.
type Tag struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
