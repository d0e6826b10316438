package service

import (
	"fmt"
	"time"

	"github.com/mtlprog/teamtasks/internal/domain"
)

// NormalizeDueDate validates a due date against today and strips the time of day.
// A nil due date is returned as is.
func NormalizeDueDate(due *time.Time, now time.Time) (*time.Time, error) {
	if due == nil {
		return nil, nil
	}
	if domain.DueDateInPast(*due, now) {
		return nil, fmt.Errorf("%w: %s", domain.ErrDueDateInPast, due.Format(time.DateOnly))
	}
	day := domain.StartOfDay(*due)
	return &day, nil
}

// sameDueDate compares two optional dates by calendar day.
func sameDueDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return domain.StartOfDay(*a).Equal(domain.StartOfDay(*b))
}

// annotateOverdue derives IsOverdue for every watchlist entry at the same instant.
func annotateOverdue(entries []*domain.WatchlistEntry, now time.Time) {
	for _, e := range entries {
		e.IsOverdue = e.Task.IsOverdue(now)
	}
}
