package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/teamtasks/internal/domain"
)

func TestValidateTransition(t *testing.T) {
	statuses := []domain.TaskStatus{
		domain.TaskStatusPending,
		domain.TaskStatusInProgress,
		domain.TaskStatusCompleted,
		domain.TaskStatusCancelled,
	}
	allowed := map[[2]domain.TaskStatus]bool{
		{domain.TaskStatusPending, domain.TaskStatusInProgress}:   true,
		{domain.TaskStatusPending, domain.TaskStatusCancelled}:    true,
		{domain.TaskStatusInProgress, domain.TaskStatusCompleted}: true,
		{domain.TaskStatusInProgress, domain.TaskStatusCancelled}: true,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			if from == to {
				continue
			}
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				err := ValidateTransition(from, to)
				if allowed[[2]domain.TaskStatus{from, to}] {
					assert.NoError(t, err)
				} else {
					assert.ErrorIs(t, err, domain.ErrInvalidTransition)
				}
			})
		}
	}
}

func TestValidateTransition_UnknownTarget(t *testing.T) {
	err := ValidateTransition(domain.TaskStatusPending, "archived")

	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestNormalizeDueDate(t *testing.T) {
	now := time.Date(2030, 6, 10, 18, 30, 0, 0, time.UTC)

	got, err := NormalizeDueDate(nil, now)
	require.NoError(t, err)
	assert.Nil(t, got)

	today := time.Date(2030, 6, 10, 9, 0, 0, 0, time.UTC)
	got, err = NormalizeDueDate(&today, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2030, 6, 10, 0, 0, 0, 0, time.UTC), *got)

	yesterday := now.AddDate(0, 0, -1)
	_, err = NormalizeDueDate(&yesterday, now)
	assert.ErrorIs(t, err, domain.ErrDueDateInPast)
}
