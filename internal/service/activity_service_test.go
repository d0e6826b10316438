package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/teamtasks/internal/domain"
	"github.com/mtlprog/teamtasks/internal/repository"
)

func TestActivityRecord(t *testing.T) {
	store := new(mockActivityStore)
	svc := NewActivityService(store)
	a := domain.NewActivity{Type: domain.ActivityTaskCreated, Description: "Task created."}
	store.On("Create", mock.Anything, a).Return(&domain.Activity{ID: "a1", Type: a.Type}, nil)

	activity, err := svc.Record(context.Background(), a)

	require.NoError(t, err)
	assert.Equal(t, "a1", activity.ID)
}

func TestActivityRecord_StoreFailure(t *testing.T) {
	store := new(mockActivityStore)
	svc := NewActivityService(store)
	store.On("Create", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	_, err := svc.Record(context.Background(), domain.NewActivity{Type: domain.ActivityTaskUpdated})

	assert.ErrorIs(t, err, domain.ErrActivityLogFailed)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestActivityRecord_UnknownType(t *testing.T) {
	store := new(mockActivityStore)
	svc := NewActivityService(store)

	_, err := svc.Record(context.Background(), domain.NewActivity{Type: "deleted"})

	assert.ErrorIs(t, err, domain.ErrActivityLogFailed)
	assert.ErrorIs(t, err, domain.ErrInvalidActivityType)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestActivityGetFeed_CapsLimit(t *testing.T) {
	store := new(mockActivityStore)
	svc := NewActivityService(store)
	teamID := testTeamID
	store.On("Feed", mock.Anything, mock.MatchedBy(func(f repository.ActivityFilters) bool {
		return f.Limit == domain.ActivityFeedLimit && *f.TeamID == teamID && f.Type == nil
	})).Return([]*domain.Activity{}, nil)

	_, err := svc.GetFeed(context.Background(), &teamID, nil)

	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestActivityGetFeed_InvalidType(t *testing.T) {
	svc := NewActivityService(new(mockActivityStore))
	bogus := domain.ActivityType("bogus")

	_, err := svc.GetFeed(context.Background(), nil, &bogus)

	assert.ErrorIs(t, err, domain.ErrInvalidActivityType)
}
