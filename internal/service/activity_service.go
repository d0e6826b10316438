package service

import (
	"context"
	"fmt"

	"github.com/mtlprog/teamtasks/internal/domain"
	"github.com/mtlprog/teamtasks/internal/repository"
)

// ActivityService appends and reads the audit feed.
type ActivityService struct {
	activities ActivityStore
}

// NewActivityService creates a new ActivityService.
func NewActivityService(activities ActivityStore) *ActivityService {
	return &ActivityService{activities: activities}
}

// Record persists one activity row. Any failure is reported as ErrActivityLogFailed.
func (s *ActivityService) Record(ctx context.Context, a domain.NewActivity) (*domain.Activity, error) {
	if !a.Type.IsValid() {
		return nil, fmt.Errorf("%w: %w: %q", domain.ErrActivityLogFailed, domain.ErrInvalidActivityType, a.Type)
	}

	activity, err := s.activities.Create(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrActivityLogFailed, err)
	}
	return activity, nil
}

// GetFeed returns the newest activities, capped at ActivityFeedLimit.
func (s *ActivityService) GetFeed(ctx context.Context, teamID *string, activityType *domain.ActivityType) ([]*domain.Activity, error) {
	if activityType != nil && !activityType.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidActivityType, *activityType)
	}

	return s.activities.Feed(ctx, repository.ActivityFilters{
		TeamID: teamID,
		Type:   activityType,
		Limit:  domain.ActivityFeedLimit,
	})
}
