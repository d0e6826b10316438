package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/mtlprog/teamtasks/internal/domain"
	"github.com/mtlprog/teamtasks/internal/repository"
)

type mockTaskStore struct {
	mock.Mock
}

func (m *mockTaskStore) GetByID(ctx context.Context, taskID string) (*domain.Task, error) {
	args := m.Called(ctx, taskID)
	task := args.Get(0)
	if task == nil {
		return nil, args.Error(1)
	}
	// Services mutate the returned task; hand out a copy.
	t := *task.(*domain.Task)
	return &t, args.Error(1)
}

func (m *mockTaskStore) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	args := m.Called(ctx, task)
	created := args.Get(0)
	if created == nil {
		return nil, args.Error(1)
	}
	return created.(*domain.Task), args.Error(1)
}

func (m *mockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	if args.Error(0) == nil {
		task.Version++
	}
	return args.Error(0)
}

func (m *mockTaskStore) Delete(ctx context.Context, taskID string) error {
	return m.Called(ctx, taskID).Error(0)
}

func (m *mockTaskStore) List(ctx context.Context, filters repository.TaskListFilters) ([]*domain.Task, int, error) {
	args := m.Called(ctx, filters)
	tasks, _ := args.Get(0).([]*domain.Task)
	return tasks, args.Int(1), args.Error(2)
}

func (m *mockTaskStore) ReplaceTags(ctx context.Context, taskID string, tagIDs []string) error {
	return m.Called(ctx, taskID, tagIDs).Error(0)
}

func (m *mockTaskStore) CountActiveByTeam(ctx context.Context, teamID string) (int, error) {
	args := m.Called(ctx, teamID)
	return args.Int(0), args.Error(1)
}

func (m *mockTaskStore) GetTeamStats(ctx context.Context, teamID string) (*domain.TeamStats, error) {
	args := m.Called(ctx, teamID)
	stats, _ := args.Get(0).(*domain.TeamStats)
	return stats, args.Error(1)
}

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *mockUserStore) Exists(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserStore) List(ctx context.Context) ([]*domain.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]*domain.User)
	return users, args.Error(1)
}

func (m *mockUserStore) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	created, _ := args.Get(0).(*domain.User)
	return created, args.Error(1)
}

func (m *mockUserStore) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserStore) Delete(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type mockTeamStore struct {
	mock.Mock
}

func (m *mockTeamStore) GetByID(ctx context.Context, teamID string) (*domain.Team, error) {
	args := m.Called(ctx, teamID)
	team, _ := args.Get(0).(*domain.Team)
	return team, args.Error(1)
}

func (m *mockTeamStore) List(ctx context.Context) ([]*domain.Team, error) {
	args := m.Called(ctx)
	teams, _ := args.Get(0).([]*domain.Team)
	return teams, args.Error(1)
}

func (m *mockTeamStore) ListForUser(ctx context.Context, userID string) ([]*domain.Team, error) {
	args := m.Called(ctx, userID)
	teams, _ := args.Get(0).([]*domain.Team)
	return teams, args.Error(1)
}

func (m *mockTeamStore) Create(ctx context.Context, team *domain.Team) (*domain.Team, error) {
	args := m.Called(ctx, team)
	created, _ := args.Get(0).(*domain.Team)
	return created, args.Error(1)
}

func (m *mockTeamStore) Update(ctx context.Context, team *domain.Team) error {
	return m.Called(ctx, team).Error(0)
}

func (m *mockTeamStore) Delete(ctx context.Context, teamID string) error {
	return m.Called(ctx, teamID).Error(0)
}

func (m *mockTeamStore) ListMembers(ctx context.Context, teamID string) ([]*domain.TeamMembership, error) {
	args := m.Called(ctx, teamID)
	members, _ := args.Get(0).([]*domain.TeamMembership)
	return members, args.Error(1)
}

func (m *mockTeamStore) GetMembership(ctx context.Context, teamID, userID string) (*domain.TeamMembership, error) {
	args := m.Called(ctx, teamID, userID)
	membership, _ := args.Get(0).(*domain.TeamMembership)
	return membership, args.Error(1)
}

func (m *mockTeamStore) IsMember(ctx context.Context, teamID, userID string) (bool, error) {
	args := m.Called(ctx, teamID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockTeamStore) AddMember(ctx context.Context, membership *domain.TeamMembership) (*domain.TeamMembership, error) {
	args := m.Called(ctx, membership)
	created, _ := args.Get(0).(*domain.TeamMembership)
	return created, args.Error(1)
}

func (m *mockTeamStore) RemoveMember(ctx context.Context, teamID, userID string) error {
	return m.Called(ctx, teamID, userID).Error(0)
}

type mockTagStore struct {
	mock.Mock
}

func (m *mockTagStore) List(ctx context.Context) ([]domain.Tag, error) {
	args := m.Called(ctx)
	tags, _ := args.Get(0).([]domain.Tag)
	return tags, args.Error(1)
}

func (m *mockTagStore) Create(ctx context.Context, name string) (*domain.Tag, error) {
	args := m.Called(ctx, name)
	tag, _ := args.Get(0).(*domain.Tag)
	return tag, args.Error(1)
}

func (m *mockTagStore) CountExisting(ctx context.Context, tagIDs []string) (int, error) {
	args := m.Called(ctx, tagIDs)
	return args.Int(0), args.Error(1)
}

type mockCommentStore struct {
	mock.Mock
}

func (m *mockCommentStore) GetByID(ctx context.Context, commentID string) (*domain.Comment, error) {
	args := m.Called(ctx, commentID)
	comment, _ := args.Get(0).(*domain.Comment)
	return comment, args.Error(1)
}

func (m *mockCommentStore) ListByTask(ctx context.Context, taskID string) ([]*domain.Comment, error) {
	args := m.Called(ctx, taskID)
	comments, _ := args.Get(0).([]*domain.Comment)
	return comments, args.Error(1)
}

func (m *mockCommentStore) ListAll(ctx context.Context) ([]*domain.Comment, error) {
	args := m.Called(ctx)
	comments, _ := args.Get(0).([]*domain.Comment)
	return comments, args.Error(1)
}

func (m *mockCommentStore) Create(ctx context.Context, c *domain.Comment) (*domain.Comment, error) {
	args := m.Called(ctx, c)
	created, _ := args.Get(0).(*domain.Comment)
	return created, args.Error(1)
}

func (m *mockCommentStore) UpdateContent(ctx context.Context, commentID, content string) error {
	return m.Called(ctx, commentID, content).Error(0)
}

func (m *mockCommentStore) Delete(ctx context.Context, commentID string) error {
	return m.Called(ctx, commentID).Error(0)
}

type mockHistoryStore struct {
	mock.Mock
}

func (m *mockHistoryStore) Create(ctx context.Context, h *domain.StatusHistory) error {
	return m.Called(ctx, h).Error(0)
}

func (m *mockHistoryStore) ListByTask(ctx context.Context, taskID string) ([]*domain.StatusHistory, error) {
	args := m.Called(ctx, taskID)
	history, _ := args.Get(0).([]*domain.StatusHistory)
	return history, args.Error(1)
}

type mockActivityStore struct {
	mock.Mock
}

func (m *mockActivityStore) Create(ctx context.Context, a domain.NewActivity) (*domain.Activity, error) {
	args := m.Called(ctx, a)
	activity, _ := args.Get(0).(*domain.Activity)
	return activity, args.Error(1)
}

func (m *mockActivityStore) Feed(ctx context.Context, filters repository.ActivityFilters) ([]*domain.Activity, error) {
	args := m.Called(ctx, filters)
	feed, _ := args.Get(0).([]*domain.Activity)
	return feed, args.Error(1)
}

type mockWatcherStore struct {
	mock.Mock
}

func (m *mockWatcherStore) Subscribe(ctx context.Context, taskID, userID string, maxWatchers int) (*domain.TaskWatcher, bool, error) {
	args := m.Called(ctx, taskID, userID, maxWatchers)
	watcher, _ := args.Get(0).(*domain.TaskWatcher)
	return watcher, args.Bool(1), args.Error(2)
}

func (m *mockWatcherStore) Unsubscribe(ctx context.Context, taskID, userID string) (bool, error) {
	args := m.Called(ctx, taskID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockWatcherStore) ListByTask(ctx context.Context, taskID string) ([]*domain.TaskWatcher, error) {
	args := m.Called(ctx, taskID)
	watchers, _ := args.Get(0).([]*domain.TaskWatcher)
	return watchers, args.Error(1)
}

func (m *mockWatcherStore) CreateNotifications(ctx context.Context, notifications []*domain.TaskWatcherNotification) error {
	return m.Called(ctx, notifications).Error(0)
}

func (m *mockWatcherStore) ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]*domain.TaskWatcherNotification, error) {
	args := m.Called(ctx, userID, unreadOnly)
	notifications, _ := args.Get(0).([]*domain.TaskWatcherNotification)
	return notifications, args.Error(1)
}

func (m *mockWatcherStore) MarkRead(ctx context.Context, userID string, ids []string, readAt time.Time) (int64, error) {
	args := m.Called(ctx, userID, ids, readAt)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockWatcherStore) Watchlist(ctx context.Context, filters repository.WatchlistFilters) ([]*domain.WatchlistEntry, int, error) {
	args := m.Called(ctx, filters)
	entries, _ := args.Get(0).([]*domain.WatchlistEntry)
	return entries, args.Int(1), args.Error(2)
}

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) Record(ctx context.Context, a domain.NewActivity) (*domain.Activity, error) {
	args := m.Called(ctx, a)
	activity, _ := args.Get(0).(*domain.Activity)
	return activity, args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) NotifyWatchers(ctx context.Context, taskID string, eventType domain.WatcherEventType, actorID string, payload any) (int, error) {
	args := m.Called(ctx, taskID, eventType, actorID, payload)
	return args.Int(0), args.Error(1)
}

// activityOfType matches a NewActivity argument by type.
func activityOfType(t domain.ActivityType) any {
	return mock.MatchedBy(func(a domain.NewActivity) bool { return a.Type == t })
}

func strPtr(s string) *string { return &s }
