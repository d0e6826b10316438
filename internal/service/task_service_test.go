package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/mtlprog/teamtasks/internal/domain"
	"github.com/mtlprog/teamtasks/internal/repository"
)

const (
	testTaskID = "11111111-1111-1111-1111-111111111111"
	testTeamID = "22222222-2222-2222-2222-222222222222"
	testActor  = "33333333-3333-3333-3333-333333333333"
	testOther  = "44444444-4444-4444-4444-444444444444"
)

type TaskServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	now      time.Time
	tasks    *mockTaskStore
	users    *mockUserStore
	teams    *mockTeamStore
	tags     *mockTagStore
	history  *mockHistoryStore
	activity *mockRecorder
	notifier *mockNotifier
	service  *TaskService
}

func (s *TaskServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2030, 3, 15, 10, 0, 0, 0, time.UTC)
	s.tasks = new(mockTaskStore)
	s.users = new(mockUserStore)
	s.teams = new(mockTeamStore)
	s.tags = new(mockTagStore)
	s.history = new(mockHistoryStore)
	s.activity = new(mockRecorder)
	s.notifier = new(mockNotifier)

	s.service = NewTaskService(s.tasks, s.users, s.teams, s.tags, s.history, s.activity, s.notifier)
	s.service.now = func() time.Time { return s.now }
}

func TestTaskServiceSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}

func (s *TaskServiceTestSuite) existingTask(status domain.TaskStatus) *domain.Task {
	task := &domain.Task{
		ID:       testTaskID,
		Title:    "Existing",
		Status:   status,
		Priority: domain.TaskPriorityMedium,
		TeamID:   testTeamID,
		Version:  1,
	}
	s.tasks.On("GetByID", mock.Anything, testTaskID).Return(task, nil)
	s.users.On("Exists", mock.Anything, testActor).Return(true, nil)
	return task
}

func (s *TaskServiceTestSuite) TestUpdateTask_AllowedTransitions() {
	allowed := []struct{ from, to domain.TaskStatus }{
		{domain.TaskStatusPending, domain.TaskStatusInProgress},
		{domain.TaskStatusPending, domain.TaskStatusCancelled},
		{domain.TaskStatusInProgress, domain.TaskStatusCompleted},
		{domain.TaskStatusInProgress, domain.TaskStatusCancelled},
	}

	for _, tc := range allowed {
		s.Run(string(tc.from)+"->"+string(tc.to), func() {
			s.SetupTest()
			s.existingTask(tc.from)
			s.tasks.On("Update", mock.Anything, mock.Anything).Return(nil)
			s.history.On("Create", mock.Anything, mock.Anything).Return(nil)
			s.activity.On("Record", mock.Anything, mock.Anything).Return(&domain.Activity{}, nil)
			s.notifier.On("NotifyWatchers", mock.Anything, testTaskID, domain.WatcherEventStatusChange, testActor, mock.Anything).Return(1, nil)

			to := tc.to
			task, err := s.service.UpdateTask(s.ctx, testTaskID, UpdateTaskCommand{Status: &to}, testActor)

			s.Require().NoError(err)
			s.Equal(tc.to, task.Status)
			s.Equal(2, task.Version)

			s.history.AssertNumberOfCalls(s.T(), "Create", 1)
			s.history.AssertCalled(s.T(), "Create", mock.Anything, mock.MatchedBy(func(h *domain.StatusHistory) bool {
				return h.PreviousStatus == tc.from && h.NewStatus == tc.to && *h.ChangedByID == testActor
			}))
			s.activity.AssertCalled(s.T(), "Record", mock.Anything, activityOfType(domain.ActivityStatusChanged))
		})
	}
}

func (s *TaskServiceTestSuite) TestUpdateTask_RejectedTransitions() {
	rejected := []struct{ from, to domain.TaskStatus }{
		{domain.TaskStatusPending, domain.TaskStatusCompleted},
		{domain.TaskStatusInProgress, domain.TaskStatusPending},
		{domain.TaskStatusCompleted, domain.TaskStatusPending},
		{domain.TaskStatusCompleted, domain.TaskStatusCancelled},
		{domain.TaskStatusCancelled, domain.TaskStatusInProgress},
	}

	for _, tc := range rejected {
		s.Run(string(tc.from)+"->"+string(tc.to), func() {
			s.SetupTest()
			s.existingTask(tc.from)

			to := tc.to
			task, err := s.service.UpdateTask(s.ctx, testTaskID, UpdateTaskCommand{Status: &to}, testActor)

			s.Nil(task)
			s.ErrorIs(err, domain.ErrInvalidTransition)
			s.tasks.AssertNotCalled(s.T(), "Update", mock.Anything, mock.Anything)
			s.history.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
			s.activity.AssertNotCalled(s.T(), "Record", mock.Anything, mock.Anything)
		})
	}
}

func (s *TaskServiceTestSuite) TestUpdateTask_InvalidStatusValue() {
	s.existingTask(domain.TaskStatusPending)

	bogus := domain.TaskStatus("done")
	_, err := s.service.UpdateTask(s.ctx, testTaskID, UpdateTaskCommand{Status: &bogus}, testActor)

	s.ErrorIs(err, domain.ErrInvalidStatus)
	s.tasks.AssertNotCalled(s.T(), "Update", mock.Anything, mock.Anything)
}

func (s *TaskServiceTestSuite) TestUpdateTask_SideEffectOrder() {
	s.existingTask(domain.TaskStatusPending)

	var order []string
	s.tasks.On("Update", mock.Anything, mock.Anything).Return(nil).Run(func(mock.Arguments) { order = append(order, "update") })
	s.history.On("Create", mock.Anything, mock.Anything).Return(nil).Run(func(mock.Arguments) { order = append(order, "history") })
	s.activity.On("Record", mock.Anything, mock.Anything).Return(&domain.Activity{}, nil).Run(func(mock.Arguments) { order = append(order, "activity") })
	s.notifier.On("NotifyWatchers", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(0, nil).Run(func(mock.Arguments) { order = append(order, "notify") })

	to := domain.TaskStatusInProgress
	_, err := s.service.UpdateTask(s.ctx, testTaskID, UpdateTaskCommand{Status: &to}, testActor)

	s.Require().NoError(err)
	s.Equal([]string{"update", "history", "activity", "notify"}, order)
}

func (s *TaskServiceTestSuite) TestUpdateTask_SideEffectFailureKeepsResult() {
	s.existingTask(domain.TaskStatusPending)
	s.tasks.On("Update", mock.Anything, mock.Anything).Return(nil)
	s.history.On("Create", mock.Anything, mock.Anything).Return(errors.New("history insert failed"))
	s.activity.On("Record", mock.Anything, mock.Anything).Return(nil, domain.ErrActivityLogFailed)
	s.notifier.On("NotifyWatchers", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(2, nil)

	to := domain.TaskStatusInProgress
	task, err := s.service.UpdateTask(s.ctx, testTaskID, UpdateTaskCommand{Status: &to}, testActor)

	s.Require().NotNil(task)
	s.Equal(domain.TaskStatusInProgress, task.Status)
	s.ErrorIs(err, domain.ErrSideEffectFailed)
	s.ErrorIs(err, domain.ErrActivityLogFailed)
	s.True(IsSideEffectFailure(err))

	// Later steps still ran.
	s.notifier.AssertNumberOfCalls(s.T(), "NotifyWatchers", 1)
}

func (s *TaskServiceTestSuite) TestUpdateTask_ConcurrentUpdate() {
	s.existingTask(domain.TaskStatusPending)
	s.tasks.On("Update", mock.Anything, mock.Anything).Return(domain.ErrConcurrentUpdate)

	title := "Renamed"
	task, err := s.service.UpdateTask(s.ctx, testTaskID, UpdateTaskCommand{Title: &title}, testActor)

	s.Nil(task)
	s.ErrorIs(err, domain.ErrConcurrentUpdate)
	s.False(IsSideEffectFailure(err))
	s.activity.AssertNotCalled(s.T(), "Record", mock.Anything, mock.Anything)
}

func (s *TaskServiceTestSuite) TestUpdateTask_NoChanges() {
	s.existingTask(domain.TaskStatusPending)

	same := domain.TaskStatusPending
	task, err := s.service.UpdateTask(s.ctx, testTaskID, UpdateTaskCommand{Status: &same}, testActor)

	s.Require().NoError(err)
	s.Equal(1, task.Version)
	s.tasks.AssertNotCalled(s.T(), "Update", mock.Anything, mock.Anything)
	s.activity.AssertNotCalled(s.T(), "Record", mock.Anything, mock.Anything)
}

func (s *TaskServiceTestSuite) TestUpdateTask_FieldChangeRecordsTaskUpdated() {
	s.existingTask(domain.TaskStatusPending)
	s.tasks.On("Update", mock.Anything, mock.Anything).Return(nil)
	s.activity.On("Record", mock.Anything, activityOfType(domain.ActivityTaskUpdated)).Return(&domain.Activity{}, nil)

	desc := "More detail"
	task, err := s.service.UpdateTask(s.ctx, testTaskID, UpdateTaskCommand{Description: &desc}, testActor)

	s.Require().NoError(err)
	s.Equal("More detail", task.Description)
	s.history.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
	s.notifier.AssertNotCalled(s.T(), "NotifyWatchers", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *TaskServiceTestSuite) TestUpdateTask_PriorityChangeNotifies() {
	s.existingTask(domain.TaskStatusPending)
	s.tasks.On("Update", mock.Anything, mock.Anything).Return(nil)
	s.activity.On("Record", mock.Anything, mock.Anything).Return(&domain.Activity{}, nil)
	s.notifier.On("NotifyWatchers", mock.Anything, testTaskID, domain.WatcherEventPriorityChange, testActor, mock.Anything).Return(1, nil)

	high := domain.TaskPriorityHigh
	_, err := s.service.UpdateTask(s.ctx, testTaskID, UpdateTaskCommand{Priority: &high}, testActor)

	s.Require().NoError(err)
	s.notifier.AssertExpectations(s.T())
}

func (s *TaskServiceTestSuite) TestUpdateTask_ClearDueDateAndAssignee() {
	task := s.existingTask(domain.TaskStatusPending)
	due := s.now.AddDate(0, 0, 3)
	task.DueDate = &due
	task.AssignedToID = strPtr(testOther)
	s.tasks.On("Update", mock.Anything, mock.Anything).Return(nil)
	s.activity.On("Record", mock.Anything, mock.Anything).Return(&domain.Activity{}, nil)

	updated, err := s.service.UpdateTask(s.ctx, testTaskID, UpdateTaskCommand{
		DueDate:      NullableUpdate[time.Time]{Set: true},
		AssignedToID: NullableUpdate[string]{Set: true},
	}, testActor)

	s.Require().NoError(err)
	s.Nil(updated.DueDate)
	s.Nil(updated.AssignedToID)
}

func (s *TaskServiceTestSuite) TestUpdateTask_RequiresActor() {
	_, err := s.service.UpdateTask(s.ctx, testTaskID, UpdateTaskCommand{}, "")

	s.ErrorIs(err, domain.ErrActorRequired)
}

func (s *TaskServiceTestSuite) TestUpdateTask_UnknownActor() {
	s.tasks.On("GetByID", mock.Anything, testTaskID).Return(&domain.Task{ID: testTaskID, Status: domain.TaskStatusPending}, nil)
	s.users.On("Exists", mock.Anything, testOther).Return(false, nil)

	_, err := s.service.UpdateTask(s.ctx, testTaskID, UpdateTaskCommand{}, testOther)

	s.ErrorIs(err, domain.ErrUserNotFound)
}

func (s *TaskServiceTestSuite) TestCreateTask_Defaults() {
	s.teams.On("GetByID", mock.Anything, testTeamID).Return(&domain.Team{ID: testTeamID}, nil)
	s.users.On("Exists", mock.Anything, testActor).Return(true, nil)
	s.tasks.On("Create", mock.Anything, mock.MatchedBy(func(t *domain.Task) bool {
		return t.Status == domain.TaskStatusPending && t.Priority == domain.TaskPriorityMedium && t.Title == "Trimmed"
	})).Return(&domain.Task{ID: testTaskID, TeamID: testTeamID, CreatedByID: strPtr(testActor), Version: 1}, nil)
	s.activity.On("Record", mock.Anything, activityOfType(domain.ActivityTaskCreated)).Return(&domain.Activity{}, nil)

	task, err := s.service.CreateTask(s.ctx, CreateTaskParams{
		Title:       "  Trimmed  ",
		TeamID:      testTeamID,
		CreatedByID: strPtr(testActor),
	})

	s.Require().NoError(err)
	s.Equal(testTaskID, task.ID)
	s.activity.AssertExpectations(s.T())
}

func (s *TaskServiceTestSuite) TestCreateTask_Validation() {
	yesterday := s.now.AddDate(0, 0, -1)
	today := s.now
	bogusPriority := domain.TaskPriority("urgent")

	tests := []struct {
		name   string
		params CreateTaskParams
		err    error
	}{
		{"empty title", CreateTaskParams{Title: "   ", TeamID: testTeamID}, domain.ErrEmptyTitle},
		{"missing team", CreateTaskParams{Title: "x"}, domain.ErrTeamRequired},
		{"past due date", CreateTaskParams{Title: "x", TeamID: testTeamID, DueDate: &yesterday}, domain.ErrDueDateInPast},
		{"bad priority", CreateTaskParams{Title: "x", TeamID: testTeamID, Priority: &bogusPriority}, domain.ErrInvalidPriority},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.service.CreateTask(s.ctx, tt.params)
			s.ErrorIs(err, tt.err)
		})
	}

	// Due today is accepted.
	_, err := NormalizeDueDate(&today, s.now)
	s.NoError(err)
	s.tasks.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *TaskServiceTestSuite) TestListTasks_Pagination() {
	s.tasks.On("List", mock.Anything, mock.MatchedBy(func(f repository.TaskListFilters) bool {
		return f.Limit == 10 && f.Offset == 20
	})).Return([]*domain.Task{{ID: "a"}}, 21, nil)

	page, err := s.service.ListTasks(s.ctx, ListTasksQuery{Page: domain.PageRequest{Page: 3}})

	s.Require().NoError(err)
	s.Equal(21, page.Total)
	s.Equal(3, page.TotalPages)
	s.Equal(3, page.Page)
	s.Len(page.Data, 1)
}

func (s *TaskServiceTestSuite) TestUpdateTaskTags_UnknownTag() {
	s.tasks.On("GetByID", mock.Anything, testTaskID).Return(&domain.Task{ID: testTaskID}, nil)
	s.tags.On("CountExisting", mock.Anything, []string{"a", "b"}).Return(1, nil)

	_, err := s.service.UpdateTaskTags(s.ctx, testTaskID, []string{"a", "b", "a"})

	s.ErrorIs(err, domain.ErrTagNotFound)
	s.tasks.AssertNotCalled(s.T(), "ReplaceTags", mock.Anything, mock.Anything, mock.Anything)
}

func (s *TaskServiceTestSuite) TestGetStatusHistory_TaskNotFound() {
	s.tasks.On("GetByID", mock.Anything, testTaskID).Return(nil, domain.ErrTaskNotFound)

	_, err := s.service.GetStatusHistory(s.ctx, testTaskID)

	s.ErrorIs(err, domain.ErrTaskNotFound)
}
