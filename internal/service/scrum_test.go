package service

import (
	"context"
	"testing"
	"time"

	"github.com/ZertGraf/scrumboard/internal/domain"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newScrumService(t *testing.T, scrums *scrumRepoMock, tasks *taskRepoMock, users *userRepoMock) *ScrumService {
	t.Helper()
	svc := NewScrumService(scrums, tasks, users, testLogger(t))
	svc.now = func() time.Time {
		return time.Date(2026, 9, 1, 15, 30, 0, 0, time.UTC)
	}
	return svc
}

// The combined creation: one admin submission produces a scrum and its first
// task atomically, with the task history seeded with the initial status and
// today's calendar date.
func TestCreateScrumWithFirstTask(t *testing.T) {
	scrums := new(scrumRepoMock)
	tasks := new(taskRepoMock)
	users := new(userRepoMock)
	svc := newScrumService(t, scrums, tasks, users)

	users.On("GetByID", mock.Anything, "2").Return(&domain.User{
		ID:   "2",
		Role: domain.RoleEmployee,
	}, nil)

	scrums.On("CreateWithTask", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			// the repository allocates independent ids per collection
			scrum := args.Get(1).(*domain.Scrum)
			task := args.Get(2).(*domain.Task)
			scrum.ID = "2"
			task.ID = "5"
			task.ScrumID = scrum.ID
		}).
		Return(nil)

	scrum, task, err := svc.Create(context.Background(), &CreateScrumInput{
		Name: "Sprint 1",
		Task: TaskInput{
			Title:       "Fix bug",
			Description: "desc",
			Status:      domain.StatusToDo,
			AssignedTo:  "2",
		},
	})
	require.NoError(t, err)

	require.Equal(t, "2", scrum.ID)
	require.Equal(t, "Sprint 1", scrum.Name)

	require.Equal(t, "5", task.ID)
	require.Equal(t, "2", task.ScrumID)
	require.NotEqual(t, task.ID, scrum.ID)
	require.Equal(t, domain.StatusToDo, task.Status)
	require.Equal(t, []domain.HistoryEntry{
		{Status: domain.StatusToDo, Date: "2026-09-01"},
	}, task.History)

	scrums.AssertExpectations(t)
}

func TestCreateScrumDefaultsStatusToDo(t *testing.T) {
	scrums := new(scrumRepoMock)
	tasks := new(taskRepoMock)
	users := new(userRepoMock)
	svc := newScrumService(t, scrums, tasks, users)

	users.On("GetByID", mock.Anything, "2").Return(&domain.User{ID: "2", Role: domain.RoleEmployee}, nil)
	scrums.On("CreateWithTask", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, task, err := svc.Create(context.Background(), &CreateScrumInput{
		Name: "Sprint 2",
		Task: TaskInput{
			Title:       "Plan",
			Description: "desc",
			AssignedTo:  "2",
		},
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusToDo, task.Status)
	require.Equal(t, domain.StatusToDo, task.History[0].Status)
}

func TestCreateScrumValidation(t *testing.T) {
	scrums := new(scrumRepoMock)
	tasks := new(taskRepoMock)
	users := new(userRepoMock)
	svc := newScrumService(t, scrums, tasks, users)

	_, _, err := svc.Create(context.Background(), &CreateScrumInput{
		Task: TaskInput{Title: "Fix bug"},
	})
	require.Error(t, err)

	var vErrs validation.Errors
	require.ErrorAs(t, err, &vErrs)
	require.Contains(t, vErrs, "name")

	scrums.AssertNotCalled(t, "CreateWithTask", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateScrumRejectsAdminAssignee(t *testing.T) {
	scrums := new(scrumRepoMock)
	tasks := new(taskRepoMock)
	users := new(userRepoMock)
	svc := newScrumService(t, scrums, tasks, users)

	users.On("GetByID", mock.Anything, "1").Return(&domain.User{ID: "1", Role: domain.RoleAdmin}, nil)

	_, _, err := svc.Create(context.Background(), &CreateScrumInput{
		Name: "Sprint 1",
		Task: TaskInput{
			Title:       "Fix bug",
			Description: "desc",
			AssignedTo:  "1",
		},
	})
	require.ErrorIs(t, err, domain.ErrNotEmployee)
	scrums.AssertNotCalled(t, "CreateWithTask", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateScrumUnknownAssignee(t *testing.T) {
	scrums := new(scrumRepoMock)
	tasks := new(taskRepoMock)
	users := new(userRepoMock)
	svc := newScrumService(t, scrums, tasks, users)

	users.On("GetByID", mock.Anything, "99").Return(nil, domain.ErrUserNotFound)

	_, _, err := svc.Create(context.Background(), &CreateScrumInput{
		Name: "Sprint 1",
		Task: TaskInput{
			Title:       "Fix bug",
			Description: "desc",
			AssignedTo:  "99",
		},
	})
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestGetScrumWithTasks(t *testing.T) {
	scrums := new(scrumRepoMock)
	tasks := new(taskRepoMock)
	users := new(userRepoMock)
	svc := newScrumService(t, scrums, tasks, users)

	scrums.On("GetByID", mock.Anything, "2").Return(&domain.Scrum{ID: "2", Name: "Sprint 1"}, nil)
	tasks.On("ListByScrum", mock.Anything, "2").Return([]*domain.Task{
		{ID: "5", Title: "Fix bug", ScrumID: "2"},
	}, nil)

	detail, err := svc.Get(context.Background(), "2")
	require.NoError(t, err)
	require.Equal(t, "Sprint 1", detail.Scrum.Name)
	require.Len(t, detail.Tasks, 1)
	require.Equal(t, "5", detail.Tasks[0].ID)
}

func TestGetScrumNotFound(t *testing.T) {
	scrums := new(scrumRepoMock)
	tasks := new(taskRepoMock)
	users := new(userRepoMock)
	svc := newScrumService(t, scrums, tasks, users)

	scrums.On("GetByID", mock.Anything, "99").Return(nil, domain.ErrScrumNotFound)

	_, err := svc.Get(context.Background(), "99")
	require.ErrorIs(t, err, domain.ErrScrumNotFound)
}
