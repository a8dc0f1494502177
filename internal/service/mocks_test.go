package service

import (
	"context"

	"github.com/ZertGraf/scrumboard/internal/domain"
	"github.com/ZertGraf/scrumboard/internal/repository"
	"github.com/stretchr/testify/mock"
)

type userRepoMock struct{ mock.Mock }

var _ repository.UserRepository = (*userRepoMock)(nil)

func (m *userRepoMock) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *userRepoMock) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *userRepoMock) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *userRepoMock) ListEmployees(ctx context.Context) ([]*domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

type scrumRepoMock struct{ mock.Mock }

var _ repository.ScrumRepository = (*scrumRepoMock)(nil)

func (m *scrumRepoMock) List(ctx context.Context) ([]*domain.Scrum, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Scrum), args.Error(1)
}

func (m *scrumRepoMock) GetByID(ctx context.Context, scrumID string) (*domain.Scrum, error) {
	args := m.Called(ctx, scrumID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Scrum), args.Error(1)
}

func (m *scrumRepoMock) CreateWithTask(ctx context.Context, scrum *domain.Scrum, task *domain.Task) error {
	args := m.Called(ctx, scrum, task)
	return args.Error(0)
}

type taskRepoMock struct{ mock.Mock }

var _ repository.TaskRepository = (*taskRepoMock)(nil)

func (m *taskRepoMock) GetByID(ctx context.Context, taskID string) (*domain.Task, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *taskRepoMock) ListByAssignee(ctx context.Context, userID string) ([]*domain.Task, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Task), args.Error(1)
}

func (m *taskRepoMock) ListByScrum(ctx context.Context, scrumID string) ([]*domain.Task, error) {
	args := m.Called(ctx, scrumID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Task), args.Error(1)
}

func (m *taskRepoMock) Create(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *taskRepoMock) AppendStatus(ctx context.Context, taskID string, status domain.TaskStatus, date string) (*domain.Task, error) {
	args := m.Called(ctx, taskID, status, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}
