package repository

import (
	"context"

	"github.com/ZertGraf/scrumboard/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListEmployees(ctx context.Context) ([]*domain.User, error)
}

type ScrumRepository interface {
	List(ctx context.Context) ([]*domain.Scrum, error)
	GetByID(ctx context.Context, scrumID string) (*domain.Scrum, error)
	// CreateWithTask persists a scrum and its first task in one transaction,
	// allocating an independent id for each. The task's seeded history entry
	// is written alongside.
	CreateWithTask(ctx context.Context, scrum *domain.Scrum, task *domain.Task) error
}

type TaskRepository interface {
	GetByID(ctx context.Context, taskID string) (*domain.Task, error)
	ListByAssignee(ctx context.Context, userID string) ([]*domain.Task, error)
	ListByScrum(ctx context.Context, scrumID string) ([]*domain.Task, error)
	Create(ctx context.Context, task *domain.Task) error
	// AppendStatus updates the task status and appends one history entry.
	AppendStatus(ctx context.Context, taskID string, status domain.TaskStatus, date string) (*domain.Task, error)
}
