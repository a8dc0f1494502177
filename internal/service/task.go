package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ZertGraf/scrumboard/internal/domain"
	"github.com/ZertGraf/scrumboard/internal/pkg/logger"
	"github.com/ZertGraf/scrumboard/internal/repository"
	"github.com/ZertGraf/scrumboard/internal/session"
	. "github.com/go-ozzo/ozzo-validation"
)

type TaskService struct {
	tasks  repository.TaskRepository
	scrums repository.ScrumRepository
	users  repository.UserRepository
	logger *logger.Logger

	now func() time.Time
}

func NewTaskService(
	tasks repository.TaskRepository,
	scrums repository.ScrumRepository,
	users repository.UserRepository,
	logger *logger.Logger,
) *TaskService {
	return &TaskService{
		tasks:  tasks,
		scrums: scrums,
		users:  users,
		logger: logger.Component("service/task"),
		now:    time.Now,
	}
}

type CreateTaskInput struct {
	ScrumID string `json:"scrum_id"`
	TaskInput
}

// ListForUser returns the task history visible to the session. Employees see
// only their own tasks; an empty filter defaults to the session's own id. An
// admin must name the user explicitly: the admin profile view never
// auto-loads tasks for the admin itself.
func (s *TaskService) ListForUser(ctx context.Context, sess *session.Session, assignedTo string) ([]*domain.Task, error) {
	switch sess.Role {
	case domain.RoleEmployee:
		if assignedTo == "" {
			assignedTo = sess.UserID
		}
		if assignedTo != sess.UserID {
			return nil, domain.ErrForbidden
		}
	default:
		if assignedTo == "" {
			return nil, fmt.Errorf("validation failed: %w", Errors{"assigned_to": errors.New("cannot be blank")})
		}
	}

	tasks, err := s.tasks.ListByAssignee(ctx, assignedTo)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	return tasks, nil
}

// Create adds a task to an existing scrum with its own allocated id and a
// seeded history entry.
func (s *TaskService) Create(ctx context.Context, in *CreateTaskInput) (*domain.Task, error) {
	err := ValidateStruct(in,
		Field(&in.ScrumID, Required),
		Field(&in.TaskInput, By(func(interface{}) error {
			return validateTaskInput(&in.TaskInput)
		})),
	)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if _, err := s.scrums.GetByID(ctx, in.ScrumID); err != nil {
		return nil, fmt.Errorf("get scrum: %w", err)
	}

	assignee, err := s.users.GetByID(ctx, in.AssignedTo)
	if err != nil {
		return nil, fmt.Errorf("get assignee: %w", err)
	}
	if assignee.IsAdmin() {
		return nil, domain.ErrNotEmployee
	}

	task := newTask(&in.TaskInput, in.ScrumID, s.now().Format(domain.DateFormat))

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.logger.Info("task created",
		"task_id", task.ID,
		"scrum_id", task.ScrumID,
		"assigned_to", task.AssignedTo,
	)

	return task, nil
}

// UpdateStatus moves a task to a new status and appends one history entry
// dated today. Employees may only move their own tasks. Setting the current
// status again is a no-op so the history stays a record of changes.
func (s *TaskService) UpdateStatus(ctx context.Context, sess *session.Session, taskID string, status domain.TaskStatus) (*domain.Task, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("validation failed: %w", Errors{"status": errors.New("must be a valid task status")})
	}

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}

	if sess.Role != domain.RoleAdmin && task.AssignedTo != sess.UserID {
		return nil, domain.ErrForbidden
	}

	if task.Status == status {
		return task, nil
	}

	updated, err := s.tasks.AppendStatus(ctx, taskID, status, s.now().Format(domain.DateFormat))
	if err != nil {
		return nil, fmt.Errorf("update task status: %w", err)
	}

	s.logger.Info("task status updated",
		"task_id", taskID,
		"from", task.Status,
		"to", status,
	)

	return updated, nil
}
