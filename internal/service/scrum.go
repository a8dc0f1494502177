package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ZertGraf/scrumboard/internal/domain"
	"github.com/ZertGraf/scrumboard/internal/pkg/logger"
	"github.com/ZertGraf/scrumboard/internal/repository"
	. "github.com/go-ozzo/ozzo-validation"
)

type ScrumService struct {
	scrums repository.ScrumRepository
	tasks  repository.TaskRepository
	users  repository.UserRepository
	logger *logger.Logger

	// now is swappable so tests can pin the history date
	now func() time.Time
}

func NewScrumService(
	scrums repository.ScrumRepository,
	tasks repository.TaskRepository,
	users repository.UserRepository,
	logger *logger.Logger,
) *ScrumService {
	return &ScrumService{
		scrums: scrums,
		tasks:  tasks,
		users:  users,
		logger: logger.Component("service/scrum"),
		now:    time.Now,
	}
}

// TaskInput carries the first-task fields of a combined scrum creation, and
// doubles as the body for adding a task to an existing scrum.
type TaskInput struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      domain.TaskStatus `json:"status"`
	AssignedTo  string            `json:"assigned_to"`
}

type CreateScrumInput struct {
	Name string    `json:"name"`
	Task TaskInput `json:"task"`
}

type ScrumDetail struct {
	Scrum *domain.Scrum  `json:"scrum"`
	Tasks []*domain.Task `json:"tasks"`
}

func (s *ScrumService) List(ctx context.Context) ([]*domain.Scrum, error) {
	scrums, err := s.scrums.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list scrums: %w", err)
	}
	return scrums, nil
}

// Get returns one scrum together with its tasks for the dashboard drill-in.
func (s *ScrumService) Get(ctx context.Context, scrumID string) (*ScrumDetail, error) {
	scrum, err := s.scrums.GetByID(ctx, scrumID)
	if err != nil {
		return nil, fmt.Errorf("get scrum: %w", err)
	}

	tasks, err := s.tasks.ListByScrum(ctx, scrumID)
	if err != nil {
		return nil, fmt.Errorf("list scrum tasks: %w", err)
	}

	return &ScrumDetail{Scrum: scrum, Tasks: tasks}, nil
}

// Create makes a scrum and its first task as one unit. The two records get
// independent ids; the task references the scrum only through scrum_id. The
// task history starts with exactly one entry carrying the initial status and
// today's calendar date.
func (s *ScrumService) Create(ctx context.Context, in *CreateScrumInput) (*domain.Scrum, *domain.Task, error) {
	if err := s.validateCreate(in); err != nil {
		return nil, nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := s.checkAssignee(ctx, in.Task.AssignedTo); err != nil {
		return nil, nil, err
	}

	scrum := &domain.Scrum{Name: in.Name}
	task := newTask(&in.Task, "", s.today())

	if err := s.scrums.CreateWithTask(ctx, scrum, task); err != nil {
		return nil, nil, fmt.Errorf("create scrum with task: %w", err)
	}

	s.logger.Info("scrum created",
		"scrum_id", scrum.ID,
		"task_id", task.ID,
		"assigned_to", task.AssignedTo,
	)

	return scrum, task, nil
}

func (s *ScrumService) validateCreate(in *CreateScrumInput) error {
	return ValidateStruct(in,
		Field(&in.Name, Required, Length(1, 255)),
		Field(&in.Task, Required, By(func(interface{}) error {
			return validateTaskInput(&in.Task)
		})),
	)
}

func (s *ScrumService) checkAssignee(ctx context.Context, userID string) error {
	assignee, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get assignee: %w", err)
	}
	if assignee.IsAdmin() {
		return domain.ErrNotEmployee
	}
	return nil
}

func (s *ScrumService) today() string {
	return s.now().Format(domain.DateFormat)
}

// validateTaskInput applies the shared task field rules. An empty status
// defaults to To Do before validation.
func validateTaskInput(in *TaskInput) error {
	if in.Status == "" {
		in.Status = domain.StatusToDo
	}

	return ValidateStruct(in,
		Field(&in.Title, Required, Length(1, 255)),
		Field(&in.Description, Required),
		Field(&in.Status, Required, In(domain.StatusToDo, domain.StatusInProgress, domain.StatusDone)),
		Field(&in.AssignedTo, Required),
	)
}

// newTask builds a task from its input with the single seeded history entry.
func newTask(in *TaskInput, scrumID, date string) *domain.Task {
	return &domain.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		ScrumID:     scrumID,
		AssignedTo:  in.AssignedTo,
		History: []domain.HistoryEntry{
			{Status: in.Status, Date: date},
		},
	}
}
