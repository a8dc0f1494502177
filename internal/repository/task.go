package repository

import (
	"context"
	"fmt"

	"github.com/ZertGraf/scrumboard/internal/domain"
	"github.com/ZertGraf/scrumboard/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TaskRepo struct {
	db     *pgxpool.Pool
	logger *logger.Logger
}

func NewTaskRepo(db *pgxpool.Pool, logger *logger.Logger) *TaskRepo {
	return &TaskRepo{
		db:     db,
		logger: logger.Component("repository/task"),
	}
}

// insertTask writes the task row plus its seeded history entries inside the
// caller's transaction. Shared with ScrumRepo.CreateWithTask.
func insertTask(ctx context.Context, tx pgx.Tx, task *domain.Task) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO tasks (id, title, description, status, scrum_id, assigned_to, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING created_at
	`, task.ID, task.Title, task.Description, task.Status, task.ScrumID, task.AssignedTo).Scan(&task.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}

	for i, entry := range task.History {
		_, err := tx.Exec(ctx, `
			INSERT INTO task_history (task_id, position, status, entry_date)
			VALUES ($1, $2, $3, $4)
		`, task.ID, i+1, entry.Status, entry.Date)
		if err != nil {
			return fmt.Errorf("insert history entry: %w", err)
		}
	}

	return nil
}

// Create allocates the next task id and persists the task with its history.
func (r *TaskRepo) Create(ctx context.Context, task *domain.Task) error {
	return withTx(ctx, r.db, r.logger, func(tx pgx.Tx) error {
		id, err := allocateID(ctx, tx, tableTasks)
		if err != nil {
			return err
		}
		task.ID = id
		return insertTask(ctx, tx, task)
	})
}

const taskWithHistoryQuery = `
	SELECT
		t.id,
		t.title,
		t.description,
		t.status,
		t.scrum_id,
		t.assigned_to,
		t.created_at,
		COALESCE(h.status, '') AS history_status,
		COALESCE(to_char(h.entry_date, 'YYYY-MM-DD'), '') AS history_date
	FROM tasks t
	LEFT JOIN task_history h ON h.task_id = t.id
`

// GetByID retrieves a task with its full status history.
// Returns ErrTaskNotFound if the task doesn't exist.
func (r *TaskRepo) GetByID(ctx context.Context, taskID string) (*domain.Task, error) {
	query := taskWithHistoryQuery + `
		WHERE t.id = $1
		ORDER BY h.position
	`

	tasks, err := r.queryTasks(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, domain.ErrTaskNotFound
	}
	return tasks[0], nil
}

// ListByAssignee retrieves all tasks assigned to a user, history included.
func (r *TaskRepo) ListByAssignee(ctx context.Context, userID string) ([]*domain.Task, error) {
	query := taskWithHistoryQuery + `
		WHERE t.assigned_to = $1
		ORDER BY t.id::integer, h.position
	`
	return r.queryTasks(ctx, query, userID)
}

// ListByScrum retrieves all tasks belonging to a scrum, history included.
func (r *TaskRepo) ListByScrum(ctx context.Context, scrumID string) ([]*domain.Task, error) {
	query := taskWithHistoryQuery + `
		WHERE t.scrum_id = $1
		ORDER BY t.id::integer, h.position
	`
	return r.queryTasks(ctx, query, scrumID)
}

// queryTasks runs a task+history join and folds the rows back into tasks,
// one per id with history entries in position order.
func (r *TaskRepo) queryTasks(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*domain.Task{}
	var current *domain.Task

	for rows.Next() {
		var (
			task          domain.Task
			historyStatus string
			historyDate   string
		)

		err := rows.Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&task.Status,
			&task.ScrumID,
			&task.AssignedTo,
			&task.CreatedAt,
			&historyStatus,
			&historyDate,
		)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		if current == nil || current.ID != task.ID {
			task.History = []domain.HistoryEntry{}
			tasks = append(tasks, &task)
			current = tasks[len(tasks)-1]
		}

		if historyStatus != "" {
			current.History = append(current.History, domain.HistoryEntry{
				Status: domain.TaskStatus(historyStatus),
				Date:   historyDate,
			})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return tasks, nil
}

// AppendStatus updates the task status and appends one history entry in a
// single transaction. The history is append-only: existing entries are never
// rewritten.
func (r *TaskRepo) AppendStatus(ctx context.Context, taskID string, status domain.TaskStatus, date string) (*domain.Task, error) {
	err := withTx(ctx, r.db, r.logger, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx, `
			UPDATE tasks SET status = $1 WHERE id = $2
		`, status, taskID)
		if err != nil {
			return fmt.Errorf("update task status: %w", err)
		}
		if result.RowsAffected() == 0 {
			return domain.ErrTaskNotFound
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO task_history (task_id, position, status, entry_date)
			SELECT $1, COALESCE(MAX(position), 0) + 1, $2, $3
			FROM task_history
			WHERE task_id = $1
		`, taskID, status, date)
		if err != nil {
			return fmt.Errorf("append history entry: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, taskID)
}
