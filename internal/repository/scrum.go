package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ZertGraf/scrumboard/internal/domain"
	"github.com/ZertGraf/scrumboard/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ScrumRepo struct {
	db     *pgxpool.Pool
	logger *logger.Logger
}

func NewScrumRepo(db *pgxpool.Pool, logger *logger.Logger) *ScrumRepo {
	return &ScrumRepo{
		db:     db,
		logger: logger.Component("repository/scrum"),
	}
}

func (r *ScrumRepo) List(ctx context.Context) ([]*domain.Scrum, error) {
	query := `
		SELECT id, name, created_at
		FROM scrums
		ORDER BY id::integer
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query scrums: %w", err)
	}
	defer rows.Close()

	var scrums []*domain.Scrum
	for rows.Next() {
		var scrum domain.Scrum
		if err := rows.Scan(&scrum.ID, &scrum.Name, &scrum.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan scrum: %w", err)
		}
		scrums = append(scrums, &scrum)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	if scrums == nil {
		scrums = []*domain.Scrum{}
	}

	return scrums, nil
}

func (r *ScrumRepo) GetByID(ctx context.Context, scrumID string) (*domain.Scrum, error) {
	query := `
		SELECT id, name, created_at
		FROM scrums
		WHERE id = $1
	`

	var scrum domain.Scrum
	err := r.db.QueryRow(ctx, query, scrumID).Scan(&scrum.ID, &scrum.Name, &scrum.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrScrumNotFound
		}
		return nil, fmt.Errorf("get scrum: %w", err)
	}

	return &scrum, nil
}

// CreateWithTask creates a scrum and its first task atomically. Both records
// are allocated independent ids from their own collections; the task carries
// the scrum id only as its scrum_id correlation. If any write fails the whole
// transaction rolls back, so no orphan scrum can be left behind.
func (r *ScrumRepo) CreateWithTask(ctx context.Context, scrum *domain.Scrum, task *domain.Task) error {
	return withTx(ctx, r.db, r.logger, func(tx pgx.Tx) error {
		scrumID, err := allocateID(ctx, tx, tableScrums)
		if err != nil {
			return err
		}
		scrum.ID = scrumID

		err = tx.QueryRow(ctx, `
			INSERT INTO scrums (id, name, created_at)
			VALUES ($1, $2, NOW())
			RETURNING created_at
		`, scrum.ID, scrum.Name).Scan(&scrum.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert scrum: %w", err)
		}

		taskID, err := allocateID(ctx, tx, tableTasks)
		if err != nil {
			return err
		}
		task.ID = taskID
		task.ScrumID = scrum.ID

		if err := insertTask(ctx, tx, task); err != nil {
			return err
		}

		return nil
	})
}
