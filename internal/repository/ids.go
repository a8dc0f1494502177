package repository

import (
	"context"
	"fmt"

	"github.com/ZertGraf/scrumboard/internal/identifier"
	"github.com/jackc/pgx/v5"
)

const (
	tableUsers  = "users"
	tableScrums = "scrums"
	tableTasks  = "tasks"
)

// allocateID computes the next id for a collection inside the caller's
// transaction. The table lock serializes allocators against concurrent
// writers, so the max+1 snapshot cannot be duplicated the way the old
// client-side allocation could.
func allocateID(ctx context.Context, tx pgx.Tx, table string) (string, error) {
	// table is always one of the constants above, never caller input
	if _, err := tx.Exec(ctx, fmt.Sprintf("LOCK TABLE %s IN SHARE ROW EXCLUSIVE MODE", table)); err != nil {
		return "", fmt.Errorf("lock %s: %w", table, err)
	}

	rows, err := tx.Query(ctx, fmt.Sprintf("SELECT id FROM %s", table))
	if err != nil {
		return "", fmt.Errorf("snapshot %s ids: %w", table, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("iterate ids: %w", err)
	}

	next, err := identifier.Next(ids)
	if err != nil {
		return "", fmt.Errorf("allocate %s id: %w", table, err)
	}
	return next, nil
}
