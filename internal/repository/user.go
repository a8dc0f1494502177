package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ZertGraf/scrumboard/internal/domain"
	"github.com/ZertGraf/scrumboard/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepo struct {
	db     *pgxpool.Pool
	logger *logger.Logger
}

func NewUserRepo(db *pgxpool.Pool, logger *logger.Logger) *UserRepo {
	return &UserRepo{
		db:     db,
		logger: logger.Component("repository/user"),
	}
}

// Create allocates the next user id and inserts the record in one
// transaction. A duplicate email surfaces as domain.ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	err := withTx(ctx, r.db, r.logger, func(tx pgx.Tx) error {
		id, err := allocateID(ctx, tx, tableUsers)
		if err != nil {
			return err
		}
		user.ID = id

		err = tx.QueryRow(ctx, `
			INSERT INTO users (id, name, email, password_hash, role, created_at)
			VALUES ($1, $2, $3, $4, $5, NOW())
			RETURNING created_at
		`, user.ID, user.Name, user.Email, user.PasswordHash, user.Role).Scan(&user.CreatedAt)

		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return domain.ErrEmailExists
			}
			return fmt.Errorf("insert user: %w", err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepo) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, created_at
		FROM users
		WHERE id = $1
	`

	var user domain.User
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, created_at
		FROM users
		WHERE email = $1
	`

	var user domain.User
	err := r.db.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &user, nil
}

// ListEmployees returns every non-admin user, ordered by numeric id.
func (r *UserRepo) ListEmployees(ctx context.Context) ([]*domain.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, created_at
		FROM users
		WHERE role != $1
		ORDER BY id::integer
	`

	rows, err := r.db.Query(ctx, query, domain.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("query employees: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	if users == nil {
		users = []*domain.User{}
	}

	return users, nil
}
