package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tasklist/tasklist/internal/model"
)

// UserRepository is the PostgreSQL gateway for users.
type UserRepository struct {
	pool *pgxpool.Pool
}

// FindAll retrieves every user.
func (r *UserRepository) FindAll(ctx context.Context) ([]model.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// FindByID retrieves a user by its ID.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM users WHERE id = $1`, id).Scan(&u.ID, &u.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return &u, nil
}

// FindBy is unsupported for users: they have no foreign key.
func (r *UserRepository) FindBy(ctx context.Context, key string, value int64) ([]model.User, error) {
	return nil, fmt.Errorf("users by %q: %w", key, ErrUnknownKey)
}

// Insert creates a user and sets its generated ID.
func (r *UserRepository) Insert(ctx context.Context, u *model.User) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (name) VALUES ($1) RETURNING id`,
		u.Name,
	).Scan(&u.ID)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// Update overwrites the user's name.
func (r *UserRepository) Update(ctx context.Context, u *model.User) error {
	result, err := r.pool.Exec(ctx, `UPDATE users SET name = $2 WHERE id = $1`, u.ID, u.Name)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteByID removes a user. Lists and their tasks go with it via ON DELETE CASCADE.
func (r *UserRepository) DeleteByID(ctx context.Context, id int64) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete user: %w", err)
	}

	return result.RowsAffected(), nil
}
