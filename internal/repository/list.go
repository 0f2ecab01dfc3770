package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tasklist/tasklist/internal/model"
)

// ListRepository is the PostgreSQL gateway for lists.
type ListRepository struct {
	pool *pgxpool.Pool
}

// listColumns maps the JSON foreign key name accepted by FindBy to its column.
var listColumns = map[string]string{
	"userId": "user_id",
}

// FindAll retrieves every list.
func (r *ListRepository) FindAll(ctx context.Context) ([]model.List, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, user_id, name FROM lists ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list lists: %w", err)
	}
	return collectLists(rows)
}

// FindByID retrieves a list by its ID.
func (r *ListRepository) FindByID(ctx context.Context, id int64) (*model.List, error) {
	var l model.List
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, name FROM lists WHERE id = $1`, id,
	).Scan(&l.ID, &l.UserID, &l.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get list by ID: %w", err)
	}

	return &l, nil
}

// FindBy retrieves the lists whose foreign key equals value.
func (r *ListRepository) FindBy(ctx context.Context, key string, value int64) ([]model.List, error) {
	column, ok := listColumns[key]
	if !ok {
		return nil, fmt.Errorf("lists by %q: %w", key, ErrUnknownKey)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, name FROM lists WHERE `+column+` = $1 ORDER BY id`, value,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list lists by %s: %w", key, err)
	}
	return collectLists(rows)
}

// Insert creates a list and sets its generated ID.
func (r *ListRepository) Insert(ctx context.Context, l *model.List) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO lists (user_id, name) VALUES ($1, $2) RETURNING id`,
		l.UserID, l.Name,
	).Scan(&l.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return &ForeignKeyError{Field: "userId", Entity: "user"}
		}
		return fmt.Errorf("failed to create list: %w", err)
	}

	return nil
}

// Update overwrites the list's owner and name.
func (r *ListRepository) Update(ctx context.Context, l *model.List) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE lists SET user_id = $2, name = $3 WHERE id = $1`,
		l.ID, l.UserID, l.Name,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return &ForeignKeyError{Field: "userId", Entity: "user"}
		}
		return fmt.Errorf("failed to update list: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteByID removes a list and, via ON DELETE CASCADE, its tasks.
func (r *ListRepository) DeleteByID(ctx context.Context, id int64) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM lists WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete list: %w", err)
	}

	return result.RowsAffected(), nil
}

func collectLists(rows pgx.Rows) ([]model.List, error) {
	defer rows.Close()

	lists := []model.List{}
	for rows.Next() {
		var l model.List
		if err := rows.Scan(&l.ID, &l.UserID, &l.Name); err != nil {
			return nil, fmt.Errorf("failed to scan list: %w", err)
		}
		lists = append(lists, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lists: %w", err)
	}

	return lists, nil
}
