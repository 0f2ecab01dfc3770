// Package repository provides the persistence gateway for users, lists and tasks.
package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tasklist/tasklist/internal/model"
)

// Gateway is the narrow persistence contract for one entity type.
type Gateway[E any] interface {
	// FindAll returns every row ordered by id.
	FindAll(ctx context.Context) ([]E, error)
	// FindByID returns ErrNotFound when no row has the id.
	FindByID(ctx context.Context, id int64) (*E, error)
	// FindBy returns the rows whose foreign key equals value, ordered by id.
	// Only the entity's own foreign key is accepted; anything else returns ErrUnknownKey.
	FindBy(ctx context.Context, key string, value int64) ([]E, error)
	// Insert stores e and sets its generated id.
	Insert(ctx context.Context, e *E) error
	// Update overwrites every mutable column of the row with e's id.
	Update(ctx context.Context, e *E) error
	// DeleteByID removes the row and returns the number of rows removed.
	DeleteByID(ctx context.Context, id int64) (int64, error)
}

// Store groups the gateways and owns the underlying connection.
type Store interface {
	Users() Gateway[model.User]
	Lists() Gateway[model.List]
	Tasks() Gateway[model.Task]
	Ping(ctx context.Context) error
	Close()
}

// Options configures the connection pool.
type Options struct {
	MaxConns int32
	MinConns int32
}

// Repository is the PostgreSQL-backed Store.
type Repository struct {
	pool  *pgxpool.Pool
	users *UserRepository
	lists *ListRepository
	tasks *TaskRepository
}

// New creates a new Repository with a connection pool.
func New(ctx context.Context, databaseURL string, opts Options) (*Repository, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	if opts.MaxConns > 0 {
		config.MaxConns = opts.MaxConns
	}
	if opts.MinConns > 0 && opts.MinConns <= config.MaxConns {
		config.MinConns = opts.MinConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return NewFromPool(pool), nil
}

// NewFromPool wraps an existing pool. The Repository takes ownership of it.
func NewFromPool(pool *pgxpool.Pool) *Repository {
	return &Repository{
		pool:  pool,
		users: &UserRepository{pool: pool},
		lists: &ListRepository{pool: pool},
		tasks: &TaskRepository{pool: pool},
	}
}

// Users returns the user gateway.
func (r *Repository) Users() Gateway[model.User] { return r.users }

// Lists returns the list gateway.
func (r *Repository) Lists() Gateway[model.List] { return r.lists }

// Tasks returns the task gateway.
func (r *Repository) Tasks() Gateway[model.Task] { return r.tasks }

// Ping checks database connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool.
func (r *Repository) Close() {
	r.pool.Close()
}

// Pool returns the underlying connection pool.
// Use sparingly - prefer adding methods to the gateways.
func (r *Repository) Pool() *pgxpool.Pool {
	return r.pool
}

var (
	_ Store = (*Repository)(nil)
	_ Store = (*Memory)(nil)
)
