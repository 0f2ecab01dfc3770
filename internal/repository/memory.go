package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tasklist/tasklist/internal/model"
)

// Memory is an in-process Store. It enforces the same foreign keys and
// cascading deletes as the PostgreSQL schema. Data is lost on Close.
type Memory struct {
	mu     sync.RWMutex
	nextID map[string]int64
	users  map[int64]model.User
	lists  map[int64]model.List
	tasks  map[int64]model.Task
}

// NewMemory returns an empty in-memory Store.
func NewMemory() *Memory {
	return &Memory{
		nextID: map[string]int64{},
		users:  map[int64]model.User{},
		lists:  map[int64]model.List{},
		tasks:  map[int64]model.Task{},
	}
}

// Users returns the user gateway.
func (m *Memory) Users() Gateway[model.User] { return memUsers{m} }

// Lists returns the list gateway.
func (m *Memory) Lists() Gateway[model.List] { return memLists{m} }

// Tasks returns the task gateway.
func (m *Memory) Tasks() Gateway[model.Task] { return memTasks{m} }

// Ping always succeeds.
func (m *Memory) Ping(ctx context.Context) error { return nil }

// Close drops all data.
func (m *Memory) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = map[int64]model.User{}
	m.lists = map[int64]model.List{}
	m.tasks = map[int64]model.Task{}
}

// allocate returns the next id for table. Caller must hold m.mu.
func (m *Memory) allocate(table string) int64 {
	m.nextID[table]++
	return m.nextID[table]
}

// deleteList removes a list and its tasks. Caller must hold m.mu.
func (m *Memory) deleteList(id int64) {
	delete(m.lists, id)
	for tid, t := range m.tasks {
		if t.ListID == id {
			delete(m.tasks, tid)
		}
	}
}

// storedTime rounds t to the microsecond precision of a TIMESTAMPTZ column.
func storedTime(t time.Time) time.Time {
	return t.Round(time.Microsecond).UTC()
}

// sortedValues returns the map's values ordered by id.
func sortedValues[E any](rows map[int64]E, keep func(E) bool) []E {
	ids := make([]int64, 0, len(rows))
	for id, row := range rows {
		if keep == nil || keep(row) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]E, 0, len(ids))
	for _, id := range ids {
		out = append(out, rows[id])
	}
	return out
}

type memUsers struct{ m *Memory }

func (g memUsers) FindAll(ctx context.Context) ([]model.User, error) {
	g.m.mu.RLock()
	defer g.m.mu.RUnlock()
	return sortedValues(g.m.users, nil), nil
}

func (g memUsers) FindByID(ctx context.Context, id int64) (*model.User, error) {
	g.m.mu.RLock()
	defer g.m.mu.RUnlock()
	u, ok := g.m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (g memUsers) FindBy(ctx context.Context, key string, value int64) ([]model.User, error) {
	return nil, fmt.Errorf("users by %q: %w", key, ErrUnknownKey)
}

func (g memUsers) Insert(ctx context.Context, u *model.User) error {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()
	u.ID = g.m.allocate("users")
	g.m.users[u.ID] = *u
	return nil
}

func (g memUsers) Update(ctx context.Context, u *model.User) error {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()
	if _, ok := g.m.users[u.ID]; !ok {
		return ErrNotFound
	}
	g.m.users[u.ID] = *u
	return nil
}

func (g memUsers) DeleteByID(ctx context.Context, id int64) (int64, error) {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()
	if _, ok := g.m.users[id]; !ok {
		return 0, nil
	}
	delete(g.m.users, id)
	for lid, l := range g.m.lists {
		if l.UserID == id {
			g.m.deleteList(lid)
		}
	}
	return 1, nil
}

type memLists struct{ m *Memory }

func (g memLists) FindAll(ctx context.Context) ([]model.List, error) {
	g.m.mu.RLock()
	defer g.m.mu.RUnlock()
	return sortedValues(g.m.lists, nil), nil
}

func (g memLists) FindByID(ctx context.Context, id int64) (*model.List, error) {
	g.m.mu.RLock()
	defer g.m.mu.RUnlock()
	l, ok := g.m.lists[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &l, nil
}

func (g memLists) FindBy(ctx context.Context, key string, value int64) ([]model.List, error) {
	if _, ok := listColumns[key]; !ok {
		return nil, fmt.Errorf("lists by %q: %w", key, ErrUnknownKey)
	}
	g.m.mu.RLock()
	defer g.m.mu.RUnlock()
	return sortedValues(g.m.lists, func(l model.List) bool { return l.UserID == value }), nil
}

func (g memLists) Insert(ctx context.Context, l *model.List) error {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()
	if _, ok := g.m.users[l.UserID]; !ok {
		return &ForeignKeyError{Field: "userId", Entity: "user"}
	}
	l.ID = g.m.allocate("lists")
	g.m.lists[l.ID] = *l
	return nil
}

func (g memLists) Update(ctx context.Context, l *model.List) error {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()
	if _, ok := g.m.lists[l.ID]; !ok {
		return ErrNotFound
	}
	if _, ok := g.m.users[l.UserID]; !ok {
		return &ForeignKeyError{Field: "userId", Entity: "user"}
	}
	g.m.lists[l.ID] = *l
	return nil
}

func (g memLists) DeleteByID(ctx context.Context, id int64) (int64, error) {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()
	if _, ok := g.m.lists[id]; !ok {
		return 0, nil
	}
	g.m.deleteList(id)
	return 1, nil
}

type memTasks struct{ m *Memory }

func (g memTasks) FindAll(ctx context.Context) ([]model.Task, error) {
	g.m.mu.RLock()
	defer g.m.mu.RUnlock()
	return sortedValues(g.m.tasks, nil), nil
}

func (g memTasks) FindByID(ctx context.Context, id int64) (*model.Task, error) {
	g.m.mu.RLock()
	defer g.m.mu.RUnlock()
	t, ok := g.m.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (g memTasks) FindBy(ctx context.Context, key string, value int64) ([]model.Task, error) {
	if _, ok := taskColumns[key]; !ok {
		return nil, fmt.Errorf("tasks by %q: %w", key, ErrUnknownKey)
	}
	g.m.mu.RLock()
	defer g.m.mu.RUnlock()
	return sortedValues(g.m.tasks, func(t model.Task) bool { return t.ListID == value }), nil
}

func (g memTasks) Insert(ctx context.Context, t *model.Task) error {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()
	if _, ok := g.m.lists[t.ListID]; !ok {
		return &ForeignKeyError{Field: "listId", Entity: "list"}
	}
	t.ID = g.m.allocate("tasks")
	t.DueDate = storedTime(t.DueDate)
	g.m.tasks[t.ID] = *t
	return nil
}

func (g memTasks) Update(ctx context.Context, t *model.Task) error {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()
	if _, ok := g.m.tasks[t.ID]; !ok {
		return ErrNotFound
	}
	if _, ok := g.m.lists[t.ListID]; !ok {
		return &ForeignKeyError{Field: "listId", Entity: "list"}
	}
	t.DueDate = storedTime(t.DueDate)
	g.m.tasks[t.ID] = *t
	return nil
}

func (g memTasks) DeleteByID(ctx context.Context, id int64) (int64, error) {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()
	if _, ok := g.m.tasks[id]; !ok {
		return 0, nil
	}
	delete(g.m.tasks, id)
	return 1, nil
}
