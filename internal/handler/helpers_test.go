package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/tasklist/tasklist/internal/metrics"
	"github.com/tasklist/tasklist/internal/model"
	"github.com/tasklist/tasklist/internal/repository"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// spyGateway counts gateway calls and can fail every call with err.
type spyGateway[E any] struct {
	next  repository.Gateway[E]
	err   error
	calls atomic.Int64
}

func (g *spyGateway[E]) hit() error {
	g.calls.Add(1)
	return g.err
}

func (g *spyGateway[E]) FindAll(ctx context.Context) ([]E, error) {
	if err := g.hit(); err != nil {
		return nil, err
	}
	return g.next.FindAll(ctx)
}

func (g *spyGateway[E]) FindByID(ctx context.Context, id int64) (*E, error) {
	if err := g.hit(); err != nil {
		return nil, err
	}
	return g.next.FindByID(ctx, id)
}

func (g *spyGateway[E]) FindBy(ctx context.Context, key string, value int64) ([]E, error) {
	if err := g.hit(); err != nil {
		return nil, err
	}
	return g.next.FindBy(ctx, key, value)
}

func (g *spyGateway[E]) Insert(ctx context.Context, e *E) error {
	if err := g.hit(); err != nil {
		return err
	}
	return g.next.Insert(ctx, e)
}

func (g *spyGateway[E]) Update(ctx context.Context, e *E) error {
	if err := g.hit(); err != nil {
		return err
	}
	return g.next.Update(ctx, e)
}

func (g *spyGateway[E]) DeleteByID(ctx context.Context, id int64) (int64, error) {
	if err := g.hit(); err != nil {
		return 0, err
	}
	return g.next.DeleteByID(ctx, id)
}

// testAPI is a router over an in-memory store with spies around each gateway.
type testAPI struct {
	router  http.Handler
	users   *spyGateway[model.User]
	lists   *spyGateway[model.List]
	tasks   *spyGateway[model.Task]
	metrics *metrics.InMemoryRecorder
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	store := repository.NewMemory()
	t.Cleanup(store.Close)

	api := &testAPI{
		users:   &spyGateway[model.User]{next: store.Users()},
		lists:   &spyGateway[model.List]{next: store.Lists()},
		tasks:   &spyGateway[model.Task]{next: store.Tasks()},
		metrics: metrics.NewInMemory(),
	}

	logger := discardLogger()
	r := chi.NewRouter()
	MountResources(r, Resources{
		Users: NewUserHandler(api.users, logger, api.metrics),
		Lists: NewListHandler(api.lists, logger, api.metrics),
		Tasks: NewTaskHandler(api.tasks, logger, api.metrics),
	})
	h := New()
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	api.router = r
	return api
}

func (a *testAPI) storeCalls() int64 {
	return a.users.calls.Load() + a.lists.calls.Load() + a.tasks.calls.Load()
}

func (a *testAPI) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

// mustCreate posts body to path, requires a 201 and decodes the result.
func mustCreate[E any](t *testing.T, a *testAPI, path, body string) E {
	t.Helper()

	rec := a.do(t, http.MethodPost, path, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST %s: expected 201, got %d: %s", path, rec.Code, rec.Body.String())
	}
	return decode[E](t, rec)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return v
}
