package handler

import (
	"log/slog"
	"net/http"

	"github.com/tasklist/tasklist/internal/handler/dto"
	"github.com/tasklist/tasklist/internal/metrics"
	"github.com/tasklist/tasklist/internal/model"
	"github.com/tasklist/tasklist/internal/repository"
	"github.com/tasklist/tasklist/internal/validation"
)

// TaskHandler handles task endpoints.
type TaskHandler struct {
	resource
	tasks repository.Gateway[model.Task]
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks repository.Gateway[model.Task], logger *slog.Logger, recorder metrics.Recorder) *TaskHandler {
	return &TaskHandler{
		resource: newResource(metrics.ResourceTask, "Task", logger, recorder),
		tasks:    tasks,
	}
}

// List returns every task.
// GET /tasks
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.tasks.FindAll(r.Context())
	if err != nil {
		h.handleStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(tasks))
}

// ListByList returns the tasks of a list. A list with no tasks is a 404.
// GET /tasks/list/{id}
func (h *TaskHandler) ListByList(w http.ResponseWriter, r *http.Request) {
	listID, ok := h.pathID(w, r)
	if !ok {
		return
	}

	tasks, err := h.tasks.FindBy(r.Context(), "listId", listID)
	if err != nil {
		h.handleStoreError(w, r, err)
		return
	}
	if len(tasks) == 0 {
		h.notFound(w, "No tasks found for list")
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// Get returns one task.
// GET /tasks/{id}
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	task, err := h.tasks.FindByID(r.Context(), id)
	if err != nil {
		h.handleStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// Create adds a task to an existing list. Omitted optional fields take
// their defaults.
// POST /tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.TaskRequest
	if !h.decode(w, r, &req) {
		return
	}

	task := req.Patch().Merge(model.NewTask(0, ""))
	fields := task.Fields()
	if req.ListID == nil {
		delete(fields, "listId")
	}
	if !h.validate(w, validation.TaskRules, fields) {
		return
	}

	if err := h.tasks.Insert(r.Context(), &task); err != nil {
		h.handleStoreError(w, r, err)
		return
	}

	h.metrics.IncCreated(h.name)
	h.logger.Info("task_created", "task_id", task.ID, "list_id", task.ListID)
	writeJSON(w, http.StatusCreated, task)
}

// Update overlays the supplied fields onto an existing task.
// PUT /tasks/{id}
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req dto.TaskRequest
	if !h.decode(w, r, &req) {
		return
	}

	existing, err := h.tasks.FindByID(r.Context(), id)
	if err != nil {
		h.handleStoreError(w, r, err)
		return
	}

	task := req.Patch().Merge(*existing)
	if !h.validate(w, validation.TaskRules, task.Fields()) {
		return
	}

	if err := h.tasks.Update(r.Context(), &task); err != nil {
		h.handleStoreError(w, r, err)
		return
	}

	h.metrics.IncUpdated(h.name)
	h.logger.Info("task_updated", "task_id", task.ID)
	writeJSON(w, http.StatusOK, task)
}

// Delete removes a task.
// DELETE /tasks/{id}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	removed, err := h.tasks.DeleteByID(r.Context(), id)
	if err != nil {
		h.handleStoreError(w, r, err)
		return
	}
	if removed == 0 {
		h.notFound(w, "Task not found")
		return
	}

	h.metrics.IncDeleted(h.name)
	h.logger.Info("task_deleted", "task_id", id)
	w.WriteHeader(http.StatusNoContent)
}
