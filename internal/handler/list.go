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

// ListHandler handles list endpoints.
type ListHandler struct {
	resource
	lists repository.Gateway[model.List]
}

// NewListHandler creates a new ListHandler.
func NewListHandler(lists repository.Gateway[model.List], logger *slog.Logger, recorder metrics.Recorder) *ListHandler {
	return &ListHandler{
		resource: newResource(metrics.ResourceList, "List", logger, recorder),
		lists:    lists,
	}
}

// List returns every list.
// GET /lists
func (h *ListHandler) List(w http.ResponseWriter, r *http.Request) {
	lists, err := h.lists.FindAll(r.Context())
	if err != nil {
		h.handleStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(lists))
}

// ListByUser returns the lists owned by a user. A user with no lists is a 404.
// GET /lists/user/{id}
func (h *ListHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathID(w, r)
	if !ok {
		return
	}

	lists, err := h.lists.FindBy(r.Context(), "userId", userID)
	if err != nil {
		h.handleStoreError(w, r, err)
		return
	}
	if len(lists) == 0 {
		h.notFound(w, "No lists found for user")
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

// Get returns one list.
// GET /lists/{id}
func (h *ListHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	list, err := h.lists.FindByID(r.Context(), id)
	if err != nil {
		h.handleStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Create adds a list for an existing user.
// POST /lists
func (h *ListHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.ListRequest
	if !h.decode(w, r, &req) {
		return
	}

	list := req.Patch().Merge(model.List{})
	fields := list.Fields()
	if req.UserID == nil {
		delete(fields, "userId")
	}
	if !h.validate(w, validation.ListRules, fields) {
		return
	}

	if err := h.lists.Insert(r.Context(), &list); err != nil {
		h.handleStoreError(w, r, err)
		return
	}

	h.metrics.IncCreated(h.name)
	h.logger.Info("list_created", "list_id", list.ID, "user_id", list.UserID)
	writeJSON(w, http.StatusCreated, list)
}

// Update overlays the supplied fields onto an existing list.
// PUT /lists/{id}
func (h *ListHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req dto.ListRequest
	if !h.decode(w, r, &req) {
		return
	}

	existing, err := h.lists.FindByID(r.Context(), id)
	if err != nil {
		h.handleStoreError(w, r, err)
		return
	}

	list := req.Patch().Merge(*existing)
	if !h.validate(w, validation.ListRules, list.Fields()) {
		return
	}

	if err := h.lists.Update(r.Context(), &list); err != nil {
		h.handleStoreError(w, r, err)
		return
	}

	h.metrics.IncUpdated(h.name)
	h.logger.Info("list_updated", "list_id", list.ID)
	writeJSON(w, http.StatusOK, list)
}

// Delete removes a list and its tasks.
// DELETE /lists/{id}
func (h *ListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	removed, err := h.lists.DeleteByID(r.Context(), id)
	if err != nil {
		h.handleStoreError(w, r, err)
		return
	}
	if removed == 0 {
		h.notFound(w, "List not found")
		return
	}

	h.metrics.IncDeleted(h.name)
	h.logger.Info("list_deleted", "list_id", id)
	w.WriteHeader(http.StatusNoContent)
}
