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

// UserHandler handles user endpoints.
type UserHandler struct {
	resource
	users repository.Gateway[model.User]
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users repository.Gateway[model.User], logger *slog.Logger, recorder metrics.Recorder) *UserHandler {
	return &UserHandler{
		resource: newResource(metrics.ResourceUser, "User", logger, recorder),
		users:    users,
	}
}

// List returns every user.
// GET /users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.FindAll(r.Context())
	if err != nil {
		h.handleStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(users))
}

// Get returns one user.
// GET /users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	user, err := h.users.FindByID(r.Context(), id)
	if err != nil {
		h.handleStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Create adds a user.
// POST /users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.UserRequest
	if !h.decode(w, r, &req) {
		return
	}

	user := req.Patch().Merge(model.User{})
	if !h.validate(w, validation.UserRules, user.Fields()) {
		return
	}

	if err := h.users.Insert(r.Context(), &user); err != nil {
		h.handleStoreError(w, r, err)
		return
	}

	h.metrics.IncCreated(h.name)
	h.logger.Info("user_created", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, user)
}

// Update overlays the supplied fields onto an existing user.
// PUT /users/{id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req dto.UserRequest
	if !h.decode(w, r, &req) {
		return
	}

	existing, err := h.users.FindByID(r.Context(), id)
	if err != nil {
		h.handleStoreError(w, r, err)
		return
	}

	user := req.Patch().Merge(*existing)
	if !h.validate(w, validation.UserRules, user.Fields()) {
		return
	}

	if err := h.users.Update(r.Context(), &user); err != nil {
		h.handleStoreError(w, r, err)
		return
	}

	h.metrics.IncUpdated(h.name)
	h.logger.Info("user_updated", "user_id", user.ID)
	writeJSON(w, http.StatusOK, user)
}

// Delete removes a user together with its lists and their tasks.
// DELETE /users/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	removed, err := h.users.DeleteByID(r.Context(), id)
	if err != nil {
		h.handleStoreError(w, r, err)
		return
	}
	if removed == 0 {
		h.notFound(w, "User not found")
		return
	}

	h.metrics.IncDeleted(h.name)
	h.logger.Info("user_deleted", "user_id", id)
	w.WriteHeader(http.StatusNoContent)
}
