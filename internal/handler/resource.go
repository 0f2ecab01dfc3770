package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tasklist/tasklist/internal/handler/dto"
	"github.com/tasklist/tasklist/internal/metrics"
	"github.com/tasklist/tasklist/internal/middleware"
	"github.com/tasklist/tasklist/internal/repository"
	"github.com/tasklist/tasklist/internal/validation"
)

// resource holds what every entity handler shares: its name for metrics and
// messages, a logger and a metrics recorder.
type resource struct {
	name    string
	label   string
	logger  *slog.Logger
	metrics metrics.Recorder
}

func newResource(name, label string, logger *slog.Logger, recorder metrics.Recorder) resource {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return resource{name: name, label: label, logger: logger, metrics: recorder}
}

// pathID parses the {id} URL parameter as a positive base-10 integer.
// On failure it writes a 400 response and returns false.
func (res resource) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		res.metrics.IncRejected(res.name)
		writeError(w, http.StatusBadRequest, codeInvalidID, "Invalid id: must be a positive integer")
		return 0, false
	}
	return id, true
}

// errTrailingData reports a body with content after its JSON value.
var errTrailingData = errors.New("unexpected data after JSON value")

// decodeBody decodes exactly one JSON value from body into dst.
func decodeBody(body io.Reader, dst any) error {
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		return err
	}

	var extra json.RawMessage
	switch err := dec.Decode(&extra); {
	case errors.Is(err, io.EOF):
		return nil
	case err != nil:
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		return errTrailingData
	default:
		return errTrailingData
	}
}

// decode reads the JSON request body into dst.
// On failure it writes the error response and returns false.
func (res resource) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := decodeBody(r.Body, dst)
	if err == nil {
		return true
	}

	res.metrics.IncRejected(res.name)

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		writeError(w, http.StatusRequestEntityTooLarge, codePayloadTooLarge, "Request body too large")
		return false
	}
	if errs, ok := dto.FieldErrors(err); ok {
		writeJSON(w, http.StatusBadRequest, errs)
		return false
	}

	writeError(w, http.StatusBadRequest, codeInvalidJSON, "Request body must be a JSON object")
	return false
}

// validate checks fields against schema and writes the violations as a 400
// response when there are any.
func (res resource) validate(w http.ResponseWriter, schema validation.Schema, fields map[string]any) bool {
	errs := validation.Validate(schema, fields)
	if errs == nil {
		return true
	}
	res.metrics.IncRejected(res.name)
	writeJSON(w, http.StatusBadRequest, errs)
	return false
}

func (res resource) notFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, codeNotFound, message)
}

// handleStoreError maps gateway errors to HTTP responses.
// Unexpected errors are logged and reported to the client without detail.
func (res resource) handleStoreError(w http.ResponseWriter, r *http.Request, err error) {
	var fkErr *repository.ForeignKeyError

	switch {
	case errors.Is(err, repository.ErrNotFound):
		res.notFound(w, res.label+" not found")
	case errors.As(err, &fkErr):
		res.metrics.IncRejected(res.name)
		writeJSON(w, http.StatusBadRequest, validation.Errors{
			validation.MissingReference(fkErr.Field, fkErr.Entity),
		})
	default:
		res.metrics.IncFailed(res.name)
		res.logger.Error("internal_error",
			"resource", res.name,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, codeInternal, "An internal error occurred")
	}
}

// nonNil keeps empty collections encoding as [] rather than null.
func nonNil[E any](items []E) []E {
	if items == nil {
		return []E{}
	}
	return items
}
