// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"encoding/json"
	"errors"
	"reflect"

	"github.com/tasklist/tasklist/internal/model"
	"github.com/tasklist/tasklist/internal/validation"
)

// ErrorResponse represents an API error that is not a validation failure.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// UserRequest is the body of POST and PUT /users. Absent fields are nil.
type UserRequest struct {
	Name *string `json:"name"`
}

// Patch converts the request into a model patch.
func (r UserRequest) Patch() model.UserPatch {
	return model.UserPatch{Name: r.Name}
}

// ListRequest is the body of POST and PUT /lists.
type ListRequest struct {
	UserID *int64  `json:"userId"`
	Name   *string `json:"name"`
}

// Patch converts the request into a model patch.
func (r ListRequest) Patch() model.ListPatch {
	return model.ListPatch{UserID: r.UserID, Name: r.Name}
}

// TaskRequest is the body of POST and PUT /tasks.
type TaskRequest struct {
	ListID      *int64   `json:"listId"`
	Text        *string  `json:"text"`
	Description *string  `json:"description"`
	DueDate     *DueDate `json:"dueDate"`
	Completed   *bool    `json:"completed"`
}

// Patch converts the request into a model patch.
func (r TaskRequest) Patch() model.TaskPatch {
	p := model.TaskPatch{
		ListID:      r.ListID,
		Text:        r.Text,
		Description: r.Description,
		Completed:   r.Completed,
	}
	if r.DueDate != nil {
		due := r.DueDate.Time
		p.DueDate = &due
	}
	return p
}

// FieldErrors converts a body decoding error into per-field violations.
// It returns false when err is not tied to a specific field, e.g. malformed JSON.
func FieldErrors(err error) (validation.Errors, bool) {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return validation.Errors{validation.TypeMismatch(typeErr.Field, kindOf(typeErr.Type))}, true
	}

	var dateErr *DueDateError
	if errors.As(err, &dateErr) {
		return validation.Errors{validation.InvalidDate("dueDate")}, true
	}

	return nil, false
}

func kindOf(t reflect.Type) validation.Kind {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return validation.KindString
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return validation.KindInt
	case reflect.Bool:
		return validation.KindBool
	case reflect.Struct:
		return validation.KindTime
	default:
		return validation.KindString
	}
}
