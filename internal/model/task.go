package model

import "time"

// DefaultDueDate is the due date of a task created without one: the Unix epoch.
var DefaultDueDate = time.Unix(0, 0).UTC()

// Task belongs to a List.
type Task struct {
	ID          int64     `json:"id"`
	ListID      int64     `json:"listId"`
	Text        string    `json:"text"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"dueDate"`
	Completed   bool      `json:"completed"`
}

// NewTask returns a task with the default description, due date and
// completion state.
func NewTask(listID int64, text string) Task {
	return Task{
		ListID:      listID,
		Text:        text,
		Description: "",
		DueDate:     DefaultDueDate,
		Completed:   false,
	}
}

// TaskPatch carries the fields of a task update. Nil fields are left untouched.
type TaskPatch struct {
	ListID      *int64
	Text        *string
	Description *string
	DueDate     *time.Time
	Completed   *bool
}

// Merge overlays the patch onto existing and returns the result.
func (p TaskPatch) Merge(existing Task) Task {
	merged := existing
	if p.ListID != nil {
		merged.ListID = *p.ListID
	}
	if p.Text != nil {
		merged.Text = *p.Text
	}
	if p.Description != nil {
		merged.Description = *p.Description
	}
	if p.DueDate != nil {
		merged.DueDate = p.DueDate.UTC().Truncate(time.Microsecond)
	}
	if p.Completed != nil {
		merged.Completed = *p.Completed
	}
	return merged
}

// Fields returns the task's values keyed by their JSON field names.
func (t Task) Fields() map[string]any {
	return map[string]any{
		"listId":      t.ListID,
		"text":        t.Text,
		"description": t.Description,
		"dueDate":     t.DueDate,
		"completed":   t.Completed,
	}
}
