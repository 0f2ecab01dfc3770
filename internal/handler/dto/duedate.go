package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// dueDateLayouts are tried in order for string input. Values without a zone are UTC.
var dueDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// DueDate decodes a task due date from either an ISO 8601 string or
// a number of milliseconds since the Unix epoch.
type DueDate struct {
	time.Time
}

// DueDateError reports a dueDate value that could not be parsed.
type DueDateError struct {
	Value string
}

func (e *DueDateError) Error() string {
	return fmt.Sprintf("invalid dueDate %s", e.Value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *DueDate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return &DueDateError{Value: string(data)}
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return &DueDateError{Value: string(data)}
		}
		t, ok := ParseDueDate(s)
		if !ok {
			return &DueDateError{Value: string(data)}
		}
		d.Time = t
		return nil
	}

	var millis json.Number
	if err := json.Unmarshal(data, &millis); err != nil {
		return &DueDateError{Value: string(data)}
	}
	ms, err := millis.Int64()
	if err != nil {
		return &DueDateError{Value: string(data)}
	}
	t := time.UnixMilli(ms).UTC()
	if !encodable(t) {
		return &DueDateError{Value: string(data)}
	}
	d.Time = t
	return nil
}

// ParseDueDate parses s with the accepted layouts and returns the time in UTC,
// truncated to the microsecond precision of the store.
func ParseDueDate(s string) (time.Time, bool) {
	for _, layout := range dueDateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		t = t.UTC().Truncate(time.Microsecond)
		if !encodable(t) {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}

// encodable reports whether t has a four digit year, which RFC 3339 output requires.
func encodable(t time.Time) bool {
	year := t.Year()
	return year >= 0 && year <= 9999
}
