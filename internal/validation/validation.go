// Package validation checks candidate entities against static per-field rule tables.
//
// A rule table is consulted by the pure Validate function; entities expose their
// values through a field map, so the rules are independent of how an entity is stored.
package validation

import (
	"fmt"
	"strings"
	"time"
)

// Kind is the type constraint of a field.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindBool
	KindTime
)

// String returns the name used in constraint messages.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "integer"
	case KindBool:
		return "boolean"
	case KindTime:
		return "date"
	default:
		return "unknown"
	}
}

// Rule names reported in FieldError.Rule.
const (
	RuleRequired = "required"
	RuleType     = "type"
	RulePositive = "positive"
	RuleDate     = "date"
	RuleExists   = "exists"
)

// Rule describes the constraints on a single field.
type Rule struct {
	Field    string
	Kind     Kind
	Required bool
	// Positive requires integer fields to be strictly greater than zero.
	Positive bool
}

// Schema is an ordered rule table. Violations are reported in schema order.
type Schema []Rule

// FieldError is a single constraint violation.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Errors is a non-empty collection of violations.
type Errors []FieldError

// Error implements the error interface.
func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Rule tables for each entity.
var (
	UserRules = Schema{
		{Field: "name", Kind: KindString, Required: true},
	}

	ListRules = Schema{
		{Field: "userId", Kind: KindInt, Required: true, Positive: true},
		{Field: "name", Kind: KindString, Required: true},
	}

	TaskRules = Schema{
		{Field: "listId", Kind: KindInt, Required: true, Positive: true},
		{Field: "text", Kind: KindString, Required: true},
		{Field: "description", Kind: KindString},
		{Field: "dueDate", Kind: KindTime},
		{Field: "completed", Kind: KindBool},
	}
)

// Validate checks fields against the schema. It returns nil when every rule holds.
// At most one violation is reported per field.
func Validate(schema Schema, fields map[string]any) Errors {
	var errs Errors
	for _, rule := range schema {
		if fe, ok := check(rule, fields); !ok {
			errs = append(errs, fe)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// check applies a single rule.
func check(rule Rule, fields map[string]any) (FieldError, bool) {
	value, present := fields[rule.Field]
	if !present || value == nil {
		if rule.Required {
			return Required(rule.Field), false
		}
		return FieldError{}, true
	}

	switch rule.Kind {
	case KindString:
		s, ok := value.(string)
		if !ok {
			return TypeMismatch(rule.Field, rule.Kind), false
		}
		if rule.Required && strings.TrimSpace(s) == "" {
			return Required(rule.Field), false
		}
	case KindInt:
		n, ok := toInt64(value)
		if !ok {
			return TypeMismatch(rule.Field, rule.Kind), false
		}
		if rule.Positive && n <= 0 {
			return FieldError{
				Field:   rule.Field,
				Rule:    RulePositive,
				Message: fmt.Sprintf("%s must be a positive integer", rule.Field),
			}, false
		}
	case KindBool:
		if _, ok := value.(bool); !ok {
			return TypeMismatch(rule.Field, rule.Kind), false
		}
	case KindTime:
		if _, ok := value.(time.Time); !ok {
			return TypeMismatch(rule.Field, rule.Kind), false
		}
	}

	return FieldError{}, true
}

// Required reports a missing or empty required field.
func Required(field string) FieldError {
	return FieldError{
		Field:   field,
		Rule:    RuleRequired,
		Message: fmt.Sprintf("%s should not be empty", field),
	}
}

// TypeMismatch reports a value of the wrong kind.
func TypeMismatch(field string, kind Kind) FieldError {
	return FieldError{
		Field:   field,
		Rule:    RuleType,
		Message: fmt.Sprintf("%s must be a %s", field, kind),
	}
}

// InvalidDate reports an unparseable date value.
func InvalidDate(field string) FieldError {
	return FieldError{
		Field:   field,
		Rule:    RuleDate,
		Message: fmt.Sprintf("%s must be an ISO 8601 date or a Unix timestamp in milliseconds", field),
	}
}

// MissingReference reports a foreign key that points at no existing row.
func MissingReference(field, entity string) FieldError {
	return FieldError{
		Field:   field,
		Rule:    RuleExists,
		Message: fmt.Sprintf("%s must reference an existing %s", field, entity),
	}
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}
