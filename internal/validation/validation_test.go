package validation

import (
	"strings"
	"testing"
	"time"
)

func TestValidate_UserRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		fields    map[string]any
		wantRules []string
	}{
		{"valid", map[string]any{"name": "alice"}, nil},
		{"missing name", map[string]any{}, []string{RuleRequired}},
		{"empty name", map[string]any{"name": ""}, []string{RuleRequired}},
		{"blank name", map[string]any{"name": "   "}, []string{RuleRequired}},
		{"nil name", map[string]any{"name": nil}, []string{RuleRequired}},
		{"wrong type", map[string]any{"name": 42}, []string{RuleType}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			errs := Validate(UserRules, tt.fields)
			assertRules(t, errs, tt.wantRules)
		})
	}
}

func TestValidate_ListRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		fields    map[string]any
		wantRules []string
	}{
		{"valid", map[string]any{"userId": int64(1), "name": "home"}, nil},
		{"zero user", map[string]any{"userId": int64(0), "name": "home"}, []string{RulePositive}},
		{"negative user", map[string]any{"userId": int64(-4), "name": "home"}, []string{RulePositive}},
		{"user as string", map[string]any{"userId": "1", "name": "home"}, []string{RuleType}},
		{"both missing", map[string]any{}, []string{RuleRequired, RuleRequired}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			errs := Validate(ListRules, tt.fields)
			assertRules(t, errs, tt.wantRules)
		})
	}
}

func TestValidate_TaskRules_OptionalFields(t *testing.T) {
	t.Parallel()

	fields := map[string]any{
		"listId": int64(3),
		"text":   "Buy milk",
	}
	if errs := Validate(TaskRules, fields); errs != nil {
		t.Fatalf("expected no errors for absent optional fields, got %v", errs)
	}

	fields["description"] = ""
	fields["dueDate"] = time.Unix(0, 0)
	fields["completed"] = false
	if errs := Validate(TaskRules, fields); errs != nil {
		t.Fatalf("expected no errors for default optional values, got %v", errs)
	}

	fields["completed"] = "yes"
	errs := Validate(TaskRules, fields)
	assertRules(t, errs, []string{RuleType})
	if errs[0].Field != "completed" {
		t.Errorf("Field = %q, want completed", errs[0].Field)
	}
}

func TestValidate_OrderFollowsSchema(t *testing.T) {
	t.Parallel()

	errs := Validate(TaskRules, map[string]any{"dueDate": "tomorrow"})

	want := []string{"listId", "text", "dueDate"}
	if len(errs) != len(want) {
		t.Fatalf("got %d errors, want %d: %v", len(errs), len(want), errs)
	}
	for i, field := range want {
		if errs[i].Field != field {
			t.Errorf("errs[%d].Field = %q, want %q", i, errs[i].Field, field)
		}
	}
}

func TestErrors_Error(t *testing.T) {
	t.Parallel()

	errs := Errors{Required("name"), InvalidDate("dueDate")}
	msg := errs.Error()

	if !strings.HasPrefix(msg, "validation failed: ") {
		t.Errorf("unexpected prefix: %s", msg)
	}
	if !strings.Contains(msg, "name should not be empty") {
		t.Errorf("missing name message: %s", msg)
	}
}

func assertRules(t *testing.T, errs Errors, want []string) {
	t.Helper()

	if len(errs) != len(want) {
		t.Fatalf("got %d errors %v, want rules %v", len(errs), errs, want)
	}
	for i, rule := range want {
		if errs[i].Rule != rule {
			t.Errorf("errs[%d].Rule = %q, want %q", i, errs[i].Rule, rule)
		}
	}
}
