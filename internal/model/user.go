// Package model defines domain entities for the application.
package model

// User owns zero or more Lists.
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// UserPatch carries the fields of a user update. Nil fields are left untouched.
type UserPatch struct {
	Name *string
}

// Merge overlays the patch onto existing and returns the result.
// existing is not modified.
func (p UserPatch) Merge(existing User) User {
	merged := existing
	if p.Name != nil {
		merged.Name = *p.Name
	}
	return merged
}

// Fields returns the user's values keyed by their JSON field names.
func (u User) Fields() map[string]any {
	return map[string]any{
		"name": u.Name,
	}
}
