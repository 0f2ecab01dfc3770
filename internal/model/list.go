package model

// List belongs to a User and owns zero or more Tasks.
type List struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"userId"`
	Name   string `json:"name"`
}

// ListPatch carries the fields of a list update. Nil fields are left untouched.
type ListPatch struct {
	UserID *int64
	Name   *string
}

// Merge overlays the patch onto existing and returns the result.
func (p ListPatch) Merge(existing List) List {
	merged := existing
	if p.UserID != nil {
		merged.UserID = *p.UserID
	}
	if p.Name != nil {
		merged.Name = *p.Name
	}
	return merged
}

// Fields returns the list's values keyed by their JSON field names.
func (l List) Fields() map[string]any {
	return map[string]any{
		"userId": l.UserID,
		"name":   l.Name,
	}
}
