package domain

import "time"

type Task struct {
	ID          int64
	UserID      int64
	Title       string
	Description *string // nil means no description
	IsCompleted bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OptionalString separates "leave as is" (Set=false) from "clear"
// (Set=true, Value=nil) and "replace" (Set=true, Value!=nil).
type OptionalString struct {
	Set   bool
	Value *string
}

// TaskPatch is a partial update. Nil pointers and unset optionals keep the
// stored value; UpdatedAt is refreshed regardless.
type TaskPatch struct {
	Title       *string
	Description OptionalString
	IsCompleted *bool
}

// Apply merges p into t. Used by stores that cannot express the merge in SQL.
func (p TaskPatch) Apply(t *Task, now time.Time) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description.Set {
		t.Description = p.Description.Value
	}
	if p.IsCompleted != nil {
		t.IsCompleted = *p.IsCompleted
	}
	t.UpdatedAt = now
}
