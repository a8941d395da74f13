package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// Optional is a JSON field that remembers whether it was present in the
// decoded document. A present null leaves Set true and Value nil.
type Optional[T any] struct {
	Set   bool
	Value *T
}

// Some returns a present, non-null Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

// Null returns a present Optional holding JSON null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// IsNull reports whether the field was sent as an explicit null.
func (o Optional[T]) IsNull() bool {
	return o.Set && o.Value == nil
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// TaskPatch is a partial update. Fields left unset keep their current value.
type TaskPatch struct {
	Title       Optional[string]     `json:"title"`
	Description Optional[string]     `json:"description"`
	Status      Optional[TaskStatus] `json:"status"`
	Priority    Optional[int]        `json:"priority"`
}

// ApplyTo merges the patch into t and bumps UpdatedAt. The patch must
// already be validated; null title or status values are ignored.
func (p TaskPatch) ApplyTo(t *Task, now time.Time) {
	if p.Title.Set && p.Title.Value != nil {
		t.Title = *p.Title.Value
	}
	if p.Description.Set {
		t.Description = p.Description.Value
	}
	if p.Status.Set && p.Status.Value != nil {
		t.Status = *p.Status.Value
	}
	if p.Priority.Set {
		t.Priority = p.Priority.Value
	}
	now = now.UTC().Truncate(time.Microsecond)
	if !now.After(t.UpdatedAt) {
		now = t.UpdatedAt.Truncate(time.Microsecond).Add(time.Microsecond)
	}
	t.UpdatedAt = now
}
