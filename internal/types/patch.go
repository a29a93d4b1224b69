package types

import (
	"bytes"
	"encoding/json"
)

// OptionalUserID tracks JSON field presence. A plain *uint cannot tell
// "assignee_id was omitted" apart from "assignee_id": null, and the two mean
// different things in a task patch: omitted leaves the assignee alone,
// explicit null clears it.
type OptionalUserID struct {
	Set   bool
	Value *uint
}

func (o *OptionalUserID) UnmarshalJSON(data []byte) error {
	o.Set = true

	if bytes.Equal(data, []byte("null")) {
		o.Value = nil
		return nil
	}

	return json.Unmarshal(data, &o.Value)
}

func (o OptionalUserID) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}

	return json.Marshal(*o.Value)
}

// ProjectPatch carries a partial project update. Nil fields are untouched.
type ProjectPatch struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
}

// TaskPatch carries a partial task update. Nil pointer fields are untouched;
// the assignee uses OptionalUserID so an explicit null can clear it.
type TaskPatch struct {
	Title       *string        `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string        `json:"description"`
	Status      *string        `json:"status" binding:"omitempty,oneof=todo in_progress review done"`
	Complexity  *string        `json:"complexity" binding:"omitempty,oneof=low medium high critical"`
	Assignee    OptionalUserID `json:"assignee_id"`
}
