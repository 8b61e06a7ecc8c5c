package service

import (
	"time"

	"github.com/google/uuid"

	"planner_service/internal/domain"
)

const (
	EventOverrideCreated = "planner_override_created"
	EventOverrideUpdated = "planner_override_updated"
	EventNoteCreated     = "planner_note_created"
)

// OverrideEvent is published to the planner events topic whenever a user
// creates or edits an override.
type OverrideEvent struct {
	Event          string               `json:"event"`
	OverrideID     uuid.UUID            `json:"override_id"`
	PlannableType  domain.PlannableType `json:"plannable_type"`
	PlannableID    uuid.UUID            `json:"plannable_id"`
	UserID         uuid.UUID            `json:"user_id"`
	MarkedComplete bool                 `json:"marked_complete"`
	Dismissed      bool                 `json:"dismissed"`
	OccurredAt     time.Time            `json:"occurred_at"`
}

type NoteEvent struct {
	Event      string     `json:"event"`
	NoteID     uuid.UUID  `json:"note_id"`
	UserID     uuid.UUID  `json:"user_id"`
	CourseID   *uuid.UUID `json:"course_id,omitempty"`
	Title      string     `json:"title"`
	TodoDate   *time.Time `json:"todo_date"`
	OccurredAt time.Time  `json:"occurred_at"`
}
