package domain

import (
	"time"

	"github.com/google/uuid"
)

// PlannerOverride is a user-specific completion marker on a plannable item,
// independent of the item's grading state. At most one override exists per
// (plannable, user) pair.
type PlannerOverride struct {
	ID             uuid.UUID     `json:"id"`
	PlannableType  PlannableType `json:"plannable_type"`
	PlannableID    uuid.UUID     `json:"plannable_id"`
	UserID         uuid.UUID     `json:"user_id"`
	MarkedComplete bool          `json:"marked_complete"`
	Dismissed      bool          `json:"dismissed"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}
