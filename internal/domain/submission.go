package domain

import (
	"time"

	"github.com/google/uuid"
)

type Submission struct {
	ID       uuid.UUID
	ObjectID uuid.UUID // submission-bearing learning object this belongs to
	UserID   uuid.UUID

	SubmittedAt   *time.Time
	GradedAt      *time.Time
	Score         *float64
	Excused       bool
	WorkflowState WorkflowState
	PostedAt      *time.Time
	CachedDueDate *time.Time
	RedoRequest   bool

	// Unread is set while a posted grade or comment has not been viewed by
	// the submitting student.
	Unread bool

	AnonymousID string
	CreatedAt   time.Time

	// Comments are ordered by creation time, oldest first.
	Comments []SubmissionComment
}

// Graded reports whether the submission has a released grade.
func (s *Submission) Graded() bool {
	return s.WorkflowState == WorkflowGraded && s.Score != nil
}

// Submitted reports whether the student has actually turned something in.
func (s *Submission) Submitted() bool {
	return s.SubmittedAt != nil
}

// LatestCommentAt returns the creation time of the newest comment, or the
// zero time when there are none.
func (s *Submission) LatestCommentAt() time.Time {
	var latest time.Time
	for _, c := range s.Comments {
		if c.CreatedAt.After(latest) {
			latest = c.CreatedAt
		}
	}
	return latest
}

type SubmissionComment struct {
	ID              uuid.UUID
	SubmissionID    uuid.UUID
	AuthorID        uuid.UUID
	AuthorName      string
	AuthorAvatarURL string
	Comment         string
	MediaCommentID  *string
	CreatedAt       time.Time
}
