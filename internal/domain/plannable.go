package domain

import (
	"time"

	"github.com/google/uuid"
)

type PlannableType string

const (
	PlannableUnspecified       PlannableType = "UNSPECIFIED"
	PlannableAssignment        PlannableType = "assignment"
	PlannableQuiz              PlannableType = "quiz"
	PlannableWikiPage          PlannableType = "wiki_page"
	PlannableDiscussionTopic   PlannableType = "discussion_topic"
	PlannableSubAssignment     PlannableType = "sub_assignment"
	PlannableCalendarEvent     PlannableType = "calendar_event"
	PlannableAnnouncement      PlannableType = "announcement"
	PlannablePlannerNote       PlannableType = "planner_note"
	PlannableAssessmentRequest PlannableType = "assessment_request"
)

// LearningObject is the closed variant set of everything that can show up
// on a planner. Type selects the variant; the optional fields below the
// common block are only meaningful for the variants noted next to them.
type LearningObject struct {
	ID       uuid.UUID
	Type     PlannableType
	CourseID uuid.UUID // uuid.Nil for course-less planner notes
	Title    string

	CreatedAt time.Time

	DueAt    *time.Time // assignment, quiz, sub_assignment
	TodoDate *time.Time // wiki_page, discussion_topic, planner_note, assessment_request
	PostedAt *time.Time // announcement

	// calendar_event
	StartAt      *time.Time
	EndAt        *time.Time
	AllDay       bool
	Description  *string
	LocationName *string

	// gradable variants
	PointsPossible       *float64
	AnonymousPeerReviews bool

	// discussion_topic: backing assignment of a graded discussion.
	// assessment_request: the assignment under review.
	AssignmentID *uuid.UUID

	// discussion-like variants, per viewing user
	ReadState   ReadState
	UnreadCount int

	// sub_assignment (checkpoint)
	ParentAssignmentID        *uuid.UUID
	SubAssignmentTag          SubAssignmentTag
	ReplyToEntryRequiredCount int

	// planner_note
	UserID *uuid.UUID

	// assessment_request: the student whose work is being reviewed
	RevieweeUserID *uuid.UUID
}

// SubmissionObjectID returns the learning object id submissions are keyed
// by for this variant, or nil when the variant carries no submissions.
func (o *LearningObject) SubmissionObjectID() *uuid.UUID {
	switch o.Type {
	case PlannableAssignment, PlannableQuiz, PlannableSubAssignment:
		id := o.ID
		return &id
	case PlannableDiscussionTopic:
		return o.AssignmentID
	default:
		return nil
	}
}

// HasSubmissions reports whether the variant is submission-bearing for the
// purposes of the planner's submissions block.
func (o *LearningObject) HasSubmissions() bool {
	return o.SubmissionObjectID() != nil
}
