package domain

type ReadState string

const (
	ReadStateRead   ReadState = "read"
	ReadStateUnread ReadState = "unread"
)

type SubAssignmentTag string

const (
	SubAssignmentReplyToTopic SubAssignmentTag = "reply_to_topic"
	SubAssignmentReplyToEntry SubAssignmentTag = "reply_to_entry"
)

type WorkflowState string

const (
	WorkflowUnsubmitted   WorkflowState = "unsubmitted"
	WorkflowSubmitted     WorkflowState = "submitted"
	WorkflowPendingReview WorkflowState = "pending_review"
	WorkflowGraded        WorkflowState = "graded"
)

func (t PlannableType) IsValid() bool {
	switch t {
	case PlannableAssignment, PlannableQuiz, PlannableWikiPage,
		PlannableDiscussionTopic, PlannableSubAssignment, PlannableCalendarEvent,
		PlannableAnnouncement, PlannablePlannerNote, PlannableAssessmentRequest:
		return true
	default:
		return false
	}
}

func ToPlannableType(s string) PlannableType {
	t := PlannableType(s)
	if !t.IsValid() {
		return PlannableUnspecified
	}
	return t
}
