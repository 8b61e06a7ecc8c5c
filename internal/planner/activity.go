package planner

import (
	"github.com/google/uuid"

	"planner_service/internal/domain"
)

// newActivity reports whether the item should surface the new-activity
// badge: unread discussion state, unread replies, or an unseen posted grade
// or comment. Checkpoints consult both their own submission and the parent
// assignment's.
func newActivity(obj *domain.LearningObject, userID uuid.UUID, sub, parentSub *domain.Submission) bool {
	switch obj.Type {
	case domain.PlannablePlannerNote,
		domain.PlannableCalendarEvent,
		domain.PlannableWikiPage,
		domain.PlannableAssessmentRequest:
		return false
	}

	switch obj.Type {
	case domain.PlannableDiscussionTopic, domain.PlannableAnnouncement, domain.PlannableSubAssignment:
		if obj.ReadState == domain.ReadStateUnread || obj.UnreadCount > 0 {
			return true
		}
	}

	return unseenSubmissionActivity(userID, sub) || unseenSubmissionActivity(userID, parentSub)
}

func unseenSubmissionActivity(userID uuid.UUID, s *domain.Submission) bool {
	if s == nil || !s.Unread {
		return false
	}
	if s.Graded() {
		return true
	}
	for _, c := range s.Comments {
		if c.AuthorID != userID {
			return true
		}
	}
	return false
}
