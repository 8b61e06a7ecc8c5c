package planner

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"planner_service/internal/domain"
)

// URLBuilder produces the canonical navigation urls for planner items.
type URLBuilder interface {
	ContextURL(courseID uuid.UUID, plannableType domain.PlannableType, objectID uuid.UUID) string
	AssignmentURL(courseID, assignmentID uuid.UUID) string
	SubmissionURL(courseID, assignmentID, userID uuid.UUID) string
	AnonymousSubmissionURL(courseID, assignmentID uuid.UUID, anonymousID string) string
	ReviewURL(courseID, assignmentID uuid.UUID, anonymousID string) string
	CalendarEventURL(eventID uuid.UUID) string
}

// Routes is the default URLBuilder, producing course-scoped paths under an
// optional base url.
type Routes struct {
	Base string
}

func NewRoutes(base string) Routes {
	return Routes{Base: base}
}

func (r Routes) ContextURL(courseID uuid.UUID, plannableType domain.PlannableType, objectID uuid.UUID) string {
	var segment string
	switch plannableType {
	case domain.PlannableAssignment, domain.PlannableSubAssignment:
		segment = "assignments"
	case domain.PlannableQuiz:
		segment = "quizzes"
	case domain.PlannableWikiPage:
		segment = "pages"
	case domain.PlannableDiscussionTopic, domain.PlannableAnnouncement:
		segment = "discussion_topics"
	default:
		return ""
	}
	return fmt.Sprintf("%s/courses/%s/%s/%s", r.Base, courseID, segment, objectID)
}

func (r Routes) AssignmentURL(courseID, assignmentID uuid.UUID) string {
	return fmt.Sprintf("%s/courses/%s/assignments/%s", r.Base, courseID, assignmentID)
}

func (r Routes) SubmissionURL(courseID, assignmentID, userID uuid.UUID) string {
	return fmt.Sprintf("%s/courses/%s/assignments/%s/submissions/%s", r.Base, courseID, assignmentID, userID)
}

func (r Routes) AnonymousSubmissionURL(courseID, assignmentID uuid.UUID, anonymousID string) string {
	return fmt.Sprintf("%s/courses/%s/assignments/%s/anonymous_submissions/%s", r.Base, courseID, assignmentID, anonymousID)
}

func (r Routes) ReviewURL(courseID, assignmentID uuid.UUID, anonymousID string) string {
	return fmt.Sprintf("%s/courses/%s/assignments/%s/review/%s", r.Base, courseID, assignmentID, anonymousID)
}

func (r Routes) CalendarEventURL(eventID uuid.UUID) string {
	return fmt.Sprintf("%s/calendar?event_id=%s", r.Base, eventID)
}

// resolveHTMLURL picks the navigation url for an item. Peer reviews point
// at the assignment until the assessor has submitted their own work, then
// at the reviewed submission (anonymized or enhanced-review variants when
// those apply). Submitted gradable objects link to the submission;
// everything else gets the context-scoped canonical url.
func (a *Aggregator) resolveHTMLURL(
	ctx context.Context,
	obj *domain.LearningObject,
	userID uuid.UUID,
	flags domain.FeatureFlags,
	sub *domain.Submission,
) (string, error) {
	switch obj.Type {
	case domain.PlannableAssessmentRequest:
		return a.resolvePeerReviewURL(ctx, obj, userID, flags)
	case domain.PlannableCalendarEvent:
		return a.urls.CalendarEventURL(obj.ID), nil
	case domain.PlannablePlannerNote:
		return "", nil
	}

	if sub != nil && (sub.Submitted() || sub.Graded()) {
		objectID := obj.SubmissionObjectID()
		return a.urls.SubmissionURL(obj.CourseID, *objectID, userID), nil
	}

	return a.urls.ContextURL(obj.CourseID, obj.Type, obj.ID), nil
}

func (a *Aggregator) resolvePeerReviewURL(
	ctx context.Context,
	obj *domain.LearningObject,
	userID uuid.UUID,
	flags domain.FeatureFlags,
) (string, error) {
	if obj.AssignmentID == nil {
		return "", nil
	}
	assignmentID := *obj.AssignmentID

	assessorSub, err := a.store.FindSubmission(ctx, assignmentID, userID)
	if err != nil {
		return "", fmt.Errorf("failed to load assessor submission: %w", err)
	}
	if assessorSub == nil || !assessorSub.Submitted() {
		return a.urls.AssignmentURL(obj.CourseID, assignmentID), nil
	}

	if obj.RevieweeUserID == nil {
		return a.urls.AssignmentURL(obj.CourseID, assignmentID), nil
	}

	revieweeSub, err := a.store.FindSubmission(ctx, assignmentID, *obj.RevieweeUserID)
	if err != nil {
		return "", fmt.Errorf("failed to load reviewee submission: %w", err)
	}

	if flags.EnhancedReviewUI && revieweeSub != nil {
		return a.urls.ReviewURL(obj.CourseID, assignmentID, revieweeSub.AnonymousID), nil
	}

	if obj.AnonymousPeerReviews && revieweeSub != nil {
		return a.urls.AnonymousSubmissionURL(obj.CourseID, assignmentID, revieweeSub.AnonymousID), nil
	}

	return a.urls.SubmissionURL(obj.CourseID, assignmentID, *obj.RevieweeUserID), nil
}
