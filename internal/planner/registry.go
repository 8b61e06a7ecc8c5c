package planner

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"planner_service/internal/domain"
)

// extractPlannable maps a learning object to its type-specific payload and
// plannable date. The switch is the closed registry: a variant missing here
// is a caller contract violation, surfaced as ErrUnsupportedPlannableType.
func extractPlannable(obj *domain.LearningObject) (Plannable, *time.Time, error) {
	switch obj.Type {
	case domain.PlannableAssignment, domain.PlannableQuiz:
		return Plannable{
			"id":              obj.ID,
			"title":           obj.Title,
			"due_at":          obj.DueAt,
			"points_possible": obj.PointsPossible,
		}, obj.DueAt, nil

	case domain.PlannableWikiPage:
		return Plannable{
			"id":        obj.ID,
			"title":     obj.Title,
			"todo_date": obj.TodoDate,
		}, obj.TodoDate, nil

	case domain.PlannableDiscussionTopic:
		date := obj.TodoDate
		if date == nil {
			date = obj.DueAt
		}
		return Plannable{
			"id":            obj.ID,
			"title":         obj.Title,
			"todo_date":     obj.TodoDate,
			"assignment_id": obj.AssignmentID,
			"unread_count":  obj.UnreadCount,
			"read_state":    obj.ReadState,
		}, date, nil

	case domain.PlannableAnnouncement:
		// Announcements never carry a todo_date key.
		date := obj.PostedAt
		if date == nil {
			created := obj.CreatedAt
			date = &created
		}
		return Plannable{
			"id":         obj.ID,
			"title":      obj.Title,
			"created_at": obj.CreatedAt,
		}, date, nil

	case domain.PlannableSubAssignment:
		return Plannable{
			"id":                 obj.ID,
			"title":              obj.Title,
			"due_at":             obj.DueAt,
			"points_possible":    obj.PointsPossible,
			"sub_assignment_tag": obj.SubAssignmentTag,
			"unread_count":       obj.UnreadCount,
			"read_state":         obj.ReadState,
		}, obj.DueAt, nil

	case domain.PlannableCalendarEvent:
		payload := Plannable{
			"id":          obj.ID,
			"title":       obj.Title,
			"start_at":    obj.StartAt,
			"end_at":      obj.EndAt,
			"all_day":     obj.AllDay,
			"description": obj.Description,
		}
		if url := extractMeetingURL(obj.Description, obj.LocationName); url != "" {
			payload["online_meeting_url"] = url
		}
		return payload, obj.StartAt, nil

	case domain.PlannablePlannerNote:
		payload := Plannable{
			"id":        obj.ID,
			"title":     obj.Title,
			"todo_date": obj.TodoDate,
			"user_id":   obj.UserID,
		}
		if obj.CourseID != uuid.Nil {
			payload["course_id"] = obj.CourseID
		}
		return payload, obj.TodoDate, nil

	case domain.PlannableAssessmentRequest:
		// Title and todo_date are taken from the reviewed assignment and
		// the reviewed submission's cached due date, set at load time.
		return Plannable{
			"id":        obj.ID,
			"title":     obj.Title,
			"todo_date": obj.TodoDate,
		}, obj.TodoDate, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnsupportedPlannableType, obj.Type)
	}
}
