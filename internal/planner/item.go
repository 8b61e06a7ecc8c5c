package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"planner_service/internal/domain"
)

var (
	// ErrUnsupportedPlannableType means the caller handed the aggregator an
	// object variant outside the registry. Contract violation, not recoverable.
	ErrUnsupportedPlannableType = errors.New("unsupported plannable type")

	// ErrMissingSubmissionContext means submission statuses were requested
	// for a user with no enrollment in the object's course.
	ErrMissingSubmissionContext = errors.New("user has no enrollment in the object's course")
)

// Plannable is the type-specific payload of a planner item. It is a map
// because the contract is key-presence sensitive: announcements must not
// carry a todo_date key at all, meeting urls appear only when detected.
type Plannable map[string]interface{}

type PlannerItem struct {
	PlannableID     uuid.UUID               `json:"plannable_id"`
	PlannableType   domain.PlannableType    `json:"plannable_type"`
	PlannableDate   *time.Time              `json:"plannable_date"`
	Plannable       Plannable               `json:"plannable"`
	ContextName     string                  `json:"context_name,omitempty"`
	ContextImage    *string                 `json:"context_image,omitempty"`
	HTMLURL         string                  `json:"html_url,omitempty"`
	PlannerOverride *domain.PlannerOverride `json:"planner_override"`
	Submissions     *SubmissionStatus       `json:"submissions,omitempty"`
	NewActivity     bool                    `json:"new_activity"`
	Details         Plannable               `json:"details,omitempty"`
}

type SubmissionStatus struct {
	Submitted    bool             `json:"submitted"`
	Excused      bool             `json:"excused"`
	Graded       bool             `json:"graded"`
	Late         bool             `json:"late"`
	Missing      bool             `json:"missing"`
	NeedsGrading bool             `json:"needs_grading"`
	HasFeedback  bool             `json:"has_feedback"`
	RedoRequest  bool             `json:"redo_request"`
	Feedback     *FeedbackSummary `json:"feedback,omitempty"`
}

// FeedbackSummary describes the most recent comment on the submission not
// authored by the viewing user. Author identity is withheld under anonymous
// peer review.
type FeedbackSummary struct {
	Comment         string `json:"comment"`
	AuthorName      string `json:"author_name,omitempty"`
	AuthorAvatarURL string `json:"author_avatar_url,omitempty"`
	IsMedia         bool   `json:"is_media"`
}

// Store is the slice of the persistence layer the aggregator reads from.
// Every Find method returns (nil, nil) when no matching row exists; absence
// is a valid result, never an error.
type Store interface {
	FindSubmission(ctx context.Context, objectID, userID uuid.UUID) (*domain.Submission, error)
	FindOverride(ctx context.Context, plannableType domain.PlannableType, plannableID, userID uuid.UUID) (*domain.PlannerOverride, error)
	GetCourse(ctx context.Context, id uuid.UUID) (*domain.Course, error)
	EnrollmentExists(ctx context.Context, courseID, userID uuid.UUID) (bool, error)
}

// Options is the per-call option bag.
type Options struct {
	// DueAfter restricts feedback lookups to submissions whose work fell
	// due (or, without a due date, was handed in) at or after the cutoff.
	DueAfter *time.Time

	// UseHTMLComment keeps markup in the feedback comment text. Off by
	// default: tags are stripped.
	UseHTMLComment bool

	// Now overrides the clock for missing/late checks. Zero means time.Now.
	Now time.Time
}

// Aggregator turns learning objects into normalized planner item records.
// It holds no state between calls; every record is a pure function of
// (object, user, flags, options) over the store's data.
type Aggregator struct {
	store Store
	urls  URLBuilder
}

func New(store Store, urls URLBuilder) *Aggregator {
	return &Aggregator{store: store, urls: urls}
}

func (a *Aggregator) ToPlannerItem(
	ctx context.Context,
	obj *domain.LearningObject,
	userID uuid.UUID,
	flags domain.FeatureFlags,
	opts Options,
) (*PlannerItem, error) {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	payload, date, err := extractPlannable(obj)
	if err != nil {
		return nil, err
	}

	item := &PlannerItem{
		PlannableID:   obj.ID,
		PlannableType: obj.Type,
		PlannableDate: date,
		Plannable:     payload,
	}

	if obj.Type == domain.PlannableSubAssignment {
		item.Details = Plannable{"reply_to_entry_required_count": obj.ReplyToEntryRequiredCount}
	}

	if obj.CourseID != uuid.Nil {
		course, err := a.store.GetCourse(ctx, obj.CourseID)
		if err != nil {
			return nil, fmt.Errorf("failed to load course %s: %w", obj.CourseID, err)
		}
		if course != nil {
			item.ContextName = course.Name
			item.ContextImage = course.ImageURL
		}
	}

	var sub, parentSub *domain.Submission
	if obj.HasSubmissions() {
		status, own, parent, err := a.submissionStatus(ctx, obj, userID, flags, opts)
		if err != nil {
			return nil, err
		}
		item.Submissions = status
		sub, parentSub = own, parent
	}

	item.NewActivity = newActivity(obj, userID, sub, parentSub)

	url, err := a.resolveHTMLURL(ctx, obj, userID, flags, sub)
	if err != nil {
		return nil, err
	}
	item.HTMLURL = url

	override, err := a.store.FindOverride(ctx, obj.Type, obj.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up planner override: %w", err)
	}
	item.PlannerOverride = override

	return item, nil
}

// ToPlannerItems aggregates a batch, one record per input, input order
// preserved.
func (a *Aggregator) ToPlannerItems(
	ctx context.Context,
	objs []*domain.LearningObject,
	userID uuid.UUID,
	flags domain.FeatureFlags,
	opts Options,
) ([]*PlannerItem, error) {
	items := make([]*PlannerItem, 0, len(objs))
	for _, obj := range objs {
		item, err := a.ToPlannerItem(ctx, obj, userID, flags, opts)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
