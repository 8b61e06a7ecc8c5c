package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"planner_service/internal/domain"
	"planner_service/internal/planner"
	"planner_service/internal/repository"
	"planner_service/pkg/ctxdata"
	"planner_service/pkg/logger"
)

var (
	ErrPlannableNotFound = errors.New("plannable not found")
	ErrOverrideNotFound  = errors.New("planner override not found")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrInvalidArgument   = errors.New("invalid argument")
)

type PlannerServiceInterface interface {
	PlannerItems(ctx context.Context, start, end time.Time, opts planner.Options) ([]*planner.PlannerItem, error)
	PlannerItem(ctx context.Context, plannableType domain.PlannableType, id uuid.UUID, opts planner.Options) (*planner.PlannerItem, error)
	CreateNote(ctx context.Context, note *domain.LearningObject) (*domain.LearningObject, error)
}

type plannerService struct {
	objects     LearningObjectRepository
	courses     CourseRepository
	aggregator  *planner.Aggregator
	producer    EventProducer
	eventsTopic string
	logger      *logger.Logger
}

func NewPlannerService(
	objects LearningObjectRepository,
	courses CourseRepository,
	aggregator *planner.Aggregator,
	producer EventProducer,
	eventsTopic string,
	log *logger.Logger,
) PlannerServiceInterface {
	return &plannerService{
		objects:     objects,
		courses:     courses,
		aggregator:  aggregator,
		producer:    producer,
		eventsTopic: eventsTopic,
		logger:      log,
	}
}

// PlannerItems returns the viewing user's planner feed for the date window,
// one record per learning object, repository order preserved.
func (s *plannerService) PlannerItems(ctx context.Context, start, end time.Time, opts planner.Options) ([]*planner.PlannerItem, error) {
	userID, ok := ctxdata.GetUserID(ctx)
	if !ok {
		return nil, ErrPermissionDenied
	}

	if !end.After(start) {
		return nil, fmt.Errorf("%w: end date must be after start date", ErrInvalidArgument)
	}

	objects, err := s.objects.ListForUser(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	// Feature flags are resolved once per course and reused for every
	// object of that course in the batch.
	flagCache := make(map[uuid.UUID]domain.FeatureFlags)

	items := make([]*planner.PlannerItem, 0, len(objects))
	for _, obj := range objects {
		flags, err := s.flagsFor(ctx, obj.CourseID, flagCache)
		if err != nil {
			return nil, err
		}

		// Checkpoints only surface in courses that opted in; elsewhere
		// the parent discussion represents the work.
		if obj.Type == domain.PlannableSubAssignment && !flags.DiscussionCheckpoints {
			continue
		}

		item, err := s.aggregator.ToPlannerItem(ctx, obj, userID, flags, opts)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}

func (s *plannerService) PlannerItem(
	ctx context.Context,
	plannableType domain.PlannableType,
	id uuid.UUID,
	opts planner.Options,
) (*planner.PlannerItem, error) {
	userID, ok := ctxdata.GetUserID(ctx)
	if !ok {
		return nil, ErrPermissionDenied
	}

	if !plannableType.IsValid() {
		return nil, fmt.Errorf("%w: unknown plannable type %q", ErrInvalidArgument, plannableType)
	}

	obj, err := s.objects.GetByTypeAndID(ctx, plannableType, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlannableNotFound
		}
		return nil, err
	}

	flags := domain.FeatureFlags{}
	if obj.CourseID != uuid.Nil {
		if flags, err = s.courses.FeaturesFor(ctx, obj.CourseID); err != nil {
			return nil, err
		}
	}

	if obj.Type == domain.PlannableSubAssignment && !flags.DiscussionCheckpoints {
		return nil, ErrPlannableNotFound
	}

	return s.aggregator.ToPlannerItem(ctx, obj, userID, flags, opts)
}

// CreateNote stores a personal planner note for the calling user. A note may
// optionally be attached to a course the user is enrolled in.
func (s *plannerService) CreateNote(ctx context.Context, note *domain.LearningObject) (*domain.LearningObject, error) {
	userID, ok := ctxdata.GetUserID(ctx)
	if !ok {
		return nil, ErrPermissionDenied
	}

	if note.Title == "" {
		return nil, fmt.Errorf("%w: note title is required", ErrInvalidArgument)
	}
	if note.TodoDate == nil {
		return nil, fmt.Errorf("%w: note todo date is required", ErrInvalidArgument)
	}

	if note.CourseID != uuid.Nil {
		enrolled, err := s.courses.EnrollmentExists(ctx, note.CourseID, userID)
		if err != nil {
			return nil, err
		}
		if !enrolled {
			return nil, ErrPermissionDenied
		}
	}

	note.UserID = &userID
	if err := s.objects.CreateNote(ctx, note); err != nil {
		return nil, err
	}

	event := NoteEvent{
		Event:      EventNoteCreated,
		NoteID:     note.ID,
		UserID:     userID,
		Title:      note.Title,
		TodoDate:   note.TodoDate,
		OccurredAt: time.Now(),
	}
	if note.CourseID != uuid.Nil {
		courseID := note.CourseID
		event.CourseID = &courseID
	}
	if err := s.producer.Send(ctx, s.eventsTopic, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish note event",
			zap.String("note_id", note.ID.String()), zap.Error(err))
	}

	return note, nil
}

func (s *plannerService) flagsFor(
	ctx context.Context,
	courseID uuid.UUID,
	cache map[uuid.UUID]domain.FeatureFlags,
) (domain.FeatureFlags, error) {
	if courseID == uuid.Nil {
		return domain.FeatureFlags{}, nil
	}
	if flags, ok := cache[courseID]; ok {
		return flags, nil
	}

	flags, err := s.courses.FeaturesFor(ctx, courseID)
	if err != nil {
		return domain.FeatureFlags{}, err
	}
	cache[courseID] = flags
	return flags, nil
}
