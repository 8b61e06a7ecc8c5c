package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"planner_service/internal/domain"
	"planner_service/internal/repository"
	"planner_service/pkg/ctxdata"
	"planner_service/pkg/logger"
)

type OverrideServiceInterface interface {
	CreateOverride(ctx context.Context, override *domain.PlannerOverride) (*domain.PlannerOverride, error)
	UpdateOverride(ctx context.Context, id uuid.UUID, markedComplete, dismissed *bool) (*domain.PlannerOverride, error)
}

type overrideService struct {
	overrides   OverrideRepository
	objects     LearningObjectRepository
	producer    EventProducer
	eventsTopic string
	logger      *logger.Logger
}

func NewOverrideService(
	overrides OverrideRepository,
	objects LearningObjectRepository,
	producer EventProducer,
	eventsTopic string,
	log *logger.Logger,
) OverrideServiceInterface {
	return &overrideService{
		overrides:   overrides,
		objects:     objects,
		producer:    producer,
		eventsTopic: eventsTopic,
		logger:      log,
	}
}

// CreateOverride records the calling user's complete/dismiss state for one
// plannable. The plannable must exist and be visible to the user.
func (s *overrideService) CreateOverride(ctx context.Context, override *domain.PlannerOverride) (*domain.PlannerOverride, error) {
	userID, ok := ctxdata.GetUserID(ctx)
	if !ok {
		return nil, ErrPermissionDenied
	}

	if !override.PlannableType.IsValid() {
		return nil, fmt.Errorf("%w: unknown plannable type %q", ErrInvalidArgument, override.PlannableType)
	}

	if _, err := s.objects.GetByTypeAndID(ctx, override.PlannableType, override.PlannableID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlannableNotFound
		}
		return nil, err
	}

	newOverride := &domain.PlannerOverride{
		PlannableType:  override.PlannableType,
		PlannableID:    override.PlannableID,
		UserID:         userID,
		MarkedComplete: override.MarkedComplete,
		Dismissed:      override.Dismissed,
	}

	if err := s.overrides.Create(ctx, newOverride); err != nil {
		return nil, err
	}

	s.publish(ctx, EventOverrideCreated, newOverride)

	return newOverride, nil
}

// UpdateOverride patches marked_complete and dismissed on an override owned
// by the calling user. Nil fields keep their stored value.
func (s *overrideService) UpdateOverride(
	ctx context.Context,
	id uuid.UUID,
	markedComplete, dismissed *bool,
) (*domain.PlannerOverride, error) {
	userID, ok := ctxdata.GetUserID(ctx)
	if !ok {
		return nil, ErrPermissionDenied
	}

	existing, err := s.overrides.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOverrideNotFound
		}
		return nil, err
	}

	if existing.UserID != userID {
		return nil, ErrPermissionDenied
	}

	if markedComplete != nil {
		existing.MarkedComplete = *markedComplete
	}
	if dismissed != nil {
		existing.Dismissed = *dismissed
	}

	if err := s.overrides.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOverrideNotFound
		}
		return nil, err
	}

	s.publish(ctx, EventOverrideUpdated, existing)

	return existing, nil
}

func (s *overrideService) publish(ctx context.Context, event string, override *domain.PlannerOverride) {
	payload := OverrideEvent{
		Event:          event,
		OverrideID:     override.ID,
		PlannableType:  override.PlannableType,
		PlannableID:    override.PlannableID,
		UserID:         override.UserID,
		MarkedComplete: override.MarkedComplete,
		Dismissed:      override.Dismissed,
		OccurredAt:     time.Now(),
	}
	if err := s.producer.Send(ctx, s.eventsTopic, payload); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish override event",
			zap.String("override_id", override.ID.String()), zap.Error(err))
	}
}
