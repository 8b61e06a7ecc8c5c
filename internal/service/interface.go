package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"planner_service/internal/domain"
)

type LearningObjectRepository interface {
	GetByTypeAndID(ctx context.Context, plannableType domain.PlannableType, id, userID uuid.UUID) (*domain.LearningObject, error)
	ListForUser(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*domain.LearningObject, error)
	CreateNote(ctx context.Context, note *domain.LearningObject) error
}

type SubmissionRepository interface {
	FindSubmission(ctx context.Context, objectID, userID uuid.UUID) (*domain.Submission, error)
}

type OverrideRepository interface {
	FindOverride(ctx context.Context, plannableType domain.PlannableType, plannableID, userID uuid.UUID) (*domain.PlannerOverride, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PlannerOverride, error)
	Create(ctx context.Context, override *domain.PlannerOverride) error
	Update(ctx context.Context, override *domain.PlannerOverride) error
}

type CourseRepository interface {
	GetCourse(ctx context.Context, id uuid.UUID) (*domain.Course, error)
	EnrollmentExists(ctx context.Context, courseID, userID uuid.UUID) (bool, error)
	FeaturesFor(ctx context.Context, courseID uuid.UUID) (domain.FeatureFlags, error)
}

type EventProducer interface {
	Send(ctx context.Context, topic string, message interface{}) error
}
