package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"planner_service/internal/domain"
)

type MockLearningObjectRepository struct {
	mock.Mock
}

func (m *MockLearningObjectRepository) GetByTypeAndID(
	ctx context.Context,
	plannableType domain.PlannableType,
	id, userID uuid.UUID,
) (*domain.LearningObject, error) {
	args := m.Called(ctx, plannableType, id, userID)
	if obj := args.Get(0); obj != nil {
		return obj.(*domain.LearningObject), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLearningObjectRepository) ListForUser(
	ctx context.Context,
	userID uuid.UUID,
	start, end time.Time,
) ([]*domain.LearningObject, error) {
	args := m.Called(ctx, userID, start, end)
	if objs := args.Get(0); objs != nil {
		return objs.([]*domain.LearningObject), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLearningObjectRepository) CreateNote(ctx context.Context, note *domain.LearningObject) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) FindSubmission(ctx context.Context, objectID, userID uuid.UUID) (*domain.Submission, error) {
	args := m.Called(ctx, objectID, userID)
	if sub := args.Get(0); sub != nil {
		return sub.(*domain.Submission), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockOverrideRepository struct {
	mock.Mock
}

func (m *MockOverrideRepository) FindOverride(
	ctx context.Context,
	plannableType domain.PlannableType,
	plannableID, userID uuid.UUID,
) (*domain.PlannerOverride, error) {
	args := m.Called(ctx, plannableType, plannableID, userID)
	if override := args.Get(0); override != nil {
		return override.(*domain.PlannerOverride), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOverrideRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.PlannerOverride, error) {
	args := m.Called(ctx, id)
	if override := args.Get(0); override != nil {
		return override.(*domain.PlannerOverride), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOverrideRepository) Create(ctx context.Context, override *domain.PlannerOverride) error {
	args := m.Called(ctx, override)
	return args.Error(0)
}

func (m *MockOverrideRepository) Update(ctx context.Context, override *domain.PlannerOverride) error {
	args := m.Called(ctx, override)
	return args.Error(0)
}

type MockCourseRepository struct {
	mock.Mock
}

func (m *MockCourseRepository) GetCourse(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	args := m.Called(ctx, id)
	if course := args.Get(0); course != nil {
		return course.(*domain.Course), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCourseRepository) EnrollmentExists(ctx context.Context, courseID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, courseID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCourseRepository) FeaturesFor(ctx context.Context, courseID uuid.UUID) (domain.FeatureFlags, error) {
	args := m.Called(ctx, courseID)
	return args.Get(0).(domain.FeatureFlags), args.Error(1)
}
