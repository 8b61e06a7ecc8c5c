package service

import (
	"context"

	"github.com/google/uuid"

	"planner_service/internal/domain"
	"planner_service/internal/planner"
)

// plannerStore backs the item aggregator with the postgres repositories.
type plannerStore struct {
	submissions SubmissionRepository
	overrides   OverrideRepository
	courses     CourseRepository
}

func NewPlannerStore(
	submissions SubmissionRepository,
	overrides OverrideRepository,
	courses CourseRepository,
) planner.Store {
	return &plannerStore{
		submissions: submissions,
		overrides:   overrides,
		courses:     courses,
	}
}

func (s *plannerStore) FindSubmission(ctx context.Context, objectID, userID uuid.UUID) (*domain.Submission, error) {
	return s.submissions.FindSubmission(ctx, objectID, userID)
}

func (s *plannerStore) FindOverride(
	ctx context.Context,
	plannableType domain.PlannableType,
	plannableID, userID uuid.UUID,
) (*domain.PlannerOverride, error) {
	return s.overrides.FindOverride(ctx, plannableType, plannableID, userID)
}

func (s *plannerStore) GetCourse(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	return s.courses.GetCourse(ctx, id)
}

func (s *plannerStore) EnrollmentExists(ctx context.Context, courseID, userID uuid.UUID) (bool, error) {
	return s.courses.EnrollmentExists(ctx, courseID, userID)
}
