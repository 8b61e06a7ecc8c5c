package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"planner_service/internal/domain"
)

type CourseRepository struct {
	db *sql.DB
}

func NewCourseRepository(db *sql.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// GetCourse returns (nil, nil) for an unknown id; a missing course only
// blanks the context fields of a planner item.
func (r *CourseRepository) GetCourse(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	query := `
		SELECT id, name, image_url, created_at
		FROM courses
		WHERE id = $1
	`

	var (
		course   domain.Course
		imageURL sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&course.ID,
		&course.Name,
		&imageURL,
		&course.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	if imageURL.Valid {
		course.ImageURL = &imageURL.String
	}

	return &course, nil
}

func (r *CourseRepository) EnrollmentExists(ctx context.Context, courseID, userID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM enrollments WHERE course_id = $1 AND user_id = $2
		)
	`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, courseID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check enrollment: %w", err)
	}

	return exists, nil
}

// FeaturesFor resolves the course's feature flags once, so callers can pass
// them into the aggregator by value.
func (r *CourseRepository) FeaturesFor(ctx context.Context, courseID uuid.UUID) (domain.FeatureFlags, error) {
	query := `
		SELECT feature
		FROM course_features
		WHERE course_id = $1 AND enabled
	`

	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return domain.FeatureFlags{}, fmt.Errorf("failed to query course features: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var flags domain.FeatureFlags
	for rows.Next() {
		var feature string
		if err := rows.Scan(&feature); err != nil {
			return domain.FeatureFlags{}, fmt.Errorf("failed to scan course feature: %w", err)
		}
		switch feature {
		case "anonymous_peer_reviews":
			flags.AnonymousPeerReviews = true
		case "enhanced_review_ui":
			flags.EnhancedReviewUI = true
		case "discussion_checkpoints":
			flags.DiscussionCheckpoints = true
		}
	}

	if err = rows.Err(); err != nil {
		return domain.FeatureFlags{}, fmt.Errorf("rows error: %w", err)
	}

	return flags, nil
}
