package domain

import (
	"time"

	"github.com/google/uuid"
)

type Course struct {
	ID        uuid.UUID
	Name      string
	ImageURL  *string
	CreatedAt time.Time
}

// FeatureFlags is the per-course flag set the aggregator needs. It is
// resolved once by the caller and passed by value so no layer re-queries
// flag state mid-aggregation.
type FeatureFlags struct {
	AnonymousPeerReviews  bool
	EnhancedReviewUI      bool
	DiscussionCheckpoints bool
}
