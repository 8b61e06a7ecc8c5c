package planner

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"planner_service/internal/domain"
)

// submissionStatus computes the status vector for a submission-bearing
// object, plus the submissions it read so later stages can reuse them.
// Returns (nil, nil, nil, nil) for variants without submissions.
func (a *Aggregator) submissionStatus(
	ctx context.Context,
	obj *domain.LearningObject,
	userID uuid.UUID,
	flags domain.FeatureFlags,
	opts Options,
) (*SubmissionStatus, *domain.Submission, *domain.Submission, error) {
	objectID := obj.SubmissionObjectID()
	if objectID == nil {
		return nil, nil, nil, nil
	}

	if obj.CourseID != uuid.Nil {
		enrolled, err := a.store.EnrollmentExists(ctx, obj.CourseID, userID)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to check enrollment: %w", err)
		}
		if !enrolled {
			return nil, nil, nil, fmt.Errorf("%w: user %s, course %s", ErrMissingSubmissionContext, userID, obj.CourseID)
		}
	}

	sub, err := a.store.FindSubmission(ctx, *objectID, userID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load submission: %w", err)
	}

	// Checkpoints inherit feedback from the parent assignment's submission.
	var parentSub *domain.Submission
	if obj.Type == domain.PlannableSubAssignment && obj.ParentAssignmentID != nil {
		parentSub, err = a.store.FindSubmission(ctx, *obj.ParentAssignmentID, userID)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to load parent submission: %w", err)
		}
	}

	status := &SubmissionStatus{}

	due := obj.DueAt
	if sub != nil && sub.CachedDueDate != nil {
		due = sub.CachedDueDate
	}

	if sub != nil {
		status.Submitted = sub.Submitted()
		status.Excused = sub.Excused
		status.Graded = sub.Graded()
		status.RedoRequest = sub.RedoRequest
		status.Late = status.Submitted && due != nil && sub.SubmittedAt.After(*due)
		status.NeedsGrading = status.Submitted && !status.Graded && sub.PostedAt == nil
	}

	status.Missing = !status.Submitted && !status.Excused && due != nil && due.Before(opts.Now)

	if comment := latestPeerComment(userID, opts.DueAfter, sub, parentSub); comment != nil {
		status.HasFeedback = true
		status.Feedback = a.feedbackSummary(obj, flags, opts, comment)
	}

	return status, sub, parentSub, nil
}

func (a *Aggregator) feedbackSummary(
	obj *domain.LearningObject,
	flags domain.FeatureFlags,
	opts Options,
	comment *domain.SubmissionComment,
) *FeedbackSummary {
	fb := &FeedbackSummary{
		Comment: comment.Comment,
		IsMedia: comment.MediaCommentID != nil,
	}
	if !opts.UseHTMLComment {
		fb.Comment = stripTags(comment.Comment)
	}
	if !obj.AnonymousPeerReviews && !flags.AnonymousPeerReviews {
		fb.AuthorName = comment.AuthorName
		fb.AuthorAvatarURL = comment.AuthorAvatarURL
	}
	return fb
}

// latestPeerComment picks the most recent comment not authored by the
// viewing user across the given submissions. Equal timestamps are broken in
// favor of the submission whose newest comment is more recent. A dueAfter
// cutoff drops submissions whose work fell due before it.
func latestPeerComment(userID uuid.UUID, dueAfter *time.Time, subs ...*domain.Submission) *domain.SubmissionComment {
	var best *domain.SubmissionComment
	var bestSubLatest time.Time

	for _, s := range subs {
		if s == nil || !feedbackRecent(s, dueAfter) {
			continue
		}
		subLatest := s.LatestCommentAt()
		for i := range s.Comments {
			c := &s.Comments[i]
			if c.AuthorID == userID {
				continue
			}
			switch {
			case best == nil,
				c.CreatedAt.After(best.CreatedAt),
				c.CreatedAt.Equal(best.CreatedAt) && subLatest.After(bestSubLatest):
				best = c
				bestSubLatest = subLatest
			}
		}
	}

	return best
}

// feedbackRecent reports whether a submission's comments survive the
// dueAfter cutoff. The cutoff keys off the due date the work was handed in
// against, falling back to the hand-in time itself, so feedback left before
// a still-pending due date is kept even when the submission is older than
// the cutoff.
func feedbackRecent(s *domain.Submission, dueAfter *time.Time) bool {
	if dueAfter == nil {
		return true
	}
	if s.CachedDueDate != nil {
		return !s.CachedDueDate.Before(*dueAfter)
	}
	if s.SubmittedAt != nil {
		return !s.SubmittedAt.Before(*dueAfter)
	}
	return !s.CreatedAt.Before(*dueAfter)
}

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

func stripTags(s string) string {
	return strings.TrimSpace(html.UnescapeString(htmlTagPattern.ReplaceAllString(s, "")))
}
