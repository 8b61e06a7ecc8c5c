package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"planner_service/internal/domain"
)

type SubmissionRepository struct {
	db *sql.DB
}

func NewSubmissionRepository(db *sql.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// FindSubmission returns the (object, user) submission with its comments
// loaded oldest-first, or (nil, nil) when the user never had one.
func (r *SubmissionRepository) FindSubmission(ctx context.Context, objectID, userID uuid.UUID) (*domain.Submission, error) {
	query := `
		SELECT id, object_id, user_id, submitted_at, graded_at, score, excused,
		       workflow_state, posted_at, cached_due_date, redo_request, unread,
		       anonymous_id, created_at
		FROM submissions
		WHERE object_id = $1 AND user_id = $2
	`

	var s domain.Submission
	err := r.db.QueryRowContext(ctx, query, objectID, userID).Scan(
		&s.ID,
		&s.ObjectID,
		&s.UserID,
		&s.SubmittedAt,
		&s.GradedAt,
		&s.Score,
		&s.Excused,
		&s.WorkflowState,
		&s.PostedAt,
		&s.CachedDueDate,
		&s.RedoRequest,
		&s.Unread,
		&s.AnonymousID,
		&s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	comments, err := r.listComments(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	s.Comments = comments

	return &s, nil
}

func (r *SubmissionRepository) listComments(ctx context.Context, submissionID uuid.UUID) ([]domain.SubmissionComment, error) {
	query := `
		SELECT id, submission_id, author_id, author_name, author_avatar_url,
		       comment, media_comment_id, created_at
		FROM submission_comments
		WHERE submission_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.QueryContext(ctx, query, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query submission comments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var comments []domain.SubmissionComment
	for rows.Next() {
		var c domain.SubmissionComment
		err := rows.Scan(
			&c.ID,
			&c.SubmissionID,
			&c.AuthorID,
			&c.AuthorName,
			&c.AuthorAvatarURL,
			&c.Comment,
			&c.MediaCommentID,
			&c.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission comment: %w", err)
		}
		comments = append(comments, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return comments, nil
}
