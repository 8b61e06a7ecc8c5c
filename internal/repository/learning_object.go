package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"planner_service/internal/domain"
)

var ErrNotFound = errors.New("not found")

// learningObjectColumns lists the scan order shared by every query below.
// Read state columns are per viewing user, joined from
// discussion_participants; objects the user never opened default to unread.
const learningObjectColumns = `
	o.id, o.type, o.course_id, o.title, o.created_at,
	o.due_at, o.todo_date, o.posted_at, o.start_at, o.end_at,
	o.all_day, o.description, o.location_name,
	o.points_possible, o.anonymous_peer_reviews,
	o.assignment_id, o.parent_assignment_id,
	o.sub_assignment_tag, o.reply_to_entry_required_count,
	o.user_id, o.reviewee_user_id,
	COALESCE(dp.read_state, 'unread'), COALESCE(dp.unread_count, 0)
`

type LearningObjectRepository struct {
	db *sql.DB
}

func NewLearningObjectRepository(db *sql.DB) *LearningObjectRepository {
	return &LearningObjectRepository{db: db}
}

// GetByTypeAndID loads one object with the viewing user's read state.
func (r *LearningObjectRepository) GetByTypeAndID(
	ctx context.Context,
	plannableType domain.PlannableType,
	id, userID uuid.UUID,
) (*domain.LearningObject, error) {
	query := `
		SELECT ` + learningObjectColumns + `
		FROM learning_objects o
		LEFT JOIN discussion_participants dp
			ON dp.object_id = o.id AND dp.user_id = $3
		WHERE o.id = $1 AND o.type = $2
	`

	row := r.db.QueryRowContext(ctx, query, id, plannableType, userID)
	obj, err := scanLearningObject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get learning object: %w", err)
	}

	return obj, nil
}

// ListForUser returns the user's plannables inside the date window: objects
// of courses the user is enrolled in plus the user's own planner notes,
// ordered by their plannable date.
func (r *LearningObjectRepository) ListForUser(
	ctx context.Context,
	userID uuid.UUID,
	start, end time.Time,
) ([]*domain.LearningObject, error) {
	query := `
		SELECT ` + learningObjectColumns + `
		FROM learning_objects o
		LEFT JOIN discussion_participants dp
			ON dp.object_id = o.id AND dp.user_id = $1
		WHERE (
			o.course_id IN (SELECT course_id FROM enrollments WHERE user_id = $1)
			OR o.user_id = $1
		)
		AND COALESCE(o.due_at, o.todo_date, o.posted_at, o.start_at, o.created_at)
			BETWEEN $2 AND $3
		ORDER BY COALESCE(o.due_at, o.todo_date, o.posted_at, o.start_at, o.created_at), o.id
	`

	rows, err := r.db.QueryContext(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query learning objects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var objects []*domain.LearningObject
	for rows.Next() {
		obj, err := scanLearningObject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan learning object: %w", err)
		}
		objects = append(objects, obj)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return objects, nil
}

// FindDueSoon returns submission-bearing objects whose due date falls
// inside the coming window. Used by the reminder worker.
func (r *LearningObjectRepository) FindDueSoon(ctx context.Context, within time.Duration) ([]*domain.LearningObject, error) {
	query := `
		SELECT ` + learningObjectColumns + `
		FROM learning_objects o
		LEFT JOIN discussion_participants dp ON false
		WHERE o.type IN ('assignment', 'quiz', 'sub_assignment')
		AND o.due_at BETWEEN NOW() AND $1
	`

	deadline := time.Now().Add(within)
	rows, err := r.db.QueryContext(ctx, query, deadline)
	if err != nil {
		return nil, fmt.Errorf("failed to query due objects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var objects []*domain.LearningObject
	for rows.Next() {
		obj, err := scanLearningObject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan learning object: %w", err)
		}
		objects = append(objects, obj)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return objects, nil
}

// CreateNote persists a user planner note as a learning object.
func (r *LearningObjectRepository) CreateNote(ctx context.Context, note *domain.LearningObject) error {
	query := `
		INSERT INTO learning_objects (id, type, course_id, title, todo_date, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate UUID: %w", err)
	}

	var courseID interface{}
	if note.CourseID != uuid.Nil {
		courseID = note.CourseID
	}

	_, err = r.db.ExecContext(ctx, query,
		id,
		domain.PlannablePlannerNote,
		courseID,
		note.Title,
		note.TodoDate,
		note.UserID,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to create planner note: %w", err)
	}

	note.ID = id
	note.Type = domain.PlannablePlannerNote
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLearningObject(row rowScanner) (*domain.LearningObject, error) {
	var (
		obj          domain.LearningObject
		courseID     uuid.NullUUID
		description  sql.NullString
		locationName sql.NullString
		tag          sql.NullString
		readState    string
	)

	err := row.Scan(
		&obj.ID,
		&obj.Type,
		&courseID,
		&obj.Title,
		&obj.CreatedAt,
		&obj.DueAt,
		&obj.TodoDate,
		&obj.PostedAt,
		&obj.StartAt,
		&obj.EndAt,
		&obj.AllDay,
		&description,
		&locationName,
		&obj.PointsPossible,
		&obj.AnonymousPeerReviews,
		&obj.AssignmentID,
		&obj.ParentAssignmentID,
		&tag,
		&obj.ReplyToEntryRequiredCount,
		&obj.UserID,
		&obj.RevieweeUserID,
		&readState,
		&obj.UnreadCount,
	)
	if err != nil {
		return nil, err
	}

	if courseID.Valid {
		obj.CourseID = courseID.UUID
	}
	if description.Valid {
		obj.Description = &description.String
	}
	if locationName.Valid {
		obj.LocationName = &locationName.String
	}
	if tag.Valid {
		obj.SubAssignmentTag = domain.SubAssignmentTag(tag.String)
	}
	obj.ReadState = domain.ReadState(readState)

	return &obj, nil
}
