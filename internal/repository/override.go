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

type OverrideRepository struct {
	db *sql.DB
}

func NewOverrideRepository(db *sql.DB) *OverrideRepository {
	return &OverrideRepository{db: db}
}

// FindOverride returns the override exactly matching (plannable, user), or
// (nil, nil) when none exists.
func (r *OverrideRepository) FindOverride(
	ctx context.Context,
	plannableType domain.PlannableType,
	plannableID, userID uuid.UUID,
) (*domain.PlannerOverride, error) {
	query := `
		SELECT id, plannable_type, plannable_id, user_id, marked_complete,
		       dismissed, created_at, updated_at
		FROM planner_overrides
		WHERE plannable_type = $1 AND plannable_id = $2 AND user_id = $3
	`

	override, err := r.scanOne(r.db.QueryRowContext(ctx, query, plannableType, plannableID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get planner override: %w", err)
	}

	return override, nil
}

func (r *OverrideRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.PlannerOverride, error) {
	query := `
		SELECT id, plannable_type, plannable_id, user_id, marked_complete,
		       dismissed, created_at, updated_at
		FROM planner_overrides
		WHERE id = $1
	`

	override, err := r.scanOne(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get planner override: %w", err)
	}

	return override, nil
}

func (r *OverrideRepository) Create(ctx context.Context, override *domain.PlannerOverride) error {
	query := `
		INSERT INTO planner_overrides
			(id, plannable_type, plannable_id, user_id, marked_complete, dismissed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate UUID: %w", err)
	}

	now := time.Now()
	_, err = r.db.ExecContext(ctx, query,
		id,
		override.PlannableType,
		override.PlannableID,
		override.UserID,
		override.MarkedComplete,
		override.Dismissed,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create planner override: %w", err)
	}

	override.ID = id
	override.CreatedAt = now
	override.UpdatedAt = now
	return nil
}

func (r *OverrideRepository) Update(ctx context.Context, override *domain.PlannerOverride) error {
	query := `
		UPDATE planner_overrides
		SET marked_complete = $1, dismissed = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := r.db.ExecContext(ctx, query,
		override.MarkedComplete,
		override.Dismissed,
		time.Now(),
		override.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update planner override: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *OverrideRepository) scanOne(row *sql.Row) (*domain.PlannerOverride, error) {
	var o domain.PlannerOverride
	err := row.Scan(
		&o.ID,
		&o.PlannableType,
		&o.PlannableID,
		&o.UserID,
		&o.MarkedComplete,
		&o.Dismissed,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
