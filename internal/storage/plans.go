package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/claude/liftlog/internal/models"
)

const planCols = `id, name, exercise_ids, created_at, updated_at`

// exercise_ids is a TEXT[] column, ordered. There is intentionally no foreign
// key to exercises: ids may repeat and may dangle after an exercise delete.

func idsToText(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func textToIDs(raw []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, len(raw))
	for i, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("exercise_ids[%d]: %w", i, err)
		}
		out[i] = id
	}
	return out, nil
}

func scanPlan(scan func(dest ...any) error) (models.Plan, error) {
	var p models.Plan
	var raw []string
	if err := scan(&p.ID, &p.Name, &raw, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return models.Plan{}, err
	}
	ids, err := textToIDs(raw)
	if err != nil {
		return models.Plan{}, err
	}
	p.ExerciseIDs = ids
	return p, nil
}

// ListPlans retrieves all plans, newest first.
func (db *DB) ListPlans(ctx context.Context) ([]models.Plan, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+planCols+` FROM workout_plans ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying plans: %w", classifyErr(err))
	}
	defer rows.Close()

	var result []models.Plan
	for rows.Next() {
		p, err := scanPlan(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning plan: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// CreatePlan inserts a plan and returns the stored row.
func (db *DB) CreatePlan(ctx context.Context, in models.PlanInput) (models.Plan, error) {
	row := db.Pool.QueryRow(ctx,
		`INSERT INTO workout_plans (name, exercise_ids)
		 VALUES ($1, $2)
		 RETURNING `+planCols,
		in.Name, idsToText(in.ExerciseIDs))
	p, err := scanPlan(row.Scan)
	if err != nil {
		return models.Plan{}, fmt.Errorf("inserting plan: %w", classifyErr(err))
	}
	return p, nil
}

// GetPlan retrieves a single plan by id.
func (db *DB) GetPlan(ctx context.Context, id uuid.UUID) (models.Plan, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+planCols+` FROM workout_plans WHERE id = $1`, id)
	p, err := scanPlan(row.Scan)
	if err != nil {
		return models.Plan{}, fmt.Errorf("querying plan: %w", classifyErr(err))
	}
	return p, nil
}

// UpdatePlan applies a partial update; fields absent from u keep their
// current value. An explicit empty exercise list clears the plan.
func (db *DB) UpdatePlan(ctx context.Context, id uuid.UUID, u models.PlanUpdate) (models.Plan, error) {
	current, err := db.GetPlan(ctx, id)
	if err != nil {
		return models.Plan{}, err
	}

	if u.Name != nil {
		current.Name = *u.Name
	}
	if u.ExerciseIDs != nil {
		current.ExerciseIDs = *u.ExerciseIDs
	}

	row := db.Pool.QueryRow(ctx,
		`UPDATE workout_plans
		 SET name = $2, exercise_ids = $3, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $1
		 RETURNING `+planCols,
		id, current.Name, idsToText(current.ExerciseIDs))
	p, err := scanPlan(row.Scan)
	if err != nil {
		return models.Plan{}, fmt.Errorf("updating plan: %w", classifyErr(err))
	}
	return p, nil
}

// DeletePlan removes a plan. Sessions that referenced it keep running with a
// null plan_id (ON DELETE SET NULL).
func (db *DB) DeletePlan(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM workout_plans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting plan: %w", classifyErr(err))
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
