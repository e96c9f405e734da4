package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/claude/liftlog/internal/models"
)

const exerciseCols = `id, name, category, muscle_group, created_at, updated_at`

// ListExercises retrieves all exercises, newest first.
func (db *DB) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+exerciseCols+` FROM exercises ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", classifyErr(err))
	}
	defer rows.Close()

	var result []models.Exercise
	for rows.Next() {
		var e models.Exercise
		if err := rows.Scan(&e.ID, &e.Name, &e.Category, &e.MuscleGroup, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// CreateExercise inserts an exercise and returns the stored row.
func (db *DB) CreateExercise(ctx context.Context, in models.ExerciseInput) (models.Exercise, error) {
	var e models.Exercise
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO exercises (name, category, muscle_group)
		 VALUES ($1, $2, $3)
		 RETURNING `+exerciseCols,
		in.Name, in.Category, in.MuscleGroup).
		Scan(&e.ID, &e.Name, &e.Category, &e.MuscleGroup, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return models.Exercise{}, fmt.Errorf("inserting exercise: %w", classifyErr(err))
	}
	return e, nil
}

// GetExercise retrieves a single exercise by id.
func (db *DB) GetExercise(ctx context.Context, id uuid.UUID) (models.Exercise, error) {
	var e models.Exercise
	err := db.Pool.QueryRow(ctx,
		`SELECT `+exerciseCols+` FROM exercises WHERE id = $1`, id).
		Scan(&e.ID, &e.Name, &e.Category, &e.MuscleGroup, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return models.Exercise{}, fmt.Errorf("querying exercise: %w", classifyErr(err))
	}
	return e, nil
}

// UpdateExercise applies a partial update; fields absent from u keep their
// current value. Concurrent updates are last-write-wins.
func (db *DB) UpdateExercise(ctx context.Context, id uuid.UUID, u models.ExerciseUpdate) (models.Exercise, error) {
	current, err := db.GetExercise(ctx, id)
	if err != nil {
		return models.Exercise{}, err
	}

	if u.Name != nil {
		current.Name = *u.Name
	}
	if u.Category != nil {
		current.Category = *u.Category
	}
	if u.MuscleGroup != nil {
		current.MuscleGroup = *u.MuscleGroup
	}

	var e models.Exercise
	err = db.Pool.QueryRow(ctx,
		`UPDATE exercises
		 SET name = $2, category = $3, muscle_group = $4, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $1
		 RETURNING `+exerciseCols,
		id, current.Name, current.Category, current.MuscleGroup).
		Scan(&e.ID, &e.Name, &e.Category, &e.MuscleGroup, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return models.Exercise{}, fmt.Errorf("updating exercise: %w", classifyErr(err))
	}
	return e, nil
}

// DeleteExercise removes an exercise. Dependent session entries cascade at
// the store level; plan exercise_ids are left dangling on purpose.
func (db *DB) DeleteExercise(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM exercises WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting exercise: %w", classifyErr(err))
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
