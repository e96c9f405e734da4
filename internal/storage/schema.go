package storage

import (
	"context"
	"fmt"
)

// schemaDDL provisions the full relational shape. Statements are idempotent
// so /init can be called any number of times.
var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS exercises (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name VARCHAR(255) NOT NULL UNIQUE,
		category VARCHAR(100) NOT NULL,
		muscle_group VARCHAR(100) NOT NULL,
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS workout_plans (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name VARCHAR(255) NOT NULL,
		exercise_ids TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS workout_sessions (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		date TIMESTAMPTZ NOT NULL,
		plan_id UUID REFERENCES workout_plans(id) ON DELETE SET NULL,
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS session_entries (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		session_id UUID NOT NULL REFERENCES workout_sessions(id) ON DELETE CASCADE,
		exercise_id UUID NOT NULL REFERENCES exercises(id) ON DELETE CASCADE,
		set_index INTEGER NOT NULL,
		weight DECIMAL(6,2) NOT NULL,
		reps INTEGER NOT NULL,
		notes TEXT,
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_exercises_category ON exercises(category)`,
	`CREATE INDEX IF NOT EXISTS idx_exercises_muscle_group ON exercises(muscle_group)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_date ON workout_sessions(date)`,
	`CREATE INDEX IF NOT EXISTS idx_entries_session_id ON session_entries(session_id)`,
	`CREATE INDEX IF NOT EXISTS idx_entries_exercise_id ON session_entries(exercise_id)`,
}

// InitSchema lazily provisions all tables and indexes. The schema is created
// on first use rather than through a separate migration step, so this must
// stay safe to re-run.
func (db *DB) InitSchema(ctx context.Context) error {
	for _, stmt := range schemaDDL {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("provisioning schema: %w", err)
		}
	}
	return nil
}
