package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/claude/liftlog/internal/models"
)

// ListSessions retrieves all sessions with their entries nested, sessions
// newest first, entries ordered by set_index then insertion time.
func (db *DB) ListSessions(ctx context.Context) ([]models.Session, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, date, plan_id FROM workout_sessions ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", classifyErr(err))
	}
	defer rows.Close()

	var sessions []models.Session
	index := map[uuid.UUID]int{}
	for rows.Next() {
		var s models.Session
		if err := rows.Scan(&s.ID, &s.Date, &s.PlanID); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		s.Entries = []models.Entry{}
		index[s.ID] = len(sessions)
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return sessions, nil
	}

	entryRows, err := db.Pool.Query(ctx,
		`SELECT session_id, exercise_id, set_index, weight, reps, notes
		 FROM session_entries
		 ORDER BY set_index ASC, created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying session entries: %w", classifyErr(err))
	}
	defer entryRows.Close()

	for entryRows.Next() {
		var sessionID uuid.UUID
		var e models.Entry
		var notes *string
		if err := entryRows.Scan(&sessionID, &e.ExerciseID, &e.SetIndex, &e.Weight, &e.Reps, &notes); err != nil {
			return nil, fmt.Errorf("scanning session entry: %w", err)
		}
		if notes != nil {
			e.Notes = *notes
		}
		if i, ok := index[sessionID]; ok {
			sessions[i].Entries = append(sessions[i].Entries, e)
		}
	}
	return sessions, entryRows.Err()
}

// CreateSession commits a session and all of its entries in one transaction.
// Either the whole session becomes durable or none of it does — a crash
// mid-commit cannot leave an orphaned session with partial entries.
func (db *DB) CreateSession(ctx context.Context, in models.SessionInput) (models.Session, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return models.Session{}, fmt.Errorf("beginning session commit: %w", classifyErr(err))
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var s models.Session
	err = tx.QueryRow(ctx,
		`INSERT INTO workout_sessions (date, plan_id)
		 VALUES ($1, $2)
		 RETURNING id, date, plan_id`,
		in.Date, in.PlanID).
		Scan(&s.ID, &s.Date, &s.PlanID)
	if err != nil {
		return models.Session{}, fmt.Errorf("inserting session: %w", classifyErr(err))
	}

	s.Entries = make([]models.Entry, 0, len(in.Entries))
	for i, entry := range in.Entries {
		var e models.Entry
		var notes *string
		if entry.Notes != "" {
			notes = &entry.Notes
		}
		err = tx.QueryRow(ctx,
			`INSERT INTO session_entries (session_id, exercise_id, set_index, weight, reps, notes)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING exercise_id, set_index, weight, reps, COALESCE(notes, '')`,
			s.ID, entry.ExerciseID, entry.SetIndex, entry.Weight, entry.Reps, notes).
			Scan(&e.ExerciseID, &e.SetIndex, &e.Weight, &e.Reps, &e.Notes)
		if err != nil {
			return models.Session{}, fmt.Errorf("inserting entry %d: %w", i, classifyErr(err))
		}
		s.Entries = append(s.Entries, e)
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Session{}, fmt.Errorf("committing session: %w", classifyErr(err))
	}
	return s, nil
}
