package workout

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/claude/liftlog/internal/models"
)

// Journal persists staged sets to a local SQLite database so an interrupted
// workout survives a client restart. At most one staged session exists at a
// time.
type Journal struct {
	db *sql.DB
}

// StagedSession is the journal's snapshot of an in-progress workout.
type StagedSession struct {
	Started   time.Time
	PlanID    *uuid.UUID
	Exercises []uuid.UUID
	Entries   []models.Entry
}

// OpenJournal opens (or creates) the staging database at dir/staging.db.
func OpenJournal(dir string) (*Journal, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating staging dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "staging.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening staging db: %w", err)
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS active_session (
			id           INTEGER PRIMARY KEY CHECK (id = 1),
			started_at   TEXT NOT NULL,
			plan_id      TEXT,
			exercise_ids TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS staged_sets (
			seq         INTEGER PRIMARY KEY AUTOINCREMENT,
			exercise_id TEXT NOT NULL,
			set_index   INTEGER NOT NULL,
			weight      REAL NOT NULL,
			reps        INTEGER NOT NULL,
			notes       TEXT NOT NULL DEFAULT ''
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			db.Close() //nolint:errcheck
			return nil, fmt.Errorf("creating staging tables: %w", err)
		}
	}

	return &Journal{db: db}, nil
}

// Begin records the session header, replacing any previously staged session.
func (j *Journal) Begin(started time.Time, planID *uuid.UUID, exercises []uuid.UUID) error {
	if err := j.Clear(); err != nil {
		return err
	}

	var plan any
	if planID != nil {
		plan = planID.String()
	}
	ids := make([]string, len(exercises))
	for i, id := range exercises {
		ids[i] = id.String()
	}
	_, err := j.db.Exec(
		`INSERT OR REPLACE INTO active_session (id, started_at, plan_id, exercise_ids) VALUES (1, ?, ?, ?)`,
		started.UTC().Format(time.RFC3339Nano), plan, strings.Join(ids, ","),
	)
	if err != nil {
		return fmt.Errorf("staging session header: %w", err)
	}
	return nil
}

// Append journals one staged set.
func (j *Journal) Append(e models.Entry) error {
	_, err := j.db.Exec(
		`INSERT INTO staged_sets (exercise_id, set_index, weight, reps, notes) VALUES (?, ?, ?, ?, ?)`,
		e.ExerciseID.String(), e.SetIndex, e.Weight, e.Reps, e.Notes,
	)
	if err != nil {
		return fmt.Errorf("staging set: %w", err)
	}
	return nil
}

// Load returns the staged session, or nil if none is staged.
func (j *Journal) Load() (*StagedSession, error) {
	var startedStr, idsStr string
	var planStr *string
	err := j.db.QueryRow(
		`SELECT started_at, plan_id, exercise_ids FROM active_session WHERE id = 1`,
	).Scan(&startedStr, &planStr, &idsStr)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading staged session: %w", err)
	}

	staged := &StagedSession{}
	staged.Started, err = time.Parse(time.RFC3339Nano, startedStr)
	if err != nil {
		return nil, fmt.Errorf("parsing staged start time: %w", err)
	}
	if planStr != nil {
		id, err := uuid.Parse(*planStr)
		if err != nil {
			return nil, fmt.Errorf("parsing staged plan id: %w", err)
		}
		staged.PlanID = &id
	}
	if idsStr != "" {
		for i, s := range strings.Split(idsStr, ",") {
			id, err := uuid.Parse(s)
			if err != nil {
				return nil, fmt.Errorf("parsing staged exercise_ids[%d]: %w", i, err)
			}
			staged.Exercises = append(staged.Exercises, id)
		}
	}

	rows, err := j.db.Query(
		`SELECT exercise_id, set_index, weight, reps, notes FROM staged_sets ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("loading staged sets: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	for rows.Next() {
		var exStr string
		var e models.Entry
		if err := rows.Scan(&exStr, &e.SetIndex, &e.Weight, &e.Reps, &e.Notes); err != nil {
			return nil, fmt.Errorf("scanning staged set: %w", err)
		}
		e.ExerciseID, err = uuid.Parse(exStr)
		if err != nil {
			return nil, fmt.Errorf("parsing staged exercise id: %w", err)
		}
		staged.Entries = append(staged.Entries, e)
	}
	return staged, rows.Err()
}

// Clear drops the staged session and all staged sets.
func (j *Journal) Clear() error {
	if _, err := j.db.Exec(`DELETE FROM staged_sets`); err != nil {
		return fmt.Errorf("clearing staged sets: %w", err)
	}
	if _, err := j.db.Exec(`DELETE FROM active_session`); err != nil {
		return fmt.Errorf("clearing staged session: %w", err)
	}
	return nil
}

// Close closes the staging database.
func (j *Journal) Close() error {
	return j.db.Close()
}
