// Package workout stages an in-progress session's sets client-side and
// commits them atomically through the data gateway. Sets are staged locally
// rather than persisted one by one so the server never holds a partial
// session while a workout is still being performed, and so moving between
// exercises costs no round trips.
package workout

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/state"
)

// Phase is the session workflow state machine.
type Phase int

const (
	// NotStarted: no plan selected, empty accumulator.
	NotStarted Phase = iota
	// InProgress: exercise list fixed, cursor and set counter live, entries
	// accumulating in the order added.
	InProgress
	// Committing: finish requested, network write in flight, set edits
	// rejected.
	Committing
)

var (
	ErrNotInProgress   = errors.New("no session in progress")
	ErrAlreadyStarted  = errors.New("session already in progress")
	ErrCommitInFlight  = errors.New("commit in flight")
	ErrNoExercise      = errors.New("no current exercise")
	ErrInvalidSet      = errors.New("weight and reps must be positive")
	ErrNothingToResume = errors.New("no staged session to resume")
)

// Gateway is the commit surface the workflow needs. *api.Client satisfies it.
type Gateway interface {
	CreateSession(ctx context.Context, in models.SessionInput) (models.Session, error)
}

// Log stages one in-progress workout. It is driven from the same single
// goroutine as the state store.
type Log struct {
	gw      Gateway
	store   *state.Store
	journal *Journal // optional set-staging journal; nil disables it
	log     *slog.Logger

	phase     Phase
	started   time.Time
	planID    *uuid.UUID
	exercises []uuid.UUID
	cursor    int
	nextSet   int
	entries   []models.Entry
}

// NewLog creates a workflow bound to the gateway and state store. journal
// may be nil.
func NewLog(gw Gateway, store *state.Store, journal *Journal, log *slog.Logger) *Log {
	return &Log{gw: gw, store: store, journal: journal, log: log}
}

// Phase returns the current workflow phase.
func (l *Log) Phase() Phase {
	return l.phase
}

// Entries returns the staged sets in insertion order.
func (l *Log) Entries() []models.Entry {
	return append([]models.Entry(nil), l.entries...)
}

// CurrentExercise returns the exercise id under the cursor.
func (l *Log) CurrentExercise() (uuid.UUID, bool) {
	if l.phase != InProgress || l.cursor >= len(l.exercises) {
		return uuid.Nil, false
	}
	return l.exercises[l.cursor], true
}

// NextSetIndex returns the set counter value the next AddSet will record.
func (l *Log) NextSetIndex() int {
	return l.nextSet
}

// Start fixes the exercise list (a plan's ordered ids, or an ad-hoc list)
// and opens the local accumulator. planID is nil for a custom workout.
func (l *Log) Start(planID *uuid.UUID, exercises []uuid.UUID) error {
	switch l.phase {
	case InProgress:
		return ErrAlreadyStarted
	case Committing:
		return ErrCommitInFlight
	}

	l.phase = InProgress
	l.started = time.Now()
	l.planID = planID
	l.exercises = append([]uuid.UUID(nil), exercises...)
	l.cursor = 0
	l.nextSet = 1
	l.entries = nil

	if l.journal != nil {
		if err := l.journal.Begin(l.started, planID, l.exercises); err != nil {
			l.log.Warn("staging journal begin failed", "error", err)
		}
	}

	l.store.Dispatch(state.StartSession{Session: l.activeSession()})
	return nil
}

// AddSet records one set for the current exercise with setIndex taken from
// the set counter, then increments the counter. Valid only while InProgress
// with a current exercise; weight and reps must be positive.
func (l *Log) AddSet(weight float64, reps int, notes string) (models.Entry, error) {
	if l.phase != InProgress {
		return models.Entry{}, ErrNotInProgress
	}
	exerciseID, ok := l.CurrentExercise()
	if !ok {
		return models.Entry{}, ErrNoExercise
	}
	if weight <= 0 || reps <= 0 {
		return models.Entry{}, ErrInvalidSet
	}

	entry := models.Entry{
		ExerciseID: exerciseID,
		SetIndex:   l.nextSet,
		Weight:     weight,
		Reps:       reps,
		Notes:      notes,
	}
	l.entries = append(l.entries, entry)
	l.nextSet++

	if l.journal != nil {
		if err := l.journal.Append(entry); err != nil {
			l.log.Warn("staging journal append failed", "error", err)
		}
	}

	l.store.Dispatch(state.UpdateSession{Session: l.activeSession()})
	return entry, nil
}

// Advance moves the cursor one exercise forward (dir > 0) or back (dir < 0).
// Out-of-bounds moves are no-ops and report false. Any successful move
// resets the set counter to 1.
func (l *Log) Advance(dir int) bool {
	if l.phase != InProgress {
		return false
	}
	next := l.cursor
	switch {
	case dir > 0:
		next++
	case dir < 0:
		next--
	default:
		return false
	}
	if next < 0 || next >= len(l.exercises) {
		return false
	}
	l.cursor = next
	l.nextSet = 1
	return true
}

// Finish assembles the commit payload from the session start time and all
// staged entries (insertion order) and submits it as one logical commit. On
// success the canonical session is merged into the state store and the
// accumulator clears; on failure the workflow reverts to InProgress with the
// staged entries intact so the user can retry.
func (l *Log) Finish(ctx context.Context) (models.Session, error) {
	switch l.phase {
	case NotStarted:
		return models.Session{}, ErrNotInProgress
	case Committing:
		return models.Session{}, ErrCommitInFlight
	}

	l.phase = Committing
	payload := models.SessionInput{
		Date:    l.started,
		PlanID:  l.planID,
		Entries: append([]models.Entry{}, l.entries...),
	}

	saved, err := l.gw.CreateSession(ctx, payload)
	if err != nil {
		l.phase = InProgress
		l.log.Error("session commit failed", "entries", len(payload.Entries), "error", err)
		return models.Session{}, err
	}

	l.store.Dispatch(state.AddSession{Session: saved})
	l.store.Dispatch(state.EndSession{})
	l.reset()
	return saved, nil
}

// Discard drops the in-progress session and all staged entries.
func (l *Log) Discard() {
	if l.phase == NotStarted {
		return
	}
	l.store.Dispatch(state.EndSession{})
	l.reset()
}

// Resume restores a staged session from the journal after a client restart.
// The cursor lands on the last staged entry's exercise with the set counter
// continuing past its sets.
func (l *Log) Resume() error {
	if l.journal == nil {
		return ErrNothingToResume
	}
	if l.phase != NotStarted {
		return ErrAlreadyStarted
	}

	staged, err := l.journal.Load()
	if err != nil {
		return err
	}
	if staged == nil {
		return ErrNothingToResume
	}

	l.phase = InProgress
	l.started = staged.Started
	l.planID = staged.PlanID
	l.exercises = staged.Exercises
	l.entries = staged.Entries
	l.cursor = 0
	l.nextSet = 1
	if n := len(staged.Entries); n > 0 {
		l.cursor = restoreCursor(l.exercises, staged.Entries)
		l.nextSet = staged.Entries[n-1].SetIndex + 1
	}

	l.store.Dispatch(state.StartSession{Session: l.activeSession()})
	return nil
}

// restoreCursor replays the staged entries against the exercise sequence to
// recover the position lost by a restart. The cursor stays put while entries
// belong to the current position and otherwise moves to the nearest
// occurrence ahead, so a sequence with a repeated id restores to the
// occurrence the sets were actually logged at, not the last one.
func restoreCursor(exercises []uuid.UUID, entries []models.Entry) int {
	if len(exercises) == 0 {
		return 0
	}
	cursor := 0
	for _, e := range entries {
		if exercises[cursor] == e.ExerciseID {
			continue
		}
		if j := indexOfFrom(exercises, cursor+1, e.ExerciseID); j >= 0 {
			cursor = j
		} else if j := indexOfFrom(exercises, 0, e.ExerciseID); j >= 0 {
			cursor = j
		}
	}
	return cursor
}

func indexOfFrom(ids []uuid.UUID, start int, id uuid.UUID) int {
	for j := start; j < len(ids); j++ {
		if ids[j] == id {
			return j
		}
	}
	return -1
}

func (l *Log) activeSession() models.Session {
	return models.Session{
		Date:    l.started,
		PlanID:  l.planID,
		Entries: append([]models.Entry{}, l.entries...),
	}
}

func (l *Log) reset() {
	if l.journal != nil {
		if err := l.journal.Clear(); err != nil {
			l.log.Warn("staging journal clear failed", "error", err)
		}
	}
	l.phase = NotStarted
	l.started = time.Time{}
	l.planID = nil
	l.exercises = nil
	l.cursor = 0
	l.nextSet = 0
	l.entries = nil
}
