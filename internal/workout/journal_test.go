package workout

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/state"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := OpenJournal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

// TestJournalRoundTrip stages a session header and sets, then loads them back.
func TestJournalRoundTrip(t *testing.T) {
	j := openTestJournal(t)
	planID := uuid.New()
	a, b := uuid.New(), uuid.New()
	started := time.Date(2026, 2, 1, 18, 30, 0, 0, time.UTC)

	if err := j.Begin(started, &planID, []uuid.UUID{a, b}); err != nil {
		t.Fatal(err)
	}
	sets := []models.Entry{
		{ExerciseID: a, SetIndex: 1, Weight: 100, Reps: 8, Notes: "warm-up"},
		{ExerciseID: a, SetIndex: 2, Weight: 110, Reps: 6},
		{ExerciseID: b, SetIndex: 1, Weight: 50, Reps: 12},
	}
	for _, e := range sets {
		if err := j.Append(e); err != nil {
			t.Fatal(err)
		}
	}

	staged, err := j.Load()
	if err != nil {
		t.Fatal(err)
	}
	if staged == nil {
		t.Fatal("staged session missing")
	}
	if !staged.Started.Equal(started) {
		t.Errorf("started = %v, want %v", staged.Started, started)
	}
	if staged.PlanID == nil || *staged.PlanID != planID {
		t.Errorf("planId = %v, want %s", staged.PlanID, planID)
	}
	if len(staged.Exercises) != 2 || staged.Exercises[0] != a || staged.Exercises[1] != b {
		t.Errorf("exercises = %v", staged.Exercises)
	}
	if len(staged.Entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(staged.Entries))
	}
	for i, e := range staged.Entries {
		if e != sets[i] {
			t.Errorf("entries[%d] = %+v, want %+v", i, e, sets[i])
		}
	}
}

// TestJournalEmptyAndClear verifies Load on a fresh journal returns nil and
// Clear drops everything.
func TestJournalEmptyAndClear(t *testing.T) {
	j := openTestJournal(t)

	staged, err := j.Load()
	if err != nil {
		t.Fatal(err)
	}
	if staged != nil {
		t.Errorf("fresh journal staged = %+v, want nil", staged)
	}

	if err := j.Begin(time.Now(), nil, []uuid.UUID{uuid.New()}); err != nil {
		t.Fatal(err)
	}
	if err := j.Append(models.Entry{ExerciseID: uuid.New(), SetIndex: 1, Weight: 60, Reps: 10}); err != nil {
		t.Fatal(err)
	}
	if err := j.Clear(); err != nil {
		t.Fatal(err)
	}

	staged, err = j.Load()
	if err != nil {
		t.Fatal(err)
	}
	if staged != nil {
		t.Errorf("cleared journal staged = %+v, want nil", staged)
	}
}

// TestResumeFromJournal simulates a client restart mid-workout: a fresh Log
// over the same journal picks up the staged session with the cursor on the
// last logged exercise and the set counter continuing.
func TestResumeFromJournal(t *testing.T) {
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a, b := uuid.New(), uuid.New()

	j, err := OpenJournal(dir)
	if err != nil {
		t.Fatal(err)
	}
	first := NewLog(&fakeGateway{}, state.NewStore(), j, logger)
	if err := first.Start(nil, []uuid.UUID{a, b}); err != nil {
		t.Fatal(err)
	}
	first.AddSet(100, 8, "")
	first.Advance(+1)
	first.AddSet(50, 12, "")
	first.AddSet(52.5, 10, "")
	j.Close() //nolint:errcheck

	// restart
	j2, err := OpenJournal(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer j2.Close() //nolint:errcheck

	store := state.NewStore()
	second := NewLog(&fakeGateway{}, store, j2, logger)
	if err := second.Resume(); err != nil {
		t.Fatal(err)
	}

	if second.Phase() != InProgress {
		t.Fatalf("phase = %v, want InProgress", second.Phase())
	}
	if cur, _ := second.CurrentExercise(); cur != b {
		t.Errorf("cursor = %s, want %s", cur, b)
	}
	if second.NextSetIndex() != 3 {
		t.Errorf("next set = %d, want 3", second.NextSetIndex())
	}
	if len(second.Entries()) != 3 {
		t.Errorf("entries = %d, want 3", len(second.Entries()))
	}
	if store.State().ActiveSession == nil {
		t.Error("resume did not restore the active session")
	}
}

// TestResumeRepeatedExercise restores a sequence that repeats an exercise:
// sets logged at the first occurrence must restore the cursor there, so the
// exercises after it are still reachable.
func TestResumeRepeatedExercise(t *testing.T) {
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a, b := uuid.New(), uuid.New()

	j, err := OpenJournal(dir)
	if err != nil {
		t.Fatal(err)
	}
	first := NewLog(&fakeGateway{}, state.NewStore(), j, logger)
	if err := first.Start(nil, []uuid.UUID{a, b, a}); err != nil {
		t.Fatal(err)
	}
	first.AddSet(100, 8, "")
	j.Close() //nolint:errcheck

	// restart
	j2, err := OpenJournal(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer j2.Close() //nolint:errcheck

	second := NewLog(&fakeGateway{}, state.NewStore(), j2, logger)
	if err := second.Resume(); err != nil {
		t.Fatal(err)
	}

	if !second.Advance(+1) {
		t.Fatal("advance from restored position failed")
	}
	if cur, _ := second.CurrentExercise(); cur != b {
		t.Errorf("exercise after advance = %s, want %s", cur, b)
	}
	if second.NextSetIndex() != 1 {
		t.Errorf("next set = %d, want 1 after advance", second.NextSetIndex())
	}
}

// TestResumeNothingStaged verifies Resume without staged data reports
// ErrNothingToResume.
func TestResumeNothingStaged(t *testing.T) {
	j := openTestJournal(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	l := NewLog(&fakeGateway{}, state.NewStore(), j, logger)

	if err := l.Resume(); err != ErrNothingToResume {
		t.Errorf("err = %v, want ErrNothingToResume", err)
	}
}
