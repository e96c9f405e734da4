package models

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

// TestExerciseInputValidate covers the boundary limits: required fields and
// the 255/100 length caps.
func TestExerciseInputValidate(t *testing.T) {
	tests := []struct {
		name      string
		in        ExerciseInput
		wantField string
	}{
		{"valid", ExerciseInput{Name: "Bench Press", Category: "Strength", MuscleGroup: "Chest"}, ""},
		{"missing name", ExerciseInput{Category: "Strength", MuscleGroup: "Chest"}, "name"},
		{"missing category", ExerciseInput{Name: "Bench Press", MuscleGroup: "Chest"}, "category"},
		{"missing muscle group", ExerciseInput{Name: "Bench Press", Category: "Strength"}, "muscleGroup"},
		{"name too long", ExerciseInput{Name: strings.Repeat("x", 256), Category: "Strength", MuscleGroup: "Chest"}, "name"},
		{"name at limit", ExerciseInput{Name: strings.Repeat("x", 255), Category: "Strength", MuscleGroup: "Chest"}, ""},
		{"category too long", ExerciseInput{Name: "Bench Press", Category: strings.Repeat("x", 101), MuscleGroup: "Chest"}, "category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("error = %v, want *ValidationError", err)
			}
			if _, ok := ve.Fields[tt.wantField]; !ok {
				t.Errorf("fields = %v, want detail for %q", ve.Fields, tt.wantField)
			}
		})
	}
}

// TestExerciseUpdateValidate verifies partial updates only validate fields
// that are present.
func TestExerciseUpdateValidate(t *testing.T) {
	if err := (ExerciseUpdate{}).Validate(); err != nil {
		t.Fatalf("empty update should be valid, got %v", err)
	}

	empty := ""
	err := (ExerciseUpdate{Name: &empty}).Validate()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	if ve.Fields["name"] == "" {
		t.Errorf("fields = %v, want name detail", ve.Fields)
	}
}

// TestEntryValidate checks the positivity constraints on a logged set.
func TestEntryValidate(t *testing.T) {
	valid := Entry{ExerciseID: uuid.New(), SetIndex: 1, Weight: 100, Reps: 8}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name  string
		entry Entry
		field string
	}{
		{"zero weight", Entry{ExerciseID: uuid.New(), SetIndex: 1, Weight: 0, Reps: 8}, "weight"},
		{"negative reps", Entry{ExerciseID: uuid.New(), SetIndex: 1, Weight: 100, Reps: -1}, "reps"},
		{"zero set index", Entry{ExerciseID: uuid.New(), SetIndex: 0, Weight: 100, Reps: 8}, "setIndex"},
		{"nil exercise", Entry{SetIndex: 1, Weight: 100, Reps: 8}, "exerciseId"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ve *ValidationError
			if !errors.As(tt.entry.Validate(), &ve) {
				t.Fatal("expected *ValidationError")
			}
			if _, ok := ve.Fields[tt.field]; !ok {
				t.Errorf("fields = %v, want detail for %q", ve.Fields, tt.field)
			}
		})
	}
}

// TestSessionInputValidate verifies entry errors are reported with an indexed
// field path and that an empty entries list is acceptable.
func TestSessionInputValidate(t *testing.T) {
	in := SessionInput{Date: time.Now()}
	if err := in.Validate(); err != nil {
		t.Fatalf("empty entries should be valid, got %v", err)
	}

	in.Entries = []Entry{
		{ExerciseID: uuid.New(), SetIndex: 1, Weight: 100, Reps: 8},
		{ExerciseID: uuid.New(), SetIndex: 2, Weight: -5, Reps: 8},
	}
	var ve *ValidationError
	if !errors.As(in.Validate(), &ve) {
		t.Fatal("expected *ValidationError")
	}
	if _, ok := ve.Fields["entries[1].weight"]; !ok {
		t.Errorf("fields = %v, want detail for entries[1].weight", ve.Fields)
	}

	if err := (SessionInput{}).Validate(); err == nil {
		t.Error("zero date should fail validation")
	}
}

// TestSessionStats verifies the history aggregation.
func TestSessionStats(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	s := Session{Entries: []Entry{
		{ExerciseID: a, SetIndex: 1, Weight: 100, Reps: 8},
		{ExerciseID: a, SetIndex: 2, Weight: 100, Reps: 8},
		{ExerciseID: b, SetIndex: 1, Weight: 50, Reps: 12},
	}}

	got := s.Stats()
	if got.UniqueExercises != 2 {
		t.Errorf("unique exercises = %d, want 2", got.UniqueExercises)
	}
	if got.TotalSets != 3 {
		t.Errorf("total sets = %d, want 3", got.TotalSets)
	}
	if want := 100*8.0 + 100*8.0 + 50*12.0; got.TotalVolume != want {
		t.Errorf("total volume = %v, want %v", got.TotalVolume, want)
	}
}

// TestSummarize verifies the dashboard counts and the this-week window.
func TestSummarize(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	sessions := []Session{
		{Date: now.AddDate(0, 0, -1)},
		{Date: now.AddDate(0, 0, -6)},
		{Date: now.AddDate(0, 0, -8)},
	}
	sum := Summarize(make([]Exercise, 4), make([]Plan, 2), sessions, now)
	if sum.TotalExercises != 4 || sum.TotalPlans != 2 || sum.TotalSessions != 3 {
		t.Errorf("totals = %+v", sum)
	}
	if sum.SessionsThisWeek != 2 {
		t.Errorf("sessions this week = %d, want 2", sum.SessionsThisWeek)
	}
}
