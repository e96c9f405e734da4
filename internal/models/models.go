package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Exercise is a named movement with a category and target muscle group.
type Exercise struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	MuscleGroup string    `json:"muscleGroup"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero"`
}

// Plan is an ordered template of exercises defining a workout routine.
// ExerciseIDs order is semantic (workout sequence). IDs may be duplicated,
// and may dangle if the referenced exercise is later deleted; consumers must
// tolerate missing lookups.
type Plan struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	ExerciseIDs []uuid.UUID `json:"exerciseIds"`
	CreatedAt   time.Time   `json:"createdAt,omitzero"`
	UpdatedAt   time.Time   `json:"updatedAt,omitzero"`
}

// Entry is one logged set. It is never addressable on its own — it belongs to
// exactly one session.
type Entry struct {
	ExerciseID uuid.UUID `json:"exerciseId"`
	SetIndex   int       `json:"setIndex"`
	Weight     float64   `json:"weight"`
	Reps       int       `json:"reps"`
	Notes      string    `json:"notes,omitempty"`
}

// Session is one performed workout. PlanID is nil for a custom workout.
type Session struct {
	ID      uuid.UUID  `json:"id"`
	Date    time.Time  `json:"date"`
	PlanID  *uuid.UUID `json:"planId,omitempty"`
	Entries []Entry    `json:"entries"`
}

// ExerciseInput is the payload for creating an exercise.
type ExerciseInput struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	MuscleGroup string `json:"muscleGroup"`
}

// ExerciseUpdate is a partial update; nil fields keep their current value.
type ExerciseUpdate struct {
	Name        *string `json:"name,omitempty"`
	Category    *string `json:"category,omitempty"`
	MuscleGroup *string `json:"muscleGroup,omitempty"`
}

// PlanInput is the payload for creating a plan.
type PlanInput struct {
	Name        string      `json:"name"`
	ExerciseIDs []uuid.UUID `json:"exerciseIds"`
}

// PlanUpdate is a partial update; nil fields keep their current value.
// An explicit empty ExerciseIDs list clears the plan.
type PlanUpdate struct {
	Name        *string      `json:"name,omitempty"`
	ExerciseIDs *[]uuid.UUID `json:"exerciseIds,omitempty"`
}

// SessionInput is the payload for committing a session.
type SessionInput struct {
	Date    time.Time  `json:"date"`
	PlanID  *uuid.UUID `json:"planId,omitempty"`
	Entries []Entry    `json:"entries"`
}

const (
	maxNameLen     = 255
	maxCategoryLen = 100
)

// Validate checks the input against the exercise field constraints.
func (in ExerciseInput) Validate() error {
	v := &ValidationError{}
	checkRequired(v, "name", in.Name, maxNameLen)
	checkRequired(v, "category", in.Category, maxCategoryLen)
	checkRequired(v, "muscleGroup", in.MuscleGroup, maxCategoryLen)
	return v.orNil()
}

// Validate checks only the fields present in the update.
func (u ExerciseUpdate) Validate() error {
	v := &ValidationError{}
	if u.Name != nil {
		checkRequired(v, "name", *u.Name, maxNameLen)
	}
	if u.Category != nil {
		checkRequired(v, "category", *u.Category, maxCategoryLen)
	}
	if u.MuscleGroup != nil {
		checkRequired(v, "muscleGroup", *u.MuscleGroup, maxCategoryLen)
	}
	return v.orNil()
}

// Validate checks the input against the plan field constraints.
func (in PlanInput) Validate() error {
	v := &ValidationError{}
	checkRequired(v, "name", in.Name, maxNameLen)
	return v.orNil()
}

// Validate checks only the fields present in the update.
func (u PlanUpdate) Validate() error {
	v := &ValidationError{}
	if u.Name != nil {
		checkRequired(v, "name", *u.Name, maxNameLen)
	}
	return v.orNil()
}

// Validate checks the session payload, including every entry.
func (in SessionInput) Validate() error {
	v := &ValidationError{}
	if in.Date.IsZero() {
		v.add("date", "is required")
	}
	for i, e := range in.Entries {
		e.check(v, fmt.Sprintf("entries[%d].", i))
	}
	return v.orNil()
}

// Validate checks a single logged set.
func (e Entry) Validate() error {
	v := &ValidationError{}
	e.check(v, "")
	return v.orNil()
}

func (e Entry) check(v *ValidationError, prefix string) {
	if e.ExerciseID == uuid.Nil {
		v.add(prefix+"exerciseId", "is required")
	}
	if e.SetIndex <= 0 {
		v.add(prefix+"setIndex", "must be positive")
	}
	if e.Weight <= 0 {
		v.add(prefix+"weight", "must be positive")
	}
	if e.Reps <= 0 {
		v.add(prefix+"reps", "must be positive")
	}
}

func checkRequired(v *ValidationError, field, value string, max int) {
	if value == "" {
		v.add(field, "is required")
		return
	}
	if len(value) > max {
		v.add(field, "exceeds maximum length")
	}
}
