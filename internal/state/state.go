// Package state holds the single authoritative in-memory state tree for the
// application: exercises, plans, session history, the active view, and the
// in-progress session. The tree is only ever mutated by the reducer, a pure
// synchronous function of (state, action); all I/O happens in callers before
// or after dispatch.
package state

import (
	"github.com/google/uuid"

	"github.com/claude/liftlog/internal/models"
)

// View names the active UI surface. Switching views has no data effect.
type View string

const (
	ViewDashboard View = "dashboard"
	ViewExercises View = "exercises"
	ViewPlans     View = "plans"
	ViewWorkout   View = "workout"
	ViewHistory   View = "history"
)

// State is one immutable snapshot of the application. Reduce never mutates a
// snapshot in place; slices are copied on write.
type State struct {
	Exercises     []models.Exercise
	Plans         []models.Plan
	Sessions      []models.Session
	CurrentView   View
	ActiveSession *models.Session
}

// Initial returns the boot state.
func Initial() State {
	return State{CurrentView: ViewDashboard}
}

// ExerciseByID looks up an exercise in the snapshot. Lookups may miss —
// plans can hold dangling ids — so callers must check ok and skip absentees.
func (s State) ExerciseByID(id uuid.UUID) (models.Exercise, bool) {
	for _, e := range s.Exercises {
		if e.ID == id {
			return e, true
		}
	}
	return models.Exercise{}, false
}

// PlanByID looks up a plan in the snapshot.
func (s State) PlanByID(id uuid.UUID) (models.Plan, bool) {
	for _, p := range s.Plans {
		if p.ID == id {
			return p, true
		}
	}
	return models.Plan{}, false
}

// Action is the closed set of state transitions. Implementations live in
// this package only.
type Action interface {
	isAction()
}

// SetView switches the active view.
type SetView struct{ View View }

// LoadData replaces exercises, plans, and sessions wholesale. Bootstrap only.
type LoadData struct {
	Exercises []models.Exercise
	Plans     []models.Plan
	Sessions  []models.Session
}

// AddExercise appends an exercise.
type AddExercise struct{ Exercise models.Exercise }

// UpdateExercise replaces the exercise with a matching id, preserving order.
type UpdateExercise struct{ Exercise models.Exercise }

// DeleteExercise removes the exercise with the given id.
type DeleteExercise struct{ ID uuid.UUID }

// AddPlan appends a plan.
type AddPlan struct{ Plan models.Plan }

// UpdatePlan replaces the plan with a matching id, preserving order.
type UpdatePlan struct{ Plan models.Plan }

// DeletePlan removes the plan with the given id.
type DeletePlan struct{ ID uuid.UUID }

// StartSession sets the active session, replacing any prior value.
type StartSession struct{ Session models.Session }

// UpdateSession replaces the active session wholesale.
type UpdateSession struct{ Session models.Session }

// EndSession clears the active session.
type EndSession struct{}

// AddSession appends a committed session to history. It does not touch the
// active session.
type AddSession struct{ Session models.Session }

func (SetView) isAction()        {}
func (LoadData) isAction()       {}
func (AddExercise) isAction()    {}
func (UpdateExercise) isAction() {}
func (DeleteExercise) isAction() {}
func (AddPlan) isAction()        {}
func (UpdatePlan) isAction()     {}
func (DeletePlan) isAction()     {}
func (StartSession) isAction()   {}
func (UpdateSession) isAction()  {}
func (EndSession) isAction()     {}
func (AddSession) isAction()     {}

// Reduce is the pure transition function. Unknown (or nil) actions return
// the state unchanged; a dispatch never fails.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SetView:
		s.CurrentView = a.View
	case LoadData:
		s.Exercises = a.Exercises
		s.Plans = a.Plans
		s.Sessions = a.Sessions
	case AddExercise:
		s.Exercises = append(copyOf(s.Exercises), a.Exercise)
	case UpdateExercise:
		s.Exercises = replaceByID(s.Exercises, a.Exercise, func(e models.Exercise) uuid.UUID { return e.ID }, a.Exercise.ID)
	case DeleteExercise:
		s.Exercises = removeByID(s.Exercises, func(e models.Exercise) uuid.UUID { return e.ID }, a.ID)
	case AddPlan:
		s.Plans = append(copyOf(s.Plans), a.Plan)
	case UpdatePlan:
		s.Plans = replaceByID(s.Plans, a.Plan, func(p models.Plan) uuid.UUID { return p.ID }, a.Plan.ID)
	case DeletePlan:
		s.Plans = removeByID(s.Plans, func(p models.Plan) uuid.UUID { return p.ID }, a.ID)
	case StartSession:
		sess := a.Session
		s.ActiveSession = &sess
	case UpdateSession:
		sess := a.Session
		s.ActiveSession = &sess
	case EndSession:
		s.ActiveSession = nil
	case AddSession:
		s.Sessions = append(copyOf(s.Sessions), a.Session)
	}
	return s
}

func copyOf[T any](in []T) []T {
	out := make([]T, len(in), len(in)+1)
	copy(out, in)
	return out
}

func replaceByID[T any](in []T, replacement T, idOf func(T) uuid.UUID, id uuid.UUID) []T {
	out := copyOf(in)
	for i, v := range out {
		if idOf(v) == id {
			out[i] = replacement
		}
	}
	return out
}

func removeByID[T any](in []T, idOf func(T) uuid.UUID, id uuid.UUID) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if idOf(v) != id {
			out = append(out, v)
		}
	}
	return out
}
