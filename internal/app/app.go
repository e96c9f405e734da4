// Package app ties the data gateway and the state store together: every
// operation performs its I/O through the gateway first and mirrors the
// confirmed record into the store on success. Failures leave the store
// untouched so no in-progress user input is lost.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/claude/liftlog/internal/api"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/state"
	"github.com/claude/liftlog/internal/workout"
)

// App is the client-side application core.
type App struct {
	client *api.Client
	store  *state.Store
	log    *slog.Logger
}

// New creates an App over the given gateway and store.
func New(client *api.Client, store *state.Store, log *slog.Logger) *App {
	return &App{client: client, store: store, log: log}
}

// Store exposes the state store for rendering and the session workflow.
func (a *App) Store() *state.Store {
	return a.store
}

// Client exposes the gateway for the session workflow's commit path.
func (a *App) Client() *api.Client {
	return a.client
}

// Load bootstraps the state tree: provisions the store if needed, fetches
// all collections, and replaces the tree wholesale. On failure the tree is
// loaded empty so the UI still renders.
func (a *App) Load(ctx context.Context) error {
	if err := a.client.Init(ctx); err != nil {
		a.log.Warn("store provisioning on load failed", "error", err)
	}

	exercises, err := a.client.ListExercises(ctx)
	if err != nil {
		return a.loadEmpty(fmt.Errorf("loading exercises: %w", err))
	}
	plans, err := a.client.ListPlans(ctx)
	if err != nil {
		return a.loadEmpty(fmt.Errorf("loading plans: %w", err))
	}
	sessions, err := a.client.ListSessions(ctx)
	if err != nil {
		return a.loadEmpty(fmt.Errorf("loading sessions: %w", err))
	}

	a.store.Dispatch(state.LoadData{Exercises: exercises, Plans: plans, Sessions: sessions})
	return nil
}

func (a *App) loadEmpty(err error) error {
	a.log.Error("bootstrap failed", "error", err)
	a.store.Dispatch(state.LoadData{
		Exercises: []models.Exercise{},
		Plans:     []models.Plan{},
		Sessions:  []models.Session{},
	})
	return err
}

// NewWorkoutLog creates a session workflow bound to this app's gateway and
// state store. journal may be nil to disable set staging.
func (a *App) NewWorkoutLog(journal *workout.Journal) *workout.Log {
	return workout.NewLog(a.client, a.store, journal, a.log)
}

// SetView switches the active view.
func (a *App) SetView(v state.View) {
	a.store.Dispatch(state.SetView{View: v})
}

// CreateExercise persists the exercise and appends the confirmed record.
func (a *App) CreateExercise(ctx context.Context, in models.ExerciseInput) (models.Exercise, error) {
	created, err := a.client.CreateExercise(ctx, in)
	if err != nil {
		return models.Exercise{}, err
	}
	a.store.Dispatch(state.AddExercise{Exercise: created})
	return created, nil
}

// UpdateExercise persists the update and replaces the stored record.
func (a *App) UpdateExercise(ctx context.Context, id uuid.UUID, u models.ExerciseUpdate) (models.Exercise, error) {
	updated, err := a.client.UpdateExercise(ctx, id, u)
	if err != nil {
		return models.Exercise{}, err
	}
	a.store.Dispatch(state.UpdateExercise{Exercise: updated})
	return updated, nil
}

// DeleteExercise deletes server-side then removes the record from the tree.
// Plans referencing the exercise keep their dangling ids.
func (a *App) DeleteExercise(ctx context.Context, id uuid.UUID) error {
	if err := a.client.DeleteExercise(ctx, id); err != nil {
		return err
	}
	a.store.Dispatch(state.DeleteExercise{ID: id})
	return nil
}

// CreatePlan persists the plan and appends the confirmed record.
func (a *App) CreatePlan(ctx context.Context, in models.PlanInput) (models.Plan, error) {
	created, err := a.client.CreatePlan(ctx, in)
	if err != nil {
		return models.Plan{}, err
	}
	a.store.Dispatch(state.AddPlan{Plan: created})
	return created, nil
}

// UpdatePlan persists the update and replaces the stored record.
func (a *App) UpdatePlan(ctx context.Context, id uuid.UUID, u models.PlanUpdate) (models.Plan, error) {
	updated, err := a.client.UpdatePlan(ctx, id, u)
	if err != nil {
		return models.Plan{}, err
	}
	a.store.Dispatch(state.UpdatePlan{Plan: updated})
	return updated, nil
}

// DeletePlan deletes server-side then removes the record from the tree.
func (a *App) DeletePlan(ctx context.Context, id uuid.UUID) error {
	if err := a.client.DeletePlan(ctx, id); err != nil {
		return err
	}
	a.store.Dispatch(state.DeletePlan{ID: id})
	return nil
}
