// Package memory implements the record store in process memory. It backs
// tests and the -memory development mode of the server, where no Postgres
// instance is required. Semantics mirror the Postgres layer: operations
// against an unprovisioned store fail with models.ErrStoreUninitialized,
// deleting an exercise cascades to session entries but leaves plan ids
// dangling, and deleting a plan detaches its sessions.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/claude/liftlog/internal/models"
)

// Store is an in-memory record store safe for concurrent use.
type Store struct {
	mu          sync.Mutex
	initialized bool
	exercises   []models.Exercise
	plans       []models.Plan
	sessions    []models.Session
}

// New returns an empty store. When initialized is false, every operation
// fails with models.ErrStoreUninitialized until InitSchema runs.
func New(initialized bool) *Store {
	return &Store{initialized: initialized}
}

func (s *Store) ready() error {
	if !s.initialized {
		return fmt.Errorf("%w: relation does not exist", models.ErrStoreUninitialized)
	}
	return nil
}

// InitSchema provisions the store. Idempotent.
func (s *Store) InitSchema(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized = true
	return nil
}

func (s *Store) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	return slices.Clone(s.exercises), nil
}

func (s *Store) CreateExercise(ctx context.Context, in models.ExerciseInput) (models.Exercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return models.Exercise{}, err
	}
	now := time.Now().UTC()
	ex := models.Exercise{
		ID:          uuid.New(),
		Name:        in.Name,
		Category:    in.Category,
		MuscleGroup: in.MuscleGroup,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.exercises = append(s.exercises, ex)
	return ex, nil
}

func (s *Store) GetExercise(ctx context.Context, id uuid.UUID) (models.Exercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return models.Exercise{}, err
	}
	for _, ex := range s.exercises {
		if ex.ID == id {
			return ex, nil
		}
	}
	return models.Exercise{}, models.ErrNotFound
}

func (s *Store) UpdateExercise(ctx context.Context, id uuid.UUID, u models.ExerciseUpdate) (models.Exercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return models.Exercise{}, err
	}
	for i, ex := range s.exercises {
		if ex.ID != id {
			continue
		}
		if u.Name != nil {
			ex.Name = *u.Name
		}
		if u.Category != nil {
			ex.Category = *u.Category
		}
		if u.MuscleGroup != nil {
			ex.MuscleGroup = *u.MuscleGroup
		}
		ex.UpdatedAt = time.Now().UTC()
		s.exercises[i] = ex
		return ex, nil
	}
	return models.Exercise{}, models.ErrNotFound
}

func (s *Store) DeleteExercise(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return err
	}
	n := len(s.exercises)
	s.exercises = slices.DeleteFunc(s.exercises, func(ex models.Exercise) bool {
		return ex.ID == id
	})
	if len(s.exercises) == n {
		return models.ErrNotFound
	}
	// cascade to logged sets; plans keep the dangling id
	for i := range s.sessions {
		s.sessions[i].Entries = slices.DeleteFunc(s.sessions[i].Entries, func(e models.Entry) bool {
			return e.ExerciseID == id
		})
	}
	return nil
}

func (s *Store) ListPlans(ctx context.Context) ([]models.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	return slices.Clone(s.plans), nil
}

func (s *Store) CreatePlan(ctx context.Context, in models.PlanInput) (models.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return models.Plan{}, err
	}
	now := time.Now().UTC()
	p := models.Plan{
		ID:          uuid.New(),
		Name:        in.Name,
		ExerciseIDs: slices.Clone(in.ExerciseIDs),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if p.ExerciseIDs == nil {
		p.ExerciseIDs = []uuid.UUID{}
	}
	s.plans = append(s.plans, p)
	return p, nil
}

func (s *Store) GetPlan(ctx context.Context, id uuid.UUID) (models.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return models.Plan{}, err
	}
	for _, p := range s.plans {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Plan{}, models.ErrNotFound
}

func (s *Store) UpdatePlan(ctx context.Context, id uuid.UUID, u models.PlanUpdate) (models.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return models.Plan{}, err
	}
	for i, p := range s.plans {
		if p.ID != id {
			continue
		}
		if u.Name != nil {
			p.Name = *u.Name
		}
		if u.ExerciseIDs != nil {
			p.ExerciseIDs = slices.Clone(*u.ExerciseIDs)
			if p.ExerciseIDs == nil {
				p.ExerciseIDs = []uuid.UUID{}
			}
		}
		p.UpdatedAt = time.Now().UTC()
		s.plans[i] = p
		return p, nil
	}
	return models.Plan{}, models.ErrNotFound
}

func (s *Store) DeletePlan(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return err
	}
	n := len(s.plans)
	s.plans = slices.DeleteFunc(s.plans, func(p models.Plan) bool {
		return p.ID == id
	})
	if len(s.plans) == n {
		return models.ErrNotFound
	}
	// sessions logged against the plan become custom workouts
	for i := range s.sessions {
		if s.sessions[i].PlanID != nil && *s.sessions[i].PlanID == id {
			s.sessions[i].PlanID = nil
		}
	}
	return nil
}

func (s *Store) ListSessions(ctx context.Context) ([]models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}
	out := make([]models.Session, len(s.sessions))
	for i, sess := range s.sessions {
		sess.Entries = slices.Clone(sess.Entries)
		// setIndex first, insertion order breaking ties, as the SQL layer
		// orders by set_index then created_at
		slices.SortStableFunc(sess.Entries, func(a, b models.Entry) int {
			return a.SetIndex - b.SetIndex
		})
		out[i] = sess
	}
	slices.SortStableFunc(out, func(a, b models.Session) int {
		return b.Date.Compare(a.Date)
	})
	return out, nil
}

func (s *Store) CreateSession(ctx context.Context, in models.SessionInput) (models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return models.Session{}, err
	}
	sess := models.Session{
		ID:      uuid.New(),
		Date:    in.Date,
		PlanID:  in.PlanID,
		Entries: slices.Clone(in.Entries),
	}
	if sess.Entries == nil {
		sess.Entries = []models.Entry{}
	}
	s.sessions = append(s.sessions, sess)
	return sess, nil
}

// Exercises returns a snapshot of the stored exercises, for tests.
func (s *Store) Exercises() []models.Exercise {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.exercises)
}

// Plans returns a snapshot of the stored plans, for tests.
func (s *Store) Plans() []models.Plan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.plans)
}

// Sessions returns a snapshot of the stored sessions, for tests.
func (s *Store) Sessions() []models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Session, len(s.sessions))
	for i, sess := range s.sessions {
		sess.Entries = slices.Clone(sess.Entries)
		out[i] = sess
	}
	return out
}
