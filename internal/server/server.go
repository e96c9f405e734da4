package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
)

// Store is the persistence surface the handlers need. *storage.DB satisfies
// it; tests substitute an in-memory fake.
type Store interface {
	InitSchema(ctx context.Context) error

	ListExercises(ctx context.Context) ([]models.Exercise, error)
	CreateExercise(ctx context.Context, in models.ExerciseInput) (models.Exercise, error)
	GetExercise(ctx context.Context, id uuid.UUID) (models.Exercise, error)
	UpdateExercise(ctx context.Context, id uuid.UUID, u models.ExerciseUpdate) (models.Exercise, error)
	DeleteExercise(ctx context.Context, id uuid.UUID) error

	ListPlans(ctx context.Context) ([]models.Plan, error)
	CreatePlan(ctx context.Context, in models.PlanInput) (models.Plan, error)
	GetPlan(ctx context.Context, id uuid.UUID) (models.Plan, error)
	UpdatePlan(ctx context.Context, id uuid.UUID, u models.PlanUpdate) (models.Plan, error)
	DeletePlan(ctx context.Context, id uuid.UUID) error

	ListSessions(ctx context.Context) ([]models.Session, error)
	CreateSession(ctx context.Context, in models.SessionInput) (models.Session, error)
}

var _ Store = (*storage.DB)(nil)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store  Store
	log    *slog.Logger
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(store Store, log *slog.Logger) *Server {
	s := &Server{
		store:  store,
		log:    log,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/init", s.handleInit)

		r.Get("/exercises", s.handleListExercises)
		r.Post("/exercises", s.handleCreateExercise)
		r.Get("/exercises/{id}", s.handleGetExercise)
		r.Put("/exercises/{id}", s.handleUpdateExercise)
		r.Delete("/exercises/{id}", s.handleDeleteExercise)

		r.Get("/plans", s.handleListPlans)
		r.Post("/plans", s.handleCreatePlan)
		r.Get("/plans/{id}", s.handleGetPlan)
		r.Put("/plans/{id}", s.handleUpdatePlan)
		r.Delete("/plans/{id}", s.handleDeletePlan)

		r.Get("/sessions", s.handleListSessions)
		r.Post("/sessions", s.handleCreateSession)
	})
}
