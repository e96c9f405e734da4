package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/claude/liftlog/internal/models"
)

func (s *Server) handleInit(w http.ResponseWriter, r *http.Request) {
	if err := s.store.InitSchema(r.Context()); err != nil {
		s.fail(w, "", "initialize database", err)
		return
	}
	s.okMessage(w, "Database initialized successfully")
}

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	exercises, err := s.store.ListExercises(r.Context())
	if exercises == nil {
		exercises = []models.Exercise{}
	}
	s.listOrEmpty(w, "fetch exercises", exercises, err)
}

func (s *Server) handleCreateExercise(w http.ResponseWriter, r *http.Request) {
	var in models.ExerciseInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.invalidInput(w, err)
		return
	}
	if err := in.Validate(); err != nil {
		s.invalidInput(w, err)
		return
	}

	exercise, err := s.store.CreateExercise(r.Context(), in)
	if err != nil {
		s.fail(w, "Exercise", "create exercise", err)
		return
	}
	s.ok(w, http.StatusCreated, exercise)
}

func (s *Server) handleGetExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	exercise, err := s.store.GetExercise(r.Context(), id)
	if err != nil {
		s.fail(w, "Exercise", "fetch exercise", err)
		return
	}
	s.ok(w, http.StatusOK, exercise)
}

func (s *Server) handleUpdateExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var u models.ExerciseUpdate
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		s.invalidInput(w, err)
		return
	}
	if err := u.Validate(); err != nil {
		s.invalidInput(w, err)
		return
	}

	exercise, err := s.store.UpdateExercise(r.Context(), id, u)
	if err != nil {
		s.fail(w, "Exercise", "update exercise", err)
		return
	}
	s.ok(w, http.StatusOK, exercise)
}

func (s *Server) handleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteExercise(r.Context(), id); err != nil {
		s.fail(w, "Exercise", "delete exercise", err)
		return
	}
	s.okMessage(w, "Exercise deleted successfully")
}

// pathID parses the {id} URL parameter; a malformed id is a 400.
func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: "Invalid id"})
		return uuid.Nil, false
	}
	return id, true
}
