package server

import (
	"encoding/json"
	"net/http"

	"github.com/claude/liftlog/internal/models"
)

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.store.ListSessions(r.Context())
	if sessions == nil {
		sessions = []models.Session{}
	}
	s.listOrEmpty(w, "fetch sessions", sessions, err)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var in models.SessionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.invalidInput(w, err)
		return
	}
	if err := in.Validate(); err != nil {
		s.invalidInput(w, err)
		return
	}

	session, err := s.store.CreateSession(r.Context(), in)
	if err != nil {
		s.fail(w, "Session", "create session", err)
		return
	}
	s.ok(w, http.StatusCreated, session)
}
