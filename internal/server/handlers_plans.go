package server

import (
	"encoding/json"
	"net/http"

	"github.com/claude/liftlog/internal/models"
)

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.store.ListPlans(r.Context())
	if plans == nil {
		plans = []models.Plan{}
	}
	s.listOrEmpty(w, "fetch plans", plans, err)
}

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var in models.PlanInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.invalidInput(w, err)
		return
	}
	if err := in.Validate(); err != nil {
		s.invalidInput(w, err)
		return
	}
	plan, err := s.store.CreatePlan(r.Context(), in)
	if err != nil {
		s.fail(w, "Plan", "create plan", err)
		return
	}
	s.ok(w, http.StatusCreated, plan)
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	plan, err := s.store.GetPlan(r.Context(), id)
	if err != nil {
		s.fail(w, "Plan", "fetch plan", err)
		return
	}
	s.ok(w, http.StatusOK, plan)
}

func (s *Server) handleUpdatePlan(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var u models.PlanUpdate
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		s.invalidInput(w, err)
		return
	}
	if err := u.Validate(); err != nil {
		s.invalidInput(w, err)
		return
	}

	plan, err := s.store.UpdatePlan(r.Context(), id, u)
	if err != nil {
		s.fail(w, "Plan", "update plan", err)
		return
	}
	s.ok(w, http.StatusOK, plan)
}

func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if err := s.store.DeletePlan(r.Context(), id); err != nil {
		s.fail(w, "Plan", "delete plan", err)
		return
	}
	s.okMessage(w, "Plan deleted successfully")
}
