package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/claude/liftlog/internal/models"
)

// envelope is the uniform response shape for every endpoint.
type envelope struct {
	Success bool              `json:"success"`
	Data    any               `json:"data,omitempty"`
	Message string            `json:"message,omitempty"`
	Error   string            `json:"error,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func (s *Server) ok(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func (s *Server) okMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: message})
}

func (s *Server) invalidInput(w http.ResponseWriter, err error) {
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: "Invalid input", Errors: ve.Fields})
		return
	}
	writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: "Invalid input", Error: err.Error()})
}

// fail maps a store error onto the wire taxonomy. Validation never reaches
// here; persistence errors are logged and returned with minimal detail.
// entity names what was looked up ("Exercise"), op names what failed
// ("update exercise").
func (s *Server) fail(w http.ResponseWriter, entity, op string, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		writeJSON(w, http.StatusNotFound, envelope{Success: false, Message: entity + " not found"})
	case errors.Is(err, models.ErrStoreUninitialized):
		s.log.Error("store not initialized", "op", op, "error", err)
		writeJSON(w, http.StatusInternalServerError, envelope{
			Success: false,
			Message: "Failed to " + op,
			Error:   models.MsgStoreUninitialized,
		})
	default:
		s.log.Error("store error", "op", op, "error", err)
		writeJSON(w, http.StatusInternalServerError, envelope{
			Success: false,
			Message: "Failed to " + op,
			Error:   err.Error(),
		})
	}
}

// listOrEmpty handles the list-endpoint special case: an uninitialized store
// reads as an empty collection, not an error.
func (s *Server) listOrEmpty(w http.ResponseWriter, op string, data any, err error) {
	if err == nil {
		s.ok(w, http.StatusOK, data)
		return
	}
	if errors.Is(err, models.ErrStoreUninitialized) {
		writeJSON(w, http.StatusOK, envelope{Success: true, Data: []any{}, Message: "Database not initialized"})
		return
	}
	s.fail(w, "", op, err)
}
