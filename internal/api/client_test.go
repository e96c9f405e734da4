package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/claude/liftlog/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeEnv(w http.ResponseWriter, status int, env map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(env) //nolint:errcheck
}

// TestCreateExerciseReturnsCanonicalRecord verifies the gateway surfaces the
// server's record, not the submitted one.
func TestCreateExerciseReturnsCanonicalRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/exercises" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var in models.ExerciseInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Fatal(err)
		}
		writeEnv(w, http.StatusCreated, map[string]any{
			"success": true,
			"data": map[string]any{
				"id":          "f2b5c3c1-71fc-4f5e-bf6c-3b4c1b9f0a01",
				"name":        in.Name,
				"category":    in.Category,
				"muscleGroup": in.MuscleGroup,
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, testLogger())
	got, err := c.CreateExercise(context.Background(), models.ExerciseInput{
		Name: "Bench Press", Category: "Strength", MuscleGroup: "Chest",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID.String() != "f2b5c3c1-71fc-4f5e-bf6c-3b4c1b9f0a01" {
		t.Errorf("id = %s, want server-assigned id", got.ID)
	}
	if got.Name != "Bench Press" {
		t.Errorf("name = %q", got.Name)
	}
}

// TestProvisionRetry verifies the recovery path: a store-uninitialized
// failure triggers exactly one /init call and one retry of the original
// request.
func TestProvisionRetry(t *testing.T) {
	var initCalls, listCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/init":
			initCalls.Add(1)
			writeEnv(w, http.StatusOK, map[string]any{"success": true, "message": "Database initialized successfully"})
		case "/api/sessions":
			if listCalls.Add(1) == 1 {
				writeEnv(w, http.StatusInternalServerError, map[string]any{
					"success": false,
					"message": "Failed to fetch sessions",
					"error":   models.MsgStoreUninitialized,
				})
				return
			}
			writeEnv(w, http.StatusOK, map[string]any{"success": true, "data": []any{}})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, testLogger())
	if _, err := c.ListSessions(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if initCalls.Load() != 1 {
		t.Errorf("init calls = %d, want 1", initCalls.Load())
	}
	if listCalls.Load() != 2 {
		t.Errorf("list calls = %d, want 2", listCalls.Load())
	}
}

// TestProvisionRetryOriginalErrorPropagates verifies that when the retry also
// fails, the caller sees the original error, and that no second provisioning
// attempt is made.
func TestProvisionRetryOriginalErrorPropagates(t *testing.T) {
	var initCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/init" {
			initCalls.Add(1)
			writeEnv(w, http.StatusOK, map[string]any{"success": true})
			return
		}
		writeEnv(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"message": "Failed to fetch sessions",
			"error":   models.MsgStoreUninitialized,
		})
	}))
	defer srv.Close()

	c := New(srv.URL, testLogger())
	_, err := c.ListSessions(context.Background())
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *Error", err)
	}
	if apiErr.Status != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", apiErr.Status)
	}
	if initCalls.Load() != 1 {
		t.Errorf("init calls = %d, want exactly 1", initCalls.Load())
	}
}

// TestNoRetryOnOtherServerErrors verifies the retry is narrowed to the
// missing-schema condition: a plain 500 is not retried.
func TestNoRetryOnOtherServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeEnv(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"message": "Failed to fetch sessions",
			"error":   "connection reset by peer",
		})
	}))
	defer srv.Close()

	c := New(srv.URL, testLogger())
	if _, err := c.ListSessions(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1 (no retry)", calls.Load())
	}
}

// TestValidationErrorSurfaced verifies a 400 comes back as a descriptive
// *Error rather than being retried.
func TestValidationErrorSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnv(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "Invalid input",
			"errors":  map[string]string{"name": "is required"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, testLogger())
	_, err := c.CreateExercise(context.Background(), models.ExerciseInput{})
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *Error", err)
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", apiErr.Status)
	}
	if apiErr.Message != "Invalid input" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

// TestNonJSONErrorBody verifies a response without an envelope, like an HTML
// error page from a proxy, is reported as a server error with its status.
func TestNonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html><body>502 Bad Gateway</body></html>")) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, testLogger())
	_, err := c.ListExercises(context.Background())
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *Error", err)
	}
	if apiErr.Status != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", apiErr.Status)
	}
	if apiErr.Message != "server error (HTTP 502)" {
		t.Errorf("message = %q, want %q", apiErr.Message, "server error (HTTP 502)")
	}
}

// TestInitFailureNoRetry verifies that a failing /init does not loop: the
// original error is returned after one provisioning attempt.
func TestInitFailureNoRetry(t *testing.T) {
	var listCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/init" {
			writeEnv(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "Failed to initialize database"})
			return
		}
		listCalls.Add(1)
		writeEnv(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"message": "Failed to fetch plans",
			"error":   models.MsgStoreUninitialized,
		})
	}))
	defer srv.Close()

	c := New(srv.URL, testLogger())
	_, err := c.ListPlans(context.Background())
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *Error", err)
	}
	if apiErr.Message != "Failed to fetch plans" {
		t.Errorf("message = %q, want original error", apiErr.Message)
	}
	if listCalls.Load() != 1 {
		t.Errorf("list calls = %d, want 1", listCalls.Load())
	}
}
