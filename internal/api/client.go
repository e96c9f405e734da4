// Package api is the typed client for the liftlog REST surface. Every call
// returns the canonical server-confirmed record, never a locally-optimistic
// one. If the backing store's schema is missing the client provisions it once
// via /init and retries the original call exactly once.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/claude/liftlog/internal/models"
)

// Client is the Client Data Gateway over the REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// New creates a Client targeting the given base URL (e.g. "http://host:8080").
func New(baseURL string, log *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log,
	}
}

// Error is a failed API call, carrying the HTTP status, the server's
// user-facing message, and the envelope's error detail.
type Error struct {
	Status  int
	Message string
	Detail  string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

// envelope mirrors the server's uniform response shape.
type envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data,omitempty"`
	Message string            `json:"message,omitempty"`
	Error   string            `json:"error,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// Init provisions the backing store. Idempotent.
func (c *Client) Init(ctx context.Context) error {
	return c.call(ctx, http.MethodPost, "/init", nil, nil)
}

// call performs one request and decodes the envelope into out. When the
// response marks the store as uninitialized — and only then, not on any
// 500 — it makes a single provisioning attempt and retries the original call
// once. If the retry also fails, the original error propagates.
func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	err := c.do(ctx, method, path, body, out)
	if err == nil || path == "/init" || !isStoreUninitialized(err) {
		return err
	}

	c.log.Warn("store uninitialized, provisioning", "path", path)
	if initErr := c.Init(ctx); initErr != nil {
		c.log.Error("store provisioning failed", "error", initErr)
		return err
	}
	if retryErr := c.do(ctx, method, path, body, out); retryErr != nil {
		return err
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: marshal request: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api"+path, rd)
	if err != nil {
		return fmt.Errorf("api: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	var env envelope
	if decErr := json.NewDecoder(resp.Body).Decode(&env); decErr != nil {
		if resp.StatusCode >= 400 {
			// no envelope to report, e.g. an HTML error page from a proxy
			return &Error{Status: resp.StatusCode, Message: fmt.Sprintf("server error (HTTP %d)", resp.StatusCode)}
		}
		return fmt.Errorf("api: decode response: %w", decErr)
	}

	if resp.StatusCode >= 400 || !env.Success {
		return &Error{Status: resp.StatusCode, Message: env.Message, Detail: env.Error}
	}

	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("api: decode data: %w", err)
		}
	}
	return nil
}

// isStoreUninitialized reports whether the failure is specifically the
// missing-schema condition, as marked by the server's envelope. Other 500s
// never trigger provisioning.
func isStoreUninitialized(err error) bool {
	apiErr, ok := err.(*Error)
	return ok && apiErr.Status == http.StatusInternalServerError &&
		apiErr.Detail == models.MsgStoreUninitialized
}

// ListExercises fetches all exercises.
func (c *Client) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	var out []models.Exercise
	err := c.call(ctx, http.MethodGet, "/exercises", nil, &out)
	return out, err
}

// CreateExercise creates an exercise and returns the stored record.
func (c *Client) CreateExercise(ctx context.Context, in models.ExerciseInput) (models.Exercise, error) {
	var out models.Exercise
	err := c.call(ctx, http.MethodPost, "/exercises", in, &out)
	return out, err
}

// GetExercise fetches one exercise by id.
func (c *Client) GetExercise(ctx context.Context, id uuid.UUID) (models.Exercise, error) {
	var out models.Exercise
	err := c.call(ctx, http.MethodGet, "/exercises/"+id.String(), nil, &out)
	return out, err
}

// UpdateExercise applies a partial update and returns the stored record.
func (c *Client) UpdateExercise(ctx context.Context, id uuid.UUID, u models.ExerciseUpdate) (models.Exercise, error) {
	var out models.Exercise
	err := c.call(ctx, http.MethodPut, "/exercises/"+id.String(), u, &out)
	return out, err
}

// DeleteExercise removes an exercise.
func (c *Client) DeleteExercise(ctx context.Context, id uuid.UUID) error {
	return c.call(ctx, http.MethodDelete, "/exercises/"+id.String(), nil, nil)
}

// ListPlans fetches all plans.
func (c *Client) ListPlans(ctx context.Context) ([]models.Plan, error) {
	var out []models.Plan
	err := c.call(ctx, http.MethodGet, "/plans", nil, &out)
	return out, err
}

// CreatePlan creates a plan and returns the stored record.
func (c *Client) CreatePlan(ctx context.Context, in models.PlanInput) (models.Plan, error) {
	var out models.Plan
	err := c.call(ctx, http.MethodPost, "/plans", in, &out)
	return out, err
}

// GetPlan fetches one plan by id.
func (c *Client) GetPlan(ctx context.Context, id uuid.UUID) (models.Plan, error) {
	var out models.Plan
	err := c.call(ctx, http.MethodGet, "/plans/"+id.String(), nil, &out)
	return out, err
}

// UpdatePlan applies a partial update and returns the stored record.
func (c *Client) UpdatePlan(ctx context.Context, id uuid.UUID, u models.PlanUpdate) (models.Plan, error) {
	var out models.Plan
	err := c.call(ctx, http.MethodPut, "/plans/"+id.String(), u, &out)
	return out, err
}

// DeletePlan removes a plan.
func (c *Client) DeletePlan(ctx context.Context, id uuid.UUID) error {
	return c.call(ctx, http.MethodDelete, "/plans/"+id.String(), nil, nil)
}

// ListSessions fetches all sessions with entries nested.
func (c *Client) ListSessions(ctx context.Context) ([]models.Session, error) {
	var out []models.Session
	err := c.call(ctx, http.MethodGet, "/sessions", nil, &out)
	return out, err
}

// CreateSession commits a session and returns the canonical record with the
// server-assigned id.
func (c *Client) CreateSession(ctx context.Context, in models.SessionInput) (models.Session, error) {
	var out models.Session
	err := c.call(ctx, http.MethodPost, "/sessions", in, &out)
	return out, err
}
