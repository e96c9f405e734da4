package mcp

import (
	"context"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/liftlog/internal/models"
)

// defaultTimeRange returns start/end defaulting to the last 30 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -30)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// --- Tool definitions ---

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List the exercise library. Returns every exercise with its category and target muscle group."),
	mcp.WithString("category", mcp.Description("Filter by category (exact match, e.g. 'Strength', 'Cardio')")),
	mcp.WithString("muscle_group", mcp.Description("Filter by muscle group (exact match, e.g. 'Chest', 'Legs')")),
)

var toolListPlans = mcp.NewTool("list_plans",
	mcp.WithDescription("List workout plans with their exercise sequences. Exercise names are resolved where the exercise still exists; deleted exercises appear with an empty name."),
)

var toolGetSessionHistory = mcp.NewTool("get_session_history",
	mcp.WithDescription("Query logged workout sessions in a date range, newest first. Each session includes its logged sets and per-session stats (unique exercises, total sets, total volume)."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 30 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
	mcp.WithString("exercise", mcp.Description("Filter to sessions containing an exercise whose name matches (partial, case-insensitive)")),
)

var toolGetTrainingStats = mcp.NewTool("get_training_stats",
	mcp.WithDescription("Aggregate training statistics: entity counts, sessions this week, and volume/set totals over a date range."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 30 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
)

// --- Tool handlers ---

func (h *handlers) listExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercises, err := h.ds.ListExercises(ctx)
	if err != nil {
		h.log.Error("mcp list_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	category := req.GetString("category", "")
	muscleGroup := req.GetString("muscle_group", "")

	filtered := make([]models.Exercise, 0, len(exercises))
	for _, ex := range exercises {
		if category != "" && ex.Category != category {
			continue
		}
		if muscleGroup != "" && ex.MuscleGroup != muscleGroup {
			continue
		}
		filtered = append(filtered, ex)
	}

	result, err := mcp.NewToolResultJSON(filtered)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// planItem is a plan with its exercise ids resolved to names. Name is empty
// when the id dangles.
type planItem struct {
	models.Plan
	Exercises []planExercise `json:"exercises"`
}

type planExercise struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (h *handlers) listPlans(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	plans, err := h.ds.ListPlans(ctx)
	if err != nil {
		h.log.Error("mcp list_plans", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	names, err := h.exerciseNames(ctx)
	if err != nil {
		h.log.Error("mcp list_plans exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	items := make([]planItem, len(plans))
	for i, p := range plans {
		item := planItem{Plan: p, Exercises: make([]planExercise, len(p.ExerciseIDs))}
		for j, id := range p.ExerciseIDs {
			item.Exercises[j] = planExercise{ID: id.String(), Name: names[id.String()]}
		}
		items[i] = item
	}

	result, err := mcp.NewToolResultJSON(items)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// sessionItem is a session with its aggregated stats attached.
type sessionItem struct {
	models.Session
	Stats models.SessionStats `json:"stats"`
}

func (h *handlers) getSessionHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	sessions, err := h.ds.ListSessions(ctx)
	if err != nil {
		h.log.Error("mcp get_session_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	var matchIDs map[string]bool
	if filter := req.GetString("exercise", ""); filter != "" {
		exercises, err := h.ds.ListExercises(ctx)
		if err != nil {
			h.log.Error("mcp get_session_history exercises", "error", err)
			return mcp.NewToolResultError("query failed: " + err.Error()), nil
		}
		matchIDs = map[string]bool{}
		needle := strings.ToLower(filter)
		for _, ex := range exercises {
			if strings.Contains(strings.ToLower(ex.Name), needle) {
				matchIDs[ex.ID.String()] = true
			}
		}
	}

	items := make([]sessionItem, 0, len(sessions))
	for _, s := range sessions {
		if s.Date.Before(start) || s.Date.After(end) {
			continue
		}
		if matchIDs != nil && !sessionUses(s, matchIDs) {
			continue
		}
		items = append(items, sessionItem{Session: s, Stats: s.Stats()})
	}

	result, err := mcp.NewToolResultJSON(items)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func sessionUses(s models.Session, ids map[string]bool) bool {
	for _, e := range s.Entries {
		if ids[e.ExerciseID.String()] {
			return true
		}
	}
	return false
}

// trainingStats is the get_training_stats payload.
type trainingStats struct {
	models.Summary
	RangeStart    string  `json:"rangeStart"`
	RangeEnd      string  `json:"rangeEnd"`
	RangeSessions int     `json:"rangeSessions"`
	RangeSets     int     `json:"rangeSets"`
	RangeVolume   float64 `json:"rangeVolume"`
}

func (h *handlers) getTrainingStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	exercises, err := h.ds.ListExercises(ctx)
	if err != nil {
		h.log.Error("mcp get_training_stats exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	plans, err := h.ds.ListPlans(ctx)
	if err != nil {
		h.log.Error("mcp get_training_stats plans", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	sessions, err := h.ds.ListSessions(ctx)
	if err != nil {
		h.log.Error("mcp get_training_stats sessions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	stats := trainingStats{
		Summary:    models.Summarize(exercises, plans, sessions, time.Now()),
		RangeStart: start.Format("2006-01-02"),
		RangeEnd:   end.Format("2006-01-02"),
	}
	stats.RangeSessions, stats.RangeSets, stats.RangeVolume = rangeTotals(sessions, start, end)

	result, err := mcp.NewToolResultJSON(stats)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// rangeTotals sums session count, sets, and volume over [start, end].
func rangeTotals(sessions []models.Session, start, end time.Time) (count, sets int, volume float64) {
	for _, s := range sessions {
		if s.Date.Before(start) || s.Date.After(end) {
			continue
		}
		st := s.Stats()
		count++
		sets += st.TotalSets
		volume += st.TotalVolume
	}
	return count, sets, volume
}

func (h *handlers) exerciseNames(ctx context.Context) (map[string]string, error) {
	exercises, err := h.ds.ListExercises(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(exercises))
	for _, ex := range exercises {
		names[ex.ID.String()] = ex.Name
	}
	return names, nil
}
