package models

import (
	"time"

	"github.com/google/uuid"
)

// SessionStats is the per-session aggregation shown in history.
type SessionStats struct {
	UniqueExercises int     `json:"uniqueExercises"`
	TotalSets       int     `json:"totalSets"`
	TotalVolume     float64 `json:"totalVolume"`
}

// Stats aggregates the session's entries: distinct exercises, set count, and
// total volume (sum of weight x reps).
func (s Session) Stats() SessionStats {
	seen := map[uuid.UUID]struct{}{}
	var volume float64
	for _, e := range s.Entries {
		seen[e.ExerciseID] = struct{}{}
		volume += e.Weight * float64(e.Reps)
	}
	return SessionStats{
		UniqueExercises: len(seen),
		TotalSets:       len(s.Entries),
		TotalVolume:     volume,
	}
}

// Summary is the dashboard roll-up over all loaded data.
type Summary struct {
	TotalExercises   int `json:"totalExercises"`
	TotalPlans       int `json:"totalPlans"`
	TotalSessions    int `json:"totalSessions"`
	SessionsThisWeek int `json:"sessionsThisWeek"`
}

// Summarize counts entities and the sessions performed in the 7 days up to now.
func Summarize(exercises []Exercise, plans []Plan, sessions []Session, now time.Time) Summary {
	weekAgo := now.AddDate(0, 0, -7)
	thisWeek := 0
	for _, s := range sessions {
		if !s.Date.Before(weekAgo) && !s.Date.After(now) {
			thisWeek++
		}
	}
	return Summary{
		TotalExercises:   len(exercises),
		TotalPlans:       len(plans),
		TotalSessions:    len(sessions),
		SessionsThisWeek: thisWeek,
	}
}
