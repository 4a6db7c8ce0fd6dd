package reconcile

import (
	"errors"
	"fmt"
	"time"
)

// Prediction classifies a member's expected availability for a rehearsal.
type Prediction string

const (
	// PredictionAvailable indicates a covering window marks the member available.
	PredictionAvailable Prediction = "available"
	// PredictionUnavailable indicates a covering blackout window applies.
	PredictionUnavailable Prediction = "unavailable"
	// PredictionUnknown indicates no window fully covers the rehearsal.
	PredictionUnknown Prediction = "unknown"
)

// Window describes one recurring weekly availability entry for a user.
// Start and End are minutes since midnight in the engine's reference zone.
type Window struct {
	UserID    string
	Weekday   time.Weekday
	Start     int
	End       int
	Available bool
}

// Interval is a concrete rehearsal time range.
type Interval struct {
	Start time.Time
	End   time.Time
}

// ErrInvalidInterval indicates the rehearsal interval does not satisfy start < end.
var ErrInvalidInterval = errors.New("reconcile: interval start must be before end")

// Engine predicts member availability by intersecting rehearsal intervals
// with recurring weekly windows. All wall-clock interpretation happens in
// the engine's reference zone; callers construct one engine per band.
type Engine struct {
	location *time.Location
}

// NewEngine constructs an Engine that evaluates windows in the provided
// location. If loc is nil, UTC is used.
func NewEngine(loc *time.Location) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{location: loc}
}

// Location reports the reference zone the engine evaluates in.
func (e *Engine) Location() *time.Location {
	if e == nil || e.location == nil {
		return time.UTC
	}
	return e.location
}

// Predict classifies a single member's availability for the rehearsal.
//
// A window covers the rehearsal only when the rehearsal fits entirely
// inside it on the matching weekday. Covering blackout windows take
// precedence over covering available windows; with no covering window at
// all the result is PredictionUnknown. Absence of data is a first-class
// result, never an error.
func (e *Engine) Predict(rehearsal Interval, windows []Window) (Prediction, error) {
	loc := e.Location()

	start := rehearsal.Start.In(loc)
	end := rehearsal.End.In(loc)
	if !start.Before(end) {
		return PredictionUnknown, ErrInvalidInterval
	}

	// A rehearsal spanning midnight in the reference zone cannot fit
	// inside any single-day window. An end at exactly midnight still
	// belongs to the preceding day as minute 24:00.
	lastInstant := end.Add(-time.Nanosecond)
	if start.Year() != lastInstant.Year() || start.YearDay() != lastInstant.YearDay() {
		return PredictionUnknown, nil
	}

	weekday := start.Weekday()
	startMinute := minuteOfDay(start)
	endMinute := minuteOfDay(end)
	if endMinute == 0 {
		endMinute = 24 * 60
	}

	covered := false
	for _, window := range windows {
		if window.Weekday != weekday {
			continue
		}
		if window.Start > startMinute || window.End < endMinute {
			continue
		}
		if !window.Available {
			return PredictionUnavailable, nil
		}
		covered = true
	}

	if covered {
		return PredictionAvailable, nil
	}
	return PredictionUnknown, nil
}

// PredictRoster evaluates every roster member against the rehearsal and
// returns a prediction per member ID. Members without windows resolve to
// PredictionUnknown.
func (e *Engine) PredictRoster(rehearsal Interval, roster map[string][]Window) (map[string]Prediction, error) {
	if len(roster) == 0 {
		return nil, nil
	}

	out := make(map[string]Prediction, len(roster))
	for memberID, windows := range roster {
		prediction, err := e.Predict(rehearsal, windows)
		if err != nil {
			return nil, fmt.Errorf("predict member %s: %w", memberID, err)
		}
		out[memberID] = prediction
	}
	return out, nil
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
