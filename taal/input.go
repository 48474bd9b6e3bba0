package taal

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is matched by errors.Is for every ValidationError.
var ErrInvalidInput = errors.New("invalid detector input")

// ValidationError reports a detector output that breaks the input contract.
type ValidationError struct {
	Field  string
	Index  int // -1 when the problem is not tied to one element
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("invalid %s[%d]: %s", e.Field, e.Index, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Input is the materialized output of the beat/downbeat detector.
type Input struct {
	// BeatTimes are beat onsets in seconds, non-decreasing.
	BeatTimes []float64 `json:"beat_times"`
	// Downbeats carry bar-relative positions in detection order.
	Downbeats []Downbeat `json:"downbeats"`
	// AccentStrengths holds one non-negative strength per beat.
	AccentStrengths []float64 `json:"accent_strengths"`
}

// Validate checks the detector contract: finite non-decreasing beat times,
// one finite non-negative strength per beat, and non-negative downbeat
// positions in time order.
func (in Input) Validate() error {
	for i, t := range in.BeatTimes {
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return &ValidationError{Field: "beat_times", Index: i, Reason: "not a finite number"}
		}
		if t < 0 {
			return &ValidationError{Field: "beat_times", Index: i, Reason: fmt.Sprintf("negative time %v", t)}
		}
		if i > 0 && t < in.BeatTimes[i-1] {
			return &ValidationError{Field: "beat_times", Index: i, Reason: fmt.Sprintf("time %v precedes previous beat %v", t, in.BeatTimes[i-1])}
		}
	}

	if len(in.AccentStrengths) != len(in.BeatTimes) {
		return &ValidationError{
			Field:  "accent_strengths",
			Index:  -1,
			Reason: fmt.Sprintf("length %d does not match %d beat times", len(in.AccentStrengths), len(in.BeatTimes)),
		}
	}
	for i, s := range in.AccentStrengths {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return &ValidationError{Field: "accent_strengths", Index: i, Reason: "not a finite number"}
		}
		if s < 0 {
			return &ValidationError{Field: "accent_strengths", Index: i, Reason: fmt.Sprintf("negative strength %v", s)}
		}
	}

	for i, db := range in.Downbeats {
		if db.Position < 0 {
			return &ValidationError{Field: "downbeats", Index: i, Reason: fmt.Sprintf("negative bar position %d", db.Position)}
		}
		if math.IsNaN(db.Time) || math.IsInf(db.Time, 0) {
			return &ValidationError{Field: "downbeats", Index: i, Reason: "time is not a finite number"}
		}
		if i > 0 && db.Time < in.Downbeats[i-1].Time {
			return &ValidationError{Field: "downbeats", Index: i, Reason: "out of time order"}
		}
	}

	return nil
}
