// Package report presents classification results as JSON or as a
// plain-text terminal report.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/RyanBlaney/taal-finder/taal"
	"github.com/google/uuid"
)

// Summary is the machine-readable form of a result.
type Summary struct {
	AnalysisID    string         `json:"analysis_id"`
	Source        string         `json:"source,omitempty"`
	Taal          taal.Name      `json:"taal"`
	Confidence    float64        `json:"confidence"`
	TempoBPM      float64        `json:"tempo_bpm"`
	Laya          taal.Laya      `json:"laya"`
	MatraDuration float64        `json:"matra_duration"`
	CycleDuration float64        `json:"cycle_duration"`
	Fallback      bool           `json:"fallback"`
	Alternatives  []taal.Ranking `json:"alternatives"`
	BeatCount     int            `json:"beat_count"`
}

// NewSummary builds a Summary under a fresh analysis ID.
func NewSummary(source string, r *taal.Result) Summary {
	alternatives := r.AlternativeTaals
	if alternatives == nil {
		alternatives = []taal.Ranking{}
	}
	return Summary{
		AnalysisID:    uuid.New().String(),
		Source:        source,
		Taal:          r.Taal,
		Confidence:    r.Confidence,
		TempoBPM:      r.TempoBPM,
		Laya:          r.Laya,
		MatraDuration: r.MatraDuration,
		CycleDuration: r.CycleDuration,
		Fallback:      r.Fallback,
		Alternatives:  alternatives,
		BeatCount:     r.BeatCount(),
	}
}

// WriteJSON writes s as indented JSON followed by a newline.
func WriteJSON(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	return nil
}
