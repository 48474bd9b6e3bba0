package taal

// Result is the outcome of one classification run.
type Result struct {
	Taal       Name    `json:"taal"`
	Confidence float64 `json:"confidence"`

	TempoBPM      float64 `json:"tempo_bpm"`
	Laya          Laya    `json:"laya"`
	MatraDuration float64 `json:"matra_duration"`
	CycleDuration float64 `json:"cycle_duration"`

	// CycleLength is the beats-per-cycle estimate from the downbeat stream,
	// which may differ from the matched taal's matras after a retry.
	CycleLength int `json:"cycle_length"`
	// Fallback is set when no template matched and Taal is only the closest
	// known cycle length. Fallback results carry no beats or alternatives.
	Fallback bool `json:"fallback"`

	Beats            []BeatInfo `json:"beats"`
	AlternativeTaals []Ranking  `json:"alternative_taals"`
}

// BeatCount returns the number of annotated beats.
func (r *Result) BeatCount() int {
	return len(r.Beats)
}
