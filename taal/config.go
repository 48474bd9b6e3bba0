package taal

import "fmt"

// TemplateWeights are the accent levels used to synthesize a taal's
// expected accent curve.
type TemplateWeights struct {
	Baseline float64 `json:"baseline"`
	Sam      float64 `json:"sam"`
	Tali     float64 `json:"tali"`
	Khali    float64 `json:"khali"`
	Boundary float64 `json:"boundary"`
}

// Calibration holds the tunable constants of the matching stage.
type Calibration struct {
	Weights TemplateWeights `json:"weights"`

	// RetryOffsets are tried in order around the estimated cycle length
	// when it has no registered taal.
	RetryOffsets []int `json:"retry_offsets"`
	// RetryPenalty multiplies every confidence found at an offset.
	RetryPenalty float64 `json:"retry_penalty"`

	FallbackConfidence float64 `json:"fallback_confidence"`
}

// LayaThresholds split tempo (BPM) into vilambit, madhya and drut.
type LayaThresholds struct {
	VilambitBelow float64 `json:"vilambit_below"`
	MadhyaBelow   float64 `json:"madhya_below"`
}

// Config configures a Classifier.
type Config struct {
	Calibration Calibration    `json:"calibration"`
	Laya        LayaThresholds `json:"laya"`
}

// DefaultCalibration returns the standard matching constants.
func DefaultCalibration() Calibration {
	return Calibration{
		Weights: TemplateWeights{
			Baseline: 0.5,
			Sam:      1.0,
			Tali:     0.8,
			Khali:    0.2,
			Boundary: 0.65,
		},
		RetryOffsets:       []int{-1, 1, -2, 2},
		RetryPenalty:       0.8,
		FallbackConfidence: 0.1,
	}
}

// DefaultLayaThresholds returns the standard tempo class boundaries.
func DefaultLayaThresholds() LayaThresholds {
	return LayaThresholds{
		VilambitBelow: 60,
		MadhyaBelow:   160,
	}
}

// DefaultConfig returns the default classifier configuration.
func DefaultConfig() *Config {
	return &Config{
		Calibration: DefaultCalibration(),
		Laya:        DefaultLayaThresholds(),
	}
}

// Validate rejects calibrations that would produce confidences outside
// [0, 1].
func (c Calibration) Validate() error {
	if c.RetryPenalty < 0 || c.RetryPenalty > 1 {
		return fmt.Errorf("retry penalty must be in [0, 1], got %v", c.RetryPenalty)
	}
	if c.FallbackConfidence < 0 || c.FallbackConfidence > 1 {
		return fmt.Errorf("fallback confidence must be in [0, 1], got %v", c.FallbackConfidence)
	}
	return nil
}

// Classify returns the laya for a tempo in BPM.
func (t LayaThresholds) Classify(bpm float64) Laya {
	switch {
	case bpm < t.VilambitBelow:
		return Vilambit
	case bpm < t.MadhyaBelow:
		return Madhya
	default:
		return Drut
	}
}
