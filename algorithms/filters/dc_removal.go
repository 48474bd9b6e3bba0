package filters

import "math"

// DCRemoval is a one-pole DC blocker:
//
//	y[n] = x[n] - x[n-1] + R*y[n-1]
//
// Reference: Julius O. Smith III, "Introduction to Digital Filters with
// Audio Applications", DC Blocker.
type DCRemoval struct {
	poleLocation float64

	x1 float64
	y1 float64
}

// DefaultPole gives a cutoff of roughly 35 Hz at 44.1 kHz.
const DefaultPole = 0.995

// NewDCRemoval creates a DC blocker with the default pole.
func NewDCRemoval() *DCRemoval {
	return &DCRemoval{poleLocation: DefaultPole}
}

// NewDCRemovalWithCutoff creates a DC blocker whose -3dB point sits near
// cutoffFreq, using R = 1 - 2*pi*fc/fs. R is kept inside (0, 1).
func NewDCRemovalWithCutoff(sampleRate int, cutoffFreq float64) *DCRemoval {
	if sampleRate <= 0 || cutoffFreq <= 0 {
		return NewDCRemoval()
	}
	pole := 1.0 - 2.0*math.Pi*cutoffFreq/float64(sampleRate)
	return &DCRemoval{poleLocation: min(max(pole, 0.001), 0.999)}
}

// Process filters one sample.
func (dc *DCRemoval) Process(input float64) float64 {
	output := input - dc.x1 + dc.poleLocation*dc.y1
	dc.x1 = input
	dc.y1 = output
	return output
}

// ProcessBuffer filters input into a new slice, carrying state across calls.
func (dc *DCRemoval) ProcessBuffer(input []float64) []float64 {
	output := make([]float64, len(input))
	for i, sample := range input {
		output[i] = dc.Process(sample)
	}
	return output
}

// Reset clears the filter state between unrelated signals.
func (dc *DCRemoval) Reset() {
	dc.x1 = 0
	dc.y1 = 0
}

// PoleLocation returns R.
func (dc *DCRemoval) PoleLocation() float64 {
	return dc.poleLocation
}

// CutoffFrequency returns the approximate -3dB frequency at sampleRate.
func (dc *DCRemoval) CutoffFrequency(sampleRate int) float64 {
	if sampleRate <= 0 {
		return 0
	}
	return (1.0 - dc.poleLocation) * float64(sampleRate) / (2.0 * math.Pi)
}
