package spectral

import (
	"math"
)

// SpectralFlux measures frame-to-frame spectral increase
type SpectralFlux struct {
	// Compression is the gamma in log(1 + gamma*|X|); 0 disables it
	Compression float64
}

// NewSpectralFlux creates a flux calculator with log compression
func NewSpectralFlux() *SpectralFlux {
	return &SpectralFlux{Compression: 100}
}

// Compute returns one flux value per spectrogram frame: the half-wave
// rectified sum of magnitude increases over the previous frame. Frame 0
// has no predecessor and scores 0, so indices line up with the input.
func (sf *SpectralFlux) Compute(spectrogram [][]float64) []float64 {
	flux := make([]float64, len(spectrogram))
	if len(spectrogram) < 2 {
		return flux
	}

	prev := sf.compress(spectrogram[0])
	for t := 1; t < len(spectrogram); t++ {
		cur := sf.compress(spectrogram[t])
		sum := 0.0
		for f := range min(len(cur), len(prev)) {
			if diff := cur[f] - prev[f]; diff > 0 {
				sum += diff
			}
		}
		flux[t] = sum
		prev = cur
	}

	return flux
}

func (sf *SpectralFlux) compress(frame []float64) []float64 {
	if sf.Compression <= 0 {
		return frame
	}
	out := make([]float64, len(frame))
	for i, v := range frame {
		out[i] = math.Log1p(sf.Compression * v)
	}
	return out
}
