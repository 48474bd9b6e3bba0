package temporal

import (
	"fmt"

	"github.com/RyanBlaney/taal-finder/algorithms/filters"
	"github.com/RyanBlaney/taal-finder/algorithms/spectral"
	"github.com/RyanBlaney/taal-finder/algorithms/windowing"
	"gonum.org/v1/gonum/floats"
)

// OnsetEnvelope turns a mono signal into an onset-strength activation curve
// sampled at a fixed frame rate.
type OnsetEnvelope struct {
	windowSize int
	stft       *spectral.STFT
	flux       *spectral.SpectralFlux
	window     *windowing.Hann
}

// NewOnsetEnvelope creates an envelope extractor with the given FFT size
func NewOnsetEnvelope(windowSize int) *OnsetEnvelope {
	if windowSize <= 0 {
		windowSize = 2048
	}
	return &OnsetEnvelope{
		windowSize: windowSize,
		stft:       spectral.NewSTFT(),
		flux:       spectral.NewSpectralFlux(),
		window:     windowing.NewHann(windowSize, false),
	}
}

// Compute returns one activation value per frame at fps frames per second,
// scaled into [0, 1]. Frame i is centered on time i/fps. DC offset is
// removed before analysis.
func (oe *OnsetEnvelope) Compute(signal []float64, sampleRate, fps int) ([]float64, error) {
	if sampleRate <= 0 || fps <= 0 {
		return nil, fmt.Errorf("sample rate and fps must be positive (got %d, %d)", sampleRate, fps)
	}
	hopSize := sampleRate / fps
	if hopSize <= 0 {
		return nil, fmt.Errorf("fps %d exceeds sample rate %d", fps, sampleRate)
	}
	if len(signal) == 0 {
		return []float64{}, nil
	}

	// center frames on i*hop by padding half a window on each side
	half := oe.windowSize / 2
	padded := make([]float64, len(signal)+2*half)
	copy(padded[half:], filters.NewDCRemovalWithCutoff(sampleRate, 20).ProcessBuffer(signal))

	stftResult, err := oe.stft.ComputeWithWindow(padded, oe.windowSize, hopSize, sampleRate, oe.window)
	if err != nil {
		return nil, fmt.Errorf("onset stft: %w", err)
	}

	activation := oe.flux.Compute(stftResult.Magnitude)
	if peak := floats.Max(activation); peak > 0 {
		floats.Scale(1.0/peak, activation)
	}

	return activation, nil
}
