package spectral

import (
	"math"
	"testing"
)

func TestSTFTShape(t *testing.T) {
	signal := make([]float64, 4096)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * 440 * float64(i) / 8000)
	}

	res, err := NewSTFT().ComputeWithWindow(signal, 1024, 512, 8000, nil)
	if err != nil {
		t.Fatalf("ComputeWithWindow: %v", err)
	}
	if res.TimeFrames != 7 {
		t.Errorf("TimeFrames = %d, want 7", res.TimeFrames)
	}
	if res.FreqBins != 513 || len(res.Magnitude[0]) != 513 {
		t.Errorf("FreqBins = %d, want 513", res.FreqBins)
	}

	// energy should peak near 440 Hz (bin 440/8000*1024 ~ 56)
	peak := 0
	for k, v := range res.Magnitude[0] {
		if v > res.Magnitude[0][peak] {
			peak = k
		}
	}
	if peak < 55 || peak > 58 {
		t.Errorf("peak bin = %d, want ~56", peak)
	}
}

func TestSTFTRejectsShortSignal(t *testing.T) {
	if _, err := NewSTFT().ComputeWithWindow(make([]float64, 100), 1024, 512, 8000, nil); err == nil {
		t.Error("expected error for signal shorter than window")
	}
}

func TestSpectralFluxOnlyCountsIncreases(t *testing.T) {
	spec := [][]float64{
		{0, 0},
		{1, 0},
		{0, 0},
	}
	flux := (&SpectralFlux{}).Compute(spec)
	if len(flux) != 3 {
		t.Fatalf("len = %d, want 3", len(flux))
	}
	if flux[0] != 0 || flux[1] != 1 || flux[2] != 0 {
		t.Errorf("flux = %v, want [0 1 0]", flux)
	}
}
