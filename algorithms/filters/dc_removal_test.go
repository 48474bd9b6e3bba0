package filters

import (
	"math"
	"testing"
)

func TestDCRemovalBlocksOffset(t *testing.T) {
	dc := NewDCRemovalWithCutoff(44100, 10)

	signal := make([]float64, 44100)
	for i := range signal {
		signal[i] = 0.5 + 0.1*math.Sin(2*math.Pi*440*float64(i)/44100)
	}
	out := dc.ProcessBuffer(signal)

	// after the filter settles the mean is gone but the tone survives
	tail := out[len(out)-4410:]
	var sum, peak float64
	for _, v := range tail {
		sum += v
		peak = max(peak, math.Abs(v))
	}
	if mean := sum / float64(len(tail)); math.Abs(mean) > 1e-3 {
		t.Errorf("residual DC = %v", mean)
	}
	if peak < 0.09 {
		t.Errorf("tone attenuated to %v", peak)
	}
}

func TestDCRemovalCutoff(t *testing.T) {
	tests := []struct {
		name       string
		dc         *DCRemoval
		sampleRate int
		want       float64
	}{
		{"designed", NewDCRemovalWithCutoff(44100, 20), 44100, 20},
		{"default", NewDCRemoval(), 44100, 35.09},
		{"bad args fall back", NewDCRemovalWithCutoff(0, 20), 44100, 35.09},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dc.CutoffFrequency(tt.sampleRate); math.Abs(got-tt.want) > 0.01 {
				t.Errorf("CutoffFrequency = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDCRemovalReset(t *testing.T) {
	dc := NewDCRemoval()
	first := dc.ProcessBuffer([]float64{1, 1, 1})
	dc.Reset()
	second := dc.ProcessBuffer([]float64{1, 1, 1})
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("Reset did not clear state: %v vs %v", first, second)
		}
	}
}
