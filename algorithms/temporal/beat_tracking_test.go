package temporal

import (
	"math"
	"testing"
)

// clickTrack builds a signal with short bursts every period seconds.
func clickTrack(sampleRate int, seconds, period float64) []float64 {
	signal := make([]float64, int(seconds*float64(sampleRate)))
	step := int(period * float64(sampleRate))
	burst := sampleRate / 100
	for start := step / 2; start+burst < len(signal); start += step {
		for i := range burst {
			signal[start+i] = math.Sin(2 * math.Pi * 1000 * float64(i) / float64(sampleRate))
		}
	}
	return signal
}

func TestOnsetEnvelopeFrameRate(t *testing.T) {
	const sampleRate = 8000
	signal := clickTrack(sampleRate, 4, 0.5)

	activation, err := NewOnsetEnvelope(512).Compute(signal, sampleRate, 100)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	// one frame per hop plus the centering pad
	if len(activation) < 399 || len(activation) > 402 {
		t.Errorf("len(activation) = %d, want ~400", len(activation))
	}
	for i, v := range activation {
		if v < 0 || v > 1 {
			t.Fatalf("activation[%d] = %v outside [0, 1]", i, v)
		}
	}
}

func TestOnsetEnvelopeRejectsBadRates(t *testing.T) {
	if _, err := NewOnsetEnvelope(512).Compute([]float64{1}, 0, 100); err == nil {
		t.Error("expected error for zero sample rate")
	}
}

func TestBeatTrackerFindsClicks(t *testing.T) {
	const sampleRate = 8000
	signal := clickTrack(sampleRate, 6, 0.5)

	activation, err := NewOnsetEnvelope(512).Compute(signal, sampleRate, 100)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	beats := NewBeatTracker().Track(activation, 100)
	if len(beats) < 10 {
		t.Fatalf("found %d beats, want ~12", len(beats))
	}

	tempo := TempoFromBeats(beats)
	if math.Abs(tempo-120) > 5 {
		t.Errorf("tempo = %v, want ~120", tempo)
	}
}

func TestBeatTrackerShortInput(t *testing.T) {
	if got := NewBeatTracker().Track([]float64{1, 0}, 100); len(got) != 0 {
		t.Errorf("Track = %v, want empty", got)
	}
}
