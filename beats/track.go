// Package beats is the boundary to beat and downbeat detection. Detectors
// turn decoded audio into a Track; the taal classifier only ever sees
// Tracks.
package beats

import (
	"context"
	"fmt"

	"github.com/RyanBlaney/taal-finder/taal"
	"github.com/RyanBlaney/taal-finder/transcode"
)

// DefaultFPS is the activation frame rate shared by the bundled detectors.
const DefaultFPS = 100

// Track is the output of a beat/downbeat detector.
type Track struct {
	// FPS is the frame rate of Activation
	FPS int `json:"fps"`
	// BeatTimes are beat onsets in seconds, ascending
	BeatTimes []float64 `json:"beats"`
	// Downbeats carry 0-based bar-relative positions
	Downbeats []taal.Downbeat `json:"downbeats"`
	// Activation is the per-frame beat activation curve
	Activation []float64 `json:"activation"`
}

// Detector finds beats and bar positions in decoded audio. beatsPerBar is
// the set of bar lengths worth considering, normally the registry's
// candidate matra counts.
type Detector interface {
	Detect(ctx context.Context, audio *transcode.AudioData, beatsPerBar []int) (*Track, error)
}

// Input assembles classifier input from the track, sampling one accent
// strength per beat from the activation curve.
func (t *Track) Input() taal.Input {
	return taal.Input{
		BeatTimes:       t.BeatTimes,
		Downbeats:       t.Downbeats,
		AccentStrengths: AccentStrengths(t.Activation, t.FPS, t.BeatTimes),
	}
}

// Validate checks the parts of the track that accent extraction relies on.
// Beat and downbeat ordering is checked by the classifier.
func (t *Track) Validate() error {
	if len(t.Activation) > 0 && t.FPS <= 0 {
		return fmt.Errorf("track has activation but fps is %d", t.FPS)
	}
	for i, v := range t.Activation {
		if v < 0 {
			return fmt.Errorf("activation[%d] is negative (%v)", i, v)
		}
	}
	return nil
}
