package beats

import (
	"context"
	"fmt"

	"github.com/RyanBlaney/taal-finder/algorithms/common"
	"github.com/RyanBlaney/taal-finder/algorithms/temporal"
	"github.com/RyanBlaney/taal-finder/logging"
	"github.com/RyanBlaney/taal-finder/taal"
	"github.com/RyanBlaney/taal-finder/transcode"
)

// OnsetConfig configures the built-in onset detector
type OnsetConfig struct {
	FPS           int     `json:"fps"`
	WindowSize    int     `json:"window_size"`
	MinSeparation float64 `json:"min_separation"` // seconds between beats
	ThresholdStd  float64 `json:"threshold_std"`
	// SilenceDB is the frame level below which audio counts as silent
	SilenceDB     float64 `json:"silence_db"`
}

// DefaultOnsetConfig returns the default onset detector configuration
func DefaultOnsetConfig() *OnsetConfig {
	return &OnsetConfig{
		FPS:           DefaultFPS,
		WindowSize:    2048,
		MinSeparation: 0.25,
		ThresholdStd:  0.5,
		SilenceDB:     -60,
	}
}

// OnsetDetector is a lightweight spectral-flux detector. It picks beats
// from the onset curve and chooses the bar length whose lag best
// autocorrelates the beat accents, with the strongest phase as position 0.
type OnsetDetector struct {
	config   *OnsetConfig
	envelope *temporal.OnsetEnvelope
	tracker  *temporal.BeatTracker
	silence  *temporal.SilenceDetection
	logger   logging.Logger
}

// NewOnsetDetector creates a new onset detector
func NewOnsetDetector(config *OnsetConfig) *OnsetDetector {
	if config == nil {
		config = DefaultOnsetConfig()
	}
	return &OnsetDetector{
		config:   config,
		envelope: temporal.NewOnsetEnvelope(config.WindowSize),
		tracker: &temporal.BeatTracker{
			MinSeparation: config.MinSeparation,
			ThresholdStd:  config.ThresholdStd,
		},
		silence: &temporal.SilenceDetection{ThresholdDB: config.SilenceDB},
		logger: logging.WithFields(logging.Fields{
			"component": "onset_detector",
		}),
	}
}

func (o *OnsetDetector) Detect(ctx context.Context, audio *transcode.AudioData, beatsPerBar []int) (*Track, error) {
	if audio == nil {
		return nil, fmt.Errorf("audio data cannot be nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if silent := o.silence.SilentFraction(audio.PCM, audio.SampleRate); silent > 0.9 {
		o.logger.Warn("Audio is mostly silent, beats may be unreliable", logging.Fields{
			"silent_fraction": common.Round(silent, 2),
		})
	}

	activation, err := o.envelope.Compute(audio.PCM, audio.SampleRate, o.config.FPS)
	if err != nil {
		return nil, fmt.Errorf("onset envelope: %w", err)
	}

	beatTimes := o.tracker.Track(activation, o.config.FPS)
	strengths := AccentStrengths(activation, o.config.FPS, beatTimes)
	barLength, phase := InferBarLength(strengths, beatsPerBar)

	o.logger.Debug("Onset detection complete", logging.Fields{
		"frames":     len(activation),
		"beats":      len(beatTimes),
		"bar_length": barLength,
		"phase":      phase,
	})

	var downbeats []taal.Downbeat
	if barLength > 0 {
		downbeats = make([]taal.Downbeat, len(beatTimes))
		for i, t := range beatTimes {
			downbeats[i] = taal.Downbeat{
				Time:     t,
				Position: ((i-phase)%barLength + barLength) % barLength,
			}
		}
	} else if len(beatTimes) > 0 {
		o.logger.Warn("Too few beats to infer a bar length", logging.Fields{
			"beats": len(beatTimes),
		})
	}

	return &Track{
		FPS:        o.config.FPS,
		BeatTimes:  beatTimes,
		Downbeats:  downbeats,
		Activation: activation,
	}, nil
}

// InferBarLength picks the candidate bar length whose lag maximizes the
// autocorrelation of beat strengths (ties to the earlier candidate), and
// the phase in [0, length) with the highest mean strength. Candidates need
// at least two full bars of beats; it returns 0, 0 when none qualify.
func InferBarLength(strengths []float64, candidates []int) (length, phase int) {
	bestScore := 0.0
	for _, m := range candidates {
		if m <= 0 || len(strengths) < 2*m {
			continue
		}
		score := common.Autocorrelation(strengths, m)
		if length == 0 || score > bestScore {
			length, bestScore = m, score
		}
	}
	if length == 0 {
		return 0, 0
	}

	bestMean := -1.0
	for p := range length {
		sum, n := 0.0, 0
		for i := p; i < len(strengths); i += length {
			sum += strengths[i]
			n++
		}
		if mean := sum / float64(n); mean > bestMean {
			phase, bestMean = p, mean
		}
	}
	return length, phase
}
