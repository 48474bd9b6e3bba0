package taal

import (
	"fmt"

	"github.com/RyanBlaney/taal-finder/algorithms/common"
	"github.com/RyanBlaney/taal-finder/algorithms/temporal"
	"github.com/RyanBlaney/taal-finder/logging"
)

// Classifier runs the detection pipeline over materialized detector output.
// It holds no mutable state and may be shared between goroutines.
type Classifier struct {
	registry   *Registry
	config     *Config
	matcher    *Matcher
	controller *Controller
	logger     logging.Logger
}

// NewClassifier creates a classifier. A nil registry uses the builtin taals
// and a nil config uses DefaultConfig.
func NewClassifier(registry *Registry, config *Config) (*Classifier, error) {
	if registry == nil {
		registry = DefaultRegistry()
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Calibration.Validate(); err != nil {
		return nil, fmt.Errorf("invalid calibration: %w", err)
	}

	matcher := NewMatcher(registry, config.Calibration.Weights)

	return &Classifier{
		registry:   registry,
		config:     config,
		matcher:    matcher,
		controller: NewController(matcher, registry, config.Calibration),
		logger: logging.WithFields(logging.Fields{
			"component": "taal_classifier",
		}),
	}, nil
}

// Registry returns the registry the classifier matches against.
func (c *Classifier) Registry() *Registry {
	return c.registry
}

// Classify estimates the cycle length, matches the accent curve (retrying
// nearby cycle lengths, then falling back to the closest known taal), and
// assembles the result. Only malformed input is an error; an unmatched
// recording still yields a low-confidence result.
func (c *Classifier) Classify(in Input) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	logger := c.logger.WithFields(logging.Fields{
		"function":  "Classify",
		"beats":     len(in.BeatTimes),
		"downbeats": len(in.Downbeats),
	})

	cycleLength := EstimateCycleLength(in.Downbeats)
	logger.Debug("Estimated cycle length", logging.Fields{
		"cycle_length": cycleLength,
	})

	rankings := c.matcher.Match(in.AccentStrengths, cycleLength)
	if len(rankings) == 0 {
		logger.Warn("No taal for estimated cycle length, trying nearby lengths", logging.Fields{
			"cycle_length": cycleLength,
		})
		rankings = c.controller.MatchNearby(in.AccentStrengths, cycleLength)
	}

	tempo := common.Round(temporal.TempoFromBeats(in.BeatTimes), 1)

	if len(rankings) == 0 {
		return c.fallbackResult(cycleLength, tempo)
	}

	best := rankings[0]
	def, ok := c.registry.Get(best.Taal)
	if !ok {
		return nil, fmt.Errorf("matched taal %q missing from registry", best.Taal)
	}

	matraDuration, cycleDuration := durations(tempo, def.Matras)

	result := &Result{
		Taal:             best.Taal,
		Confidence:       common.Round(best.Confidence, 4),
		TempoBPM:         tempo,
		Laya:             c.config.Laya.Classify(tempo),
		MatraDuration:    matraDuration,
		CycleDuration:    cycleDuration,
		CycleLength:      cycleLength,
		Beats:            AnnotateBeats(in.BeatTimes, in.AccentStrengths, def),
		AlternativeTaals: roundRankings(rankings[1:]),
	}

	logger.Debug("Classification complete", logging.Fields{
		"taal":       result.Taal,
		"confidence": result.Confidence,
		"tempo_bpm":  result.TempoBPM,
	})

	return result, nil
}

func (c *Classifier) fallbackResult(cycleLength int, tempo float64) (*Result, error) {
	def, confidence, ok := c.controller.Fallback(cycleLength)
	if !ok {
		return nil, fmt.Errorf("no taals registered")
	}

	matraDuration, cycleDuration := durations(tempo, def.Matras)

	return &Result{
		Taal:             def.Name,
		Confidence:       common.Round(confidence, 4),
		TempoBPM:         tempo,
		Laya:             c.config.Laya.Classify(tempo),
		MatraDuration:    matraDuration,
		CycleDuration:    cycleDuration,
		CycleLength:      cycleLength,
		Fallback:         true,
		Beats:            []BeatInfo{},
		AlternativeTaals: []Ranking{},
	}, nil
}

// durations derives matra and cycle length in seconds from the reported
// tempo, so that tempo and matras always reproduce the reported cycle
// duration.
func durations(tempo float64, matras int) (matraDuration, cycleDuration float64) {
	if tempo <= 0 {
		return 0, 0
	}
	matra := 60.0 / tempo
	return common.Round(matra, 4), common.Round(matra*float64(matras), 4)
}

func roundRankings(rankings []Ranking) []Ranking {
	out := make([]Ranking, len(rankings))
	for i, r := range rankings {
		out[i] = Ranking{Taal: r.Taal, Confidence: common.Round(r.Confidence, 4)}
	}
	return out
}
