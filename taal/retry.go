package taal

import (
	"sync"

	"github.com/RyanBlaney/taal-finder/logging"
)

// Controller widens the search when the estimated cycle length has no
// registered taal, and picks a last-resort guess when nothing matches.
type Controller struct {
	matcher     *Matcher
	registry    *Registry
	calibration Calibration
	logger      logging.Logger
}

// NewController creates a retry/fallback controller.
func NewController(matcher *Matcher, registry *Registry, calibration Calibration) *Controller {
	if registry == nil {
		registry = DefaultRegistry()
	}
	if matcher == nil {
		matcher = NewMatcher(registry, calibration.Weights)
	}
	return &Controller{
		matcher:     matcher,
		registry:    registry,
		calibration: calibration,
		logger: logging.WithFields(logging.Fields{
			"component": "taal_retry",
		}),
	}
}

// MatchNearby matches at each retry offset around cycleLength, skipping
// non-positive lengths, scales every confidence by the retry penalty, and
// returns the merged rankings sorted by descending confidence. Offsets are
// evaluated concurrently; the merge follows offset order so ties resolve
// the same way as a sequential scan.
func (c *Controller) MatchNearby(observed []float64, cycleLength int) []Ranking {
	offsets := c.calibration.RetryOffsets
	perOffset := make([][]Ranking, len(offsets))

	var wg sync.WaitGroup
	for i, offset := range offsets {
		nearby := cycleLength + offset
		if nearby <= 0 {
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			rankings := c.matcher.Match(observed, nearby)
			for j := range rankings {
				rankings[j].Confidence *= c.calibration.RetryPenalty
			}
			perOffset[i] = rankings
		}()
	}
	wg.Wait()

	merged := []Ranking{}
	for _, rankings := range perOffset {
		merged = append(merged, rankings...)
	}
	SortRankings(merged)

	c.logger.Debug("Nearby cycle lengths matched", logging.Fields{
		"cycle_length": cycleLength,
		"offsets":      offsets,
		"matches":      len(merged),
	})

	return merged
}

// Fallback returns the registered taal closest in matras to cycleLength and
// the fixed fallback confidence. ok is false only when the registry is
// empty.
func (c *Controller) Fallback(cycleLength int) (def Definition, confidence float64, ok bool) {
	def, ok = c.registry.Closest(cycleLength)
	if !ok {
		return Definition{}, 0, false
	}

	c.logger.Warn("No taal matched, using closest cycle length", logging.Fields{
		"cycle_length": cycleLength,
		"taal":         def.Name,
		"matras":       def.Matras,
	})

	return def, c.calibration.FallbackConfidence, true
}
