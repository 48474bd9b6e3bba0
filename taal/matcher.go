package taal

import (
	"sort"

	"github.com/RyanBlaney/taal-finder/algorithms/common"
	"github.com/RyanBlaney/taal-finder/logging"
	"gonum.org/v1/gonum/floats"
)

// Ranking is one candidate taal with its match confidence in [0, 1].
type Ranking struct {
	Taal       Name    `json:"taal"`
	Confidence float64 `json:"confidence"`
}

// Matcher scores an observed accent curve against the accent templates of
// every registered taal of a given cycle length.
type Matcher struct {
	registry *Registry
	weights  TemplateWeights
	logger   logging.Logger
}

// NewMatcher creates a matcher over registry. A nil registry uses the
// builtin taals.
func NewMatcher(registry *Registry, weights TemplateWeights) *Matcher {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Matcher{
		registry: registry,
		weights:  weights,
		logger: logging.WithFields(logging.Fields{
			"component": "taal_matcher",
		}),
	}
}

// Match ranks the taals whose matras equal cycleLength by cosine similarity
// between their template and the cycle-averaged observed strengths. The
// result is sorted by descending confidence, ties in registry order. It is
// empty when no taal has that cycle length.
func (m *Matcher) Match(observed []float64, cycleLength int) []Ranking {
	candidates := m.registry.ByMatras(cycleLength)
	if len(candidates) == 0 {
		m.logger.Debug("No taal registered for cycle length", logging.Fields{
			"cycle_length": cycleLength,
		})
		return []Ranking{}
	}

	avg := AverageCyclicPattern(observed, cycleLength)

	rankings := make([]Ranking, 0, len(candidates))
	for _, def := range candidates {
		expected := BuildAccentTemplate(def, cycleLength, m.weights)
		similarity := common.CosineSimilarity(avg, expected)
		rankings = append(rankings, Ranking{
			Taal:       def.Name,
			Confidence: common.Clamp(similarity, 0.0, 1.0),
		})
	}

	SortRankings(rankings)

	m.logger.Debug("Ranked candidates", logging.Fields{
		"cycle_length": cycleLength,
		"candidates":   len(rankings),
		"best":         rankings[0].Taal,
	})

	return rankings
}

// SortRankings orders rankings by descending confidence, keeping the
// existing order among equal confidences.
func SortRankings(rankings []Ranking) {
	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].Confidence > rankings[j].Confidence
	})
}

// AverageCyclicPattern folds strengths into cycleLength positions and takes
// the per-position mean over all full cycles; a trailing partial cycle is
// dropped. Input shorter than one cycle is zero-padded instead.
func AverageCyclicPattern(strengths []float64, cycleLength int) []float64 {
	if cycleLength <= 0 {
		return []float64{}
	}

	avg := make([]float64, cycleLength)
	fullCycles := len(strengths) / cycleLength
	if fullCycles == 0 {
		copy(avg, strengths)
		return avg
	}

	for c := range fullCycles {
		floats.Add(avg, strengths[c*cycleLength:(c+1)*cycleLength])
	}
	n := float64(fullCycles)
	for i := range avg {
		avg[i] /= n
	}

	return avg
}
