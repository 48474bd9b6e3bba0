package beats

import "github.com/RyanBlaney/taal-finder/algorithms/common"

// Frames averaged around each beat: [frame-accentBefore, frame+accentAfter).
const (
	accentBefore = 2
	accentAfter  = 3
)

// AccentStrengths returns the mean activation in a small window around each
// beat time. Windows are clipped to the curve; an empty window scores 0.
func AccentStrengths(activation []float64, fps int, beatTimes []float64) []float64 {
	strengths := make([]float64, len(beatTimes))
	if fps <= 0 {
		return strengths
	}

	for i, t := range beatTimes {
		frame := int(t * float64(fps))
		start := max(0, frame-accentBefore)
		end := min(len(activation), frame+accentAfter)
		if start < end {
			strengths[i] = common.Mean(activation[start:end])
		}
	}
	return strengths
}
