package temporal

import (
	"github.com/RyanBlaney/taal-finder/algorithms/common"
)

// BeatTracker picks beats from an onset activation curve.
type BeatTracker struct {
	// MinSeparation is the shortest allowed gap between beats in seconds
	MinSeparation float64
	// ThresholdStd sets the pick threshold at mean + ThresholdStd*stddev
	ThresholdStd float64
}

// NewBeatTracker returns a tracker that allows up to 240 BPM
func NewBeatTracker() *BeatTracker {
	return &BeatTracker{
		MinSeparation: 0.25,
		ThresholdStd:  0.5,
	}
}

// Track returns beat times in seconds, ascending.
func (bt *BeatTracker) Track(activation []float64, fps int) []float64 {
	if len(activation) < 3 || fps <= 0 {
		return []float64{}
	}

	threshold := common.Mean(activation) + bt.ThresholdStd*common.StandardDeviation(activation)
	minDistance := max(1, int(bt.MinSeparation*float64(fps)))

	peaks := common.FindPeaks(activation, threshold, minDistance)

	times := make([]float64, len(peaks))
	for i, frame := range peaks {
		times[i] = float64(frame) / float64(fps)
	}
	return times
}
