package temporal

import "github.com/RyanBlaney/taal-finder/algorithms/common"

// ComputeIOI returns the inter-onset intervals between consecutive beat
// times, in seconds.
func ComputeIOI(beatTimes []float64) []float64 {
	return common.Diff(beatTimes)
}

// TempoFromBeats estimates tempo in BPM as 60 over the median inter-beat
// interval. Fewer than two beats, or a non-positive median interval,
// yields 0.
func TempoFromBeats(beatTimes []float64) float64 {
	if len(beatTimes) < 2 {
		return 0.0
	}

	medianIOI := common.Median(ComputeIOI(beatTimes))
	if medianIOI <= 0 {
		return 0.0
	}
	return 60.0 / medianIOI
}
