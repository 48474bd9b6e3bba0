package taal

import "slices"

// Downbeat is one detector output row: the beat time in seconds and its
// bar-relative position. Positions grow within a bar and drop back at each
// bar boundary.
type Downbeat struct {
	Time     float64 `json:"time"`
	Position int     `json:"position"`
}

// EstimateCycleLength votes on the number of beats per cycle in a downbeat
// stream. Each drop in position closes a bar whose length is one more than
// the highest position seen since the previous drop; a trailing partial bar
// counts too. The most frequent length wins, ties going to the length seen
// first. A stream with no bar boundary yields max(position)+1, and an empty
// stream yields 0.
func EstimateCycleLength(downbeats []Downbeat) int {
	if len(downbeats) == 0 {
		return 0
	}

	var lengths []int
	currentMax := 0
	for i := 1; i < len(downbeats); i++ {
		pos := downbeats[i].Position
		if pos <= downbeats[i-1].Position {
			lengths = append(lengths, currentMax+1)
			currentMax = pos
		} else {
			currentMax = max(currentMax, pos)
		}
	}

	if currentMax > 0 {
		lengths = append(lengths, currentMax+1)
	}

	if len(lengths) == 0 {
		maxPos := slices.MaxFunc(downbeats, func(a, b Downbeat) int {
			return a.Position - b.Position
		}).Position
		return maxPos + 1
	}

	return mostFrequent(lengths)
}

// mostFrequent returns the most common value, ties broken by first
// appearance.
func mostFrequent(values []int) int {
	counts := make(map[int]int, len(values))
	var order []int
	for _, v := range values {
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}

	best := order[0]
	for _, v := range order[1:] {
		if counts[v] > counts[best] {
			best = v
		}
	}
	return best
}
