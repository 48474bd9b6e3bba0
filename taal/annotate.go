package taal

import "github.com/RyanBlaney/taal-finder/algorithms/common"

// BeatInfo annotates one detected beat with its place in the taal cycle.
type BeatInfo struct {
	Time         float64 `json:"time"`
	BeatPosition int     `json:"beat_position"`
	IsSam        bool    `json:"is_sam"`
	IsKhali      bool    `json:"is_khali"`
	Strength     float64 `json:"strength"`
}

// AnnotateBeats numbers beats i mod matras from the first detected beat.
// The counter is not re-aligned to the detector's bar positions or the
// taal's sam, so when the recording does not start on sam the reported sam
// beats are shifted accordingly. Missing strengths read as 0.
func AnnotateBeats(beatTimes, strengths []float64, def Definition) []BeatInfo {
	if def.Matras <= 0 {
		return []BeatInfo{}
	}

	infos := make([]BeatInfo, len(beatTimes))
	for i, t := range beatTimes {
		pos := i % def.Matras

		strength := 0.0
		if i < len(strengths) {
			strength = common.Round(strengths[i], 4)
		}

		infos[i] = BeatInfo{
			Time:         common.Round(t, 4),
			BeatPosition: pos,
			IsSam:        def.IsSam(pos),
			IsKhali:      def.IsKhali(pos),
			Strength:     strength,
		}
	}
	return infos
}
