package taal

// BuildAccentTemplate synthesizes the expected per-matra accent curve of def
// over cycleLength positions. Tali is strong and khali weak (khali wins
// where both are marked); sam is strongest and overrides both, so rupak's
// khali sam still reads as sam. Vibhag starts left at baseline get a slight
// lift. Positions at or beyond cycleLength are ignored.
func BuildAccentTemplate(def Definition, cycleLength int, w TemplateWeights) []float64 {
	if cycleLength <= 0 {
		return []float64{}
	}

	pattern := make([]float64, cycleLength)
	for i := range pattern {
		pattern[i] = w.Baseline
	}

	for _, pos := range def.TaliPositions {
		if pos >= 0 && pos < cycleLength {
			pattern[pos] = w.Tali
		}
	}

	for _, pos := range def.KhaliPositions {
		if pos >= 0 && pos < cycleLength {
			pattern[pos] = w.Khali
		}
	}

	if def.SamPosition >= 0 && def.SamPosition < cycleLength {
		pattern[def.SamPosition] = w.Sam
	}

	for _, boundary := range def.VibhagBoundaries() {
		if boundary < cycleLength && pattern[boundary] == w.Baseline {
			pattern[boundary] = w.Boundary
		}
	}

	return pattern
}
