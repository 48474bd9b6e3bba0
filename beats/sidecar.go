package beats

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/RyanBlaney/taal-finder/logging"
	"github.com/RyanBlaney/taal-finder/taal"
	"github.com/RyanBlaney/taal-finder/transcode"
)

// sidecarFile is the JSON exported by an offline detector run, e.g. madmom's
// RNN/DBN beat and downbeat processors:
//
//	{"fps": 100, "beats": [...], "downbeats": [[t, pos], ...],
//	 "activation": [...], "position_base": 1}
//
// position_base is subtracted from every downbeat position (madmom counts
// from 1).
type sidecarFile struct {
	FPS          int          `json:"fps"`
	Beats        []float64    `json:"beats"`
	Downbeats    [][2]float64 `json:"downbeats"`
	Activation   []float64    `json:"activation"`
	PositionBase int          `json:"position_base"`
}

// SidecarDetector reads a precomputed detector result from a JSON file
// instead of analysing audio.
type SidecarDetector struct {
	Path   string
	logger logging.Logger
}

// NewSidecarDetector creates a detector backed by the JSON file at path
func NewSidecarDetector(path string) *SidecarDetector {
	return &SidecarDetector{
		Path: path,
		logger: logging.WithFields(logging.Fields{
			"component": "sidecar_detector",
			"path":      path,
		}),
	}
}

// Detect loads the sidecar. audio and beatsPerBar are not consulted; the
// bar lengths were fixed when the sidecar was produced.
func (s *SidecarDetector) Detect(ctx context.Context, audio *transcode.AudioData, beatsPerBar []int) (*Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Clean(s.Path))
	if err != nil {
		return nil, fmt.Errorf("read beat sidecar: %w", err)
	}

	track, err := ParseSidecar(data)
	if err != nil {
		return nil, fmt.Errorf("parse beat sidecar %s: %w", s.Path, err)
	}

	s.logger.Debug("Loaded beat sidecar", logging.Fields{
		"beats":      len(track.BeatTimes),
		"downbeats":  len(track.Downbeats),
		"activation": len(track.Activation),
	})

	return track, nil
}

// ParseSidecar decodes sidecar JSON into a Track. A missing fps defaults to
// DefaultFPS.
func ParseSidecar(data []byte) (*Track, error) {
	var f sidecarFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	fps := f.FPS
	if fps == 0 {
		fps = DefaultFPS
	}

	downbeats := make([]taal.Downbeat, len(f.Downbeats))
	for i, row := range f.Downbeats {
		if float64(int(row[1])) != row[1] {
			return nil, fmt.Errorf("downbeat %d: position %v is not an integer", i, row[1])
		}
		downbeats[i] = taal.Downbeat{Time: row[0], Position: int(row[1]) - f.PositionBase}
	}

	track := &Track{
		FPS:        fps,
		BeatTimes:  f.Beats,
		Downbeats:  downbeats,
		Activation: f.Activation,
	}
	if err := track.Validate(); err != nil {
		return nil, err
	}
	return track, nil
}
