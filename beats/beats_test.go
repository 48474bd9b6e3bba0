package beats

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/RyanBlaney/taal-finder/taal"
	"github.com/RyanBlaney/taal-finder/transcode"
)

func TestAccentStrengths(t *testing.T) {
	activation := make([]float64, 100)
	for i := range activation {
		activation[i] = float64(i)
	}

	tests := []struct {
		name  string
		beats []float64
		want  []float64
	}{
		// frame 50 averages frames 48..52
		{"interior", []float64{0.5}, []float64{50}},
		// frame 0 clips to frames 0..2
		{"start", []float64{0.0}, []float64{1}},
		// frame 100 clips to frames 98..99
		{"end", []float64{1.0}, []float64{98.5}},
		{"past end", []float64{5.0}, []float64{0}},
		{"no beats", nil, []float64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AccentStrengths(activation, 100, tt.beats)
			if !slices.Equal(got, tt.want) {
				t.Errorf("AccentStrengths = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAccentStrengthsZeroFPS(t *testing.T) {
	got := AccentStrengths([]float64{1, 1, 1}, 0, []float64{0, 1})
	if !slices.Equal(got, []float64{0, 0}) {
		t.Errorf("AccentStrengths = %v, want zeros", got)
	}
}

func TestParseSidecar(t *testing.T) {
	data := []byte(`{
		"beats": [0.5, 1.0, 1.5, 2.0],
		"downbeats": [[0.5, 1], [1.0, 2], [1.5, 3], [2.0, 1]],
		"activation": [0.1, 0.2],
		"position_base": 1
	}`)

	track, err := ParseSidecar(data)
	if err != nil {
		t.Fatalf("ParseSidecar: %v", err)
	}
	if track.FPS != DefaultFPS {
		t.Errorf("FPS = %d, want %d", track.FPS, DefaultFPS)
	}

	want := []taal.Downbeat{
		{Time: 0.5, Position: 0},
		{Time: 1.0, Position: 1},
		{Time: 1.5, Position: 2},
		{Time: 2.0, Position: 0},
	}
	if !slices.Equal(track.Downbeats, want) {
		t.Errorf("Downbeats = %v, want %v", track.Downbeats, want)
	}
	if !slices.Equal(track.BeatTimes, []float64{0.5, 1.0, 1.5, 2.0}) {
		t.Errorf("BeatTimes = %v", track.BeatTimes)
	}
}

func TestParseSidecarErrors(t *testing.T) {
	tests := map[string]string{
		"bad json":        `{"beats": [`,
		"fractional pos":  `{"downbeats": [[0.5, 1.5]]}`,
		"negative frames": `{"fps": 100, "activation": [0.1, -0.2]}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseSidecar([]byte(body)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSidecarDetector(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.beats.json")
	body := `{"fps": 100, "beats": [0.0, 0.5], "downbeats": [[0.0, 0], [0.5, 1]], "activation": [1, 1, 1]}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	track, err := NewSidecarDetector(path).Detect(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(track.BeatTimes) != 2 || len(track.Downbeats) != 2 {
		t.Errorf("track = %+v", track)
	}

	if _, err := NewSidecarDetector(filepath.Join(t.TempDir(), "missing.json")).Detect(context.Background(), nil, nil); err == nil {
		t.Error("expected error for missing sidecar")
	}
}

func TestTrackInput(t *testing.T) {
	track := &Track{
		FPS:        10,
		BeatTimes:  []float64{0.0, 1.0},
		Downbeats:  []taal.Downbeat{{Time: 0.0, Position: 0}, {Time: 1.0, Position: 1}},
		Activation: []float64{1, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	}
	in := track.Input()
	if len(in.AccentStrengths) != 2 {
		t.Fatalf("len(AccentStrengths) = %d, want 2", len(in.AccentStrengths))
	}
	if in.AccentStrengths[0] != 1 || in.AccentStrengths[1] != 0 {
		t.Errorf("AccentStrengths = %v, want [1 0]", in.AccentStrengths)
	}
	if err := in.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestInferBarLength(t *testing.T) {
	strengths := make([]float64, 35)
	for i := range strengths {
		strengths[i] = 0.2
		if i%7 == 2 {
			strengths[i] = 1.0
		}
	}

	length, phase := InferBarLength(strengths, []int{6, 7, 8, 10, 12, 14, 16})
	if length != 7 || phase != 2 {
		t.Errorf("InferBarLength = (%d, %d), want (7, 2)", length, phase)
	}

	if length, _ := InferBarLength(strengths[:10], []int{16}); length != 0 {
		t.Errorf("too few beats: length = %d, want 0", length)
	}
}

func TestOnsetDetectorNilAudio(t *testing.T) {
	if _, err := NewOnsetDetector(nil).Detect(context.Background(), nil, []int{7}); err == nil {
		t.Error("expected error for nil audio")
	}
}

func TestOnsetDetectorSilence(t *testing.T) {
	audio := &transcode.AudioData{PCM: make([]float64, 44100), SampleRate: 44100}
	track, err := NewOnsetDetector(nil).Detect(context.Background(), audio, []int{7})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(track.BeatTimes) != 0 || len(track.Downbeats) != 0 {
		t.Errorf("silence produced beats: %+v", track.BeatTimes)
	}
	if track.FPS != DefaultFPS {
		t.Errorf("FPS = %d", track.FPS)
	}
}
