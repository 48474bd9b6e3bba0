package transcode

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func writeStereoWAV(t *testing.T, path string, sampleRate, frames int) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, 2, 1)
	data := make([]int, frames*2)
	for i := range frames {
		data[2*i] = 16384    // left at +0.5
		data[2*i+1] = -16384 // right at -0.5
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestDecodeWAVMixdownAndResample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeStereoWAV(t, path, 22050, 22050)

	dec := NewDecoder(&DecoderConfig{TargetSampleRate: 44100, NativeWAV: true})
	got, err := dec.DecodeFile(context.Background(), path)
	if err != nil {
		t.Fatalf("DecodeFile: %v", err)
	}

	if got.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", got.SampleRate)
	}
	if got.Channels != 2 {
		t.Errorf("Channels = %d, want 2", got.Channels)
	}
	if len(got.PCM) != 44100 {
		t.Errorf("len(PCM) = %d, want 44100", len(got.PCM))
	}
	if got.Duration.Seconds() != 1 {
		t.Errorf("Duration = %v, want 1s", got.Duration)
	}
	// opposite channels cancel out
	for i, v := range got.PCM[:100] {
		if math.Abs(v) > 1e-9 {
			t.Fatalf("PCM[%d] = %v, want 0", i, v)
		}
	}
}

func TestDecodeFileErrors(t *testing.T) {
	dir := t.TempDir()
	dec := NewDecoder(nil)

	if _, err := dec.DecodeFile(context.Background(), filepath.Join(dir, "missing.wav")); err == nil {
		t.Error("expected error for missing file")
	}

	txt := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(txt, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := dec.DecodeFile(context.Background(), txt)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestIsSupported(t *testing.T) {
	for _, name := range []string{"a.MP3", "b.wav", "c.flac", "d.ogg", "e.m4a", "f.aac"} {
		if !IsSupported(name) {
			t.Errorf("IsSupported(%q) = false", name)
		}
	}
	if IsSupported("g.mid") {
		t.Error("IsSupported(.mid) = true")
	}
}

func TestBytesToFloat64(t *testing.T) {
	data := make([]byte, 8*2+3)
	binary.LittleEndian.PutUint64(data[0:], math.Float64bits(0.25))
	binary.LittleEndian.PutUint64(data[8:], math.Float64bits(-1))

	got := bytesToFloat64(data)
	if len(got) != 2 || got[0] != 0.25 || got[1] != -1 {
		t.Errorf("bytesToFloat64 = %v, want [0.25 -1]", got)
	}
}
