package transcode

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/RyanBlaney/taal-finder/logging"
)

// SupportedExtensions lists the audio file extensions the decoder accepts.
var SupportedExtensions = []string{".mp3", ".wav", ".flac", ".ogg", ".m4a", ".aac"}

// ErrUnsupportedFormat is returned for files with an unsupported extension.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// AudioData represents decoded mono audio
type AudioData struct {
	PCM        []float64     `json:"-"` // mono samples in [-1, 1]
	SampleRate int           `json:"sample_rate"`
	Channels   int           `json:"channels"` // channel count of the source
	Duration   time.Duration `json:"duration"`
	Source     string        `json:"source"`
}

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	TargetSampleRate int           `json:"target_sample_rate"`
	FFmpegPath       string        `json:"ffmpeg_path"`
	Timeout          time.Duration `json:"timeout"` // per ffmpeg run, 0 for none
	// NativeWAV decodes .wav files in-process instead of through ffmpeg
	NativeWAV bool `json:"native_wav"`
}

// DefaultDecoderConfig returns default decoder configuration
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		TargetSampleRate: 44100,
		FFmpegPath:       "ffmpeg", // Assume in PATH
		Timeout:          2 * time.Minute,
		NativeWAV:        true,
	}
}

// Decoder loads audio files as mono PCM at the target sample rate
type Decoder struct {
	config *DecoderConfig
	logger logging.Logger
}

// NewDecoder creates a new audio decoder
func NewDecoder(config *DecoderConfig) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	return &Decoder{
		config: config,
		logger: logging.WithFields(logging.Fields{
			"component": "audio_decoder",
		}),
	}
}

// IsSupported reports whether path has a supported audio extension
func IsSupported(path string) bool {
	return slices.Contains(SupportedExtensions, strings.ToLower(filepath.Ext(path)))
}

// DecodeFile decodes an audio file, mixes it down to mono and resamples it
// to the target rate.
func (d *Decoder) DecodeFile(ctx context.Context, filename string) (*AudioData, error) {
	logger := d.logger.WithFields(logging.Fields{
		"function": "DecodeFile",
		"filename": filename,
	})

	if _, err := os.Stat(filename); err != nil {
		return nil, fmt.Errorf("audio file not found: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !IsSupported(filename) {
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedFormat, ext, strings.Join(SupportedExtensions, ", "))
	}

	var (
		audioData *AudioData
		err       error
	)
	if ext == ".wav" && d.config.NativeWAV {
		logger.Debug("Decoding WAV natively")
		audioData, err = d.decodeWAV(filename)
	} else {
		audioData, err = d.decodeWithFFmpeg(ctx, filename)
	}
	if err != nil {
		logger.Error(err, "Failed to decode audio")
		return nil, err
	}

	logger.Debug("Audio decoded", logging.Fields{
		"sample_rate": audioData.SampleRate,
		"channels":    audioData.Channels,
		"duration":    audioData.Duration.Seconds(),
	})

	return audioData, nil
}

// decodeWithFFmpeg pipes the file through ffmpeg as mono f64le at the
// target rate
func (d *Decoder) decodeWithFFmpeg(ctx context.Context, filename string) (*AudioData, error) {
	if d.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.config.Timeout)
		defer cancel()
	}

	args := []string{
		"-v", "error",
		"-i", filename,
		"-map", "0:a:0",
		"-vn",
		"-f", "f64le",
		"-ac", "1",
		"-ar", strconv.Itoa(d.config.TargetSampleRate),
		"pipe:1",
	}

	d.logger.Debug("Running ffmpeg command", logging.Fields{
		"args": strings.Join(args, " "),
	})

	cmd := exec.CommandContext(ctx, d.config.FFmpegPath, args...)

	startTime := time.Now()
	output, err := cmd.Output()
	if err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return nil, fmt.Errorf("ffmpeg decode failed: %w, stderr: %s", err, strings.TrimSpace(string(exitError.Stderr)))
		}
		return nil, fmt.Errorf("ffmpeg decode failed: %w", err)
	}

	samples := bytesToFloat64(output)
	if len(samples) == 0 {
		return nil, fmt.Errorf("no audio samples decoded from %s", filename)
	}

	d.logger.Debug("ffmpeg decode completed", logging.Fields{
		"output_bytes": len(output),
		"decode_time":  time.Since(startTime).Seconds(),
	})

	return &AudioData{
		PCM:        samples,
		SampleRate: d.config.TargetSampleRate,
		Channels:   1,
		Duration:   samplesDuration(len(samples), d.config.TargetSampleRate),
		Source:     filename,
	}, nil
}

// bytesToFloat64 converts little-endian float64 bytes, dropping any
// trailing partial sample
func bytesToFloat64(data []byte) []float64 {
	sampleCount := len(data) / 8
	samples := make([]float64, sampleCount)
	for i := range sampleCount {
		samples[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[i*8 : i*8+8]))
	}
	return samples
}

func samplesDuration(samples, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(samples) * time.Second / time.Duration(sampleRate)
}
