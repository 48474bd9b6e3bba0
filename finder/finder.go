// Package finder wires decoding, beat detection, classification and result
// caching into a single file-level entry point.
package finder

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/RyanBlaney/taal-finder/beats"
	"github.com/RyanBlaney/taal-finder/logging"
	"github.com/RyanBlaney/taal-finder/store"
	"github.com/RyanBlaney/taal-finder/taal"
	"github.com/RyanBlaney/taal-finder/transcode"
)

// Cache stores classification results by audio content hash.
type Cache interface {
	Lookup(ctx context.Context, key string) (*taal.Result, bool, error)
	Save(ctx context.Context, key, source string, result *taal.Result) (store.Record, error)
}

// Finder detects the taal of audio files.
type Finder struct {
	config     *Config
	decoder    *transcode.Decoder
	detector   beats.Detector
	classifier *taal.Classifier
	cache      Cache
	logger     logging.Logger
}

// New creates a Finder. A nil detector uses the built-in onset detector and
// a nil cache disables caching.
func New(config *Config, detector beats.Detector, cache Cache) (*Finder, error) {
	config = config.withDefaults()

	classifier, err := taal.NewClassifier(nil, config.Classifier)
	if err != nil {
		return nil, fmt.Errorf("failed to create classifier: %w", err)
	}

	if detector == nil {
		detector = beats.NewOnsetDetector(config.Onset)
	}

	return &Finder{
		config:     config,
		decoder:    transcode.NewDecoder(config.Decoder),
		detector:   detector,
		classifier: classifier,
		cache:      cache,
		logger: logging.WithFields(logging.Fields{
			"component": "taal_finder",
		}),
	}, nil
}

// Registry returns the taal registry results are drawn from.
func (f *Finder) Registry() *taal.Registry {
	return f.classifier.Registry()
}

// DetectFile classifies the audio file at path. Cached results are returned
// without decoding; fresh results are cached after classification.
func (f *Finder) DetectFile(ctx context.Context, path string) (*taal.Result, error) {
	logger := f.logger.WithFields(logging.Fields{
		"function": "DetectFile",
		"path":     path,
	})

	if !transcode.IsSupported(path) {
		return nil, fmt.Errorf("%w: %s", transcode.ErrUnsupportedFormat, path)
	}

	var key string
	if f.cache != nil {
		var err error
		key, err = hashFile(path)
		if err != nil {
			return nil, err
		}

		cached, ok, err := f.cache.Lookup(ctx, key)
		if err != nil {
			logger.Warn("Cache lookup failed", logging.Fields{"error": err.Error()})
		} else if ok {
			logger.Info("Using cached result", logging.Fields{"taal": cached.Taal})
			return cached, nil
		}
	}

	audio, err := f.decoder.DecodeFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load audio: %w", err)
	}

	result, err := f.Detect(ctx, audio)
	if err != nil {
		return nil, err
	}

	if f.cache != nil {
		if _, err := f.cache.Save(ctx, key, path, result); err != nil {
			logger.Warn("Failed to cache result", logging.Fields{"error": err.Error()})
		}
	}

	return result, nil
}

// Detect runs beat detection and classification on decoded audio.
func (f *Finder) Detect(ctx context.Context, audio *transcode.AudioData) (*taal.Result, error) {
	track, err := f.detector.Detect(ctx, audio, f.Registry().CandidateMatraCounts())
	if err != nil {
		return nil, fmt.Errorf("beat detection failed: %w", err)
	}

	f.logger.Debug("Beats detected", logging.Fields{
		"beats":     len(track.BeatTimes),
		"downbeats": len(track.Downbeats),
	})

	result, err := f.classifier.Classify(track.Input())
	if err != nil {
		return nil, fmt.Errorf("classification failed: %w", err)
	}

	f.logger.Info("Taal detected", logging.Fields{
		"taal":       result.Taal,
		"confidence": result.Confidence,
		"tempo_bpm":  result.TempoBPM,
		"fallback":   result.Fallback,
	})

	return result, nil
}

// hashFile returns the hex SHA-256 of the file contents.
func hashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("audio file not found: %w", err)
	}
	defer file.Close()

	h := sha256.New()
	if _, err := io.Copy(h, file); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
