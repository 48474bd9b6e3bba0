package temporal

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// FrameRMS returns the RMS level of each frameSize-sample frame, advancing
// hopSize samples per frame. A signal shorter than one frame gives a single
// frame over the whole signal.
func FrameRMS(signal []float64, frameSize, hopSize int) []float64 {
	if len(signal) == 0 || frameSize <= 0 || hopSize <= 0 {
		return []float64{}
	}
	if len(signal) < frameSize {
		return []float64{rms(signal)}
	}

	numFrames := (len(signal)-frameSize)/hopSize + 1
	out := make([]float64, numFrames)
	for i := range out {
		start := i * hopSize
		out[i] = rms(signal[start : start+frameSize])
	}
	return out
}

func rms(frame []float64) float64 {
	return floats.Norm(frame, 2) / math.Sqrt(float64(len(frame)))
}

// SilenceDetection measures how much of a signal sits below a level
// threshold, using 25ms frames with 50% overlap.
type SilenceDetection struct {
	// ThresholdDB is the frame RMS level, in dBFS, below which a frame is
	// silent.
	ThresholdDB float64
}

// NewSilenceDetection creates a detector with a -60 dBFS threshold.
func NewSilenceDetection() *SilenceDetection {
	return &SilenceDetection{ThresholdDB: -60}
}

// SilentFraction returns the share of frames below the threshold, in
// [0, 1]. An empty signal is entirely silent.
func (sd *SilenceDetection) SilentFraction(signal []float64, sampleRate int) float64 {
	frameSize := max(1, int(0.025*float64(sampleRate)))
	levels := FrameRMS(signal, frameSize, max(1, frameSize/2))
	if len(levels) == 0 {
		return 1
	}

	threshold := math.Pow(10, sd.ThresholdDB/20)
	silent := 0
	for _, level := range levels {
		if level < threshold {
			silent++
		}
	}
	return float64(silent) / float64(len(levels))
}
