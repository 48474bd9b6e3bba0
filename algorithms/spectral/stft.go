package spectral

import (
	"fmt"
	"math/cmplx"
	"runtime"
	"sync"
)

// STFT provides Short-Time Fourier Transform magnitudes
type STFT struct {
	fft *FFT
}

// STFTResult holds the magnitude spectrogram of a signal
type STFTResult struct {
	Magnitude      [][]float64 `json:"magnitude"` // Time x Frequency magnitude matrix
	TimeFrames     int         `json:"time_frames"`
	FreqBins       int         `json:"freq_bins"`
	SampleRate     int         `json:"sample_rate"`
	WindowSize     int         `json:"window_size"`
	HopSize        int         `json:"hop_size"`
	TimeResolution float64     `json:"time_resolution"` // seconds/frame
}

// Window interface for windowing functions
type Window interface {
	ApplyInPlace(signal []float64) error
}

// NewSTFT creates a new STFT calculator
func NewSTFT() *STFT {
	return &STFT{
		fft: NewFFT(),
	}
}

// ComputeWithWindow computes the magnitude STFT, spreading frames across a
// worker pool. window may be nil for a rectangular window.
func (s *STFT) ComputeWithWindow(signal []float64, windowSize int, hopSize int, sampleRate int, window Window) (*STFTResult, error) {
	if len(signal) == 0 {
		return nil, fmt.Errorf("empty signal")
	}
	if windowSize <= 0 {
		return nil, fmt.Errorf("window size must be positive")
	}
	if hopSize <= 0 {
		return nil, fmt.Errorf("hop size must be positive")
	}

	numFrames := (len(signal)-windowSize)/hopSize + 1
	if len(signal) < windowSize || numFrames <= 0 {
		return nil, fmt.Errorf("signal too short for window size %d", windowSize)
	}

	freqBins := windowSize/2 + 1

	magnitude := make([][]float64, numFrames)
	for i := range numFrames {
		magnitude[i] = make([]float64, freqBins)
	}

	jobs := make(chan int, numFrames)
	errs := make(chan error, 1)

	var wg sync.WaitGroup
	for range workerCount(numFrames) {
		wg.Add(1)
		go func() {
			defer wg.Done()

			frameBuffer := make([]float64, windowSize)
			for frameIdx := range jobs {
				start := frameIdx * hopSize
				copy(frameBuffer, signal[start:start+windowSize])

				if window != nil {
					if err := window.ApplyInPlace(frameBuffer); err != nil {
						select {
						case errs <- err:
						default:
						}
						continue
					}
				}

				spectrum := s.fft.Compute(frameBuffer)
				for k := range freqBins {
					magnitude[frameIdx][k] = cmplx.Abs(spectrum[k])
				}
			}
		}()
	}

	for frameIdx := range numFrames {
		jobs <- frameIdx
	}
	close(jobs)
	wg.Wait()

	select {
	case err := <-errs:
		return nil, fmt.Errorf("apply window: %w", err)
	default:
	}

	return &STFTResult{
		Magnitude:      magnitude,
		TimeFrames:     numFrames,
		FreqBins:       freqBins,
		SampleRate:     sampleRate,
		WindowSize:     windowSize,
		HopSize:        hopSize,
		TimeResolution: float64(hopSize) / float64(sampleRate),
	}, nil
}

// workerCount sizes the pool to the workload
func workerCount(numFrames int) int {
	numCPU := runtime.NumCPU()

	if numFrames < 100 {
		return max(1, min(numCPU/2, numFrames))
	}
	if numFrames < 1000 {
		return min(numCPU, 8)
	}
	return numCPU
}
