package common

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Basic statistical and vector helpers shared by the analysis packages,
// backed by gonum where it offers the operation.

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// StandardDeviation calculates the sample standard deviation
func StandardDeviation(data []float64) float64 {
	if len(data) < 2 {
		return 0.0
	}
	return stat.StdDev(data, nil)
}

// Median returns the middle value of data, averaging the two middle values
// for even lengths. Returns 0 for empty input.
func Median(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}

	sorted := slices.Clone(data)
	slices.Sort(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2.0
	}
	return sorted[mid]
}

// Diff returns the first differences data[i+1]-data[i].
func Diff(data []float64) []float64 {
	if len(data) < 2 {
		return []float64{}
	}
	out := make([]float64, len(data)-1)
	floats.SubTo(out, data[1:], data[:len(data)-1])
	return out
}

// L2Norm returns the Euclidean length of v
func L2Norm(v []float64) float64 {
	if len(v) == 0 {
		return 0.0
	}
	return floats.Norm(v, 2)
}

// UnitNormalize returns a copy of v scaled to unit Euclidean length.
// A zero vector comes back unchanged.
func UnitNormalize(v []float64) []float64 {
	out := slices.Clone(v)
	norm := L2Norm(out)
	if norm == 0 {
		return out
	}
	floats.Scale(1.0/norm, out)
	return out
}

// CosineSimilarity returns the dot product of the unit-normalized vectors.
// Vectors of different length, or any zero vector, score 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}
	return floats.Dot(UnitNormalize(a), UnitNormalize(b))
}

// Clamp constrains a value to a range
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Round rounds value half away from zero to the given number of decimals.
func Round(value float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(value*p) / p
}

// Autocorrelation returns the mean-removed autocorrelation of data at lag,
// normalized by the zero-lag energy. Lags outside the data return 0.
func Autocorrelation(data []float64, lag int) float64 {
	if lag < 0 || lag >= len(data) {
		return 0.0
	}

	centered := slices.Clone(data)
	floats.AddConst(-Mean(data), centered)

	energy := floats.Dot(centered, centered)
	if energy == 0 {
		return 0.0
	}
	return floats.Dot(centered[:len(centered)-lag], centered[lag:]) / energy
}

// FindPeaks returns indices of local maxima at or above minHeight, keeping
// at least minDistance samples between accepted peaks. When two peaks are
// closer than minDistance the higher one wins.
func FindPeaks(data []float64, minHeight float64, minDistance int) []int {
	if len(data) < 3 {
		return []int{}
	}

	peaks := []int{}
	for i := 1; i < len(data)-1; i++ {
		if data[i] <= data[i-1] || data[i] < data[i+1] || data[i] < minHeight {
			continue
		}

		if n := len(peaks); n > 0 && i-peaks[n-1] < minDistance {
			if data[i] > data[peaks[n-1]] {
				peaks[n-1] = i
			}
			continue
		}
		peaks = append(peaks, i)
	}

	return peaks
}

// ResampleLinear resamples signal from originalRate to targetRate with linear
// interpolation.
func ResampleLinear(signal []float64, originalRate, targetRate int) []float64 {
	if len(signal) == 0 || originalRate <= 0 || targetRate <= 0 || originalRate == targetRate {
		return signal
	}

	ratio := float64(originalRate) / float64(targetRate)
	newLength := int(float64(len(signal)) / ratio)
	if newLength <= 0 {
		return []float64{}
	}

	resampled := make([]float64, newLength)
	last := len(signal) - 1
	for i := range resampled {
		pos := float64(i) * ratio
		j := int(pos)
		if j >= last {
			resampled[i] = signal[last]
			continue
		}
		frac := pos - float64(j)
		resampled[i] = signal[j] + frac*(signal[j+1]-signal[j])
	}

	return resampled
}
