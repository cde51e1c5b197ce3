package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Spectrum returns the frequencies and magnitudes of bins 0..n/2 of series
// sampled at sampleRate Hz. The mean is removed first so bin 0 only holds
// rounding noise.
func Spectrum(series []float64, sampleRate float64) (freqs, mags []float64) {
	n := len(series)
	if n < 2 || !(sampleRate > 0) {
		return nil, nil
	}

	var mean float64
	for _, v := range series {
		mean += v
	}
	mean /= float64(n)

	centred := make([]float64, n)
	for i, v := range series {
		centred[i] = v - mean
	}

	bins := fft.FFTReal(centred)
	half := n/2 + 1
	freqs = make([]float64, half)
	mags = make([]float64, half)
	for k := 0; k < half; k++ {
		freqs[k] = float64(k) * sampleRate / float64(n)
		mags[k] = cmplx.Abs(bins[k]) / float64(n)
	}
	return freqs, mags
}

// DominantFrequency returns the frequency of the largest non-DC bin. ok is
// false for series too short or too flat to have one.
func DominantFrequency(series []float64, sampleRate float64) (freq float64, ok bool) {
	freqs, mags := Spectrum(series, sampleRate)
	best := -1
	peak := 0.0
	for k := 1; k < len(mags); k++ {
		if mags[k] > peak {
			best, peak = k, mags[k]
		}
	}
	if best < 0 || peak < 1e-12 || math.IsNaN(peak) {
		return 0, false
	}
	return freqs[best], true
}
