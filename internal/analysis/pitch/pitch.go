// Package pitch estimates the fundamental frequency track of a clip by
// short-window autocorrelation and summarizes how much it moves.
package pitch

import (
	"errors"
	"fmt"
	"math"

	"github.com/farcloser/syrinx/internal/types"
)

// Options tune one pitch scan.
type Options struct {
	WindowMs int     // analysis window size; default 20
	MinHz    float64 // bottom of the fundamental search range; default 80
	MaxHz    float64 // top of the fundamental search range; default 800
}

func DefaultOptions() Options {
	return Options{
		WindowMs: 20,
		MinHz:    80,
		MaxHz:    800,
	}
}

var errNoSamples = errors.New("no samples to track")

// Analyze scans non-overlapping windows and keeps, per window, the lag with
// the strongest normalized autocorrelation inside the configured range,
// converted to Hz. Windows whose best correlation is not strictly positive
// are unvoiced and contribute nothing to the track. A trailing stretch
// shorter than one window is not scanned.
func Analyze(buf *types.SampleBuffer, opts Options) (*types.PitchResult, error) {
	if opts.WindowMs == 0 {
		opts.WindowMs = 20
	}

	if opts.MinHz == 0 {
		opts.MinHz = 80
	}

	if opts.MaxHz == 0 {
		opts.MaxHz = 800
	}

	if len(buf.Samples) == 0 {
		return nil, fmt.Errorf("%w: empty buffer", errNoSamples)
	}

	windowSize := max(buf.SampleRate*opts.WindowMs/1000, 1)

	// Lag bounds invert the frequency range. A lag must leave at least one
	// sample pair inside the window to correlate.
	loLag := max(int(float64(buf.SampleRate)/opts.MaxHz), 1)
	hiLag := min(int(float64(buf.SampleRate)/opts.MinHz), windowSize-1)

	result := &types.PitchResult{}

	for start := 0; start+windowSize <= len(buf.Samples); start += windowSize {
		window := buf.Samples[start : start+windowSize]
		result.WindowCount++

		if hz, voiced := estimate(window, buf.SampleRate, loLag, hiLag); voiced {
			result.Track = append(result.Track, hz)
		}
	}

	result.VoicedCount = len(result.Track)
	summarize(result)

	return result, nil
}

// estimate returns the strongest periodicity of one window as a frequency.
// Only a strictly positive correlation counts; a flat or anti-correlated
// window has no usable fundamental.
func estimate(window []float64, sampleRate, loLag, hiLag int) (float64, bool) {
	bestCorr := 0.0
	bestLag := 0

	for lag := loLag; lag <= hiLag; lag++ {
		count := len(window) - lag

		var sum float64
		for i := 0; i < count; i++ {
			sum += window[i] * window[i+lag]
		}

		if corr := sum / float64(count); corr > bestCorr {
			bestCorr = corr
			bestLag = lag
		}
	}

	if bestLag == 0 {
		return 0, false
	}

	return float64(sampleRate) / float64(bestLag), true
}

// summarize fills the track statistics. An empty track keeps every summary
// field at zero; the scoring layer decides what that means.
func summarize(result *types.PitchResult) {
	if len(result.Track) == 0 {
		return
	}

	var sum float64
	for _, hz := range result.Track {
		sum += hz
	}

	mean := sum / float64(len(result.Track))

	var sqDiff float64
	for _, hz := range result.Track {
		sqDiff += (hz - mean) * (hz - mean)
	}

	result.MeanHz = mean
	result.StddevHz = math.Sqrt(sqDiff / float64(len(result.Track)))

	if mean != 0 {
		result.VariationRatio = result.StddevHz / mean
	}
}
