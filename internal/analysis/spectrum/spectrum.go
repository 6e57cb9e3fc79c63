// Package spectrum computes the magnitude half-spectrum of a clip's onset
// and the speech-band clarity ratio derived from it.
package spectrum

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/farcloser/syrinx/internal/analysis/shared"
	"github.com/farcloser/syrinx/internal/types"
)

// Band edges in Hz. The speech band brackets voice formants; everything the
// analyzer treats as noise is the rumble below it and the hiss above it, up
// to the top of the scanned range.
const (
	speechLoHz = 300
	speechHiHz = 3400
	noiseLoHz  = 0
	noiseHiHz  = 8000
)

// Options tune one spectral analysis.
type Options struct {
	MaxSamples int // transform covers at most this many samples from the clip start; default 1024
}

func DefaultOptions() Options {
	return Options{
		MaxSamples: 1024,
	}
}

var errNoSamples = errors.New("no samples to transform")

// Analyze transforms the first min(MaxSamples, len) samples of the clip and
// integrates the magnitude bins into speech and noise band energies.
//
// The transform length is whatever prefix is available, not padded up, so a
// short clip yields fewer, wider bins. Bins shared by adjacent band edges are
// counted in both bands. A single-sample clip has no transformable content
// and yields an empty frame with a zero clarity ratio.
func Analyze(buf *types.SampleBuffer, opts Options) (*types.SpectralResult, error) {
	if opts.MaxSamples == 0 {
		opts.MaxSamples = 1024
	}

	if len(buf.Samples) == 0 {
		return nil, fmt.Errorf("%w: empty buffer", errNoSamples)
	}

	n := min(opts.MaxSamples, len(buf.Samples))

	binCount := n / 2
	if binCount == 0 {
		return &types.SpectralResult{SamplesAnalyzed: n}, nil
	}

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, buf.Samples[:n])

	magnitudes := make([]float64, binCount)
	for k := range magnitudes {
		c := coeffs[k]
		magnitudes[k] = math.Sqrt(real(c)*real(c) + imag(c)*imag(c))
	}

	frame := types.SpectralFrame{
		Magnitudes: magnitudes,
		BinWidthHz: float64(buf.SampleRate) / float64(2*binCount),
	}

	speech := bandEnergy(frame, speechLoHz, speechHiHz)
	noise := bandEnergy(frame, noiseLoHz, speechLoHz) + bandEnergy(frame, speechHiHz, noiseHiHz)

	return &types.SpectralResult{
		Frame:           frame,
		SpeechBand:      speech,
		NoiseBand:       noise,
		ClarityRatio:    speech / (speech + noise + shared.Epsilon),
		CentroidHz:      centroid(frame),
		SamplesAnalyzed: n,
	}, nil
}

// bandEnergy sums the magnitude bins between two frequencies. Both edges
// floor to a bin index and both indices are included, clamped to the frame.
func bandEnergy(frame types.SpectralFrame, loHz, hiHz float64) float64 {
	if len(frame.Magnitudes) == 0 || frame.BinWidthHz <= 0 {
		return 0
	}

	loBin := int(loHz / frame.BinWidthHz)
	hiBin := min(int(hiHz/frame.BinWidthHz), len(frame.Magnitudes)-1)

	var sum float64
	for k := loBin; k <= hiBin; k++ {
		sum += frame.Magnitudes[k]
	}

	return sum
}

// centroid is the magnitude-weighted mean frequency of the frame.
func centroid(frame types.SpectralFrame) float64 {
	var weightedSum float64
	var totalMag float64

	for k, mag := range frame.Magnitudes {
		weightedSum += float64(k) * frame.BinWidthHz * mag
		totalMag += mag
	}

	if totalMag == 0 {
		return 0
	}

	return weightedSum / totalMag
}
