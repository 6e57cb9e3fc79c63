// Package energy holds the short-time energy primitive shared by the
// segmentation and pitch stages, plus the whole-clip level measurement.
package energy

import (
	"math"

	"github.com/farcloser/syrinx/internal/analysis/shared"
	"github.com/farcloser/syrinx/internal/types"
)

// MeanSquare is the mean of squared amplitudes over the window.
// An empty window has zero energy.
func MeanSquare(window []float64) float64 {
	if len(window) == 0 {
		return 0
	}

	var sum float64
	for _, s := range window {
		sum += s * s
	}

	return sum / float64(len(window))
}

// RMS is the root of MeanSquare.
func RMS(samples []float64) float64 {
	return math.Sqrt(MeanSquare(samples))
}

// Level measures the whole clip. The epsilon inside the log keeps all-zero
// clips at a finite level (about -200 dB) rather than -Inf.
func Level(samples []float64) *types.LevelResult {
	rms := RMS(samples)

	return &types.LevelResult{
		RMS:     rms,
		RMSDb:   20 * math.Log10(rms+shared.Epsilon),
		Samples: len(samples),
	}
}
