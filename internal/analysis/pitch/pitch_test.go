package pitch

import (
	"math"
	"testing"

	"github.com/farcloser/syrinx/internal/types"
)

// appendClicks extends samples with n points of a click train: one impulse
// every period samples, zero elsewhere. Unlike a sine, a click train
// correlates with itself only at exact multiples of its period, so the lag
// scan has a single unambiguous winner and the track values are exact.
func appendClicks(samples []float64, n, period int, amp float64) []float64 {
	for i := range n {
		if i%period == 0 {
			samples = append(samples, amp)
		} else {
			samples = append(samples, 0)
		}
	}

	return samples
}

func TestAnalyzeSteadyPeriod(t *testing.T) {
	// Rate 8000, 20 ms windows: 160 samples per window, lags 10-100. An
	// 80-sample period is 100 Hz, and 80 is the only in-range lag where the
	// clicks line up.
	buf := &types.SampleBuffer{
		Samples:    appendClicks(nil, 1600, 80, 0.9),
		SampleRate: 8000,
	}

	result, err := Analyze(buf, DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if result.WindowCount != 10 || result.VoicedCount != 10 {
		t.Fatalf("WindowCount = %d, VoicedCount = %d, want 10 and 10",
			result.WindowCount, result.VoicedCount)
	}

	for i, hz := range result.Track {
		if hz != 100.0 {
			t.Errorf("Track[%d] = %v, want 100", i, hz)
		}
	}

	if result.MeanHz != 100.0 {
		t.Errorf("MeanHz = %v, want 100", result.MeanHz)
	}

	if result.StddevHz != 0 || result.VariationRatio != 0 {
		t.Errorf("StddevHz = %v, VariationRatio = %v, want 0 and 0 for a steady period",
			result.StddevHz, result.VariationRatio)
	}
}

func TestAnalyzeAlternatingPeriods(t *testing.T) {
	// 80-sample and 64-sample periods per window, four windows each: an
	// exact 100/125 Hz alternation. The track values are exact, so the
	// population spread is 12.5 Hz around a 112.5 Hz mean.
	var samples []float64
	for range 4 {
		samples = appendClicks(samples, 160, 80, 0.9)
		samples = appendClicks(samples, 160, 64, 0.9)
	}

	buf := &types.SampleBuffer{Samples: samples, SampleRate: 8000}

	result, err := Analyze(buf, DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if result.VoicedCount != 8 {
		t.Fatalf("VoicedCount = %d, want 8 (track %v)", result.VoicedCount, result.Track)
	}

	for i, hz := range result.Track {
		want := 100.0
		if i%2 == 1 {
			want = 125.0
		}

		if hz != want {
			t.Errorf("Track[%d] = %v, want %v", i, hz, want)
		}
	}

	if result.MeanHz != 112.5 || result.StddevHz != 12.5 {
		t.Errorf("MeanHz = %v, StddevHz = %v, want 112.5 and 12.5",
			result.MeanHz, result.StddevHz)
	}

	if math.Abs(result.VariationRatio-1.0/9.0) > 1e-12 {
		t.Errorf("VariationRatio = %v, want 1/9", result.VariationRatio)
	}
}

func TestAnalyzeUnvoicedWindows(t *testing.T) {
	t.Run("silence yields an empty track", func(t *testing.T) {
		buf := &types.SampleBuffer{Samples: make([]float64, 800), SampleRate: 8000}

		result, err := Analyze(buf, DefaultOptions())
		if err != nil {
			t.Fatalf("Analyze: %v", err)
		}

		if result.WindowCount != 5 || result.VoicedCount != 0 || len(result.Track) != 0 {
			t.Errorf("got %+v, want 5 windows, none voiced", result)
		}

		if result.MeanHz != 0 || result.VariationRatio != 0 {
			t.Errorf("MeanHz = %v, VariationRatio = %v, want 0 and 0",
				result.MeanHz, result.VariationRatio)
		}
	})

	t.Run("zero correlation is not voiced", func(t *testing.T) {
		// A lone spike never pairs with itself at any lag, so every
		// correlation is exactly zero and the window is discarded.
		samples := make([]float64, 160)
		samples[0] = 0.9

		buf := &types.SampleBuffer{Samples: samples, SampleRate: 8000}

		result, err := Analyze(buf, DefaultOptions())
		if err != nil {
			t.Fatalf("Analyze: %v", err)
		}

		if result.VoicedCount != 0 {
			t.Errorf("VoicedCount = %d, want 0 (track %v)", result.VoicedCount, result.Track)
		}
	})
}

func TestAnalyzeWindowBoundaries(t *testing.T) {
	// Two voiced windows, three silent ones, and a 50-sample tail that never
	// forms a full window.
	samples := appendClicks(nil, 320, 80, 0.9)
	samples = append(samples, make([]float64, 530)...)

	buf := &types.SampleBuffer{Samples: samples, SampleRate: 8000}

	result, err := Analyze(buf, DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if result.WindowCount != 5 {
		t.Errorf("WindowCount = %d, want 5", result.WindowCount)
	}

	if result.VoicedCount != 2 {
		t.Errorf("VoicedCount = %d, want 2 (track %v)", result.VoicedCount, result.Track)
	}
}

func TestAnalyzeEmptyBuffer(t *testing.T) {
	buf := &types.SampleBuffer{SampleRate: 8000}

	if _, err := Analyze(buf, DefaultOptions()); err == nil {
		t.Fatal("Analyze on empty buffer succeeded, want error")
	}
}
