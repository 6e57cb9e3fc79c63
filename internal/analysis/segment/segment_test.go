package segment

import (
	"math"
	"reflect"
	"testing"

	"github.com/farcloser/syrinx/internal/types"
)

// span is a constant-amplitude stretch used to compose test clips.
type span struct {
	amp float64
	n   int
}

func buildBuffer(rate int, spans ...span) *types.SampleBuffer {
	var samples []float64

	for _, sp := range spans {
		for range sp.n {
			samples = append(samples, sp.amp)
		}
	}

	return &types.SampleBuffer{Samples: samples, SampleRate: rate}
}

func TestScanSpeechRuns(t *testing.T) {
	// Rate 1000 keeps the window math round: 20 ms = 20 samples.
	opts := SpeechDefaults()

	t.Run("single burst bounded by quiet", func(t *testing.T) {
		buf := buildBuffer(1000, span{0, 100}, span{0.5, 200}, span{0, 100})

		result, err := Scan(buf, opts)
		if err != nil {
			t.Fatalf("Scan: %v", err)
		}

		want := []types.TimeSegment{{StartSec: 0.1, EndSec: 0.3}}
		if !reflect.DeepEqual(result.Segments, want) {
			t.Errorf("Segments = %+v, want %+v", result.Segments, want)
		}

		if math.Abs(result.ActiveSeconds-0.2) > 1e-12 {
			t.Errorf("ActiveSeconds = %v, want 0.2", result.ActiveSeconds)
		}

		if math.Abs(result.RatePerSecond-5) > 1e-12 {
			t.Errorf("RatePerSecond = %v, want 5", result.RatePerSecond)
		}
	})

	t.Run("burst open at end of clip is dropped", func(t *testing.T) {
		buf := buildBuffer(1000, span{0, 100}, span{0.5, 200})

		result, err := Scan(buf, opts)
		if err != nil {
			t.Fatalf("Scan: %v", err)
		}

		if len(result.Segments) != 0 {
			t.Errorf("Segments = %+v, want none (trailing run stays open)", result.Segments)
		}

		if result.RatePerSecond != 0 {
			t.Errorf("RatePerSecond = %v, want 0", result.RatePerSecond)
		}
	})

	t.Run("two bursts produce ordered non-overlapping segments", func(t *testing.T) {
		buf := buildBuffer(1000,
			span{0, 100}, span{0.5, 100}, span{0, 100}, span{0.5, 100}, span{0, 100},
		)

		result, err := Scan(buf, opts)
		if err != nil {
			t.Fatalf("Scan: %v", err)
		}

		want := []types.TimeSegment{
			{StartSec: 0.1, EndSec: 0.2},
			{StartSec: 0.3, EndSec: 0.4},
		}
		if !reflect.DeepEqual(result.Segments, want) {
			t.Fatalf("Segments = %+v, want %+v", result.Segments, want)
		}

		for i, seg := range result.Segments {
			if seg.EndSec <= seg.StartSec {
				t.Errorf("segment %d: end %v not after start %v", i, seg.EndSec, seg.StartSec)
			}

			if i > 0 && seg.StartSec < result.Segments[i-1].EndSec {
				t.Errorf("segment %d overlaps previous", i)
			}
		}

		if math.Abs(result.RatePerSecond-10) > 1e-12 {
			t.Errorf("RatePerSecond = %v, want 10", result.RatePerSecond)
		}
	})

	t.Run("all quiet clip yields nothing", func(t *testing.T) {
		buf := buildBuffer(1000, span{0, 500})

		result, err := Scan(buf, opts)
		if err != nil {
			t.Fatalf("Scan: %v", err)
		}

		if len(result.Segments) != 0 || result.ActiveSeconds != 0 || result.RatePerSecond != 0 {
			t.Errorf("got %+v, want empty result", result)
		}
	})
}

func TestScanSilenceRuns(t *testing.T) {
	// 10 ms windows at rate 1000 = 10 samples. Quiet spans use a small
	// non-zero amplitude to exercise the threshold, not just exact zero.
	opts := SilenceDefaults()

	t.Run("minimum duration filter drops short pauses", func(t *testing.T) {
		buf := buildBuffer(1000,
			span{0.5, 300},  // talking
			span{0.05, 300}, // 0.3 s pause, kept
			span{0.5, 200},  // talking
			span{0.05, 100}, // 0.1 s gap, dropped
			span{0.5, 100},  // talking
		)

		result, err := Scan(buf, opts)
		if err != nil {
			t.Fatalf("Scan: %v", err)
		}

		want := []types.TimeSegment{{StartSec: 0.3, EndSec: 0.6}}
		if !reflect.DeepEqual(result.Segments, want) {
			t.Errorf("Segments = %+v, want %+v", result.Segments, want)
		}

		if math.Abs(result.ActiveSeconds-0.3) > 1e-12 {
			t.Errorf("ActiveSeconds = %v, want 0.3", result.ActiveSeconds)
		}
	})

	t.Run("trailing silence stays open and is dropped", func(t *testing.T) {
		buf := buildBuffer(1000, span{0.5, 300}, span{0.05, 500})

		result, err := Scan(buf, opts)
		if err != nil {
			t.Fatalf("Scan: %v", err)
		}

		if len(result.Segments) != 0 {
			t.Errorf("Segments = %+v, want none", result.Segments)
		}
	})

	t.Run("leading silence is counted once closed", func(t *testing.T) {
		buf := buildBuffer(1000, span{0.05, 300}, span{0.5, 200})

		result, err := Scan(buf, opts)
		if err != nil {
			t.Fatalf("Scan: %v", err)
		}

		want := []types.TimeSegment{{StartSec: 0, EndSec: 0.3}}
		if !reflect.DeepEqual(result.Segments, want) {
			t.Errorf("Segments = %+v, want %+v", result.Segments, want)
		}
	})
}

func TestScanIsDeterministic(t *testing.T) {
	buf := buildBuffer(1000,
		span{0, 70}, span{0.4, 230}, span{0.05, 240}, span{0.6, 310}, span{0, 150},
	)

	first, err := Scan(buf, SpeechDefaults())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	second, err := Scan(buf, SpeechDefaults())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeat scan differs: %+v vs %+v", first, second)
	}
}

func TestScanEmptyBuffer(t *testing.T) {
	buf := &types.SampleBuffer{Samples: nil, SampleRate: 44100}

	if _, err := Scan(buf, SpeechDefaults()); err == nil {
		t.Fatal("Scan on empty buffer succeeded, want error")
	}
}

func TestScanWindowSizeFloor(t *testing.T) {
	// A window shorter than one sample degenerates to a single-sample window
	// rather than an infinite loop.
	buf := &types.SampleBuffer{Samples: []float64{0, 0.5, 0.5, 0}, SampleRate: 100}

	result, err := Scan(buf, Options{WindowMs: 1, EnergyThreshold: 0.001})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if result.WindowsScanned != 4 {
		t.Errorf("WindowsScanned = %d, want 4", result.WindowsScanned)
	}
}
