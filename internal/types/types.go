//nolint:staticcheck // too dumb on Db vs. DB
package types

// SampleBuffer is a decoded mono clip: normalized float amplitudes plus the
// rate they were captured at. Immutable once decoded; every analyzer reads
// it, none of them writes to it or keeps a reference past its own call.
type SampleBuffer struct {
	Samples    []float64 // normalized amplitudes in [-1, 1)
	SampleRate int       // Hz, positive
}

// DurationSeconds is the clip length implied by the sample count.
func (b *SampleBuffer) DurationSeconds() float64 {
	if b.SampleRate <= 0 {
		return 0
	}

	return float64(len(b.Samples)) / float64(b.SampleRate)
}

// TimeSegment is a half-open interval of clip time. Sequences produced by the
// segmentation engine are time-ordered and non-overlapping, and End > Start
// always holds.
type TimeSegment struct {
	StartSec float64 `json:"start"`
	EndSec   float64 `json:"end"`
}

// DurationSec is the segment length in seconds.
func (s TimeSegment) DurationSec() float64 {
	return s.EndSec - s.StartSec
}

/*
Segmentation Interpretation

The engine runs twice per clip with different tunings, and the two runs feed
different scores.

## Speech run (20 ms windows, threshold 0.001, no minimum duration)

RatePerSecond = SegmentCount / ActiveSeconds is the burst rate of talking.

| RatePerSecond | Pace score | Reading                         |
|---------------|------------|---------------------------------|
| < 1.5         | 2          | Slow, dragging delivery         |
| 1.5 - 2.5     | 3          | Measured, on the slow side      |
| 2.5 - 4.0     | 5          | Sweet spot                      |
| 4.0 - 5.0     | 4          | Quick but controlled            |
| >= 5.0        | 3          | Rushed; choppy bursts           |

The table is deliberately non-monotonic: both dragging and racing fall away
from the sweet spot.

## Silence run (10 ms windows, threshold 0.01, 0.2 s minimum duration)

ActiveSeconds here measures deliberate pauses. Ratio = ActiveSeconds over the
clip duration.

| Silence ratio | Pause score | Reading                        |
|---------------|-------------|--------------------------------|
| < 0.05        | 2           | Breathless, no room to land    |
| 0.05 - 0.15   | 5           | Well-placed pauses             |
| 0.15 - 0.25   | 4           | Generous but fine              |
| 0.25 - 0.35   | 3           | Halting                        |
| >= 0.35       | 2           | More silence than speech       |

## Caveats

- A trailing run still open at end of clip is dropped, not closed. Trailing
  speech is undercounted on hard-cut clips.
- Windows shorter than the configured size at the clip tail are not scanned.
*/

// SegmentationResult is one run of the Quiet/Active engine over a clip.
type SegmentationResult struct {
	Segments       []TimeSegment
	SegmentCount   int
	ActiveSeconds  float64 // sum of segment durations
	RatePerSecond  float64 // SegmentCount / ActiveSeconds; 0 when no active time
	WindowsScanned int
}

// SpectralFrame is the magnitude half-spectrum of one analysis call.
// Magnitudes[k] estimates energy at frequency k*BinWidthHz.
type SpectralFrame struct {
	Magnitudes []float64
	BinWidthHz float64
}

/*
Spectral Interpretation

The frame covers at most the first 1024 samples of the clip — roughly the
first 23 ms at 44.1 kHz. That is a parity decision with the reference
pipeline, not a sampling strategy; treat ClarityRatio as a snapshot of the
clip's onset.

## Clarity ratio

Energy in the speech band (300-3400 Hz) against everything else the pipeline
looks at (0-300 Hz rumble plus 3400-8000 Hz hiss):

    ratio = speech / (speech + noise + 1e-10)

| ClarityRatio | Clarity score | Reading                      |
|--------------|---------------|------------------------------|
| > 0.8        | 5             | Clean, articulate            |
| 0.6 - 0.8    | 4             | Clear                        |
| 0.4 - 0.6    | 3             | Muffled or roomy             |
| 0.2 - 0.4    | 2             | Noise competing with voice   |
| <= 0.2       | 1             | Voice buried                 |

## Centroid

| CentroidHz | Character                 |
|------------|---------------------------|
| < 500      | Boomy, proximity effect   |
| 500 - 1500 | Natural voice             |
| 1500 - 3000| Bright, present           |
| > 3000     | Harsh or hissy            |

Boundary bins shared by adjacent bands are counted in both — the band sums
use floor() on both edges, inclusive. Contract, not a bug.
*/

// SpectralResult contains the spectral analysis of a clip's onset.
type SpectralResult struct {
	Frame SpectralFrame

	SpeechBand   float64 // band energy 300-3400 Hz
	NoiseBand    float64 // band energy 0-300 Hz + 3400-8000 Hz
	ClarityRatio float64 // SpeechBand / (SpeechBand + NoiseBand + epsilon)

	CentroidHz      float64 // magnitude-weighted mean frequency; 0 for an empty frame
	SamplesAnalyzed int
}

/*
Level Interpretation

RMSDb is 20*log10(rms + 1e-10) over the whole clip. The epsilon keeps
all-zero clips at a finite -200 dB instead of -Inf.

| RMSDb       | Volume score | Reading                      |
|-------------|--------------|------------------------------|
| < -40       | 2            | Too quiet; gain starved      |
| -40 to -25  | 3            | Soft                         |
| -25 to -10  | 5            | Healthy level                |
| -10 to -5   | 4            | Hot but usable               |
| >= -5       | 3            | Slammed; likely clipping     |
*/

// LevelResult is the whole-clip loudness measurement.
type LevelResult struct {
	RMS     float64
	RMSDb   float64
	Samples int
}

/*
Pitch Interpretation

The track keeps one fundamental estimate per voiced 20 ms window; unvoiced
and silent windows contribute nothing. VariationRatio is the population
standard deviation over the mean.

| VariationRatio | Tonal score | Reading                       |
|----------------|-------------|-------------------------------|
| track empty    | 2           | No voiced signal; monotone    |
| < 0.05         | 2           | Monotone                      |
| 0.05 - 0.15    | 3           | Restrained                    |
| 0.15 - 0.25    | 5           | Lively, engaging              |
| 0.25 - 0.35    | 4           | Animated                      |
| >= 0.35        | 3           | Erratic                       |

Non-monotonic on purpose, same as pace: a wandering pitch is penalized like a
flat one.

## Typical fundamentals

| MeanHz    | Voice                     |
|-----------|---------------------------|
| 80 - 160  | Low adult voice           |
| 160 - 260 | High adult voice          |
| 260 - 400 | Child, or raised register |
| > 400     | Suspect estimate          |

The search range is bounded to 80-800 Hz by construction; estimates outside
the typical bands usually mean the autocorrelation locked onto a harmonic.
*/

// PitchResult is the autocorrelation pitch track of a clip.
type PitchResult struct {
	Track []float64 // voiced window fundamentals, Hz

	MeanHz         float64
	StddevHz       float64 // population standard deviation
	VariationRatio float64 // StddevHz / MeanHz; 0 for an empty track

	WindowCount int // windows examined
	VoicedCount int // windows that produced an estimate
}
