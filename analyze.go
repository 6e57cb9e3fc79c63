//nolint:wrapcheck
package syrinx

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/farcloser/syrinx/internal/analysis/energy"
	"github.com/farcloser/syrinx/internal/analysis/pcm"
	"github.com/farcloser/syrinx/internal/analysis/pitch"
	"github.com/farcloser/syrinx/internal/analysis/segment"
	"github.com/farcloser/syrinx/internal/analysis/spectrum"
	"github.com/farcloser/syrinx/internal/types"
)

/*
Usage:

// Never-fail contract: malformed audio yields the fallback record.
metrics := syrinx.ComputeDeliveryMetrics(rawPCM)
fmt.Printf("pace %.1f confidence %.1f\n", metrics.Pace, metrics.Confidence)

// Richer API: errors surface, findings explain each score.
report, err := syrinx.Evaluate(rawPCM, syrinx.DefaultOptions())
for _, finding := range report.Findings {
    fmt.Printf("[%s] %s: %.1f (%s)\n", finding.Rating, finding.Metric, finding.Score, finding.Summary)
}

// Subset of metrics
opts := syrinx.DefaultOptions()
opts.Metrics = syrinx.MetricPace | syrinx.MetricPauses
report, err := syrinx.Evaluate(rawPCM, opts)

// Capture-aware (adjusts energy thresholds for noisier chains)
opts := syrinx.OptionsForCapture(syrinx.CaptureWebcam)
report, err := syrinx.Evaluate(rawPCM, opts)

// Inspect raw stage data
if report.Pitch != nil {
    fmt.Printf("voiced windows: %d/%d\n", report.Pitch.VoicedCount, report.Pitch.WindowCount)
}
*/

var (
	// ErrDecode marks input that is not decodable 16-bit PCM.
	ErrDecode = pcm.ErrDecode

	// ErrAnalysis marks a stage failure past decoding.
	ErrAnalysis = errors.New("analysis stage failed")
)

// Options configures the analysis.
type Options struct {
	Metrics Metric // which metrics to compute (default: MetricsAll)

	SampleRate int // Hz of the incoming raw PCM (default: 44100)

	// Segmentation thresholds (zero value = use defaults).
	SpeechWindowMs         int
	SpeechEnergyThreshold  float64
	SilenceWindowMs        int
	SilenceEnergyThreshold float64
	SilenceMinDurationSec  float64

	// Spectral analysis.
	SpectrumMaxSamples int

	// Pitch tracking.
	PitchWindowMs int
	PitchMinHz    float64
	PitchMaxHz    float64
}

// DefaultOptions returns DefaultStudioOptions.
func DefaultOptions() Options {
	return DefaultStudioOptions()
}

// DefaultStudioOptions returns options for clean, close-mic recordings.
func DefaultStudioOptions() Options {
	return Options{
		Metrics: MetricsAll,

		SampleRate: 44100,

		SpeechWindowMs:         20,
		SpeechEnergyThreshold:  0.001,
		SilenceWindowMs:        10,
		SilenceEnergyThreshold: 0.01,
		SilenceMinDurationSec:  0.2,

		SpectrumMaxSamples: 1024,

		PitchWindowMs: 20,
		PitchMinHz:    80,
		PitchMaxHz:    800,
	}
}

// DefaultWebcamOptions returns options for laptop or webcam capture.
// Higher energy thresholds so room noise and fan hiss don't read as speech.
func DefaultWebcamOptions() Options {
	opts := DefaultStudioOptions()
	opts.SpeechEnergyThreshold = 0.002
	opts.SilenceEnergyThreshold = 0.02

	return opts
}

// DefaultPhoneOptions returns options for handset recordings.
// AGC keeps the noise floor pumping between phrases, and the handset
// high-pass strips content below ~100 Hz.
func DefaultPhoneOptions() Options {
	opts := DefaultStudioOptions()
	opts.SpeechEnergyThreshold = 0.005
	opts.SilenceEnergyThreshold = 0.03
	opts.PitchMinHz = 100

	return opts
}

// Capture represents the recording chain, which adjusts detection thresholds
// to account for noise characteristics inherent to the capture device.
type Capture int

const (
	CaptureStudio Capture = iota // Clean, close-mic recording (default).
	CaptureWebcam                // Laptop/webcam capture. Room noise tolerance.
	CapturePhone                 // Handset capture. AGC noise, high-passed lows.
)

func (c Capture) String() string {
	switch c {
	case CaptureStudio:
		return "studio"
	case CaptureWebcam:
		return "webcam"
	case CapturePhone:
		return "phone"
	}

	return "unknown"
}

// ParseCapture converts a string to a Capture value.
func ParseCapture(s string) (Capture, error) {
	switch s {
	case "studio", "":
		return CaptureStudio, nil
	case "webcam":
		return CaptureWebcam, nil
	case "phone":
		return CapturePhone, nil
	default:
		return 0, fmt.Errorf("unknown capture %q (valid: studio, webcam, phone)", s)
	}
}

// OptionsForCapture returns the default Options for the given capture chain.
func OptionsForCapture(capture Capture) Options {
	switch capture {
	case CaptureWebcam:
		return DefaultWebcamOptions()
	case CapturePhone:
		return DefaultPhoneOptions()
	default:
		return DefaultStudioOptions()
	}
}

// Report contains the scored metrics plus everything behind them.
type Report struct {
	// Scores for the requested metrics; unrequested fields stay zero.
	Metrics DeliveryMetrics

	// One finding per requested metric, in metric order.
	Findings []Finding

	// Summary
	WeakCount   int    // findings scoring 2 or below
	WorstRating Rating // lowest rating across findings; 0 when nothing was scored

	DurationSeconds float64

	// Raw stage results (for inspection, nil if not needed)
	Speech   *types.SegmentationResult
	Silence  *types.SegmentationResult
	Level    *types.LevelResult
	Spectrum *types.SpectralResult
	Pitch    *types.PitchResult
}

// ComputeDeliveryMetrics analyzes a raw 16-bit little-endian mono PCM clip at
// the default rate and returns all seven delivery scores. It never fails: on
// any decode or stage error it logs the cause and returns FallbackMetrics.
func ComputeDeliveryMetrics(raw []byte) DeliveryMetrics {
	report, err := Evaluate(raw, DefaultOptions())
	if err != nil {
		slog.Warn("delivery analysis fell back to defaults", "error", err)

		return FallbackMetrics()
	}

	return report.Metrics
}

// Evaluate runs the delivery analysis and keeps errors visible: decode
// failures wrap ErrDecode, later stage failures wrap ErrAnalysis.
func Evaluate(raw []byte, opts Options) (*Report, error) {
	if opts.Metrics == 0 {
		opts.Metrics = MetricsAll
	}

	applyDefaults(&opts)

	buf, err := pcm.Decode(raw, opts.SampleRate)
	if err != nil {
		return nil, err
	}

	report := &Report{
		DurationSeconds: buf.DurationSeconds(),
	}

	// Determine which stages we need. The derived metrics pull in every
	// stage behind their formula even when the primary wasn't asked for.
	needSpeech := opts.Metrics&(MetricPace|MetricConfidence|MetricEnthusiasm) != 0
	needSilence := opts.Metrics&MetricPauses != 0
	needLevel := opts.Metrics&(MetricVolume|MetricConfidence|MetricEnthusiasm) != 0
	needSpectrum := opts.Metrics&(MetricClarity|MetricConfidence) != 0
	needPitch := opts.Metrics&(MetricTonalVariation|MetricConfidence|MetricEnthusiasm) != 0

	if needSpeech {
		report.Speech, err = segment.Scan(buf, segment.Options{
			WindowMs:        opts.SpeechWindowMs,
			EnergyThreshold: opts.SpeechEnergyThreshold,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrAnalysis, err)
		}
	}

	if needSilence {
		report.Silence, err = segment.Scan(buf, segment.Options{
			WindowMs:        opts.SilenceWindowMs,
			EnergyThreshold: opts.SilenceEnergyThreshold,
			MinDurationSec:  opts.SilenceMinDurationSec,
			Below:           true,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrAnalysis, err)
		}
	}

	if needLevel {
		report.Level = energy.Level(buf.Samples)
	}

	if needSpectrum {
		report.Spectrum, err = spectrum.Analyze(buf, spectrum.Options{
			MaxSamples: opts.SpectrumMaxSamples,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrAnalysis, err)
		}
	}

	if needPitch {
		report.Pitch, err = pitch.Analyze(buf, pitch.Options{
			WindowMs: opts.PitchWindowMs,
			MinHz:    opts.PitchMinHz,
			MaxHz:    opts.PitchMaxHz,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrAnalysis, err)
		}
	}

	interpretScores(report, opts)

	return report, nil
}

func applyDefaults(opts *Options) {
	defaults := DefaultOptions()

	if opts.SampleRate == 0 {
		opts.SampleRate = defaults.SampleRate
	}

	if opts.SpeechWindowMs == 0 {
		opts.SpeechWindowMs = defaults.SpeechWindowMs
	}

	if opts.SpeechEnergyThreshold == 0 {
		opts.SpeechEnergyThreshold = defaults.SpeechEnergyThreshold
	}

	if opts.SilenceWindowMs == 0 {
		opts.SilenceWindowMs = defaults.SilenceWindowMs
	}

	if opts.SilenceEnergyThreshold == 0 {
		opts.SilenceEnergyThreshold = defaults.SilenceEnergyThreshold
	}

	if opts.SilenceMinDurationSec == 0 {
		opts.SilenceMinDurationSec = defaults.SilenceMinDurationSec
	}

	if opts.SpectrumMaxSamples == 0 {
		opts.SpectrumMaxSamples = defaults.SpectrumMaxSamples
	}

	if opts.PitchWindowMs == 0 {
		opts.PitchWindowMs = defaults.PitchWindowMs
	}

	if opts.PitchMinHz == 0 {
		opts.PitchMinHz = defaults.PitchMinHz
	}

	if opts.PitchMaxHz == 0 {
		opts.PitchMaxHz = defaults.PitchMaxHz
	}
}

func interpretScores(report *Report, opts Options) {
	var pace, volume, clarity, pause, tonal float64

	// Pace
	if report.Speech != nil {
		rate := report.Speech.RatePerSecond
		pace = paceScore(rate)

		if opts.Metrics&MetricPace != 0 {
			var summary string

			switch {
			case rate < 1.5:
				summary = fmt.Sprintf("Dragging delivery (%.1f bursts/s)", rate)
			case rate < 2.5:
				summary = fmt.Sprintf("Measured delivery (%.1f bursts/s)", rate)
			case rate < 4.0:
				summary = fmt.Sprintf("Well-paced delivery (%.1f bursts/s)", rate)
			case rate < 5.0:
				summary = fmt.Sprintf("Brisk delivery (%.1f bursts/s)", rate)
			default:
				summary = fmt.Sprintf("Rushed delivery (%.1f bursts/s)", rate)
			}

			report.Metrics.Pace = pace
			report.Findings = append(report.Findings, Finding{
				Metric:  MetricPace,
				Score:   pace,
				Rating:  RatingFor(pace),
				Summary: summary,
			})
		}
	}

	// Volume
	if report.Level != nil {
		db := report.Level.RMSDb
		volume = volumeScore(db)

		if opts.Metrics&MetricVolume != 0 {
			var summary string

			switch {
			case db < -40:
				summary = fmt.Sprintf("Underpowered level (%.1f dB RMS)", db)
			case db < -25:
				summary = fmt.Sprintf("Soft level (%.1f dB RMS)", db)
			case db < -10:
				summary = fmt.Sprintf("Healthy level (%.1f dB RMS)", db)
			case db < -5:
				summary = fmt.Sprintf("Hot level (%.1f dB RMS)", db)
			default:
				summary = fmt.Sprintf("Slammed level (%.1f dB RMS)", db)
			}

			report.Metrics.Volume = volume
			report.Findings = append(report.Findings, Finding{
				Metric:  MetricVolume,
				Score:   volume,
				Rating:  RatingFor(volume),
				Summary: summary,
			})
		}
	}

	// Clarity
	if report.Spectrum != nil {
		ratio := report.Spectrum.ClarityRatio
		clarity = clarityScore(ratio)

		if opts.Metrics&MetricClarity != 0 {
			var summary string

			switch {
			case ratio > 0.8:
				summary = fmt.Sprintf("Clean voice band (%.0f%% speech energy)", ratio*100)
			case ratio > 0.6:
				summary = fmt.Sprintf("Clear voice (%.0f%% speech energy)", ratio*100)
			case ratio > 0.4:
				summary = fmt.Sprintf("Muffled or roomy (%.0f%% speech energy)", ratio*100)
			case ratio > 0.2:
				summary = fmt.Sprintf("Noise competing with voice (%.0f%% speech energy)", ratio*100)
			default:
				summary = fmt.Sprintf("Voice buried in noise (%.0f%% speech energy)", ratio*100)
			}

			report.Metrics.Clarity = clarity
			report.Findings = append(report.Findings, Finding{
				Metric:  MetricClarity,
				Score:   clarity,
				Rating:  RatingFor(clarity),
				Summary: summary,
			})
		}
	}

	// Pauses
	if report.Silence != nil {
		var ratio float64
		if report.DurationSeconds > 0 {
			ratio = report.Silence.ActiveSeconds / report.DurationSeconds
		}

		pause = pauseScore(ratio)

		if opts.Metrics&MetricPauses != 0 {
			var summary string

			switch {
			case ratio < 0.05:
				summary = fmt.Sprintf("Breathless, no room to land (%.0f%% silence)", ratio*100)
			case ratio < 0.15:
				summary = fmt.Sprintf("Well-placed pauses (%.0f%% silence)", ratio*100)
			case ratio < 0.25:
				summary = fmt.Sprintf("Generous pauses (%.0f%% silence)", ratio*100)
			case ratio < 0.35:
				summary = fmt.Sprintf("Halting delivery (%.0f%% silence)", ratio*100)
			default:
				summary = fmt.Sprintf("More silence than speech (%.0f%% silence)", ratio*100)
			}

			report.Metrics.PauseDuration = pause
			report.Findings = append(report.Findings, Finding{
				Metric:  MetricPauses,
				Score:   pause,
				Rating:  RatingFor(pause),
				Summary: summary,
			})
		}
	}

	// Tonal variation
	if report.Pitch != nil {
		tonal = tonalScore(report.Pitch)

		if opts.Metrics&MetricTonalVariation != 0 {
			variation := report.Pitch.VariationRatio

			var summary string

			switch {
			case len(report.Pitch.Track) == 0:
				summary = "No voiced pitch detected"
			case variation < 0.05:
				summary = fmt.Sprintf("Monotone delivery (pitch varies %.0f%%)", variation*100)
			case variation < 0.15:
				summary = fmt.Sprintf("Restrained pitch range (varies %.0f%%)", variation*100)
			case variation < 0.25:
				summary = fmt.Sprintf("Lively pitch variation (varies %.0f%%)", variation*100)
			case variation < 0.35:
				summary = fmt.Sprintf("Animated pitch (varies %.0f%%)", variation*100)
			default:
				summary = fmt.Sprintf("Erratic pitch (varies %.0f%%)", variation*100)
			}

			report.Metrics.TonalVariation = tonal
			report.Findings = append(report.Findings, Finding{
				Metric:  MetricTonalVariation,
				Score:   tonal,
				Rating:  RatingFor(tonal),
				Summary: summary,
			})
		}
	}

	// Confidence
	if opts.Metrics&MetricConfidence != 0 {
		confidence := deriveConfidence(volume, clarity, pace, tonal)

		report.Metrics.Confidence = confidence
		report.Findings = append(report.Findings, Finding{
			Metric:  MetricConfidence,
			Score:   confidence,
			Rating:  RatingFor(confidence),
			Summary: "Weighted composite of volume, clarity, pace, and tonal variation",
		})
	}

	// Enthusiasm
	if opts.Metrics&MetricEnthusiasm != 0 {
		enthusiasm := deriveEnthusiasm(volume, tonal, pace)

		report.Metrics.Enthusiasm = enthusiasm
		report.Findings = append(report.Findings, Finding{
			Metric:  MetricEnthusiasm,
			Score:   enthusiasm,
			Rating:  RatingFor(enthusiasm),
			Summary: "Weighted composite of volume, tonal variation, and pace",
		})
	}

	// Calculate summary stats
	for _, finding := range report.Findings {
		if finding.Score <= 2 {
			report.WeakCount++
		}

		if report.WorstRating == 0 || finding.Rating < report.WorstRating {
			report.WorstRating = finding.Rating
		}
	}
}

// The bucket tables are deliberately non-monotonic: pace and tonal variation
// both fall away from a sweet spot in either direction.

func paceScore(ratePerSecond float64) float64 {
	switch {
	case ratePerSecond < 1.5:
		return 2
	case ratePerSecond < 2.5:
		return 3
	case ratePerSecond < 4.0:
		return 5
	case ratePerSecond < 5.0:
		return 4
	default:
		return 3
	}
}

func pauseScore(silenceRatio float64) float64 {
	switch {
	case silenceRatio < 0.05:
		return 2
	case silenceRatio < 0.15:
		return 5
	case silenceRatio < 0.25:
		return 4
	case silenceRatio < 0.35:
		return 3
	default:
		return 2
	}
}

func clarityScore(ratio float64) float64 {
	switch {
	case ratio > 0.8:
		return 5
	case ratio > 0.6:
		return 4
	case ratio > 0.4:
		return 3
	case ratio > 0.2:
		return 2
	default:
		return 1
	}
}

func volumeScore(rmsDb float64) float64 {
	switch {
	case rmsDb < -40:
		return 2
	case rmsDb < -25:
		return 3
	case rmsDb < -10:
		return 5
	case rmsDb < -5:
		return 4
	default:
		return 3
	}
}

func tonalScore(result *types.PitchResult) float64 {
	if len(result.Track) == 0 {
		return 2
	}

	switch {
	case result.VariationRatio < 0.05:
		return 2
	case result.VariationRatio < 0.15:
		return 3
	case result.VariationRatio < 0.25:
		return 5
	case result.VariationRatio < 0.35:
		return 4
	default:
		return 3
	}
}

func deriveConfidence(volume, clarity, pace, tonal float64) float64 {
	bonus := 0.2 * tonal
	if tonal >= 3 && tonal <= 4 {
		bonus = 1.0
	}

	return round1(clamp(0.3*volume+0.3*clarity+0.2*pace+bonus, 1, 5))
}

func deriveEnthusiasm(volume, tonal, pace float64) float64 {
	bonus := 0.2 * pace
	if pace >= 4 {
		bonus = 1.0
	}

	return round1(clamp(0.4*volume+0.4*tonal+bonus, 1, 5))
}

func clamp(x, lo, hi float64) float64 {
	return min(max(x, lo), hi)
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
