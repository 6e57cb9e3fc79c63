// Package output provides shared report serialization for syrinx JSON output.
package output

import (
	"github.com/farcloser/syrinx"
	"github.com/farcloser/syrinx/internal/types"
)

// ReportToMap converts a delivery report into the canonical map structure
// used for JSON and JSONL serialization.
func ReportToMap(report *syrinx.Report) map[string]any {
	meta := map[string]any{
		"metrics": MetricsToMap(report.Metrics),
		"summary": map[string]any{
			"weak_count":   report.WeakCount,
			"worst_rating": report.WorstRating.String(),
		},
		"duration_seconds": report.DurationSeconds,
	}

	// Findings.
	findings := make([]any, 0, len(report.Findings))
	for _, finding := range report.Findings {
		findings = append(findings, map[string]any{
			"metric":  finding.Metric.String(),
			"score":   finding.Score,
			"rating":  finding.Rating.String(),
			"summary": finding.Summary,
		})
	}

	meta["findings"] = findings

	// Raw stage results.
	if r := report.Speech; r != nil {
		meta["speech"] = SegmentationToMap(r)
	}

	if r := report.Silence; r != nil {
		meta["silence"] = SegmentationToMap(r)
	}

	if r := report.Level; r != nil {
		meta["level"] = map[string]any{
			"rms":     r.RMS,
			"rms_db":  r.RMSDb,
			"samples": r.Samples,
		}
	}

	if r := report.Spectrum; r != nil {
		meta["spectrum"] = SpectrumToMap(r)
	}

	if r := report.Pitch; r != nil {
		meta["pitch"] = PitchToMap(r)
	}

	return meta
}

// MetricsToMap converts the seven-score record to a map.
func MetricsToMap(metrics syrinx.DeliveryMetrics) map[string]any {
	return map[string]any{
		"pace":            metrics.Pace,
		"volume":          metrics.Volume,
		"clarity":         metrics.Clarity,
		"pause_duration":  metrics.PauseDuration,
		"tonal_variation": metrics.TonalVariation,
		"confidence":      metrics.Confidence,
		"enthusiasm":      metrics.Enthusiasm,
	}
}

// SegmentationToMap converts segmentation results to a map.
func SegmentationToMap(result *types.SegmentationResult) map[string]any {
	segments := make([]any, 0, len(result.Segments))
	for _, seg := range result.Segments {
		segments = append(segments, map[string]any{
			"start_sec": seg.StartSec,
			"end_sec":   seg.EndSec,
		})
	}

	return map[string]any{
		"segment_count":   result.SegmentCount,
		"active_seconds":  result.ActiveSeconds,
		"rate_per_second": result.RatePerSecond,
		"windows_scanned": result.WindowsScanned,
		"segments":        segments,
	}
}

// SpectrumToMap converts spectral analysis results to a map. Raw bin
// magnitudes are summarized rather than dumped; the bands carry the signal.
func SpectrumToMap(result *types.SpectralResult) map[string]any {
	return map[string]any{
		"speech_band":      result.SpeechBand,
		"noise_band":       result.NoiseBand,
		"clarity_ratio":    result.ClarityRatio,
		"centroid_hz":      result.CentroidHz,
		"bin_width_hz":     result.Frame.BinWidthHz,
		"bin_count":        len(result.Frame.Magnitudes),
		"samples_analyzed": result.SamplesAnalyzed,
	}
}

// PitchToMap converts pitch tracking results to a map.
func PitchToMap(result *types.PitchResult) map[string]any {
	return map[string]any{
		"mean_hz":         result.MeanHz,
		"stddev_hz":       result.StddevHz,
		"variation_ratio": result.VariationRatio,
		"window_count":    result.WindowCount,
		"voiced_count":    result.VoicedCount,
		"track":           result.Track,
	}
}
