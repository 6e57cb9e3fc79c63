//nolint:wrapcheck
package main

import (
	"fmt"
	"os"

	"github.com/farcloser/primordium/format"

	"github.com/farcloser/syrinx"
	"github.com/farcloser/syrinx/internal/integration/ffprobe"
	"github.com/farcloser/syrinx/internal/output"
)

// metricCategories groups findings for display.
//
//nolint:gochecknoglobals // configuration data, effectively const
var metricCategories = map[syrinx.Metric]string{
	syrinx.MetricPace:           "1. Rhythm",
	syrinx.MetricPauses:         "1. Rhythm",
	syrinx.MetricVolume:         "2. Sound",
	syrinx.MetricClarity:        "2. Sound",
	syrinx.MetricTonalVariation: "3. Expression",
	syrinx.MetricConfidence:     "4. Overall impression",
	syrinx.MetricEnthusiasm:     "4. Overall impression",
}

// categoryOrder defines the display order for categories (numbered for sorting).
//
//nolint:gochecknoglobals // configuration data, effectively const
var categoryOrder = []string{
	"1. Rhythm",
	"2. Sound",
	"3. Expression",
	"4. Overall impression",
}

func outputReport(
	filePath string,
	report *syrinx.Report,
	probed *ffprobe.Result,
	formatName string,
	debug bool,
) error {
	formatter, err := format.GetFormatter(formatName)
	if err != nil {
		return err
	}

	var meta map[string]any
	if debug {
		meta = output.ReportToMap(report)
	} else {
		meta = buildFriendlyOutput(report, probed)
	}

	data := &format.Data{
		Object: filePath,
		Meta:   meta,
	}

	return formatter.PrintAll([]*format.Data{data}, os.Stdout)
}

// buildFriendlyOutput creates a user-friendly summary of the delivery report.
func buildFriendlyOutput(report *syrinx.Report, probed *ffprobe.Result) map[string]any {
	meta := map[string]any{
		"summary": fmt.Sprintf("%d weak spots (worst: %s)", report.WeakCount, report.WorstRating),
	}

	// Group findings by category.
	categoryFindings := make(map[string][]any)

	for _, finding := range report.Findings {
		category, ok := metricCategories[finding.Metric]
		if !ok {
			continue
		}

		marker := "  "
		if finding.Score <= 2 {
			marker = "!!"
		}

		line := fmt.Sprintf("%s [%s] %s: %s - %.1f/5",
			marker, finding.Rating, finding.Metric, finding.Summary, finding.Score)

		categoryFindings[category] = append(categoryFindings[category], line)
	}

	// Build ordered findings map.
	if len(categoryFindings) > 0 {
		findings := make(map[string]any)

		for _, cat := range categoryOrder {
			if catFindings, ok := categoryFindings[cat]; ok {
				findings[cat] = catFindings
			}
		}

		meta["findings"] = findings
	}

	// Key properties.
	props := buildProperties(report, probed)
	if len(props) > 0 {
		meta["properties"] = props
	}

	return meta
}

func buildProperties(report *syrinx.Report, probed *ffprobe.Result) map[string]any {
	props := make(map[string]any)

	if report.DurationSeconds > 0 {
		props["duration"] = fmt.Sprintf("%.1f s", report.DurationSeconds)
	}

	if r := report.Level; r != nil {
		props["level"] = fmt.Sprintf("%.1f dB RMS", r.RMSDb)
	}

	if r := report.Speech; r != nil {
		props["speech_bursts"] = fmt.Sprintf("%d (%.1f/s)", r.SegmentCount, r.RatePerSecond)
	}

	if r := report.Silence; r != nil && report.DurationSeconds > 0 {
		props["silence"] = fmt.Sprintf("%.0f%% of clip", r.ActiveSeconds/report.DurationSeconds*100)
	}

	if r := report.Spectrum; r != nil {
		props["voice_band"] = fmt.Sprintf("%.0f%% of energy", r.ClarityRatio*100)
		props["spectral_centroid"] = fmt.Sprintf("%.0f Hz", r.CentroidHz)
	}

	if r := report.Pitch; r != nil && r.VoicedCount > 0 {
		props["pitch"] = fmt.Sprintf("%.0f Hz (spread %.0f Hz)", r.MeanHz, r.StddevHz)
	}

	if probed != nil {
		if stream := probed.FirstAudioStream(); stream != nil {
			props["source"] = fmt.Sprintf("%s, %s Hz, %d ch", stream.CodecName, stream.SampleRate, stream.Channels)
		}
	}

	return props
}
