package main

import (
	"bufio"
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/syrinx"
)

// Clips scoring below this on a filtered metric get listed individually.
const weakThreshold = 3.0

//nolint:gochecknoglobals // configuration data, effectively const
var digestMetrics = []syrinx.Metric{
	syrinx.MetricPace,
	syrinx.MetricVolume,
	syrinx.MetricClarity,
	syrinx.MetricPauses,
	syrinx.MetricTonalVariation,
	syrinx.MetricConfidence,
	syrinx.MetricEnthusiasm,
}

func digestCommand() *cli.Command {
	return &cli.Command{
		Name:      "digest",
		Usage:     "Produce a summary digest from a syrinx JSONL report",
		ArgsUsage: "<report.jsonl>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "metric",
				Usage: "List clips scoring below 3 on a specific metric (e.g., pace, clarity)",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return errors.New("expected exactly one argument: path to report.jsonl")
			}

			return runDigest(cmd.Args().First(), cmd.String("metric"))
		},
	}
}

func runDigest(reportPath, metricFilter string) error {
	records, err := readRecords(reportPath)
	if err != nil {
		return err
	}

	printDigest(records)

	if metricFilter != "" {
		return printMetricDetail(records, metricFilter)
	}

	return nil
}

func readRecords(path string) ([]Record, error) {
	file, err := os.Open(path) //nolint:gosec // CLI tool opens user-specified report files
	if err != nil {
		return nil, fmt.Errorf("opening report: %w", err)
	}
	defer file.Close()

	var records []Record

	scanner := bufio.NewScanner(file)

	const maxLineSize = 1024 * 1024 // 1MB
	scanner.Buffer(make([]byte, 0, maxLineSize), maxLineSize)

	for scanner.Scan() {
		var rec Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			records = append(records, Record{Error: "parse error"})

			continue
		}

		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}

	return records, nil
}

func printDigest(records []Record) {
	total := len(records)
	failed := 0
	fallbacks := 0

	stats := make(map[syrinx.Metric]*metricStats, len(digestMetrics))
	for _, metric := range digestMetrics {
		stats[metric] = &metricStats{}
	}

	for _, rec := range records {
		if rec.Metrics == nil {
			failed++

			continue
		}

		// Fallback records carry synthetic scores; keep them out of the stats.
		if rec.Fallback {
			fallbacks++

			continue
		}

		for _, metric := range digestMetrics {
			score := rec.Metrics.Score(metric)
			entry := stats[metric]

			entry.Histogram[syrinx.RatingFor(score)]++
			entry.Count++
			entry.Sum += score

			if entry.Count == 1 || score < entry.Min {
				entry.Min = score
				entry.MinFile = rec.File
			}

			if entry.Count == 1 || score > entry.Max {
				entry.Max = score
			}
		}
	}

	rated := total - failed - fallbacks

	fmt.Println("=== Syrinx Report Digest ===")
	fmt.Println()
	fmt.Printf("Total clips:  %d\n", total)
	fmt.Printf("Failed:       %d\n", failed)
	fmt.Printf("Fell back:    %d\n", fallbacks)
	fmt.Printf("Rated:        %d\n", rated)
	fmt.Println()

	fmt.Println("--- Scores By Metric ---")

	for _, metric := range digestMetrics {
		entry := stats[metric]

		fmt.Printf("  %s\n", metric)

		if entry.Count == 0 {
			fmt.Println("    no scores")

			continue
		}

		fmt.Printf("    poor: %d  weak: %d  fair: %d  good: %d  excellent: %d\n",
			entry.Histogram[1], entry.Histogram[2], entry.Histogram[3], entry.Histogram[4], entry.Histogram[5])
		fmt.Printf("    mean: %.2f  min: %.1f  max: %.1f\n", entry.Sum/float64(entry.Count), entry.Min, entry.Max)

		if entry.MinFile != "" {
			fmt.Printf("    weakest: %s (%.1f)\n", entry.MinFile, entry.Min)
		}
	}
}

type weakClip struct {
	file  string
	score float64
}

func printMetricDetail(records []Record, metricName string) error {
	metric, err := parseDigestMetric(metricName)
	if err != nil {
		return err
	}

	fmt.Println()

	var clips []weakClip

	for _, rec := range records {
		if rec.Metrics == nil {
			continue
		}

		score := rec.Metrics.Score(metric)
		if score >= weakThreshold {
			continue
		}

		file := rec.File
		if file == "" {
			file = "(redacted)"
		}

		clips = append(clips, weakClip{file: file, score: score})
	}

	if len(clips) == 0 {
		fmt.Printf("No clips below %.1f on %s\n", weakThreshold, metric)

		return nil
	}

	slices.SortFunc(clips, func(a, b weakClip) int {
		return cmp.Compare(a.score, b.score)
	})

	fmt.Printf("=== %s: %d clips below %.1f ===\n\n", metric, len(clips), weakThreshold)

	for _, clip := range clips {
		fmt.Printf("  %.1f  [%s]  %s\n", clip.score, syrinx.RatingFor(clip.score), clip.file)
	}

	return nil
}

func parseDigestMetric(name string) (syrinx.Metric, error) {
	for _, metric := range digestMetrics {
		if metric.String() == name {
			return metric, nil
		}
	}

	return 0, fmt.Errorf("unknown metric %q", name)
}
