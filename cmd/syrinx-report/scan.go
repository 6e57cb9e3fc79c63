//nolint:wrapcheck
package main

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/syrinx"
	"github.com/farcloser/syrinx/internal/integration/ffmpeg"
	"github.com/farcloser/syrinx/internal/integration/ffprobe"
)

const outputFile = "syrinx-report.jsonl"

var (
	errScanArgs     = errors.New("expected exactly one argument: folder path")
	errNotDirectory = errors.New("not a directory")
	errNoClips      = errors.New("no audio clips found")
	errNoAudio      = errors.New("no audio streams found")
)

//nolint:gochecknoglobals // configuration data, effectively const
var clipExtensions = []string{".wav", ".flac", ".m4a", ".mp3", ".ogg"}

func scanCommand() *cli.Command {
	return &cli.Command{
		Name:      "scan",
		Usage:     "Rate every speech clip under a folder and write a JSONL report",
		ArgsUsage: "<folder>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "redact-path",
				Usage: "Strip file paths from the report",
			},
			&cli.StringFlag{
				Name:    "capture",
				Aliases: []string{"c"},
				Usage:   "Capture chain applied to all clips: studio, webcam, phone",
				Value:   "studio",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"j"},
				Usage:   "Number of concurrent workers",
				Value:   runtime.NumCPU(),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return errScanArgs
			}

			folder := cmd.Args().First()
			redact := cmd.Bool("redact-path")
			workers := cmd.Int("workers")

			capture, err := syrinx.ParseCapture(cmd.String("capture"))
			if err != nil {
				return err
			}

			workers = max(workers, 1)

			return runScan(ctx, folder, redact, capture, workers)
		},
	}
}

func runScan(ctx context.Context, folder string, redact bool, capture syrinx.Capture, workers int) error {
	info, err := os.Stat(folder)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%q: %w", folder, errNotDirectory)
	}

	// Collect clips.
	files, err := collectClips(folder)
	if err != nil {
		return fmt.Errorf("scanning folder: %w", err)
	}

	if len(files) == 0 {
		return fmt.Errorf("%q: %w", folder, errNoClips)
	}

	fmt.Fprintf(os.Stderr, "Found %d clips to rate (%d workers)\n", len(files), workers)

	// Process clips concurrently.
	startTime := time.Now()
	results := make([]Record, len(files))

	var progress atomic.Int64

	sem := make(chan struct{}, workers)

	var waitGroup sync.WaitGroup

	for idx, filePath := range files {
		waitGroup.Add(1)

		go func(idx int, filePath string) {
			defer waitGroup.Done()

			sem <- struct{}{}

			defer func() { <-sem }()

			results[idx] = processClip(ctx, filePath, capture)

			done := progress.Add(1)
			fmt.Fprintf(os.Stderr, "[%d/%d] %s\n", done, len(files), filePath)
		}(idx, filePath)
	}

	waitGroup.Wait()

	// Write results in file order.
	out, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()

	enc := json.NewEncoder(out)
	failed := 0

	var totalProbe, totalDecode, totalAnalyze time.Duration

	for idx := range results {
		record := &results[idx]

		if record.Error != "" {
			failed++
		}

		if record.Timing != nil {
			totalProbe += millisToDuration(record.Timing.ProbeMs)
			totalDecode += millisToDuration(record.Timing.DecodeMs)
			totalAnalyze += millisToDuration(record.Timing.AnalyzeMs)
		}

		if redact {
			record.File = ""
		}

		if err := enc.Encode(record); err != nil {
			slog.Error("writing record", "file", files[idx], "error", err)
		}
	}

	out.Close()

	// Compress.
	if err := compressFile(outputFile); err != nil {
		slog.Error("compressing report", "error", err)
	}

	elapsed := time.Since(startTime)
	minutes := int(elapsed.Minutes())
	seconds := int(elapsed.Seconds()) % 60

	fmt.Fprintf(os.Stderr, "\nDone: %d clips in %dm %ds (%d failed)\n", len(files), minutes, seconds, failed)
	fmt.Fprintf(os.Stderr, "Report written to %s (and %s.gz)\n", outputFile, outputFile)

	// Timing breakdown.
	rated := len(files) - failed

	fmt.Fprintf(os.Stderr, "\n--- Timing ---\n")
	fmt.Fprintf(os.Stderr, "  Wall clock:  %s\n", elapsed.Truncate(time.Millisecond))
	fmt.Fprintf(os.Stderr, "  ffprobe:     %s (cumulative)\n", totalProbe.Truncate(time.Millisecond))
	fmt.Fprintf(os.Stderr, "  ffmpeg:      %s (cumulative)\n", totalDecode.Truncate(time.Millisecond))
	fmt.Fprintf(os.Stderr, "  analysis:    %s (cumulative)\n", totalAnalyze.Truncate(time.Millisecond))

	if rated > 0 {
		fmt.Fprintf(os.Stderr, "  avg/clip:    %s (probe: %s, decode: %s, analyze: %s)\n",
			(totalProbe+totalDecode+totalAnalyze)/time.Duration(rated),
			totalProbe/time.Duration(rated),
			totalDecode/time.Duration(rated),
			totalAnalyze/time.Duration(rated),
		)
	}

	// Print digest summary.
	fmt.Fprintln(os.Stderr)

	return runDigest(outputFile, "")
}

func processClip(ctx context.Context, filePath string, capture syrinx.Capture) Record {
	clipStart := time.Now()
	timing := &RecordTiming{}

	record := Record{File: filePath, Capture: capture.String(), Timing: timing}

	// Probe.
	probeStart := time.Now()

	probed, err := ffprobe.Probe(ctx, filePath)

	timing.ProbeMs = durationMs(time.Since(probeStart))

	if err != nil {
		record.Error = fmt.Sprintf("probe failed: %v", err)

		return record
	}

	if probed.FirstAudioStream() == nil {
		record.Error = errNoAudio.Error()

		return record
	}

	record.DurationSec = containerDuration(probed)

	// Extract PCM.
	opts := syrinx.OptionsForCapture(capture)

	decodeStart := time.Now()

	file, err := os.Open(filePath) //nolint:gosec // CLI tool opens user-specified audio files
	if err != nil {
		record.Error = fmt.Sprintf("open failed: %v", err)

		return record
	}
	defer file.Close()

	var pcmBuf bytes.Buffer

	err = ffmpeg.Extract(ctx, file, &pcmBuf, opts.SampleRate)

	timing.DecodeMs = durationMs(time.Since(decodeStart))

	if err != nil {
		record.Error = fmt.Sprintf("extraction failed: %v", err)

		return record
	}

	// Rate.
	analyzeStart := time.Now()

	report, err := syrinx.Evaluate(pcmBuf.Bytes(), opts)

	timing.AnalyzeMs = durationMs(time.Since(analyzeStart))
	timing.TotalMs = durationMs(time.Since(clipStart))

	if err != nil {
		// A failed rating still gets the fallback record; the cause rides along.
		metrics := syrinx.FallbackMetrics()
		record.Metrics = &metrics
		record.Fallback = true
		record.Error = fmt.Sprintf("rating fell back: %v", err)

		return record
	}

	record.Metrics = &report.Metrics
	if record.DurationSec == 0 {
		record.DurationSec = report.DurationSeconds
	}

	return record
}

func durationMs(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}

func millisToDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

// containerDuration parses the container-level duration, falling back to the
// first audio stream's. Either may be absent.
func containerDuration(probed *ffprobe.Result) float64 {
	if sec, err := strconv.ParseFloat(probed.Format.Duration, 64); err == nil && sec > 0 {
		return sec
	}

	if stream := probed.FirstAudioStream(); stream != nil {
		if sec, err := strconv.ParseFloat(stream.Duration, 64); err == nil && sec > 0 {
			return sec
		}
	}

	return 0
}

func collectClips(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		if slices.Contains(clipExtensions, strings.ToLower(filepath.Ext(path))) {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(files)

	return files, nil
}

func compressFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // reading our own output file
	if err != nil {
		return err
	}

	gzFile, err := os.Create(path + ".gz")
	if err != nil {
		return err
	}
	defer gzFile.Close()

	gzWriter := gzip.NewWriter(gzFile)

	if _, err := gzWriter.Write(data); err != nil {
		return err
	}

	return gzWriter.Close()
}
