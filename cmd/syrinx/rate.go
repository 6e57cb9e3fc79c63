//nolint:wrapcheck
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/syrinx"
	"github.com/farcloser/syrinx/internal/integration/ffmpeg"
	"github.com/farcloser/syrinx/internal/integration/ffprobe"
)

var (
	errRateArgs      = errors.New("expected exactly one argument: file path or \"-\" for stdin")
	errNoAudioStream = errors.New("no audio streams found")
)

func rateCommand() *cli.Command {
	return &cli.Command{
		Name:      "rate",
		Usage:     "Score the delivery of a speech clip",
		ArgsUsage: "<file | ->",
		Flags: []cli.Flag{
			// Metric selection.
			&cli.StringFlag{
				Name:    "metrics",
				Aliases: []string{"m"},
				Usage:   "Comma-separated metrics or presets: all, primary, derived, pace, volume, clarity, pauses, tonal-variation, confidence, enthusiasm",
				Value:   "all",
			},

			// Capture chain.
			&cli.StringFlag{
				Name:    "capture",
				Aliases: []string{"c"},
				Usage:   "Capture chain adjusting energy thresholds: studio, webcam, phone",
				Value:   "studio",
			},

			// Analysis knobs.
			&cli.StringFlag{
				Name:  "tuning",
				Usage: "YAML file overriding analysis knobs",
			},
			&cli.IntFlag{
				Name:    "sample-rate",
				Aliases: []string{"s"},
				Usage:   "Sample rate in Hz to analyze at (default: the capture preset's 44100)",
			},

			// Input handling.
			&cli.BoolFlag{
				Name:  "raw",
				Usage: "Treat input as raw mono 16-bit little-endian PCM (skip ffmpeg)",
			},

			// Output format.
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: console, json, markdown",
				Value:   "console",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"D"},
				Usage:   "Include all raw stage data in output",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errRateArgs, cmd.NArg())
			}

			metrics, err := syrinx.ParseMetrics(cmd.String("metrics"))
			if err != nil {
				return err
			}

			capture, err := syrinx.ParseCapture(cmd.String("capture"))
			if err != nil {
				return err
			}

			opts := syrinx.OptionsForCapture(capture)
			opts.Metrics = metrics

			if tuningPath := cmd.String("tuning"); tuningPath != "" {
				if err := applyTuning(&opts, tuningPath); err != nil {
					return err
				}
			}

			if sampleRate := cmd.Int("sample-rate"); sampleRate > 0 {
				opts.SampleRate = sampleRate
			}

			inputPath := cmd.Args().First()
			rawInput := cmd.Bool("raw")

			input, cleanup, err := openInput(inputPath)
			if err != nil {
				return err
			}
			defer cleanup()

			// Probe files before extraction; stdin and raw PCM have nothing to probe.
			var probed *ffprobe.Result

			if !rawInput && inputPath != "-" {
				probed, err = ffprobe.Probe(ctx, inputPath)
				if err != nil {
					return fmt.Errorf("probing file: %w", err)
				}

				if probed.FirstAudioStream() == nil {
					return fmt.Errorf("%s: %w", inputPath, errNoAudioStream)
				}
			}

			raw, err := readPCM(ctx, input, rawInput, opts.SampleRate)
			if err != nil {
				return err
			}

			report, err := syrinx.Evaluate(raw, opts)
			if err != nil {
				return fmt.Errorf("rating failed: %w", err)
			}

			return outputReport(inputPath, report, probed, cmd.String("format"), cmd.Bool("debug"))
		},
	}
}

func openInput(source string) (io.Reader, func(), error) {
	if source == "-" {
		return os.Stdin, func() {}, nil
	}

	file, err := os.Open(source) //nolint:gosec // CLI tool opens user-specified audio files
	if err != nil {
		return nil, func() {}, fmt.Errorf("cannot access %s: %w", source, err)
	}

	return file, func() { _ = file.Close() }, nil
}

// readPCM returns the raw sample bytes to rate: either the input verbatim
// (raw mode) or the input decoded through ffmpeg to mono s16le at sampleRate.
func readPCM(ctx context.Context, input io.Reader, rawInput bool, sampleRate int) ([]byte, error) {
	if rawInput {
		data, err := io.ReadAll(input)
		if err != nil {
			return nil, fmt.Errorf("reading input: %w", err)
		}

		return data, nil
	}

	var pcmBuf bytes.Buffer

	if err := ffmpeg.Extract(ctx, input, &pcmBuf, sampleRate); err != nil {
		return nil, fmt.Errorf("extracting PCM: %w", err)
	}

	return pcmBuf.Bytes(), nil
}
