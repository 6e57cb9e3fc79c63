package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/syrinx/internal/integration/binary"
)

// Extract converts whatever audio input holds into raw mono 16-bit
// little-endian PCM at sampleRate, writing the bytes to output.
// Multi-channel sources are downmixed.
func Extract(ctx context.Context, input io.Reader, output io.Writer, sampleRate int) error {
	slog.Debug("ffmpeg.Extract", "sample rate", sampleRate, "stage", "start")

	ffmpegPath, err := binary.Resolve(name)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, ffmpegPath,
		"-i", "-",
		"-f", muxer,
		"-acodec", codec,
		"-ac", "1",
		"-ar", strconv.Itoa(sampleRate),
		"-v", "quiet",
		"-",
	)

	cmd.Stdout = output
	cmd.Stdin = input

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			slog.Debug("ffmpeg.Extract", "sample rate", sampleRate, "stage", "timeout")

			return fmt.Errorf("%w: after %v", fault.ErrTimeout, timeout)
		}

		slog.Debug("ffmpeg.Extract", "sample rate", sampleRate, "stage", "error")

		return fmt.Errorf("%w: %s: %w", fault.ErrCommandFailure, stderr.String(), err)
	}

	return nil
}
