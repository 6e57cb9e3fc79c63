//nolint:tagliatelle
package ffprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/syrinx/internal/integration/binary"
)

// Result contains the marshalled output of ffprobe.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream holds the per-stream properties the rating pipeline cares about.
// ffprobe reports most numeric values as strings; they stay strings here
// and get parsed where consumed.
type Stream struct {
	Index         int    `json:"index"`
	CodecName     string `json:"codec_name"`               // opus
	CodecType     string `json:"codec_type"`               // audio
	SampleRate    string `json:"sample_rate,omitempty"`    // 48000
	Channels      int    `json:"channels,omitempty"`       // 1
	ChannelLayout string `json:"channel_layout,omitempty"` // mono
	Duration      string `json:"duration,omitempty"`       // 92.416000
	BitRate       string `json:"bit_rate,omitempty"`       // 24000
}

// Format holds container-level properties. The container duration is more
// reliable than per-stream durations for formats that omit the latter
// (webm/opus recorders in particular).
type Format struct {
	Filename   string `json:"filename"`
	NbStreams  int    `json:"nb_streams"`
	FormatName string `json:"format_name"`        // matroska,webm
	Duration   string `json:"duration,omitempty"` // 92.441000
	Size       string `json:"size,omitempty"`     // 287491
	BitRate    string `json:"bit_rate,omitempty"` // 24883
}

// FirstAudioStream returns the first stream with codec type audio, or nil.
func (r *Result) FirstAudioStream() *Stream {
	for i := range r.Streams {
		if r.Streams[i].CodecType == "audio" {
			return &r.Streams[i]
		}
	}

	return nil
}

// Probe runs ffprobe on the given file path and returns parsed metadata.
// It requires ffprobe to be available in the system PATH.
func Probe(ctx context.Context, filePath string) (*Result, error) {
	slog.Debug("ffprobe.Probe", "file path", filePath)

	ffprobePath, err := binary.Resolve(name)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	//nolint:gosec // filePath is intentionally user-provided input for probing media files
	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		filePath,
	)

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: after %v", fault.ErrTimeout, timeout)
		}

		return nil, fmt.Errorf("%w: %s: %w", fault.ErrCommandFailure, stderr.String(), err)
	}

	var result Result
	if err = json.Unmarshal(output, &result); err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrInvalidJSON, err)
	}

	return &result, nil
}
