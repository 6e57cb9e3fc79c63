// Package pcm decodes raw 16-bit little-endian PCM payloads into normalized
// sample buffers. It is the only stage that touches bytes; everything
// downstream works on floats.
package pcm

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/farcloser/syrinx/internal/analysis/shared"
	"github.com/farcloser/syrinx/internal/types"
)

// ErrDecode is returned for payloads that cannot be framed as 16-bit PCM:
// empty input, or a byte length that is not a multiple of the sample size.
var ErrDecode = errors.New("undecodable PCM payload")

// Decode interprets raw as consecutive signed 16-bit little-endian samples,
// normalized by 32768.0. The sample rate is supplied by configuration, not
// parsed from the payload — container handling is an upstream concern.
func Decode(raw []byte, sampleRate int) (*types.SampleBuffer, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrDecode)
	}

	if len(raw)%shared.BytesPerSample != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of samples", ErrDecode, len(raw))
	}

	samples := make([]float64, len(raw)/shared.BytesPerSample)

	for i := range samples {
		//nolint:gosec // two's complement conversion for signed PCM samples
		samples[i] = float64(int16(binary.LittleEndian.Uint16(raw[i*shared.BytesPerSample:]))) / shared.MaxValue16
	}

	return &types.SampleBuffer{
		Samples:    samples,
		SampleRate: sampleRate,
	}, nil
}
