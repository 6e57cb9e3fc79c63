package ffmpeg

// The rating pipeline consumes exactly one sample layout: 16-bit
// little-endian signed PCM, single channel. Whatever the container
// holds gets downmixed and resampled into it.
const (
	codec = "pcm_s16le"
	muxer = "s16le"
)
