package ffmpeg

import "time"

const (
	name = "ffmpeg"
	// Decoding a long recording off a cold network mount is the slow case.
	timeout = 120 * time.Second
)
