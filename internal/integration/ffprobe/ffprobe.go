package ffprobe

import "time"

const (
	name = "ffprobe"
	// Probing is quick once the file is readable; the margin covers cold network mounts.
	timeout = 30 * time.Second
)
