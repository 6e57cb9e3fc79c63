package shared

const (
	// MaxValue16 is the normalization divisor for signed 16-bit PCM (2^15).
	MaxValue16 = 32768.0

	// BytesPerSample is the frame size of the 16-bit mono PCM this pipeline ingests.
	BytesPerSample = 2

	// Epsilon guards divisions and logarithms against degenerate (all-zero) input.
	Epsilon = 1e-10
)
