//nolint:tagliatelle
package main

import "github.com/farcloser/syrinx"

// Record is a single line in the JSONL report file.
type Record struct {
	File        string                  `json:"file,omitempty"`
	DurationSec float64                 `json:"duration_sec,omitempty"`
	Capture     string                  `json:"capture,omitempty"`
	Metrics     *syrinx.DeliveryMetrics `json:"metrics,omitempty"`
	Fallback    bool                    `json:"fallback,omitempty"`
	Error       string                  `json:"error,omitempty"`
	Timing      *RecordTiming           `json:"timing,omitempty"`
}

// RecordTiming captures per-clip processing durations in milliseconds.
type RecordTiming struct {
	ProbeMs   float64 `json:"probe_ms"`
	DecodeMs  float64 `json:"decode_ms"`
	AnalyzeMs float64 `json:"analyze_ms"`
	TotalMs   float64 `json:"total_ms"`
}

// metricStats aggregates one metric's scores across a report for the digest.
type metricStats struct {
	Histogram [6]int // indexed by rounded score 1..5; slot 0 stays empty
	Count     int
	Sum       float64
	Min       float64
	Max       float64
	MinFile   string
}
