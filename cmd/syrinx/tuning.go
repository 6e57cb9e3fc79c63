package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/farcloser/syrinx"
)

// tuningFile mirrors the analysis knobs of syrinx.Options. Absent or
// zero-valued fields keep the capture preset's value.
type tuningFile struct {
	SampleRate             int     `yaml:"sample_rate"`
	SpeechWindowMs         int     `yaml:"speech_window_ms"`
	SpeechEnergyThreshold  float64 `yaml:"speech_energy_threshold"`
	SilenceWindowMs        int     `yaml:"silence_window_ms"`
	SilenceEnergyThreshold float64 `yaml:"silence_energy_threshold"`
	SilenceMinDurationSec  float64 `yaml:"silence_min_duration_sec"`
	SpectrumMaxSamples     int     `yaml:"spectrum_max_samples"`
	PitchWindowMs          int     `yaml:"pitch_window_ms"`
	PitchMinHz             float64 `yaml:"pitch_min_hz"`
	PitchMaxHz             float64 `yaml:"pitch_max_hz"`
}

func applyTuning(opts *syrinx.Options, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified tuning files
	if err != nil {
		return fmt.Errorf("reading tuning file: %w", err)
	}

	var knobs tuningFile
	if err := yaml.Unmarshal(data, &knobs); err != nil {
		return fmt.Errorf("parsing tuning file: %w", err)
	}

	if knobs.SampleRate > 0 {
		opts.SampleRate = knobs.SampleRate
	}

	if knobs.SpeechWindowMs > 0 {
		opts.SpeechWindowMs = knobs.SpeechWindowMs
	}

	if knobs.SpeechEnergyThreshold > 0 {
		opts.SpeechEnergyThreshold = knobs.SpeechEnergyThreshold
	}

	if knobs.SilenceWindowMs > 0 {
		opts.SilenceWindowMs = knobs.SilenceWindowMs
	}

	if knobs.SilenceEnergyThreshold > 0 {
		opts.SilenceEnergyThreshold = knobs.SilenceEnergyThreshold
	}

	if knobs.SilenceMinDurationSec > 0 {
		opts.SilenceMinDurationSec = knobs.SilenceMinDurationSec
	}

	if knobs.SpectrumMaxSamples > 0 {
		opts.SpectrumMaxSamples = knobs.SpectrumMaxSamples
	}

	if knobs.PitchWindowMs > 0 {
		opts.PitchWindowMs = knobs.PitchWindowMs
	}

	if knobs.PitchMinHz > 0 {
		opts.PitchMinHz = knobs.PitchMinHz
	}

	if knobs.PitchMaxHz > 0 {
		opts.PitchMaxHz = knobs.PitchMaxHz
	}

	return nil
}
