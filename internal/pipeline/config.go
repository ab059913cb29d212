package pipeline

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Options tune one pipeline run. Zero values fall back to defaults, so a
// partial YAML file or an empty struct both work.
type Options struct {
	Workers            int
	RequestTimeout     time.Duration
	SynthesisRetries   int
	MinTranscriptWords int
	RestrictedTerms    []string
}

const defaultMinTranscriptWords = 20

func DefaultOptions() Options {
	return Options{
		Workers:            4,
		RequestTimeout:     30 * time.Second,
		SynthesisRetries:   3,
		MinTranscriptWords: defaultMinTranscriptWords,
	}
}

// optionsFile is the on-disk shape. Durations are strings so the file can
// say "10s" rather than nanosecond counts.
type optionsFile struct {
	Workers            int      `yaml:"workers"`
	RequestTimeout     string   `yaml:"request_timeout"`
	SynthesisRetries   int      `yaml:"synthesis_retries"`
	MinTranscriptWords int      `yaml:"min_transcript_words"`
	RestrictedTerms    []string `yaml:"restricted_terms"`
}

// LoadOptions reads run options from a YAML file, merging over defaults.
// An empty path returns defaults.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return opts, nil
	}
	payload, err := os.ReadFile(trimmed)
	if err != nil {
		return opts, fmt.Errorf("read options file: %w", err)
	}
	var loaded optionsFile
	if err := yaml.Unmarshal(payload, &loaded); err != nil {
		return opts, fmt.Errorf("parse options file: %w", err)
	}
	if loaded.Workers > 0 {
		opts.Workers = loaded.Workers
	}
	if raw := strings.TrimSpace(loaded.RequestTimeout); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return opts, fmt.Errorf("parse request_timeout: %w", err)
		}
		if timeout > 0 {
			opts.RequestTimeout = timeout
		}
	}
	if loaded.SynthesisRetries > 0 {
		opts.SynthesisRetries = loaded.SynthesisRetries
	}
	if loaded.MinTranscriptWords > 0 {
		opts.MinTranscriptWords = loaded.MinTranscriptWords
	}
	if len(loaded.RestrictedTerms) > 0 {
		opts.RestrictedTerms = loaded.RestrictedTerms
	}
	return opts, nil
}
