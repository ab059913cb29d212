package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadOptionsEmptyPath(t *testing.T) {
	opts, err := LoadOptions("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	defaults := DefaultOptions()
	if opts.Workers != defaults.Workers || opts.RequestTimeout != defaults.RequestTimeout ||
		opts.SynthesisRetries != defaults.SynthesisRetries || opts.MinTranscriptWords != defaults.MinTranscriptWords {
		t.Fatalf("empty path should return defaults: %+v", opts)
	}
}

func TestLoadOptionsMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.yaml")
	payload := "workers: 8\nrequest_timeout: 10s\nrestricted_terms:\n  - codename apollo\n"
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write options: %v", err)
	}

	opts, err := LoadOptions(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if opts.Workers != 8 {
		t.Fatalf("workers: %d", opts.Workers)
	}
	if opts.RequestTimeout != 10*time.Second {
		t.Fatalf("request timeout: %v", opts.RequestTimeout)
	}
	if opts.SynthesisRetries != DefaultOptions().SynthesisRetries {
		t.Fatalf("unset fields should keep defaults: %+v", opts)
	}
	if len(opts.RestrictedTerms) != 1 || opts.RestrictedTerms[0] != "codename apollo" {
		t.Fatalf("restricted terms: %v", opts.RestrictedTerms)
	}
}

func TestLoadOptionsMissingFile(t *testing.T) {
	if _, err := LoadOptions(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing options file")
	}
}

func TestLoadOptionsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.yaml")
	if err := os.WriteFile(path, []byte("workers: [not a number"), 0o644); err != nil {
		t.Fatalf("write options: %v", err)
	}
	if _, err := LoadOptions(path); err == nil {
		t.Fatalf("expected error for malformed yaml")
	}
}
