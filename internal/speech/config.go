package speech

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Endpoint string `json:"endpoint"`
	APIKey   string `json:"api_key"`
	Model    string `json:"model"`

	Timeout       time.Duration `json:"-"`
	TimeoutString string        `json:"timeout"`

	// ChunkBytes caps the size of a single upload; larger recordings are
	// split on byte boundaries and transcribed sequentially.
	ChunkBytes int64 `json:"chunk_bytes"`

	// RestrictedTerms are redacted from returned transcripts.
	RestrictedTerms []string `json:"restricted_terms"`
}

func DefaultConfig() Config {
	return Config{
		Endpoint:        "http://127.0.0.1:9000/v1/audio/transcriptions",
		Model:           "whisper-1",
		Timeout:         120 * time.Second,
		ChunkBytes:      24 << 20,
		RestrictedTerms: defaultRestrictedTerms(),
	}
}

// LoadConfig reads speech service settings from the environment, falling
// back to defaults for anything unset.
func LoadConfig() Config {
	cfg := DefaultConfig()
	if v := strings.TrimSpace(os.Getenv("SPEECH_ENDPOINT")); v != "" {
		cfg.Endpoint = v
	}
	if v := strings.TrimSpace(os.Getenv("SPEECH_API_KEY")); v != "" {
		cfg.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("SPEECH_MODEL")); v != "" {
		cfg.Model = v
	}
	if v := strings.TrimSpace(os.Getenv("SPEECH_TIMEOUT")); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if v := strings.TrimSpace(os.Getenv("SPEECH_CHUNK_BYTES")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.ChunkBytes = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("SPEECH_RESTRICTED_TERMS")); v != "" {
		var terms []string
		for _, term := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(term); trimmed != "" {
				terms = append(terms, trimmed)
			}
		}
		if len(terms) > 0 {
			cfg.RestrictedTerms = terms
		}
	}
	return cfg
}

func defaultRestrictedTerms() []string {
	return []string{"confidential", "off the record", "do not share"}
}
