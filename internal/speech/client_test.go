package speech

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"
)

func writeAudioFixture(t *testing.T, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "meeting.wav")
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 251)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func newSpeechServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization header: %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if got := r.FormValue("model"); got != "whisper-1" {
			t.Errorf("model field: %q", got)
		}
		json.NewEncoder(w).Encode(Transcription{
			Text:     fmt.Sprintf("chunk %d text, off the record.", n),
			Language: "en",
			Duration: 30,
		})
	}))
}

func TestTranscribeChunksAndRedacts(t *testing.T) {
	var calls atomic.Int32
	server := newSpeechServer(t, &calls)
	defer server.Close()

	audio := writeAudioFixture(t, 2500)
	client := NewClient(Config{
		Endpoint:        server.URL,
		APIKey:          "test-key",
		Model:           "whisper-1",
		Timeout:         5 * time.Second,
		ChunkBytes:      1000,
		RestrictedTerms: []string{"off the record"},
	})

	result, err := client.Transcribe(context.Background(), audio)
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("2500 bytes at 1000 per chunk should take 3 uploads, got %d", got)
	}
	if result.Language != "en" {
		t.Fatalf("language: %q", result.Language)
	}
	if result.Duration != 90 {
		t.Fatalf("duration should sum across chunks: %v", result.Duration)
	}
	if strings.Contains(strings.ToLower(result.Text), "off the record") {
		t.Fatalf("restricted term leaked: %q", result.Text)
	}
	if !strings.Contains(result.Text, "[REDACTED]") {
		t.Fatalf("redaction marker missing: %q", result.Text)
	}
	if !strings.Contains(result.Text, "chunk 1 text") || !strings.Contains(result.Text, "chunk 3 text") {
		t.Fatalf("chunk texts not concatenated in order: %q", result.Text)
	}
}

func TestTranscribeSurfacesServiceErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(Config{Endpoint: server.URL, ChunkBytes: 1000, Timeout: time.Second})
	_, err := client.Transcribe(context.Background(), writeAudioFixture(t, 100))
	if err == nil {
		t.Fatalf("expected service error")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Fatalf("status code should surface in the error: %v", err)
	}
}

func TestTranscribeMissingFile(t *testing.T) {
	client := NewClient(Config{Endpoint: "http://127.0.0.1:0", ChunkBytes: 1000, Timeout: time.Second})
	if _, err := client.Transcribe(context.Background(), filepath.Join(t.TempDir(), "missing.wav")); err == nil {
		t.Fatalf("expected error for missing audio file")
	}
}

func TestAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
	}))
	client := NewClient(Config{Endpoint: server.URL, Timeout: time.Second})
	if !client.Available(context.Background()) {
		t.Fatalf("responding endpoint should count as available")
	}
	server.Close()
	if client.Available(context.Background()) {
		t.Fatalf("closed endpoint should be unavailable")
	}
}

func TestRedact(t *testing.T) {
	got := Redact("This is Confidential. Keep it OFF THE RECORD please.", []string{"confidential", "off the record"})
	want := "This is [REDACTED]. Keep it [REDACTED] please."
	if got != want {
		t.Fatalf("redact: got %q, want %q", got, want)
	}
	if out := Redact("nothing sensitive", nil); out != "nothing sensitive" {
		t.Fatalf("no-op redaction changed text: %q", out)
	}
}

func TestRedactAfterFoldLengthChangingRunes(t *testing.T) {
	// U+0130 grows from two bytes to three under ToLower, so any match
	// position derived from a folded copy of the text would be wrong.
	got := Redact("İİİİİİİİİİ confidential briefing", []string{"confidential"})
	want := "İİİİİİİİİİ [REDACTED] briefing"
	if got != want {
		t.Fatalf("redact: got %q, want %q", got, want)
	}
	if !utf8.ValidString(got) {
		t.Fatalf("redacted text contains invalid UTF-8: %q", got)
	}
	if strings.Contains(strings.ToLower(got), "nfidential") {
		t.Fatalf("part of the restricted term survived: %q", got)
	}
}
