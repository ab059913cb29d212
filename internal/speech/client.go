package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/meetingmind-ai/meetingmind/internal/common"
	"github.com/meetingmind-ai/meetingmind/internal/common/telemetry"
)

// Transcription is the speech service response for one audio chunk.
type Transcription struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
}

// Transcriber converts recorded audio into redacted transcript text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (Transcription, error)
}

// Client posts audio chunks to a Whisper-compatible transcription endpoint.
type Client struct {
	httpClient *http.Client
	cfg        Config
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.ChunkBytes <= 0 {
		cfg.ChunkBytes = DefaultConfig().ChunkBytes
	}
	common.Logger().Info("speech: client configured", "endpoint", cfg.Endpoint, "model", cfg.Model, "chunk_bytes", cfg.ChunkBytes)
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
	}
}

// Available reports whether the speech endpoint answers at all. Any HTTP
// response counts; the runner uses this to fail fast before uploading a
// large recording.
func (c *Client) Available(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.cfg.Endpoint, nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}

// Transcribe splits the recording into upload-sized chunks, transcribes each
// in order, and returns the concatenated, redacted text. Duration is summed
// across chunks; the language of the first chunk wins.
func (c *Client) Transcribe(ctx context.Context, audioPath string) (Transcription, error) {
	logger := common.Logger()
	file, err := os.Open(audioPath)
	if err != nil {
		return Transcription{}, fmt.Errorf("open audio: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return Transcription{}, fmt.Errorf("stat audio: %w", err)
	}
	logger.Info("speech: transcribing recording", "path", audioPath, "bytes", info.Size())

	var combined Transcription
	var parts []string
	chunkIndex := 0
	for {
		if err := ctx.Err(); err != nil {
			return Transcription{}, err
		}
		chunk := make([]byte, c.cfg.ChunkBytes)
		n, readErr := io.ReadFull(file, chunk)
		if readErr == io.EOF {
			break
		}
		if readErr != nil && readErr != io.ErrUnexpectedEOF {
			return Transcription{}, fmt.Errorf("read audio chunk %d: %w", chunkIndex, readErr)
		}
		result, err := c.transcribeChunk(ctx, filepath.Base(audioPath), chunkIndex, chunk[:n])
		if err != nil {
			return Transcription{}, fmt.Errorf("transcribe chunk %d: %w", chunkIndex, err)
		}
		telemetry.RecordTranscriptionChunk()
		if combined.Language == "" {
			combined.Language = result.Language
		}
		combined.Duration += result.Duration
		if trimmed := strings.TrimSpace(result.Text); trimmed != "" {
			parts = append(parts, trimmed)
		}
		chunkIndex++
		if readErr == io.ErrUnexpectedEOF {
			break
		}
	}
	combined.Text = Redact(strings.Join(parts, " "), c.cfg.RestrictedTerms)
	logger.Info("speech: transcription complete", "chunks", chunkIndex, "duration", combined.Duration)
	return combined, nil
}

func (c *Client) transcribeChunk(ctx context.Context, name string, index int, data []byte) (Transcription, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", fmt.Sprintf("%s.part%d", name, index))
	if err != nil {
		return Transcription{}, fmt.Errorf("build upload: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return Transcription{}, fmt.Errorf("write upload: %w", err)
	}
	if c.cfg.Model != "" {
		if err := writer.WriteField("model", c.cfg.Model); err != nil {
			return Transcription{}, fmt.Errorf("write model field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return Transcription{}, fmt.Errorf("finalize upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, body)
	if err != nil {
		return Transcription{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Transcription{}, err
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return Transcription{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Transcription{}, fmt.Errorf("speech service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}
	var result Transcription
	if err := json.Unmarshal(payload, &result); err != nil {
		return Transcription{}, fmt.Errorf("decode response: %w", err)
	}
	return result, nil
}

// Redact replaces case-insensitive occurrences of the restricted terms with
// a fixed marker.
func Redact(text string, terms []string) string {
	if text == "" || len(terms) == 0 {
		return text
	}
	for _, term := range terms {
		trimmed := strings.TrimSpace(term)
		if trimmed == "" {
			continue
		}
		text = replaceFold(text, trimmed, "[REDACTED]")
	}
	return text
}

// replaceFold replaces case-insensitive occurrences of term, comparing rune
// by rune. Folding is never applied to the whole text at once: some runes
// change byte length under case conversion, which would shift every
// subsequent match position.
func replaceFold(text, term, marker string) string {
	termRunes := []rune(term)
	if len(termRunes) == 0 {
		return text
	}
	runes := []rune(text)
	starts := make([]int, len(runes)+1)
	pos := 0
	for i, r := range runes {
		starts[i] = pos
		pos += utf8.RuneLen(r)
	}
	starts[len(runes)] = pos

	var builder strings.Builder
	last := 0
	for i := 0; i+len(termRunes) <= len(runes); {
		if !runesMatchFold(runes[i:i+len(termRunes)], termRunes) {
			i++
			continue
		}
		builder.WriteString(text[last:starts[i]])
		builder.WriteString(marker)
		i += len(termRunes)
		last = starts[i]
	}
	builder.WriteString(text[last:])
	return builder.String()
}

func runesMatchFold(window, term []rune) bool {
	for i, tr := range term {
		if !runeEqualFold(window[i], tr) {
			return false
		}
	}
	return true
}

// runeEqualFold mirrors strings.EqualFold's simple-folding comparison for a
// single rune pair.
func runeEqualFold(a, b rune) bool {
	if a == b {
		return true
	}
	for r := unicode.SimpleFold(a); r != a; r = unicode.SimpleFold(r) {
		if r == b {
			return true
		}
	}
	return false
}
