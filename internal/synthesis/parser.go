package synthesis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tailscale/hujson"
)

// ParseError is the terminal failure returned after the retry budget is
// exhausted. It carries the raw model response and both parser errors so a
// failed run can be triaged offline.
type ParseError struct {
	Raw        string
	Attempts   int
	StrictErr  error
	LenientErr error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("synthesis response unparseable after %d attempt(s): strict: %v; lenient: %v",
		e.Attempts, e.StrictErr, e.LenientErr)
}

// parseDocument attempts a strict JSON decode first and falls back to a
// lenient pass that tolerates trailing commas, comments, and surrounding
// prose. Both errors are reported when neither succeeds.
func parseDocument(raw string) (Document, error) {
	payload := extractJSON(raw)

	var doc Document
	strictErr := json.Unmarshal([]byte(payload), &doc)
	if strictErr == nil {
		doc.Normalize()
		return doc, nil
	}

	standardized, lenientErr := hujson.Standardize([]byte(payload))
	if lenientErr == nil {
		lenientErr = json.Unmarshal(standardized, &doc)
	}
	if lenientErr == nil {
		doc.Normalize()
		return doc, nil
	}
	return Document{}, &ParseError{Raw: raw, StrictErr: strictErr, LenientErr: lenientErr}
}

// extractJSON trims code fences and surrounding prose down to the outermost
// JSON object. Models routinely wrap structured answers in markdown.
func extractJSON(raw string) string {
	text := strings.TrimSpace(raw)
	if idx := strings.Index(text, "```"); idx >= 0 {
		rest := text[idx+3:]
		rest = strings.TrimPrefix(rest, "json")
		if end := strings.Index(rest, "```"); end >= 0 {
			text = rest[:end]
		} else {
			text = rest
		}
		text = strings.TrimSpace(text)
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return text
}
