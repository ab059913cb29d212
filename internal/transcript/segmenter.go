package transcript

import (
	"fmt"
	"strings"

	"github.com/meetingmind-ai/meetingmind/internal/common"
	"github.com/meetingmind-ai/meetingmind/internal/nlp"
)

const (
	// MinSegments and MaxSegments bound the dynamic segment count so short
	// meetings still get a few analysis units and marathon sessions do not
	// explode the completion-call volume.
	MinSegments = 4
	MaxSegments = 50

	wordsPerSegment = 150
	charsPerSegment = 1000

	// qualityWordThreshold flags segments too thin to analyze well. The
	// flag is a soft warning; thin segments are never dropped.
	qualityWordThreshold = 50
)

// SegmentResult carries the produced segments together with any soft
// warnings raised during partitioning.
type SegmentResult struct {
	Segments []Segment
	Warnings []string
}

// Split partitions the transcript into a dynamically sized sequence of
// contiguous segments. For non-empty input it never returns zero segments,
// and concatenating segment texts round-trips the transcript modulo
// whitespace.
func Split(text string) SegmentResult {
	logger := common.Logger()
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return SegmentResult{}
	}

	words := len(strings.Fields(trimmed))
	chars := len(trimmed)
	target := words / wordsPerSegment
	if byChars := chars / charsPerSegment; byChars > target {
		target = byChars
	}
	if target < MinSegments {
		target = MinSegments
	}
	if target > MaxSegments {
		target = MaxSegments
	}

	sentences := nlp.SplitSentences(trimmed)
	if len(sentences) == 0 {
		sentences = []nlp.Span{{Start: 0, End: len([]rune(trimmed)), Text: trimmed}}
	}
	if target > len(sentences) {
		target = len(sentences)
	}

	perGroup := len(sentences) / target
	if perGroup < 1 {
		perGroup = 1
	}

	var result SegmentResult
	for i := 0; i < target; i++ {
		start := i * perGroup
		end := start + perGroup
		if i == target-1 {
			end = len(sentences)
		}
		var parts []string
		for _, span := range sentences[start:end] {
			parts = append(parts, span.Text)
		}
		segText := strings.Join(parts, " ")
		seg := Segment{
			ID:        i,
			Text:      segText,
			WordCount: len(strings.Fields(segText)),
		}
		if seg.WordCount < qualityWordThreshold {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("segment %d below quality threshold (%d words)", seg.ID, seg.WordCount))
		}
		result.Segments = append(result.Segments, seg)
	}

	if len(result.Segments) < MinSegments {
		warning := fmt.Sprintf("only %d segments produced (minimum target %d); continuing", len(result.Segments), MinSegments)
		result.Warnings = append(result.Warnings, warning)
		logger.Warn("segmenter: low segment count", "segments", len(result.Segments), "minimum", MinSegments)
	}
	logger.Debug("segmenter: transcript partitioned", "segments", len(result.Segments), "words", words, "chars", chars)
	return result
}
