package transcript

import (
	"context"
	"strings"

	"github.com/meetingmind-ai/meetingmind/internal/common"
	"github.com/meetingmind-ai/meetingmind/internal/nlp"
)

// Marker vocabularies applied on top of the linguistic pipeline. The sets
// are closed; matching is case-insensitive substring per sentence.
var (
	deadlineMarkers   = []string{"by", "due", "deadline", "before"}
	riskMarkers       = []string{"risk", "blocker", "issue"}
	priorityMarkers   = []string{"urgent", "critical"}
	dependencyMarkers = []string{"depends on", "blocked by", "waiting on", "waiting for"}
	actionMarkers     = []string{"will", "need to", "needs to", "should", "take care of", "follow up", "to do", "action item"}
)

// Extractor classifies segment text into the fixed entity categories. It is
// a pure function of the segment text: no side effects, no network calls.
type Extractor struct {
	pipeline nlp.Pipeline
}

func NewExtractor(pipeline nlp.Pipeline) *Extractor {
	if pipeline == nil {
		pipeline = nlp.NewRulePipeline()
	}
	return &Extractor{pipeline: pipeline}
}

// Extract populates the segment's entity bag and returns the completed,
// immutable segment record.
func (e *Extractor) Extract(ctx context.Context, seg Segment) (Segment, error) {
	result, err := e.pipeline.Analyze(ctx, seg.Text)
	if err != nil {
		return seg, err
	}

	var entities EntitySet
	for _, entity := range result.Entities {
		switch entity.Label {
		case nlp.LabelPerson:
			entities.People = append(entities.People, entity.Text)
		case nlp.LabelDate:
			entities.Dates = append(entities.Dates, entity.Text)
		case nlp.LabelOrg:
			entities.Organizations = append(entities.Organizations, entity.Text)
		}
	}

	for _, sentence := range result.Sentences {
		lower := strings.ToLower(sentence.Text)
		if containsWordMarker(lower, deadlineMarkers) {
			entities.Deadlines = append(entities.Deadlines, sentence.Text)
		}
		if containsWordMarker(lower, riskMarkers) {
			entities.Risks = append(entities.Risks, sentence.Text)
		}
		if containsWordMarker(lower, priorityMarkers) {
			entities.Priorities = append(entities.Priorities, sentence.Text)
		}
		if containsPhraseMarker(lower, dependencyMarkers) {
			entities.Dependencies = append(entities.Dependencies, sentence.Text)
		}
		if containsPhraseMarker(lower, actionMarkers) {
			entities.ActionItems = append(entities.ActionItems, sentence.Text)
		}
		if phrase := leadNounPhrase(sentence.Text); phrase != "" {
			entities.KeyPhrases = append(entities.KeyPhrases, phrase)
		}
	}

	entities.People = dedupe(entities.People)
	entities.Dates = dedupe(entities.Dates)
	entities.Organizations = dedupe(entities.Organizations)
	entities.ActionItems = dedupe(entities.ActionItems)
	entities.KeyPhrases = dedupe(entities.KeyPhrases)
	entities.Risks = dedupe(entities.Risks)
	entities.Priorities = dedupe(entities.Priorities)
	entities.Deadlines = dedupe(entities.Deadlines)
	entities.Dependencies = dedupe(entities.Dependencies)

	seg.Entities = entities
	common.Logger().Debug("extractor: segment classified",
		"segment", seg.ID,
		"people", len(entities.People),
		"actions", len(entities.ActionItems),
		"risks", len(entities.Risks))
	return seg, nil
}

// containsWordMarker matches whole-word markers so "by" does not fire on
// "nearby".
func containsWordMarker(lower string, markers []string) bool {
	fields := strings.FieldsFunc(lower, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
	for _, field := range fields {
		for _, marker := range markers {
			if field == marker {
				return true
			}
		}
	}
	return false
}

func containsPhraseMarker(lower string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// leadNounPhrase approximates noun-phrase extraction by taking the span of
// words after a leading article up to the first verb-ish word.
func leadNounPhrase(sentence string) string {
	words := strings.Fields(sentence)
	if len(words) < 2 {
		return ""
	}
	start := 0
	switch strings.ToLower(strings.Trim(words[0], ".,;:!?")) {
	case "the", "a", "an", "our", "this", "that":
		start = 1
	}
	var phrase []string
	for _, word := range words[start:] {
		cleaned := strings.Trim(word, ".,;:!?'\"")
		lower := strings.ToLower(cleaned)
		if isVerblike(lower) {
			break
		}
		phrase = append(phrase, cleaned)
		if len(phrase) >= 4 {
			break
		}
	}
	if len(phrase) < 2 {
		return ""
	}
	return strings.Join(phrase, " ")
}

func isVerblike(lower string) bool {
	switch lower {
	case "is", "are", "was", "were", "will", "should", "needs", "need", "must", "has", "have", "can", "could":
		return true
	}
	return strings.HasSuffix(lower, "ed") || strings.HasSuffix(lower, "ing")
}

func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	ordered := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		ordered = append(ordered, trimmed)
	}
	return ordered
}
