package nlp

import (
	"context"
	"strings"
	"unicode"
)

// RulePipeline is a deterministic, dependency-free Pipeline implementation.
// It detects sentence boundaries on terminal punctuation and classifies
// entities with capitalization and vocabulary heuristics. It stands in for
// an external NLP service the same way the local completion provider stands
// in for the model API.
type RulePipeline struct{}

func NewRulePipeline() *RulePipeline {
	return &RulePipeline{}
}

var monthNames = map[string]struct{}{
	"january": {}, "february": {}, "march": {}, "april": {}, "may": {},
	"june": {}, "july": {}, "august": {}, "september": {}, "october": {},
	"november": {}, "december": {},
}

var dayWords = map[string]struct{}{
	"monday": {}, "tuesday": {}, "wednesday": {}, "thursday": {},
	"friday": {}, "saturday": {}, "sunday": {}, "today": {},
	"tomorrow": {}, "yesterday": {}, "week": {}, "quarter": {}, "month": {},
}

var orgSuffixes = []string{"inc", "corp", "llc", "ltd", "team", "department", "dept", "group", "committee"}

// titleStopwords are capitalized words that start sentences or mark common
// phrases and must not seed a person entity.
var titleStopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "i": {}, "we": {}, "so": {}, "ok": {},
	"okay": {}, "and": {}, "but": {}, "if": {}, "then": {}, "that": {},
	"this": {}, "it": {}, "he": {}, "she": {}, "they": {}, "let": {},
	"also": {}, "next": {}, "our": {}, "my": {}, "your": {},
}

func (p *RulePipeline) Analyze(ctx context.Context, text string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	result := Result{Sentences: SplitSentences(text)}
	for _, sentence := range result.Sentences {
		result.Entities = append(result.Entities, extractEntities(sentence)...)
	}
	return result, nil
}

// SplitSentences performs sentence boundary detection on terminal
// punctuation, keeping character offsets into the original text.
func SplitSentences(text string) []Span {
	var spans []Span
	runes := []rune(text)
	start := 0
	flush := func(end int) {
		raw := string(runes[start:end])
		trimmed := strings.TrimSpace(raw)
		if trimmed != "" {
			lead := len([]rune(raw)) - len([]rune(strings.TrimLeft(raw, " \t\r\n")))
			spans = append(spans, Span{Start: start + lead, End: start + lead + len([]rune(trimmed)), Text: trimmed})
		}
		start = end
	}
	for i, r := range runes {
		if r == '.' || r == '!' || r == '?' || r == '\n' {
			flush(i + 1)
		}
	}
	if start < len(runes) {
		flush(len(runes))
	}
	return spans
}

func extractEntities(sentence Span) []Entity {
	var entities []Entity
	words := strings.Fields(sentence.Text)
	offset := sentence.Start
	// Track rune offset of each word within the sentence text.
	runes := []rune(sentence.Text)
	wordStarts := make([]int, 0, len(words))
	idx := 0
	for _, w := range words {
		for idx < len(runes) && unicode.IsSpace(runes[idx]) {
			idx++
		}
		wordStarts = append(wordStarts, idx)
		idx += len([]rune(w))
	}

	for i := 0; i < len(words); i++ {
		word := strings.Trim(words[i], ".,;:!?'\"()")
		if word == "" {
			continue
		}
		lower := strings.ToLower(word)
		if _, ok := monthNames[lower]; ok {
			entities = append(entities, Entity{
				Start: offset + wordStarts[i],
				End:   offset + wordStarts[i] + len([]rune(word)),
				Text:  word,
				Label: LabelDate,
			})
			continue
		}
		if _, ok := dayWords[lower]; ok {
			entities = append(entities, Entity{
				Start: offset + wordStarts[i],
				End:   offset + wordStarts[i] + len([]rune(word)),
				Text:  word,
				Label: LabelDate,
			})
			continue
		}
		if isOrgSuffix(lower) && i > 0 {
			prev := strings.Trim(words[i-1], ".,;:!?'\"()")
			if isCapitalized(prev) {
				text := prev + " " + word
				entities = append(entities, Entity{
					Start: offset + wordStarts[i-1],
					End:   offset + wordStarts[i-1] + len([]rune(text)),
					Text:  text,
					Label: LabelOrg,
				})
				continue
			}
		}
		if person, span := personCandidate(words, wordStarts, i); person != "" {
			entities = append(entities, Entity{
				Start: offset + wordStarts[i],
				End:   offset + wordStarts[i] + span,
				Text:  person,
				Label: LabelPerson,
			})
			i += strings.Count(person, " ")
		}
	}
	return entities
}

// personCandidate greedily consumes consecutive capitalized words that are
// not sentence-leading stopwords. Single capitalized words mid-sentence
// count; the sentence-initial word needs a capitalized follower.
func personCandidate(words []string, starts []int, i int) (string, int) {
	word := strings.Trim(words[i], ".,;:!?'\"()")
	if !isCapitalized(word) {
		return "", 0
	}
	if _, stop := titleStopwords[strings.ToLower(word)]; stop {
		return "", 0
	}
	parts := []string{word}
	for j := i + 1; j < len(words); j++ {
		next := strings.Trim(words[j], ".,;:!?'\"()")
		if !isCapitalized(next) {
			break
		}
		if _, stop := titleStopwords[strings.ToLower(next)]; stop {
			break
		}
		parts = append(parts, next)
	}
	if i == 0 && len(parts) < 2 {
		return "", 0
	}
	// A lone capitalized word heading an org suffix belongs to the org rule.
	if len(parts) == 1 && i+1 < len(words) {
		next := strings.ToLower(strings.Trim(words[i+1], ".,;:!?'\"()"))
		if isOrgSuffix(next) {
			return "", 0
		}
	}
	candidate := strings.Join(parts, " ")
	return candidate, len([]rune(candidate))
}

func isCapitalized(word string) bool {
	if word == "" {
		return false
	}
	runes := []rune(word)
	if !unicode.IsUpper(runes[0]) {
		return false
	}
	for _, r := range runes[1:] {
		if unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func isOrgSuffix(lower string) bool {
	for _, suffix := range orgSuffixes {
		if lower == suffix {
			return true
		}
	}
	return false
}
