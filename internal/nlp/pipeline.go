package nlp

import "context"

// Span is a sentence boundary within the analyzed text.
type Span struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// Entity is a typed named entity with character offsets.
type Entity struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
	Label string `json:"label"`
}

// Entity labels produced by the pipeline.
const (
	LabelPerson = "PERSON"
	LabelDate   = "DATE"
	LabelOrg    = "ORG"
)

// Result bundles sentence spans and named entities for one text.
type Result struct {
	Sentences []Span   `json:"sentences"`
	Entities  []Entity `json:"entities"`
}

// Pipeline is the linguistic analysis collaborator. Implementations must be
// safe for concurrent use; the entity extractor calls Analyze once per
// transcript segment.
type Pipeline interface {
	Analyze(ctx context.Context, text string) (Result, error)
}
