package transcript

// EntitySet is the structured bag of candidates extracted from one segment.
// All lists are deduplicated, order-preserving.
type EntitySet struct {
	People        []string `json:"people"`
	Dates         []string `json:"dates"`
	Organizations []string `json:"organizations"`
	ActionItems   []string `json:"action_items"`
	KeyPhrases    []string `json:"key_phrases"`
	Risks         []string `json:"risks"`
	Priorities    []string `json:"priorities"`
	Deadlines     []string `json:"deadlines"`
	Dependencies  []string `json:"dependencies"`
}

// Segment is one contiguous slice of transcript text processed as a single
// analysis unit. Segments are immutable once produced and their order
// matches the chronological order of the meeting; week and timeline
// inference downstream depends on that ordering.
type Segment struct {
	ID        int       `json:"segment_id"`
	Text      string    `json:"text"`
	WordCount int       `json:"word_count"`
	Entities  EntitySet `json:"entities"`
}
