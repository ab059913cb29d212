package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/meetingmind-ai/meetingmind/internal/artifact"
	"github.com/meetingmind-ai/meetingmind/internal/llm"
	"github.com/meetingmind-ai/meetingmind/internal/roster"
	"github.com/meetingmind-ai/meetingmind/internal/speech"
)

const planJSON = `{
  "session_summary": "Quarterly planning recap.",
  "issues": [{"issue": "Hiring lag", "description": "Two open reqs", "raised_by": "Maria Chen", "linked_solution": ""}],
  "runtime_solutions": [{"problem": "Flaky deploys", "solution": "Pin the runner image", "resolved_by": "Devon Park"}],
  "todos": [{"task": "Draft summary", "details": "", "assigned_to": "Maria Chen", "due_date": "Friday"}],
  "rocks": [{
    "smart_rock": "Ship the platform migration",
    "rock_owner": "Devon Park",
    "designation": "Platform Lead",
    "linked_issues": ["Hiring lag"],
    "milestones": [{"week": 1, "milestones": ["kickoff"]}, {"week": 2, "milestones": ["cutover"]}]
  }]
}`

// routingProvider answers segment-analysis prompts with prose and the final
// synthesis prompt with the structured plan, recording every prompt seen.
type routingProvider struct {
	mu      sync.Mutex
	prompts []string
}

func (p *routingProvider) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	p.mu.Lock()
	for _, m := range messages {
		p.prompts = append(p.prompts, m.Content)
	}
	p.mu.Unlock()
	if strings.Contains(messages[0].Content, "chief of staff") {
		return planJSON, nil
	}
	return "The group reviewed migration progress and confirmed owners.", nil
}

func (p *routingProvider) Name() string { return "routing" }

func (p *routingProvider) sawPrompt(substr string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, prompt := range p.prompts {
		if strings.Contains(prompt, substr) {
			return true
		}
	}
	return false
}

type recordingPersister struct {
	batches []artifact.Batch
	err     error
}

func (r *recordingPersister) SaveBatch(ctx context.Context, batch artifact.Batch) error {
	if r.err != nil {
		return r.err
	}
	r.batches = append(r.batches, batch)
	return nil
}

type fakeTranscriber struct {
	text string
	err  error
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audioPath string) (speech.Transcription, error) {
	if f.err != nil {
		return speech.Transcription{}, f.err
	}
	return speech.Transcription{Text: f.text, Language: "en", Duration: 1800}, nil
}

func testInput() Input {
	sentences := []string{
		"Maria Chen opened the session with the quarterly roadmap and priorities.",
		"Devon Park walked through the platform migration plan for the quarter.",
		"The group agreed hiring remains the biggest risk for delivery.",
		"Devon Park will own the migration rock through the next twelve weeks.",
		"Maria Chen will draft the summary and send it by Friday.",
	}
	return Input{
		Payload:   map[string]any{"full_transcript": strings.Join(sentences, " ")},
		NumWeeks:  2,
		QuarterID: "2026-Q3",
		Roster: []roster.Participant{
			{EmployeeID: "e1", FullName: "Maria Chen", Designation: "COO"},
			{EmployeeID: "e2", FullName: "Devon Park", Designation: "Platform Lead"},
		},
	}
}

func TestRunEndToEnd(t *testing.T) {
	provider := &routingProvider{}
	persister := &recordingPersister{}
	p := New(provider, DefaultOptions()).WithPersister(persister)

	report, err := p.Run(context.Background(), testInput())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Skipped != "" {
		t.Fatalf("run unexpectedly skipped: %s", report.Skipped)
	}
	if report.Segments == 0 {
		t.Fatalf("report should carry the segment count")
	}
	if report.GenerationAttempts != 1 {
		t.Fatalf("generation attempts: %d", report.GenerationAttempts)
	}
	if len(report.Batch.Rocks) != 1 || report.Batch.Rocks[0].OwnerID != "e2" {
		t.Fatalf("rock resolution: %+v", report.Batch.Rocks)
	}
	if len(report.Batch.Tasks) != 2 {
		t.Fatalf("milestones should flatten into tasks: %+v", report.Batch.Tasks)
	}
	if len(persister.batches) != 1 {
		t.Fatalf("batch should be persisted once, got %d", len(persister.batches))
	}
}

func TestRunSkipsShortTranscript(t *testing.T) {
	provider := &routingProvider{}
	p := New(provider, DefaultOptions())

	input := testInput()
	input.Payload = map[string]any{"transcript": "Nothing was discussed."}
	report, err := p.Run(context.Background(), input)
	if err != nil {
		t.Fatalf("short input is not an error: %v", err)
	}
	if report.Skipped == "" {
		t.Fatalf("expected skip reason")
	}
	if !report.Batch.Empty() {
		t.Fatalf("skipped run must not produce artifacts: %+v", report.Batch)
	}
	if len(provider.prompts) != 0 {
		t.Fatalf("skipped run must not call the model")
	}
}

func TestRunValidatesInput(t *testing.T) {
	p := New(&routingProvider{}, DefaultOptions())

	input := testInput()
	input.NumWeeks = 0
	if _, err := p.Run(context.Background(), input); err == nil {
		t.Fatalf("expected error for missing planning horizon")
	}

	input = testInput()
	input.QuarterID = "  "
	if _, err := p.Run(context.Background(), input); err == nil {
		t.Fatalf("expected error for missing quarter id")
	}

	input = testInput()
	input.Payload = map[string]any{"notes": "wrong key"}
	if _, err := p.Run(context.Background(), input); err == nil {
		t.Fatalf("expected error when no transcript key is present")
	}
}

func TestRunPrefersFullTranscriptKey(t *testing.T) {
	provider := &routingProvider{}
	p := New(provider, DefaultOptions())

	input := testInput()
	full := input.Payload["full_transcript"]
	input.Payload = map[string]any{
		"text":            "short decoy text",
		"full_transcript": full,
	}
	report, err := p.Run(context.Background(), input)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Skipped != "" {
		t.Fatalf("full_transcript should win over the shorter text key: %s", report.Skipped)
	}
	if provider.sawPrompt("short decoy text") {
		t.Fatalf("lower-priority key leaked into prompts")
	}
}

func TestRunRedactsPayloadTranscript(t *testing.T) {
	provider := &routingProvider{}
	opts := DefaultOptions()
	opts.RestrictedTerms = []string{"off the record"}
	p := New(provider, opts)

	input := testInput()
	text := input.Payload["full_transcript"].(string) + " Keep the budget numbers off the record for now."
	input.Payload = map[string]any{"full_transcript": text}

	if _, err := p.Run(context.Background(), input); err != nil {
		t.Fatalf("run: %v", err)
	}
	if provider.sawPrompt("off the record") {
		t.Fatalf("restricted term leaked into a model prompt")
	}
	if !provider.sawPrompt("[REDACTED]") {
		t.Fatalf("redaction marker should flow through to prompts")
	}
}

func TestRunAudioInput(t *testing.T) {
	provider := &routingProvider{}
	transcript := testInput().Payload["full_transcript"].(string)
	p := New(provider, DefaultOptions()).WithTranscriber(&fakeTranscriber{text: transcript})

	input := testInput()
	input.Payload = nil
	input.AudioPath = "/recordings/meeting.wav"
	report, err := p.Run(context.Background(), input)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Language != "en" || report.AudioDuration != 1800 {
		t.Fatalf("transcription metadata lost: %+v", report)
	}
}

func TestRunAudioWithoutTranscriber(t *testing.T) {
	p := New(&routingProvider{}, DefaultOptions())
	input := testInput()
	input.Payload = nil
	input.AudioPath = "/recordings/meeting.wav"
	if _, err := p.Run(context.Background(), input); err == nil {
		t.Fatalf("expected error when audio input has no transcriber")
	}
}

func TestRunPersistenceFailureIsWarning(t *testing.T) {
	provider := &routingProvider{}
	persister := &recordingPersister{err: errors.New("disk full")}
	p := New(provider, DefaultOptions()).WithPersister(persister)

	report, err := p.Run(context.Background(), testInput())
	if err != nil {
		t.Fatalf("persistence failure must not fail the run: %v", err)
	}
	var sawWarning bool
	for _, warning := range report.Warnings {
		if strings.Contains(warning, "persistence failed") {
			sawWarning = true
		}
	}
	if !sawWarning {
		t.Fatalf("expected persistence warning: %v", report.Warnings)
	}
}
