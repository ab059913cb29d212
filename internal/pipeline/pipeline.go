package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/meetingmind-ai/meetingmind/internal/analysis"
	"github.com/meetingmind-ai/meetingmind/internal/artifact"
	"github.com/meetingmind-ai/meetingmind/internal/common"
	"github.com/meetingmind-ai/meetingmind/internal/llm"
	"github.com/meetingmind-ai/meetingmind/internal/nlp"
	"github.com/meetingmind-ai/meetingmind/internal/roster"
	"github.com/meetingmind-ai/meetingmind/internal/speech"
	"github.com/meetingmind-ai/meetingmind/internal/synthesis"
	"github.com/meetingmind-ai/meetingmind/internal/transcript"
)

// transcriptKeys are the recognized text fields of a transcript payload, in
// lookup order.
var transcriptKeys = []string{"full_transcript", "transcript", "content", "text"}

// Input is one meeting to process: either an audio path or a transcript
// payload, plus the planning horizon and roster.
type Input struct {
	AudioPath string
	Payload   map[string]any
	NumWeeks  int
	QuarterID string
	Roster    []roster.Participant
}

// Report is the outcome of one pipeline run. When Skipped is non-empty the
// run short-circuited before any external call and the batch is empty.
type Report struct {
	Batch              artifact.Batch
	Segments           int
	GenerationAttempts int
	ValidationIssues   []string
	Warnings           []string
	Skipped            string
	Language           string
	AudioDuration      float64
}

// Persister is the external persistence collaborator accepting the final
// artifact batch.
type Persister interface {
	SaveBatch(ctx context.Context, batch artifact.Batch) error
}

// Pipeline wires the full transcript-to-artifacts flow. All external
// clients are injected; each Run is a pure function of its input plus those
// collaborators, and runs share no mutable state.
type Pipeline struct {
	transcriber speech.Transcriber
	extractor   *transcript.Extractor
	analyzer    *analysis.Analyzer
	synthesizer *synthesis.Synthesizer
	persister   Persister
	opts        Options
}

// New builds a pipeline around the given completion provider. Optional
// collaborators default to local implementations.
func New(provider llm.Provider, opts Options) *Pipeline {
	defaults := DefaultOptions()
	if opts.Workers <= 0 {
		opts.Workers = defaults.Workers
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaults.RequestTimeout
	}
	if opts.SynthesisRetries <= 0 {
		opts.SynthesisRetries = defaults.SynthesisRetries
	}
	if opts.MinTranscriptWords <= 0 {
		opts.MinTranscriptWords = defaults.MinTranscriptWords
	}
	return &Pipeline{
		extractor: transcript.NewExtractor(nlp.NewRulePipeline()),
		analyzer: analysis.NewAnalyzer(provider).
			WithWorkers(opts.Workers).
			WithRequestTimeout(opts.RequestTimeout),
		synthesizer: synthesis.NewSynthesizer(provider).WithMaxRetries(opts.SynthesisRetries),
		opts:        opts,
	}
}

// WithTranscriber sets the speech-to-text collaborator for audio inputs.
func (p *Pipeline) WithTranscriber(t speech.Transcriber) *Pipeline {
	p.transcriber = t
	return p
}

// WithNLP replaces the linguistic pipeline implementation.
func (p *Pipeline) WithNLP(pipeline nlp.Pipeline) *Pipeline {
	p.extractor = transcript.NewExtractor(pipeline)
	return p
}

// WithPersister sets the persistence collaborator. Without one the batch is
// returned but not stored.
func (p *Pipeline) WithPersister(persister Persister) *Pipeline {
	p.persister = persister
	return p
}

// Run executes the full pipeline for one meeting.
func (p *Pipeline) Run(ctx context.Context, input Input) (Report, error) {
	logger := common.Logger()
	var report Report

	if input.NumWeeks <= 0 {
		return report, errors.New("num_weeks must be positive")
	}
	if strings.TrimSpace(input.QuarterID) == "" {
		return report, errors.New("quarter_id required")
	}

	text, err := p.resolveTranscript(ctx, input, &report)
	if err != nil {
		return report, err
	}

	// Insufficient input is an explicit empty result, not an error, and
	// short-circuits before any completion call.
	if words := len(strings.Fields(text)); words < p.opts.MinTranscriptWords {
		report.Skipped = fmt.Sprintf("transcript too short to analyze (%d words, need %d)", words, p.opts.MinTranscriptWords)
		logger.Info("pipeline: run skipped", "reason", report.Skipped)
		return report, nil
	}

	segResult := transcript.Split(text)
	report.Warnings = append(report.Warnings, segResult.Warnings...)
	report.Segments = len(segResult.Segments)

	segments := make([]transcript.Segment, 0, len(segResult.Segments))
	for _, seg := range segResult.Segments {
		enriched, err := p.extractor.Extract(ctx, seg)
		if err != nil {
			return report, fmt.Errorf("extract entities for segment %d: %w", seg.ID, err)
		}
		segments = append(segments, enriched)
	}

	analyses := p.analyzer.Analyze(ctx, segments)
	insight := analysis.Aggregate(segments, analyses)

	synthResult, err := p.synthesizer.Synthesize(ctx, synthesis.Request{
		Analyses:     analyses,
		Insight:      insight,
		Participants: input.Roster,
		NumWeeks:     input.NumWeeks,
	})
	if err != nil {
		return report, err
	}
	report.GenerationAttempts = synthResult.GenerationAttempts
	report.ValidationIssues = synthResult.ValidationIssues

	report.Batch = artifact.Parse(synthResult.Document, input.Roster, input.QuarterID)

	if p.persister != nil {
		if err := p.persister.SaveBatch(ctx, report.Batch); err != nil {
			// Persistence is downstream of the core: log, do not retry.
			// The recovery path is an idempotent re-run.
			logger.Error("pipeline: persistence failed", "error", err)
			report.Warnings = append(report.Warnings, fmt.Sprintf("persistence failed: %v", err))
		}
	}

	logger.Info("pipeline: run complete",
		"segments", report.Segments,
		"generation_attempts", report.GenerationAttempts,
		"warnings", len(report.Warnings))
	return report, nil
}

func (p *Pipeline) resolveTranscript(ctx context.Context, input Input, report *Report) (string, error) {
	if path := strings.TrimSpace(input.AudioPath); path != "" {
		if p.transcriber == nil {
			return "", errors.New("audio input provided but no transcriber configured")
		}
		result, err := p.transcriber.Transcribe(ctx, path)
		if err != nil {
			return "", fmt.Errorf("transcription: %w", err)
		}
		report.Language = result.Language
		report.AudioDuration = result.Duration
		return result.Text, nil
	}
	for _, key := range transcriptKeys {
		if value, ok := input.Payload[key]; ok {
			if text, ok := value.(string); ok && strings.TrimSpace(text) != "" {
				return speech.Redact(text, p.opts.RestrictedTerms), nil
			}
		}
	}
	return "", fmt.Errorf("no transcript found; payload must carry one of %s", strings.Join(transcriptKeys, ", "))
}
