package synthesis

import (
	"context"
	"fmt"
	"strings"

	"github.com/meetingmind-ai/meetingmind/internal/analysis"
	"github.com/meetingmind-ai/meetingmind/internal/common"
	"github.com/meetingmind-ai/meetingmind/internal/common/telemetry"
	"github.com/meetingmind-ai/meetingmind/internal/llm"
	"github.com/meetingmind-ai/meetingmind/internal/roster"
)

// DefaultMaxRetries is the number of additional completion requests allowed
// after the first attempt fails to parse.
const DefaultMaxRetries = 3

// Request carries everything the synthesis prompt needs.
type Request struct {
	Analyses     []analysis.SegmentAnalysis
	Insight      analysis.Insight
	Participants []roster.Participant
	NumWeeks     int
}

// Result is a successfully parsed synthesis outcome. GenerationAttempts
// counts completion requests including the successful one.
type Result struct {
	Document           Document
	GenerationAttempts int
	ValidationIssues   []string
}

// state machine for the request/parse/validate loop. Modeling the flow as
// explicit states keeps the dual-parser fallback and bounded retry readable.
type synthState int

const (
	stateRequesting synthState = iota
	stateParsing
	stateValidating
	stateRetrying
	stateSucceeded
	stateFailed
)

// Synthesizer issues the single large synthesis completion and shepherds the
// response through parsing and validation.
type Synthesizer struct {
	provider   llm.Provider
	maxRetries int
}

func NewSynthesizer(provider llm.Provider) *Synthesizer {
	return &Synthesizer{provider: provider, maxRetries: DefaultMaxRetries}
}

// WithMaxRetries overrides the retry budget.
func (s *Synthesizer) WithMaxRetries(n int) *Synthesizer {
	if n >= 0 {
		s.maxRetries = n
	}
	return s
}

// Synthesize runs the request/parse/validate state machine. Parsing failures
// consume the retry budget; validation findings never do, matching the soft
// check contract.
func (s *Synthesizer) Synthesize(ctx context.Context, req Request) (Result, error) {
	logger := common.Logger()
	messages := buildSynthesisMessages(req)

	var (
		result   Result
		raw      string
		lastErr  *ParseError
		attempts int
	)

	state := stateRequesting
	for state != stateSucceeded && state != stateFailed {
		switch state {
		case stateRequesting:
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
			attempts++
			telemetry.RecordSynthesisAttempt()
			logger.Info("synthesis: requesting completion", "attempt", attempts)
			resp, err := s.provider.Complete(ctx, messages)
			if err != nil {
				logger.Error("synthesis: completion request failed", "attempt", attempts, "error", err)
				if attempts > s.maxRetries {
					return Result{}, fmt.Errorf("synthesis completion failed after %d attempt(s): %w", attempts, err)
				}
				state = stateRetrying
				continue
			}
			raw = resp
			state = stateParsing
		case stateParsing:
			doc, err := parseDocument(raw)
			if err != nil {
				parseErr := err.(*ParseError)
				parseErr.Attempts = attempts
				lastErr = parseErr
				logger.Warn("synthesis: response unparseable", "attempt", attempts,
					"strict_error", parseErr.StrictErr, "lenient_error", parseErr.LenientErr)
				if attempts > s.maxRetries {
					state = stateFailed
					continue
				}
				state = stateRetrying
				continue
			}
			result.Document = doc
			state = stateValidating
		case stateValidating:
			result.ValidationIssues = Validate(result.Document, req.NumWeeks)
			state = stateSucceeded
		case stateRetrying:
			logger.Info("synthesis: retrying completion", "next_attempt", attempts+1, "budget", s.maxRetries)
			state = stateRequesting
		}
	}

	if state == stateFailed {
		return Result{}, lastErr
	}
	result.GenerationAttempts = attempts
	logger.Info("synthesis: document accepted",
		"attempts", attempts,
		"rocks", len(result.Document.Rocks),
		"todos", len(result.Document.Todos),
		"issues", len(result.Document.Issues),
		"validation_issues", len(result.ValidationIssues))
	return result, nil
}

const synthesisSystemPrompt = "You are the chief of staff consolidating a leadership meeting into an execution plan. Respond with a single JSON object and nothing else."

func buildSynthesisMessages(req Request) []llm.Message {
	builder := &strings.Builder{}

	builder.WriteString("Participant roster (the ONLY valid assignees; never assign work to anyone else):\n")
	builder.WriteString(roster.Table(req.Participants))
	builder.WriteString("\n\n")

	builder.WriteString(fmt.Sprintf("Planning horizon: %d weeks. Every rock must carry milestone entries for weeks 1 through %d.\n\n", req.NumWeeks, req.NumWeeks))

	if rendered := req.Insight.RenderContext(); rendered != "" {
		builder.WriteString("Aggregated meeting context:\n")
		builder.WriteString(rendered)
		builder.WriteString("\n\n")
	}

	builder.WriteString("Segment analyses, in meeting order:\n")
	for _, sa := range req.Analyses {
		builder.WriteString(fmt.Sprintf("--- segment %d ---\n%s\n", sa.SegmentID+1, strings.TrimSpace(sa.Narrative)))
	}
	builder.WriteString("\n")

	builder.WriteString(`Return one JSON object with this exact shape:
{
  "session_summary": "...",
  "issues": [{"issue": "...", "description": "...", "raised_by": "...", "linked_solution": "..."}],
  "runtime_solutions": [{"problem": "...", "solution": "...", "resolved_by": "..."}],
  "todos": [{"task": "...", "details": "...", "assigned_to": "...", "due_date": "..."}],
  "rocks": [{
    "smart_rock": "...",
    "rock_owner": "...",
    "designation": "...",
    "linked_issues": ["..."],
    "milestones": [{"week": 1, "milestones": ["..."]}]
  }]
}
Owners, assignees, and raisers must be names from the roster above.`)

	return []llm.Message{
		{Role: "system", Content: synthesisSystemPrompt},
		{Role: "user", Content: builder.String()},
	}
}
