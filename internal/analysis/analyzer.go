package analysis

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/meetingmind-ai/meetingmind/internal/common"
	"github.com/meetingmind-ai/meetingmind/internal/common/telemetry"
	"github.com/meetingmind-ai/meetingmind/internal/llm"
	"github.com/meetingmind-ai/meetingmind/internal/transcript"
)

// SegmentAnalysis is the one-to-one companion of a transcript segment. The
// narrative is unparsed model prose used only as synthesis context; the
// entity lists are carried from deterministic extraction so a degraded
// analysis still contributes known facts.
type SegmentAnalysis struct {
	SegmentID     int      `json:"segment_id"`
	Narrative     string   `json:"analysis_text"`
	People        []string `json:"people"`
	Dates         []string `json:"dates"`
	Organizations []string `json:"organizations"`
	ActionItems   []string `json:"action_items"`
	Degraded      bool     `json:"degraded,omitempty"`
}

const (
	defaultWorkers        = 4
	defaultRequestTimeout = 30 * time.Second
)

// Analyzer fans one completion request per segment out over a bounded
// worker pool.
type Analyzer struct {
	provider       llm.Provider
	workers        int
	requestTimeout time.Duration
}

func NewAnalyzer(provider llm.Provider) *Analyzer {
	return &Analyzer{
		provider:       provider,
		workers:        defaultWorkers,
		requestTimeout: defaultRequestTimeout,
	}
}

// WithWorkers overrides the fan-out width.
func (a *Analyzer) WithWorkers(n int) *Analyzer {
	if n > 0 {
		a.workers = n
	}
	return a
}

// WithRequestTimeout overrides the per-segment completion timeout.
func (a *Analyzer) WithRequestTimeout(d time.Duration) *Analyzer {
	if d > 0 {
		a.requestTimeout = d
	}
	return a
}

// Analyze issues one completion per segment concurrently and returns exactly
// one analysis per input segment, ordered by segment ID. A failed request
// never aborts the batch: the affected slot degrades into a record carrying
// the error text as its narrative plus the already-known entities.
func (a *Analyzer) Analyze(ctx context.Context, segments []transcript.Segment) []SegmentAnalysis {
	logger := common.Logger()
	if len(segments) == 0 {
		return nil
	}

	type job struct {
		index   int
		segment transcript.Segment
	}
	type outcome struct {
		index    int
		analysis SegmentAnalysis
	}

	workerCount := a.workers
	if workerCount > len(segments) {
		workerCount = len(segments)
	}
	logger.Info("analyzer: dispatching segment analyses", "segments", len(segments), "workers", workerCount)

	jobCh := make(chan job)
	results := make(chan outcome, len(segments))
	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobCh {
				results <- outcome{index: j.index, analysis: a.analyzeOne(ctx, j.segment)}
			}
		}()
	}
	go func() {
		for idx, seg := range segments {
			jobCh <- job{index: idx, segment: seg}
		}
		close(jobCh)
		wg.Wait()
		close(results)
	}()

	// Result ordering is by segment index, not completion time; downstream
	// aggregation depends on it.
	analyses := make([]SegmentAnalysis, len(segments))
	for res := range results {
		analyses[res.index] = res.analysis
	}
	return analyses
}

func (a *Analyzer) analyzeOne(ctx context.Context, seg transcript.Segment) SegmentAnalysis {
	logger := common.Logger()
	analysis := SegmentAnalysis{
		SegmentID:     seg.ID,
		People:        seg.Entities.People,
		Dates:         seg.Entities.Dates,
		Organizations: seg.Entities.Organizations,
		ActionItems:   seg.Entities.ActionItems,
	}

	started := time.Now()
	childCtx, cancel := context.WithTimeout(ctx, a.requestTimeout)
	resp, err := a.provider.Complete(childCtx, buildSegmentMessages(seg))
	cancel()
	telemetry.RecordSegmentAnalysis(time.Since(started), err != nil)
	if err != nil {
		logger.Error("analyzer: segment completion failed", "segment", seg.ID, "error", err)
		analysis.Narrative = fmt.Sprintf("analysis unavailable for segment %d: %v", seg.ID, err)
		analysis.Degraded = true
		return analysis
	}
	analysis.Narrative = strings.TrimSpace(resp)
	return analysis
}
