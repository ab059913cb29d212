package telemetry

import (
	"expvar"
	"sync"
	"time"
)

var (
	initOnce sync.Once

	segmentsTotal       *expvar.Int
	segmentFailures     *expvar.Int
	completionLatencyMS *expvar.Int
	synthesisAttempts   *expvar.Int
	transcriptionChunks *expvar.Int
	artifactsTotal      *expvar.Map
)

func ensureInit() {
	initOnce.Do(func() {
		segmentsTotal = expvar.NewInt("meetingmind_segments_total")
		segmentFailures = expvar.NewInt("meetingmind_segment_failures_total")
		completionLatencyMS = expvar.NewInt("meetingmind_completion_latency_ms")
		synthesisAttempts = expvar.NewInt("meetingmind_synthesis_attempts_total")
		transcriptionChunks = expvar.NewInt("meetingmind_transcription_chunks_total")
		artifactsTotal = expvar.NewMap("meetingmind_artifacts_total")
	})
}

// RecordSegmentAnalysis tracks one per-segment completion and whether it
// degraded into a fallback result.
func RecordSegmentAnalysis(elapsed time.Duration, failed bool) {
	ensureInit()
	segmentsTotal.Add(1)
	completionLatencyMS.Add(elapsed.Milliseconds())
	if failed {
		segmentFailures.Add(1)
	}
}

// RecordSynthesisAttempt tracks one synthesis completion request, including
// retries after malformed output.
func RecordSynthesisAttempt() {
	ensureInit()
	synthesisAttempts.Add(1)
}

// RecordTranscriptionChunk tracks one audio chunk sent to the speech service.
func RecordTranscriptionChunk() {
	ensureInit()
	transcriptionChunks.Add(1)
}

// RecordArtifacts tracks produced artifacts by kind (rock, todo, issue,
// runtime_solution, task).
func RecordArtifacts(kind string, count int) {
	ensureInit()
	if count <= 0 {
		return
	}
	artifactsTotal.Add(kind, int64(count))
}
