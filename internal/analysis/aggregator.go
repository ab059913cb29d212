package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/meetingmind-ai/meetingmind/internal/common"
	"github.com/meetingmind-ai/meetingmind/internal/transcript"
)

// Contribution records one segment's worth of involvement for a person.
type Contribution struct {
	SegmentID   int      `json:"segment_id"`
	Context     string   `json:"context"`
	ActionItems []string `json:"action_items"`
}

// Insight is the merged cross-segment view used to ground the synthesis
// prompt. It is computed, consumed, and discarded within one pipeline run.
type Insight struct {
	StrategicInitiatives    []string
	OperationalImprovements []string
	TechnologyInitiatives   []string
	CrossFunctionalProjects []string

	Contributions map[string][]Contribution

	Themes     []string
	Complexity []string
}

var (
	strategicWords   = []string{"strategy", "strategic", "roadmap", "vision", "growth", "quarter", "objective", "goal"}
	operationalWords = []string{"process", "workflow", "efficiency", "operations", "procedure", "onboarding", "hiring"}
	technologyWords  = []string{"system", "platform", "software", "infrastructure", "migration", "deploy", "automation", "integration", "api"}
	crossFuncWords   = []string{"marketing", "sales", "finance", "engineering", "support", "legal", "across teams", "cross-functional"}
)

// Aggregate merges all segment analyses into one Insight. Segments and
// analyses are index-aligned; the analyzer guarantees one analysis per
// segment in order.
func Aggregate(segments []transcript.Segment, analyses []SegmentAnalysis) Insight {
	insight := Insight{Contributions: make(map[string][]Contribution)}
	themeCounts := make(map[string]int)

	for i, sa := range analyses {
		lower := strings.ToLower(sa.Narrative)
		for _, item := range sa.ActionItems {
			lower += " " + strings.ToLower(item)
		}

		if hits := matchAny(lower, strategicWords); len(hits) > 0 {
			insight.StrategicInitiatives = appendBucket(insight.StrategicInitiatives, sa, hits)
		}
		if hits := matchAny(lower, operationalWords); len(hits) > 0 {
			insight.OperationalImprovements = appendBucket(insight.OperationalImprovements, sa, hits)
		}
		if hits := matchAny(lower, technologyWords); len(hits) > 0 {
			insight.TechnologyInitiatives = appendBucket(insight.TechnologyInitiatives, sa, hits)
		}
		if hits := matchAny(lower, crossFuncWords); len(hits) > 0 {
			insight.CrossFunctionalProjects = appendBucket(insight.CrossFunctionalProjects, sa, hits)
		}
		for _, hit := range matchAny(lower, strategicWords) {
			themeCounts[hit]++
		}
		for _, hit := range matchAny(lower, technologyWords) {
			themeCounts[hit]++
		}

		contextText := sa.Narrative
		if i < len(segments) {
			if summary := firstSentence(segments[i].Text); summary != "" {
				contextText = summary
			}
		}
		for _, person := range sa.People {
			name := strings.TrimSpace(person)
			if name == "" {
				continue
			}
			insight.Contributions[name] = append(insight.Contributions[name], Contribution{
				SegmentID:   sa.SegmentID,
				Context:     contextText,
				ActionItems: sa.ActionItems,
			})
		}
	}

	insight.Themes = topThemes(themeCounts, 8)
	insight.Complexity = complexityIndicators(segments, analyses, insight)
	common.Logger().Debug("aggregator: insight assembled",
		"people", len(insight.Contributions),
		"themes", len(insight.Themes))
	return insight
}

// RenderContext serializes the insight for inclusion in the synthesis prompt.
func (in Insight) RenderContext() string {
	builder := &strings.Builder{}
	writeInsightSection(builder, "Strategic initiatives", in.StrategicInitiatives)
	writeInsightSection(builder, "Operational improvements", in.OperationalImprovements)
	writeInsightSection(builder, "Technology initiatives", in.TechnologyInitiatives)
	writeInsightSection(builder, "Cross-functional projects", in.CrossFunctionalProjects)
	writeInsightSection(builder, "Recurring themes", in.Themes)
	writeInsightSection(builder, "Complexity indicators", in.Complexity)

	if len(in.Contributions) > 0 {
		builder.WriteString("\nContribution index:\n")
		names := make([]string, 0, len(in.Contributions))
		for name := range in.Contributions {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			contributions := in.Contributions[name]
			segmentIDs := make([]string, 0, len(contributions))
			for _, c := range contributions {
				segmentIDs = append(segmentIDs, fmt.Sprintf("%d", c.SegmentID+1))
			}
			builder.WriteString(fmt.Sprintf("- %s: active in segments %s\n", name, strings.Join(segmentIDs, ", ")))
		}
	}
	return strings.TrimSpace(builder.String())
}

func appendBucket(bucket []string, sa SegmentAnalysis, hits []string) []string {
	entry := fmt.Sprintf("segment %d (%s)", sa.SegmentID+1, strings.Join(hits, ", "))
	return append(bucket, entry)
}

func matchAny(lower string, words []string) []string {
	var hits []string
	for _, word := range words {
		if strings.Contains(lower, word) {
			hits = append(hits, word)
		}
	}
	return hits
}

func topThemes(counts map[string]int, limit int) []string {
	type themeCount struct {
		theme string
		count int
	}
	ordered := make([]themeCount, 0, len(counts))
	for theme, count := range counts {
		if count > 1 {
			ordered = append(ordered, themeCount{theme: theme, count: count})
		}
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].count == ordered[j].count {
			return ordered[i].theme < ordered[j].theme
		}
		return ordered[i].count > ordered[j].count
	})
	if len(ordered) > limit {
		ordered = ordered[:limit]
	}
	themes := make([]string, 0, len(ordered))
	for _, tc := range ordered {
		themes = append(themes, fmt.Sprintf("%s (x%d)", tc.theme, tc.count))
	}
	return themes
}

func complexityIndicators(segments []transcript.Segment, analyses []SegmentAnalysis, in Insight) []string {
	var indicators []string
	var risks, dependencies, degraded int
	for _, seg := range segments {
		risks += len(seg.Entities.Risks)
		dependencies += len(seg.Entities.Dependencies)
	}
	for _, sa := range analyses {
		if sa.Degraded {
			degraded++
		}
	}
	if risks > 0 {
		indicators = append(indicators, fmt.Sprintf("%d risk mentions across segments", risks))
	}
	if dependencies > 0 {
		indicators = append(indicators, fmt.Sprintf("%d cross-task dependencies raised", dependencies))
	}
	if len(in.Contributions) > 5 {
		indicators = append(indicators, fmt.Sprintf("high participant spread (%d named contributors)", len(in.Contributions)))
	}
	if degraded > 0 {
		indicators = append(indicators, fmt.Sprintf("%d segment analyses degraded to entity-only context", degraded))
	}
	return indicators
}

func firstSentence(text string) string {
	trimmed := strings.TrimSpace(text)
	for _, terminator := range []string{". ", "! ", "? "} {
		if idx := strings.Index(trimmed, terminator); idx > 0 {
			return trimmed[:idx+1]
		}
	}
	if len(trimmed) > 160 {
		return trimmed[:160]
	}
	return trimmed
}

func writeInsightSection(builder *strings.Builder, title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	if builder.Len() > 0 {
		builder.WriteString("\n")
	}
	builder.WriteString(title)
	builder.WriteString(":\n")
	for _, line := range lines {
		builder.WriteString("- ")
		builder.WriteString(line)
		builder.WriteString("\n")
	}
}
