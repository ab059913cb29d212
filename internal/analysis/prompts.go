package analysis

import (
	"fmt"
	"strings"

	"github.com/meetingmind-ai/meetingmind/internal/llm"
	"github.com/meetingmind-ai/meetingmind/internal/transcript"
)

const segmentSystemPrompt = "You are an operations analyst reviewing one portion of a recorded leadership meeting. Reason carefully and write plain prose; do not return JSON."

// buildSegmentMessages renders the five-step structured reasoning prompt for
// one segment. The model returns a free-text narrative; structure is only
// requested at the synthesis stage.
func buildSegmentMessages(seg transcript.Segment) []llm.Message {
	builder := &strings.Builder{}
	builder.WriteString(fmt.Sprintf("Meeting segment %d:\n%s\n", seg.ID+1, strings.TrimSpace(seg.Text)))

	writePromptSection(builder, "Known people", seg.Entities.People)
	writePromptSection(builder, "Known dates", seg.Entities.Dates)
	writePromptSection(builder, "Known organizations", seg.Entities.Organizations)
	writePromptSection(builder, "Detected action phrases", seg.Entities.ActionItems)
	writePromptSection(builder, "Detected risks", seg.Entities.Risks)
	writePromptSection(builder, "Detected deadlines", seg.Entities.Deadlines)

	builder.WriteString("\nWork through these steps in order:\n")
	steps := []string{
		"Identify the speakers and the situational context of this segment.",
		"Extract every task, commitment, or decision raised in this segment.",
		"Validate who each task belongs to, using only the people actually named.",
		"Categorize each finding as a long-horizon objective, short-horizon todo, raised problem, or immediately resolved item.",
		"Synthesize the segment into a short analytical narrative covering the above.",
	}
	for i, step := range steps {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, step))
	}
	builder.WriteString("\nRespond with the narrative from step 5, mentioning the people, dates, and organizations involved.")

	return []llm.Message{
		{Role: "system", Content: segmentSystemPrompt},
		{Role: "user", Content: builder.String()},
	}
}

func writePromptSection(builder *strings.Builder, title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	builder.WriteString("\n")
	builder.WriteString(title)
	builder.WriteString(":\n")
	for _, line := range lines {
		builder.WriteString("- ")
		builder.WriteString(line)
		builder.WriteString("\n")
	}
}
