package artifact

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meetingmind-ai/meetingmind/internal/common"
	"github.com/meetingmind-ai/meetingmind/internal/common/telemetry"
	"github.com/meetingmind-ai/meetingmind/internal/roster"
	"github.com/meetingmind-ai/meetingmind/internal/synthesis"
)

// Parse walks a validated synthesis document and produces the normalized,
// UUID-keyed artifact batch. Every owner, assignee, and raiser is resolved
// against the roster independently; resolutions are never shared between
// fields. Identifiers and timestamps are fresh on every call, so reparsing
// the same document yields identical values apart from those.
func Parse(doc synthesis.Document, participants []roster.Participant, quarterID string) Batch {
	logger := common.Logger()
	now := time.Now().UTC()
	batch := Batch{SessionSummary: strings.TrimSpace(doc.SessionSummary)}

	for _, raw := range doc.Rocks {
		title := strings.TrimSpace(raw.SmartRock)
		if title == "" {
			continue
		}
		owner := roster.Resolve(raw.RockOwner, participants)
		rock := Rock{
			ID:           uuid.NewString(),
			QuarterID:    quarterID,
			Title:        title,
			Owner:        owner.DisplayName,
			OwnerID:      owner.EmployeeID,
			Designation:  strings.TrimSpace(raw.Designation),
			LinkedIssues: trimAll(raw.LinkedIssues),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		batch.Rocks = append(batch.Rocks, rock)
		for _, entry := range raw.Milestones {
			for _, milestone := range entry.Milestones {
				batch.Tasks = append(batch.Tasks, Task{
					ID:        uuid.NewString(),
					RockID:    rock.ID,
					Week:      entry.Week,
					Milestone: milestone,
					CreatedAt: now,
					UpdatedAt: now,
				})
			}
		}
	}

	for _, raw := range doc.Todos {
		task := strings.TrimSpace(raw.Task)
		if task == "" {
			continue
		}
		assignee := roster.Resolve(raw.AssignedTo, participants)
		batch.Todos = append(batch.Todos, Todo{
			ID:         uuid.NewString(),
			QuarterID:  quarterID,
			Task:       task,
			Details:    strings.TrimSpace(raw.Details),
			Assignee:   assignee.DisplayName,
			AssigneeID: assignee.EmployeeID,
			DueDate:    strings.TrimSpace(raw.DueDate),
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}

	for _, raw := range doc.Issues {
		title := strings.TrimSpace(raw.Issue)
		if title == "" {
			continue
		}
		raiser := roster.Resolve(raw.RaisedBy, participants)
		batch.Issues = append(batch.Issues, Issue{
			ID:             uuid.NewString(),
			QuarterID:      quarterID,
			Title:          title,
			Description:    strings.TrimSpace(raw.Description),
			Raiser:         raiser.DisplayName,
			RaiserID:       raiser.EmployeeID,
			LinkedSolution: strings.TrimSpace(raw.LinkedSolution),
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}

	for _, raw := range doc.RuntimeSolutions {
		problem := strings.TrimSpace(raw.Problem)
		solution := strings.TrimSpace(raw.Solution)
		if problem == "" && solution == "" {
			continue
		}
		resolver := roster.Resolve(raw.ResolvedBy, participants)
		batch.RuntimeSolutions = append(batch.RuntimeSolutions, RuntimeSolution{
			ID:         uuid.NewString(),
			QuarterID:  quarterID,
			Problem:    problem,
			Solution:   solution,
			Resolver:   resolver.DisplayName,
			ResolverID: resolver.EmployeeID,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}

	telemetry.RecordArtifacts("rock", len(batch.Rocks))
	telemetry.RecordArtifacts("task", len(batch.Tasks))
	telemetry.RecordArtifacts("todo", len(batch.Todos))
	telemetry.RecordArtifacts("issue", len(batch.Issues))
	telemetry.RecordArtifacts("runtime_solution", len(batch.RuntimeSolutions))
	logger.Info("artifacts: batch assembled",
		"rocks", len(batch.Rocks),
		"tasks", len(batch.Tasks),
		"todos", len(batch.Todos),
		"issues", len(batch.Issues),
		"runtime_solutions", len(batch.RuntimeSolutions))
	return batch
}

func trimAll(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	cleaned := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}
