package synthesis

import "strings"

// Document is the raw structured output of the synthesis completion, parsed
// but not yet normalized into artifact records. Field presence mirrors what
// the model actually returns, so most fields are optional.
type Document struct {
	SessionSummary   string        `json:"session_summary"`
	Issues           []RawIssue    `json:"issues"`
	RuntimeSolutions []RawSolution `json:"runtime_solutions"`
	Todos            []RawTodo     `json:"todos"`
	Rocks            []RawRock     `json:"rocks"`
}

type RawIssue struct {
	Issue          string `json:"issue"`
	Description    string `json:"description"`
	RaisedBy       string `json:"raised_by"`
	LinkedSolution string `json:"linked_solution"`
}

type RawSolution struct {
	Problem    string `json:"problem"`
	Solution   string `json:"solution"`
	ResolvedBy string `json:"resolved_by"`
}

type RawTodo struct {
	Task       string `json:"task"`
	Details    string `json:"details"`
	AssignedTo string `json:"assigned_to"`
	DueDate    string `json:"due_date"`
}

type RawRock struct {
	SmartRock    string          `json:"smart_rock"`
	RockOwner    string          `json:"rock_owner"`
	Designation  string          `json:"designation"`
	LinkedIssues []string        `json:"linked_issues"`
	Milestones   []WeekMilestone `json:"milestones"`
}

// WeekMilestone accepts both observed milestone shapes: a list under
// "milestones" or a single string under "milestone". Normalize collapses
// them into the list form before anything downstream reads the entry.
type WeekMilestone struct {
	Week       int      `json:"week"`
	Milestones []string `json:"milestones"`
	Milestone  string   `json:"milestone"`
}

// Normalize collapses the two milestone shapes into the canonical list
// variant and trims blank entries. It is idempotent.
func (d *Document) Normalize() {
	if d == nil {
		return
	}
	for i := range d.Rocks {
		rock := &d.Rocks[i]
		for j := range rock.Milestones {
			entry := &rock.Milestones[j]
			if single := strings.TrimSpace(entry.Milestone); single != "" {
				entry.Milestones = append(entry.Milestones, single)
				entry.Milestone = ""
			}
			cleaned := entry.Milestones[:0]
			for _, m := range entry.Milestones {
				if trimmed := strings.TrimSpace(m); trimmed != "" {
					cleaned = append(cleaned, trimmed)
				}
			}
			entry.Milestones = cleaned
		}
	}
}
