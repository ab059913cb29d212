package roster

import (
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// Participant is one authoritative roster identity. Only roster members are
// valid assignment targets for artifacts.
type Participant struct {
	EmployeeID       string `json:"employee_id"`
	FullName         string `json:"full_name"`
	Designation      string `json:"designation"`
	Responsibilities string `json:"responsibilities"`
}

// ResolvedName is the outcome of resolving a freeform spoken name against
// the roster. EmployeeID is empty exactly when no strategy matched, in which
// case DisplayName carries the unassigned marker.
type ResolvedName struct {
	EmployeeID  string `json:"employee_id,omitempty"`
	DisplayName string `json:"display_name"`
}

const unassignedPrefix = "UNASSIGNED: "

// fuzzyThreshold is the minimum normalized similarity for a fuzzy hit.
const fuzzyThreshold = 0.8

var levenshtein = metrics.NewLevenshtein()

// Resolve maps a freeform name to a roster participant. Matching order,
// first hit wins: exact case-insensitive full name, similarity ratio at or
// above the fuzzy threshold, then shared whitespace tokens longer than two
// runes. Resolve is total over any input and never caches: callers re-run it
// per name-bearing field because one stage regularly names several people.
func Resolve(name string, participants []Participant) ResolvedName {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ResolvedName{}
	}
	lower := strings.ToLower(trimmed)

	for _, p := range participants {
		if strings.ToLower(strings.TrimSpace(p.FullName)) == lower {
			return ResolvedName{EmployeeID: p.EmployeeID, DisplayName: p.FullName}
		}
	}

	var best *Participant
	var bestScore float64
	for i := range participants {
		candidate := strings.ToLower(strings.TrimSpace(participants[i].FullName))
		if candidate == "" {
			continue
		}
		score := strutil.Similarity(lower, candidate, levenshtein)
		if score >= fuzzyThreshold && score > bestScore {
			best = &participants[i]
			bestScore = score
		}
	}
	if best != nil {
		return ResolvedName{EmployeeID: best.EmployeeID, DisplayName: best.FullName}
	}

	for _, token := range strings.Fields(lower) {
		if len([]rune(token)) <= 2 {
			continue
		}
		for _, p := range participants {
			for _, candidateToken := range strings.Fields(strings.ToLower(p.FullName)) {
				if candidateToken == token {
					return ResolvedName{EmployeeID: p.EmployeeID, DisplayName: p.FullName}
				}
			}
		}
	}

	return ResolvedName{DisplayName: unassignedPrefix + trimmed}
}

// IsUnassigned reports whether the resolution failed to land on a roster
// member.
func (r ResolvedName) IsUnassigned() bool {
	return r.EmployeeID == ""
}

// Table serializes the roster as the simple name/role listing embedded in
// synthesis prompts.
func Table(participants []Participant) string {
	var builder strings.Builder
	for _, p := range participants {
		name := strings.TrimSpace(p.FullName)
		if name == "" {
			continue
		}
		builder.WriteString("- ")
		builder.WriteString(name)
		if designation := strings.TrimSpace(p.Designation); designation != "" {
			builder.WriteString(" | ")
			builder.WriteString(designation)
		}
		if resp := strings.TrimSpace(p.Responsibilities); resp != "" {
			builder.WriteString(" | ")
			builder.WriteString(resp)
		}
		builder.WriteString("\n")
	}
	return strings.TrimSpace(builder.String())
}
