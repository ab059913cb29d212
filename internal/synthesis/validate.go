package synthesis

import (
	"fmt"
	"strings"

	"github.com/meetingmind-ai/meetingmind/internal/common"
)

// Validate runs the structural checks over a parsed document and returns
// the list of issues found. Findings are soft: they are logged and recorded
// on the run report but never block the document from proceeding.
func Validate(doc Document, numWeeks int) []string {
	logger := common.Logger()
	var issues []string

	for i, rock := range doc.Rocks {
		label := rockLabel(rock, i)
		if strings.TrimSpace(rock.SmartRock) == "" {
			issues = append(issues, fmt.Sprintf("%s missing smart_rock", label))
		}
		if strings.TrimSpace(rock.RockOwner) == "" {
			issues = append(issues, fmt.Sprintf("%s missing rock_owner", label))
		}
		if strings.TrimSpace(rock.Designation) == "" {
			issues = append(issues, fmt.Sprintf("%s missing designation", label))
		}
		if rock.LinkedIssues == nil {
			issues = append(issues, fmt.Sprintf("%s missing linked_issues", label))
		}
		if len(rock.Milestones) == 0 {
			issues = append(issues, fmt.Sprintf("%s missing milestones", label))
			continue
		}
		weeks := make(map[int]bool, len(rock.Milestones))
		for _, entry := range rock.Milestones {
			if entry.Week <= 0 {
				issues = append(issues, fmt.Sprintf("%s has a milestone entry without a week", label))
				continue
			}
			weeks[entry.Week] = true
			if len(entry.Milestones) == 0 {
				issues = append(issues, fmt.Sprintf("%s week %d has no milestone text", label, entry.Week))
			}
		}
		if numWeeks > 0 {
			for week := 1; week <= numWeeks; week++ {
				if !weeks[week] {
					issues = append(issues, fmt.Sprintf("%s missing milestones for week %d", label, week))
				}
			}
		}
	}

	for _, issue := range issues {
		logger.Warn("synthesis: validation issue", "issue", issue)
	}
	return issues
}

func rockLabel(rock RawRock, index int) string {
	if title := strings.TrimSpace(rock.SmartRock); title != "" {
		if runes := []rune(title); len(runes) > 40 {
			title = string(runes[:40])
		}
		return fmt.Sprintf("rock %q", title)
	}
	return fmt.Sprintf("rock #%d", index+1)
}
