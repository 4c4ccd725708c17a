package interview

import (
	"fmt"
	"strings"
	"time"

	"github.com/girishnp17/Avaa-AI/internal/profile"
	"github.com/girishnp17/Avaa-AI/internal/question"
)

// renderTranscript produces the plain-text interview artifact.
func renderTranscript(sessionID string, prof profile.Profile, delivered map[int]question.Spec, history []Answer, cov question.Coverage) string {
	var b strings.Builder

	b.WriteString(strings.Repeat("=", 60) + "\n")
	b.WriteString("INTERVIEW TRANSCRIPT\n")
	b.WriteString(strings.Repeat("=", 60) + "\n")
	fmt.Fprintf(&b, "Session:   %s\n", sessionID)
	if prof.Name != "" {
		fmt.Fprintf(&b, "Candidate: %s\n", prof.Name)
	}
	fmt.Fprintf(&b, "Date:      %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Questions: %d\n\n", len(history))

	for _, ans := range history {
		category := ""
		if spec, ok := delivered[ans.Ordinal]; ok {
			category = string(spec.Category)
		}
		if category != "" {
			fmt.Fprintf(&b, "Q%d [%s]: %s\n", ans.Ordinal, category, ans.Question)
		} else {
			fmt.Fprintf(&b, "Q%d: %s\n", ans.Ordinal, ans.Question)
		}
		fmt.Fprintf(&b, "A%d: %s\n\n", ans.Ordinal, ans.Text)
	}

	b.WriteString(strings.Repeat("-", 60) + "\n")
	b.WriteString("COVERAGE\n")
	fmt.Fprintf(&b, "Skills discussed:   %s\n", joinOrNone(cov.SkillsDiscussed))
	fmt.Fprintf(&b, "Projects discussed: %s\n", joinOrNone(cov.ProjectsDiscussed))
	fmt.Fprintf(&b, "Topics covered:     %s\n", joinOrNone(cov.TopicsCovered))
	return b.String()
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
