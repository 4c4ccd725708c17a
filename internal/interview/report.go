package interview

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/girishnp17/Avaa-AI/internal/llm"
)

const reportSystemPrompt = "You are an experienced technical hiring panel. " +
	"Evaluate interview transcripts objectively and return only valid JSON."

// buildReport evaluates the transcript with the language model. Generation
// failures degrade to a neutral report so finishing never fails.
func (s *Session) buildReport(history []Answer) Report {
	if s.deps.ReportGen == nil {
		return neutralReport("no evaluation backend configured")
	}

	prompt := s.reportPrompt(history)
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	raw, err := s.deps.ReportGen.Generate(ctx, reportSystemPrompt, prompt)
	if err != nil {
		log.Printf("[%s] report generation failed: %v", s.ID, err)
		return neutralReport(fmt.Sprintf("evaluation unavailable: %v", err))
	}

	blob, err := llm.ExtractJSON(raw)
	if err != nil {
		log.Printf("[%s] report response had no JSON object: %v", s.ID, err)
		return neutralReport(strings.TrimSpace(raw))
	}
	var rep Report
	if err := json.Unmarshal([]byte(blob), &rep); err != nil {
		log.Printf("[%s] report JSON did not parse: %v", s.ID, err)
		return neutralReport(strings.TrimSpace(raw))
	}
	if rep.OverallScore < 1 || rep.OverallScore > 10 {
		rep.OverallScore = clampScore(rep.OverallScore)
	}
	return rep
}

func (s *Session) reportPrompt(history []Answer) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Evaluate this interview for the role of %s.\n\n", s.job.Title)

	profJSON, _ := json.Marshal(s.profile)
	jobJSON, _ := json.Marshal(s.job)
	fmt.Fprintf(&b, "CANDIDATE PROFILE:\n%s\n\n", profJSON)
	fmt.Fprintf(&b, "JOB REQUIREMENTS:\n%s\n\n", jobJSON)

	b.WriteString("INTERVIEW TRANSCRIPT:\n")
	answered := 0
	for _, ans := range history {
		fmt.Fprintf(&b, "Q%d: %s\nA%d: %s\n\n", ans.Ordinal, ans.Question, ans.Ordinal, ans.Text)
		if !ans.Failed {
			answered++
		}
	}
	fmt.Fprintf(&b, "Questions answered: %d of %d.\n\n", answered, len(history))

	b.WriteString(`Return ONLY a JSON object with this exact structure:
{
  "overall_score": <1-10>,
  "selected": <true or false>,
  "selection_reason": "<one sentence>",
  "strengths": ["..."],
  "improvement_areas": ["..."],
  "recommendations": ["..."],
  "technical_competency": "<assessment>",
  "communication_skills": "<assessment>",
  "problem_solving": "<assessment>",
  "cultural_fit": "<assessment>",
  "summary": "<2-3 sentence overall summary>"
}
Base the evaluation only on what the candidate actually said. Treat placeholder
answers as unanswered questions.`)
	return b.String()
}

// neutralReport is the degraded evaluation used when generation fails.
func neutralReport(summary string) Report {
	if summary == "" {
		summary = "Evaluation could not be generated."
	}
	return Report{
		OverallScore:    5,
		Selected:        false,
		SelectionReason: "Automatic evaluation was unavailable; manual review required.",
		Summary:         summary,
	}
}

func clampScore(v int) int {
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}
