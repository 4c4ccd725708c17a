package question

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/girishnp17/Avaa-AI/internal/profile"
)

// ErrGeneration marks a failed or unparsable text-generation call. Callers fall
// back to the canned bank; it is never surfaced to the client as a hard failure.
var ErrGeneration = errors.New("question generation failed")

// Generator produces free-form text for a system+user prompt pair.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// Source supplies the fixed opening questions and generates personalized
// follow-ups from interview context. Stateless per call.
type Source struct {
	gen          Generator
	bank         Bank
	maxQuestions int
}

func NewSource(gen Generator, bank Bank, maxQuestions int) *Source {
	if len(bank.Starters) != 3 {
		bank = DefaultBank()
	}
	return &Source{gen: gen, bank: bank, maxQuestions: maxQuestions}
}

// NextFixed returns the canonical starter for ordinal 1..3.
func (s *Source) NextFixed(ordinal int) (Spec, error) {
	if ordinal < 1 || ordinal > len(s.bank.Starters) {
		return Spec{}, fmt.Errorf("no fixed question for ordinal %d", ordinal)
	}
	st := s.bank.Starters[ordinal-1]
	return Spec{Text: st.Text, Category: st.Category, Ordinal: ordinal, Origin: OriginFixed}, nil
}

// bands lists the eligible categories per ordinal range for generated
// questions. Within a band the least-used category wins, ties broken by band
// order. Repeating a category is allowed once the band is exhausted.
var bands = []struct {
	lastOrdinal int
	categories  []Category
}{
	{6, []Category{CategoryTechnicalSkills, CategoryProjectsDeepDive}},
	{10, []Category{CategoryProblemSolving, CategoryCertifications, CategorySituational}},
	{13, []Category{CategoryLeadership, CategoryCommunication}},
}

// PickCategory selects the category for a generated question at the given
// ordinal, given per-category usage counts so far.
func PickCategory(ordinal int, counts map[Category]int) Category {
	for _, band := range bands {
		if ordinal <= band.lastOrdinal {
			best := band.categories[0]
			for _, c := range band.categories[1:] {
				if counts[c] < counts[best] {
					best = c
				}
			}
			return best
		}
	}
	return CategoryCareerGoals
}

// Generate produces a personalized question for ordinals >= 4.
func (s *Source) Generate(ctx context.Context, prof profile.Profile, job profile.JobContext, history []Exchange, cov Coverage, ordinal int) (Spec, error) {
	counts := make(map[Category]int)
	for _, ex := range history {
		counts[ex.Question.Category]++
	}
	category := PickCategory(ordinal, counts)

	unusedSkills := subtract(prof.Skills, cov.SkillsDiscussed)
	unusedProjects := subtract(prof.ProjectNames(), cov.ProjectsDiscussed)

	prompt := s.buildPrompt(prof, job, history, cov, category, ordinal, unusedSkills, unusedProjects)
	reply, err := s.gen.Generate(ctx, generationSystem, prompt)
	if err != nil {
		return Spec{}, fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	text := strings.TrimSpace(strings.Trim(strings.TrimSpace(reply), `"`))
	if text == "" {
		return Spec{}, fmt.Errorf("%w: empty output", ErrGeneration)
	}
	return Spec{Text: text, Category: category, Ordinal: ordinal, Origin: OriginGenerated}, nil
}

// Fallback returns a canned question immediately so the interview never stalls
// on a slow or failed generation call.
func (s *Source) Fallback(prof profile.Profile, cov Coverage, ordinal int) Spec {
	unusedSkills := subtract(prof.Skills, cov.SkillsDiscussed)
	if len(unusedSkills) > 0 {
		return Spec{
			Text:     fmt.Sprintf("Tell me about your experience with %s and how you've applied it in your projects.", unusedSkills[0]),
			Category: CategoryTechnicalSkills,
			Ordinal:  ordinal,
			Origin:   OriginFallback,
		}
	}
	unusedProjects := subtract(prof.ProjectNames(), cov.ProjectsDiscussed)
	if len(unusedProjects) > 0 {
		return Spec{
			Text:     fmt.Sprintf("Can you walk me through your %s project and the challenges you faced?", unusedProjects[0]),
			Category: CategoryProjectsDeepDive,
			Ordinal:  ordinal,
			Origin:   OriginFallback,
		}
	}
	idx := ordinal - 4
	if idx < 0 {
		idx = 0
	}
	if idx >= len(s.bank.Fallbacks) {
		idx = len(s.bank.Fallbacks) - 1
	}
	return Spec{Text: s.bank.Fallbacks[idx], Category: CategoryBehavioral, Ordinal: ordinal, Origin: OriginFallback}
}

const generationSystem = "You are an expert technical interviewer. Reply with exactly one interview question and nothing else."

func (s *Source) buildPrompt(prof profile.Profile, job profile.JobContext, history []Exchange, cov Coverage, category Category, ordinal int, unusedSkills, unusedProjects []string) string {
	profJSON, _ := json.Marshal(prof)
	jobJSON, _ := json.Marshal(job)

	var b strings.Builder
	fmt.Fprintf(&b, "Generate interview question #%d of %d for a voice interview.\n\n", ordinal, s.maxQuestions)
	fmt.Fprintf(&b, "CANDIDATE RESUME:\n%s\n\n", profJSON)
	fmt.Fprintf(&b, "JOB REQUIREMENTS:\n%s\n\n", jobJSON)
	if len(history) > 0 {
		b.WriteString("PREVIOUS QUESTIONS AND ANSWERS:\n")
		for _, ex := range history {
			fmt.Fprintf(&b, "Q%d (%s): %s\nA: %s\n", ex.Question.Ordinal, ex.Question.Category, ex.Question.Text, ex.Answer)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "QUESTION TYPE TO FOCUS ON: %s\n\n", category)
	fmt.Fprintf(&b, "TOPICS ALREADY COVERED: %s\n", strings.Join(cov.TopicsCovered, ", "))
	fmt.Fprintf(&b, "SKILLS ALREADY DISCUSSED: %s\n", strings.Join(cov.SkillsDiscussed, ", "))
	fmt.Fprintf(&b, "PROJECTS ALREADY DISCUSSED: %s\n\n", strings.Join(cov.ProjectsDiscussed, ", "))
	fmt.Fprintf(&b, "UNUSED SKILLS TO EXPLORE: %s\n", strings.Join(head(unusedSkills, 3), ", "))
	fmt.Fprintf(&b, "UNUSED PROJECTS TO EXPLORE: %s\n\n", strings.Join(head(unusedProjects, 2), ", "))
	b.WriteString(`STRICT REQUIREMENTS:
1. Do NOT repeat any topics, skills, or projects already covered
2. Focus specifically on the question type above
3. Reference UNUSED elements from the resume
4. Make it conversational and professional for voice delivery
5. Be specific and detailed, not generic

QUESTION TYPE GUIDELINES:
- technical_skills: deep dive into specific unused technologies
- projects_deep_dive: detailed exploration of unused projects and their challenges
- certifications: application of certification knowledge in real scenarios
- situational: hypothetical job-relevant scenarios
- leadership: leadership experiences, mentoring, team management
- problem_solving: approach to technical challenges and debugging
- communication: explaining complex concepts, documentation
- career_goals: future aspirations, learning goals, career direction

Generate ONE specific, unique interview question.`)
	return b.String()
}

func subtract(all, used []string) []string {
	seen := make(map[string]struct{}, len(used))
	for _, u := range used {
		seen[strings.ToLower(u)] = struct{}{}
	}
	var out []string
	for _, a := range all {
		if a == "" {
			continue
		}
		if _, ok := seen[strings.ToLower(a)]; !ok {
			out = append(out, a)
		}
	}
	return out
}

func head(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
